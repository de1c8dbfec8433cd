package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ndewijer/stock-ledger-backend/internal/apperrors"
	"github.com/ndewijer/stock-ledger-backend/internal/model"
)

// NoteCipher seals transaction notes before they reach the database.
type NoteCipher interface {
	Seal(plaintext string) (string, error)
	Open(stored string) (string, error)
}

// TransactionRepository provides data access methods for the stock_transaction table.
// Every query is scoped to the owning user; rows of other users behave as if
// they did not exist.
type TransactionRepository struct {
	db     *sql.DB
	cipher NoteCipher
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
// cipher may be nil, in which case notes are stored as given.
func NewTransactionRepository(db *sql.DB, cipher NoteCipher) *TransactionRepository {
	return &TransactionRepository{db: db, cipher: cipher}
}

const transactionColumns = `id, user_id, stock_symbol, stock_name, transaction_type, quantity,
		price_per_unit, total_amount, commission, transaction_date, notes, created_at`

// Insert stores a new transaction. ID and CreatedAt must already be set.
func (r *TransactionRepository) Insert(ctx context.Context, t model.Transaction) error {
	notes, err := r.sealNote(t.Note)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO stock_transaction (`+transactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID,
		t.OwnerID,
		t.Symbol,
		nullString(t.DisplayName),
		string(t.Kind),
		t.Quantity,
		t.UnitPrice,
		t.GrossAmount,
		t.Fee,
		FormatTime(t.OccurredAt),
		notes,
		FormatTime(t.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicateEntry, t.ID)
		}
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// Get retrieves one transaction of ownerID.
// Returns apperrors.ErrTransactionNotFound when it does not exist or belongs to someone else.
func (r *TransactionRepository) Get(ctx context.Context, ownerID, id string) (model.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+transactionColumns+`
		FROM stock_transaction
		WHERE id = ? AND user_id = ?`,
		id, ownerID,
	)

	t, err := r.scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transaction{}, apperrors.ErrTransactionNotFound
	}
	if err != nil {
		return model.Transaction{}, err
	}
	return t, nil
}

// Update overwrites every mutable column of an existing transaction in a
// single statement. ID, owner and CreatedAt are never changed.
func (r *TransactionRepository) Update(ctx context.Context, t model.Transaction) error {
	notes, err := r.sealNote(t.Note)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE stock_transaction
		SET stock_symbol = ?, stock_name = ?, transaction_type = ?, quantity = ?,
			price_per_unit = ?, total_amount = ?, commission = ?, transaction_date = ?, notes = ?
		WHERE id = ? AND user_id = ?`,
		t.Symbol,
		nullString(t.DisplayName),
		string(t.Kind),
		t.Quantity,
		t.UnitPrice,
		t.GrossAmount,
		t.Fee,
		FormatTime(t.OccurredAt),
		notes,
		t.ID,
		t.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return requireOneRow(result, apperrors.ErrTransactionNotFound)
}

// Delete removes a transaction of ownerID.
func (r *TransactionRepository) Delete(ctx context.Context, ownerID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM stock_transaction WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return requireOneRow(result, apperrors.ErrTransactionNotFound)
}

// List returns one page of the owner's transactions, newest first, together
// with the total number of rows matching the filter.
func (r *TransactionRepository) List(ctx context.Context, ownerID string, filter model.TransactionFilter) ([]model.Transaction, int, error) {
	where := "WHERE user_id = ?"
	args := []any{ownerID}
	if filter.Symbol != "" {
		where += " AND stock_symbol = ?"
		args = append(args, strings.ToUpper(filter.Symbol))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM stock_transaction "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	args = append(args, filter.PageSize, filter.Offset())
	transactions, err := r.query(ctx, `
		SELECT `+transactionColumns+`
		FROM stock_transaction
		`+where+`
		ORDER BY transaction_date DESC, created_at DESC
		LIMIT ? OFFSET ?`,
		args...,
	)
	if err != nil {
		return nil, 0, err
	}
	return transactions, total, nil
}

// ListBySymbol returns every transaction of ownerID for symbol (case-insensitive).
func (r *TransactionRepository) ListBySymbol(ctx context.Context, ownerID, symbol string) ([]model.Transaction, error) {
	return r.query(ctx, `
		SELECT `+transactionColumns+`
		FROM stock_transaction
		WHERE user_id = ? AND stock_symbol = ?
		ORDER BY rowid`,
		ownerID, strings.ToUpper(symbol),
	)
}

// ListAll returns every transaction of ownerID in insertion order.
func (r *TransactionRepository) ListAll(ctx context.Context, ownerID string) ([]model.Transaction, error) {
	return r.query(ctx, `
		SELECT `+transactionColumns+`
		FROM stock_transaction
		WHERE user_id = ?
		ORDER BY rowid`,
		ownerID,
	)
}

// DistinctSymbols returns the symbols ownerID has transacted, in the order
// they were first recorded.
func (r *TransactionRepository) DistinctSymbols(ctx context.Context, ownerID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT stock_symbol
		FROM stock_transaction
		WHERE user_id = ?
		GROUP BY stock_symbol
		ORDER BY MIN(rowid)`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query symbols: %w", err)
	}
	defer rows.Close()

	symbols := []string{}
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		symbols = append(symbols, symbol)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating symbols: %w", err)
	}
	return symbols, nil
}

func (r *TransactionRepository) query(ctx context.Context, query string, args ...any) ([]model.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock_transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		t, err := r.scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock_transaction table: %w", err)
	}
	return transactions, nil
}

func (r *TransactionRepository) scanTransaction(s scanner) (model.Transaction, error) {
	var (
		t                         model.Transaction
		kind                      string
		name, notes               sql.NullString
		occurredAtStr, createdStr string
	)

	err := s.Scan(
		&t.ID,
		&t.OwnerID,
		&t.Symbol,
		&name,
		&kind,
		&t.Quantity,
		&t.UnitPrice,
		&t.GrossAmount,
		&t.Fee,
		&occurredAtStr,
		&notes,
		&createdStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transaction{}, err
	}
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to scan transaction: %w", err)
	}

	t.Kind = model.TransactionKind(kind)
	t.DisplayName = stringPtr(name)

	if t.OccurredAt, err = ParseTime(occurredAtStr); err != nil {
		return model.Transaction{}, err
	}
	if t.CreatedAt, err = ParseTime(createdStr); err != nil {
		return model.Transaction{}, err
	}

	if notes.Valid {
		plain, err := r.openNote(notes.String)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("transaction %s: %w", t.ID, err)
		}
		t.Note = &plain
	}
	return t, nil
}

func (r *TransactionRepository) sealNote(note *string) (sql.NullString, error) {
	if note == nil {
		return sql.NullString{}, nil
	}
	if r.cipher == nil {
		return nullString(note), nil
	}
	sealed, err := r.cipher.Seal(*note)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: sealed, Valid: true}, nil
}

func (r *TransactionRepository) openNote(stored string) (string, error) {
	if r.cipher == nil {
		return stored, nil
	}
	return r.cipher.Open(stored)
}

func requireOneRow(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
