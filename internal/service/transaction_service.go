package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/stock-ledger-backend/internal/api/request"
	"github.com/ndewijer/stock-ledger-backend/internal/model"
	"github.com/ndewijer/stock-ledger-backend/internal/repository"
	"github.com/ndewijer/stock-ledger-backend/internal/validation"
)

// TransactionService handles the lifecycle of a user's transactions.
// Every method is scoped to ownerID; other users' records are reported as not found.
type TransactionService struct {
	transactionRepo *repository.TransactionRepository
	now             func() time.Time
}

// NewTransactionService creates a new TransactionService with the provided repository.
func NewTransactionService(transactionRepo *repository.TransactionRepository) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		now:             time.Now,
	}
}

// CreateTransaction validates and stores a new transaction for ownerID.
// The symbol is uppercased, the gross amount is computed here and any
// client-supplied total is ignored. A missing date defaults to now.
func (s *TransactionService) CreateTransaction(ctx context.Context, ownerID string, req request.CreateTransactionRequest) (model.Transaction, error) {
	if err := validation.ValidateCreateTransaction(req); err != nil {
		return model.Transaction{}, err
	}

	now := s.now().UTC()
	occurredAt := now
	if req.TransactionDate != nil {
		occurredAt, _ = validation.ParseTime(*req.TransactionDate)
	}

	var fee float64
	if req.Commission != nil {
		fee = *req.Commission
	}

	gross := grossAmount(req.Quantity, req.PricePerUnit)
	if err := validation.ValidateGrossAmount(gross); err != nil {
		return model.Transaction{}, err
	}

	tx := model.Transaction{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Symbol:      normalizeSymbol(req.StockSymbol),
		DisplayName: req.StockName,
		Kind:        model.TransactionKind(strings.ToUpper(req.TransactionType)),
		Quantity:    req.Quantity,
		UnitPrice:   req.PricePerUnit,
		GrossAmount: gross,
		Fee:         fee,
		OccurredAt:  occurredAt,
		Note:        req.Notes,
		CreatedAt:   now,
	}

	if err := s.transactionRepo.Insert(ctx, tx); err != nil {
		return model.Transaction{}, fmt.Errorf("failed to create transaction: %w", err)
	}
	return tx, nil
}

// GetTransaction retrieves a single transaction of ownerID.
func (s *TransactionService) GetTransaction(ctx context.Context, ownerID, id string) (model.Transaction, error) {
	return s.transactionRepo.Get(ctx, ownerID, id)
}

// UpdateTransaction applies the fields present in req. Whenever quantity or
// price may have changed the gross amount is recomputed from the merged values.
func (s *TransactionService) UpdateTransaction(ctx context.Context, ownerID, id string, req request.UpdateTransactionRequest) (model.Transaction, error) {
	if err := validation.ValidateUpdateTransaction(req); err != nil {
		return model.Transaction{}, err
	}

	tx, err := s.transactionRepo.Get(ctx, ownerID, id)
	if err != nil {
		return model.Transaction{}, err
	}

	if req.StockSymbol != nil {
		tx.Symbol = normalizeSymbol(*req.StockSymbol)
	}
	if req.StockName != nil {
		tx.DisplayName = req.StockName
	}
	if req.TransactionType != nil {
		tx.Kind = model.TransactionKind(strings.ToUpper(*req.TransactionType))
	}
	if req.Quantity != nil {
		tx.Quantity = *req.Quantity
	}
	if req.PricePerUnit != nil {
		tx.UnitPrice = *req.PricePerUnit
	}
	if req.Commission != nil {
		tx.Fee = *req.Commission
	}
	if req.TransactionDate != nil {
		tx.OccurredAt, _ = validation.ParseTime(*req.TransactionDate)
	}
	if req.Notes != nil {
		tx.Note = req.Notes
	}
	tx.GrossAmount = grossAmount(tx.Quantity, tx.UnitPrice)
	if err := validation.ValidateGrossAmount(tx.GrossAmount); err != nil {
		return model.Transaction{}, err
	}

	if err := s.transactionRepo.Update(ctx, tx); err != nil {
		return model.Transaction{}, fmt.Errorf("failed to update transaction: %w", err)
	}
	return tx, nil
}

// DeleteTransaction removes a transaction of ownerID.
func (s *TransactionService) DeleteTransaction(ctx context.Context, ownerID, id string) error {
	if err := s.transactionRepo.Delete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

// ListTransactions returns one page of ownerID's transactions, newest first.
// Out-of-range paging values are clamped to the allowed bounds.
func (s *TransactionService) ListTransactions(ctx context.Context, ownerID string, filter model.TransactionFilter) (model.TransactionPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = model.DefaultPageSize
	}
	if filter.PageSize > model.MaxPageSize {
		filter.PageSize = model.MaxPageSize
	}
	filter.Symbol = normalizeSymbol(filter.Symbol)

	txs, total, err := s.transactionRepo.List(ctx, ownerID, filter)
	if err != nil {
		return model.TransactionPage{}, fmt.Errorf("failed to list transactions: %w", err)
	}

	return model.TransactionPage{
		Transactions: txs,
		TotalCount:   total,
		Page:         filter.Page,
		PageSize:     filter.PageSize,
	}, nil
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// grossAmount multiplies in decimal so that 0.1 * 3 stays 0.3.
// A non-finite operand yields NaN.
func grossAmount(quantity, unitPrice float64) float64 {
	if math.IsNaN(quantity) || math.IsInf(quantity, 0) || math.IsNaN(unitPrice) || math.IsInf(unitPrice, 0) {
		return math.NaN()
	}
	return decimal.NewFromFloat(quantity).Mul(decimal.NewFromFloat(unitPrice)).InexactFloat64()
}
