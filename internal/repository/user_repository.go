package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/stock-ledger-backend/internal/apperrors"
	"github.com/ndewijer/stock-ledger-backend/internal/model"
)

// UserRepository provides data access methods for the user table.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository with the provided database connection.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, username, hashed_password, full_name, is_active, created_at, updated_at`

// Create stores a new user. A taken email or username yields apperrors.ErrDuplicateEntry.
func (r *UserRepository) Create(ctx context.Context, u model.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID,
		u.Email,
		u.Username,
		u.HashedPassword,
		nullString(u.FullName),
		u.IsActive,
		FormatTime(u.CreatedAt),
		FormatTime(u.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (model.User, error) {
	return r.getOne(ctx, "id = ?", id)
}

// GetByEmail retrieves a user by email, compared case-insensitively.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getOne(ctx, "email = ?", strings.ToLower(email))
}

// SetActive enables or disables an account.
func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE user SET is_active = ?, updated_at = ? WHERE id = ?`,
		active, FormatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return requireOneRow(result, apperrors.ErrUserNotFound)
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg any) (model.User, error) {
	var (
		u                  model.User
		fullName           sql.NullString
		createdStr, updStr string
	)

	err := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM user WHERE `+where, arg).Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.HashedPassword,
		&fullName,
		&u.IsActive,
		&createdStr,
		&updStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, apperrors.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to query user: %w", err)
	}

	u.FullName = stringPtr(fullName)
	if u.CreatedAt, err = ParseTime(createdStr); err != nil {
		return model.User{}, err
	}
	if u.UpdatedAt, err = ParseTime(updStr); err != nil {
		return model.User{}, err
	}
	return u, nil
}
