package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RevokedTokenRepository records access tokens invalidated by logout until
// they would have expired anyway.
type RevokedTokenRepository struct {
	db *sql.DB
}

// NewRevokedTokenRepository creates a new RevokedTokenRepository with the provided database connection.
func NewRevokedTokenRepository(db *sql.DB) *RevokedTokenRepository {
	return &RevokedTokenRepository{db: db}
}

// Revoke marks a token ID as revoked. Revoking twice is not an error.
func (r *RevokedTokenRepository) Revoke(ctx context.Context, jti, userID string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO revoked_token (jti, user_id, expires_at)
		VALUES (?, ?, ?)
		ON CONFLICT(jti) DO NOTHING`,
		jti, userID, FormatTime(expiresAt),
	)
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether the token ID has been revoked.
func (r *RevokedTokenRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM revoked_token WHERE jti = ?)`, jti).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return exists, nil
}

// DeleteExpired removes revocations whose token expired before now and
// returns how many were removed.
func (r *RevokedTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM revoked_token WHERE expires_at < ?`, FormatTime(now))
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired revocations: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n, nil
}
