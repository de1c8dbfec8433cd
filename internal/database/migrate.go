package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// NewMigrator returns a goose provider over the embedded migrations.
func NewMigrator(db *sql.DB) (*goose.Provider, error) {
	migrations, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return provider, nil
}

// Migrate applies every pending migration and returns the number applied.
func Migrate(ctx context.Context, db *sql.DB) (int, error) {
	provider, err := NewMigrator(db)
	if err != nil {
		return 0, err
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return len(results), fmt.Errorf("failed to apply migrations: %w", err)
	}
	return len(results), nil
}

// Rollback reverts the most recently applied migration.
func Rollback(ctx context.Context, db *sql.DB) (int64, error) {
	provider, err := NewMigrator(db)
	if err != nil {
		return 0, err
	}
	result, err := provider.Down(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to roll back migration: %w", err)
	}
	return result.Source.Version, nil
}

// SchemaVersion reports the applied and the latest known migration versions.
func SchemaVersion(ctx context.Context, db *sql.DB) (current string, latest string, err error) {
	provider, err := NewMigrator(db)
	if err != nil {
		return "", "", err
	}
	applied, err := provider.GetDBVersion(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to read schema version: %w", err)
	}
	var newest int64
	for _, src := range provider.ListSources() {
		if src.Version > newest {
			newest = src.Version
		}
	}
	return strconv.FormatInt(applied, 10), strconv.FormatInt(newest, 10), nil
}
