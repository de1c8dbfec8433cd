package scheduler

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog"

	"github.com/ndewijer/stock-ledger-backend/internal/database"
)

// jobTimeout bounds a single run of any job.
const jobTimeout = 10 * time.Minute

// RevocationPurger deletes revocations of tokens that have expired.
type RevocationPurger interface {
	PurgeExpiredRevocations(ctx context.Context) (int64, error)
}

// TokenCleanupJob keeps the revoked_token table small.
type TokenCleanupJob struct {
	purger RevocationPurger
	log    zerolog.Logger
}

// NewTokenCleanupJob creates a new token cleanup job
func NewTokenCleanupJob(purger RevocationPurger, log zerolog.Logger) *TokenCleanupJob {
	return &TokenCleanupJob{
		purger: purger,
		log:    log.With().Str("job", "token_cleanup").Logger(),
	}
}

// Name returns the job name
func (j *TokenCleanupJob) Name() string {
	return "token_cleanup"
}

// Run executes the cleanup
func (j *TokenCleanupJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := j.purger.PurgeExpiredRevocations(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		j.log.Info().Int64("deleted", n).Msg("Purged expired token revocations")
	}
	return nil
}

// MaintenanceJob refreshes query planner statistics and truncates the WAL.
type MaintenanceJob struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewMaintenanceJob creates a new database maintenance job
func NewMaintenanceJob(db *sql.DB, log zerolog.Logger) *MaintenanceJob {
	return &MaintenanceJob{
		db:  db,
		log: log.With().Str("job", "database_maintenance").Logger(),
	}
}

// Name returns the job name
func (j *MaintenanceJob) Name() string {
	return "database_maintenance"
}

// Run executes the maintenance
func (j *MaintenanceJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	if err := database.Optimize(ctx, j.db); err != nil {
		return err
	}
	j.log.Info().Dur("duration", time.Since(start)).Msg("Database maintenance completed")
	return nil
}

// Backuper copies the database to off-site storage and returns where it went.
type Backuper interface {
	Run(ctx context.Context) (string, error)
}

// BackupJob uploads a consistent copy of the database.
type BackupJob struct {
	backup Backuper
	log    zerolog.Logger
}

// NewBackupJob creates a new backup job
func NewBackupJob(backup Backuper, log zerolog.Logger) *BackupJob {
	return &BackupJob{
		backup: backup,
		log:    log.With().Str("job", "database_backup").Logger(),
	}
}

// Name returns the job name
func (j *BackupJob) Name() string {
	return "database_backup"
}

// Run executes the backup
func (j *BackupJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	location, err := j.backup.Run(ctx)
	if err != nil {
		return err
	}
	j.log.Info().
		Str("location", location).
		Dur("duration", time.Since(start)).
		Msg("Database backup uploaded")
	return nil
}
