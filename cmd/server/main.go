package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ndewijer/stock-ledger-backend/internal/api"
	"github.com/ndewijer/stock-ledger-backend/internal/backup"
	"github.com/ndewijer/stock-ledger-backend/internal/config"
	"github.com/ndewijer/stock-ledger-backend/internal/database"
	"github.com/ndewijer/stock-ledger-backend/internal/logging"
	"github.com/ndewijer/stock-ledger-backend/internal/repository"
	"github.com/ndewijer/stock-ledger-backend/internal/scheduler"
	"github.com/ndewijer/stock-ledger-backend/internal/security"
	"github.com/ndewijer/stock-ledger-backend/internal/service"
	"github.com/ndewijer/stock-ledger-backend/internal/version"
)

func main() {
	startedAt := time.Now()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog := logging.New(logging.Config{})
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logging.New(logging.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	log.Info().
		Str("version", version.Version).
		Str("environment", cfg.Environment).
		Msg("Starting " + version.Name)

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	applied, err := database.Migrate(context.Background(), db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}
	log.Info().Str("path", cfg.Database.Path).Int("migrations_applied", applied).Msg("Connected to database")

	notes, err := security.NewNoteCipher(cfg.Auth.NotesKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load notes encryption key")
	}

	// Create repositories
	transactionRepo := repository.NewTransactionRepository(db, notes)
	userRepo := repository.NewUserRepository(db)
	revokedRepo := repository.NewRevokedTokenRepository(db)

	// Create services
	features := map[string]bool{
		"notes_encryption": notes.Enabled(),
		"backups":          cfg.Backup.Enabled(),
		"scheduler":        cfg.Scheduler.Enabled,
		"msgpack":          true,
	}
	systemService := service.NewSystemService(db, startedAt, features)
	authService := service.NewAuthService(
		userRepo,
		revokedRepo,
		security.NewTokenIssuer(cfg.Auth.SecretKey, cfg.Auth.TokenTTL),
		log,
	)
	transactionService := service.NewTransactionService(transactionRepo)
	portfolioService := service.NewPortfolioService(transactionRepo, log)

	if cfg.Scheduler.Enabled {
		sched, err := newScheduler(cfg, db, authService, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to configure scheduler")
		}
		sched.Start()
		defer sched.Stop()
	}

	// Create router
	router := api.NewRouter(systemService, authService, transactionService, portfolioService, cfg, log)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// newScheduler registers the housekeeping jobs. The backup job is only added
// when a bucket is configured.
func newScheduler(cfg *config.Config, db *sql.DB, authService *service.AuthService, log zerolog.Logger) (*scheduler.Scheduler, error) {
	sched := scheduler.New(log)

	if err := sched.AddJob(cfg.Scheduler.TokenCleanupSchedule, scheduler.NewTokenCleanupJob(authService, log)); err != nil {
		return nil, err
	}
	if err := sched.AddJob(cfg.Scheduler.MaintenanceSchedule, scheduler.NewMaintenanceJob(db, log)); err != nil {
		return nil, err
	}

	if cfg.Backup.Enabled() {
		uploader, err := backup.NewS3Uploader(context.Background(), cfg.Backup)
		if err != nil {
			return nil, err
		}
		job := scheduler.NewBackupJob(backup.NewService(db, uploader, cfg.Backup, log), log)
		if err := sched.AddJob(cfg.Scheduler.BackupSchedule, job); err != nil {
			return nil, err
		}
	}

	return sched, nil
}
