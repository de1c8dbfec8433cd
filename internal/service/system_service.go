package service

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/ndewijer/stock-ledger-backend/internal/apperrors"
	"github.com/ndewijer/stock-ledger-backend/internal/database"
	"github.com/ndewijer/stock-ledger-backend/internal/model"
	"github.com/ndewijer/stock-ledger-backend/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db        *sql.DB
	startedAt time.Time
	features  map[string]bool
}

// NewSystemService creates a new SystemService. features lists optional
// capabilities of this deployment, such as "notes_encryption" or "backups".
func NewSystemService(db *sql.DB, startedAt time.Time, features map[string]bool) *SystemService {
	if features == nil {
		features = map[string]bool{}
	}
	return &SystemService{
		db:        db,
		startedAt: startedAt,
		features:  features,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth(ctx context.Context) error {
	return database.HealthCheck(ctx, s.db)
}

// GetVersionInfo reports the application version and the schema state.
func (s *SystemService) GetVersionInfo(ctx context.Context) (model.VersionInfo, error) {
	current, latest, err := database.SchemaVersion(ctx, s.db)
	if err != nil {
		return model.VersionInfo{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToGetVersionInfo, err)
	}

	return model.VersionInfo{
		AppVersion:      version.Version,
		DbVersion:       current,
		LatestDbVersion: latest,
		MigrationNeeded: current != latest,
		Features:        s.features,
	}, nil
}

// GetStatus samples process and host resource usage.
func (s *SystemService) GetStatus(ctx context.Context) (model.SystemStatus, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return model.SystemStatus{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToGetSystemStatus, err)
	}

	// zero interval compares against the previous call
	percents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return model.SystemStatus{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToGetSystemStatus, err)
	}
	var cpuPercent float64
	if len(percents) > 0 {
		cpuPercent = percents[0]
	}

	return model.SystemStatus{
		StartedAt:     s.startedAt.UTC(),
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
		CPUPercent:    cpuPercent,
		MemoryTotal:   vm.Total,
		MemoryUsed:    vm.Used,
		MemoryPercent: vm.UsedPercent,
		Goroutines:    runtime.NumGoroutine(),
	}, nil
}
