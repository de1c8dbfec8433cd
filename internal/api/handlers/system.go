package handlers

import (
	"fmt"
	"net/http"

	"github.com/ndewijer/stock-ledger-backend/internal/api/response"
	"github.com/ndewijer/stock-ledger-backend/internal/apperrors"
	"github.com/ndewijer/stock-ledger-backend/internal/service"
	"github.com/ndewijer/stock-ledger-backend/internal/version"
)

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	systemService *service.SystemService
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
	}
}

// BannerResponse is returned by the root endpoint.
type BannerResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

// Root identifies the service.
//
// Endpoint: GET /
// Response: 200 OK with BannerResponse
func (h *SystemHandler) Root(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, BannerResponse{
		Message: fmt.Sprintf("%s is running", version.Name),
		Version: version.Version,
	})
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

// Health checks the health of the system and database connectivity
//
// Endpoint: GET /api/system/health
// Response: 200 OK with HealthResponse
// Error: 503 Service Unavailable if the database cannot be reached
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.systemService.CheckHealth(r.Context()); err != nil {
		response.RespondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:   "unhealthy",
			Database: "disconnected",
			Error:    "database unreachable",
		})
		return
	}

	response.RespondJSON(w, http.StatusOK, HealthResponse{
		Status:   "healthy",
		Database: "connected",
	})
}

// VersionInfoResponse represents the version check response containing application
// and database version information, feature availability, and migration status.
type VersionInfoResponse struct {
	AppVersion       string          `json:"app_version"`
	DbVersion        string          `json:"db_version"`
	Features         map[string]bool `json:"features"`
	MigrationNeeded  bool            `json:"migration_needed"`
	MigrationMessage *string         `json:"migration_message"`
}

// Version handles GET requests to retrieve version information and feature availability.
//
// Endpoint: GET /api/system/version
// Response: 200 OK with VersionInfoResponse
// Error: 500 Internal Server Error if version check fails
func (h *SystemHandler) Version(w http.ResponseWriter, r *http.Request) {
	info, err := h.systemService.GetVersionInfo(r.Context())
	if err != nil {
		respondInternal(w, r, apperrors.ErrFailedToGetVersionInfo.Error(), err)
		return
	}

	var message *string
	if info.MigrationNeeded {
		msg := fmt.Sprintf("database schema is at version %s, latest is %s", info.DbVersion, info.LatestDbVersion)
		message = &msg
	}

	response.RespondJSON(w, http.StatusOK, VersionInfoResponse{
		AppVersion:       info.AppVersion,
		DbVersion:        info.DbVersion,
		Features:         info.Features,
		MigrationNeeded:  info.MigrationNeeded,
		MigrationMessage: message,
	})
}

// Status reports uptime and resource usage of the running process.
//
// Endpoint: GET /api/system/status
// Response: 200 OK with model.SystemStatus
// Error: 500 Internal Server Error if the host cannot be sampled
func (h *SystemHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.systemService.GetStatus(r.Context())
	if err != nil {
		respondInternal(w, r, apperrors.ErrFailedToGetSystemStatus.Error(), err)
		return
	}
	response.Respond(w, r, http.StatusOK, status)
}
