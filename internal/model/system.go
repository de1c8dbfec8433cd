package model

import "time"

// VersionInfo describes the running application and its database schema.
type VersionInfo struct {
	AppVersion      string
	DbVersion       string
	LatestDbVersion string
	MigrationNeeded bool
	Features        map[string]bool
}

// SystemStatus is a point-in-time snapshot of process and host resources.
type SystemStatus struct {
	StartedAt     time.Time `json:"started_at"`
	UptimeSeconds int64     `json:"uptime_seconds"`
	CPUPercent    float64   `json:"cpu_percent"`
	MemoryTotal   uint64    `json:"memory_total_bytes"`
	MemoryUsed    uint64    `json:"memory_used_bytes"`
	MemoryPercent float64   `json:"memory_percent"`
	Goroutines    int       `json:"goroutines"`
}
