package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// devSecretKey signs tokens outside production when SECRET_KEY is unset.
const devSecretKey = "dev-secret-key-change-me"

// Config holds all configuration for the application
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	CORS        CORSConfig
	Auth        AuthConfig
	Log         LogConfig
	Scheduler   SchedulerConfig
	Backup      BackupConfig
	Currency    string // ISO 4217 code used when printing totals
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// AuthConfig holds token and encryption settings
type AuthConfig struct {
	SecretKey string
	TokenTTL  time.Duration
	NotesKey  string // comma-separated fernet keys, first one encrypts
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string
	Pretty bool
}

// SchedulerConfig holds cron expressions of the background jobs
type SchedulerConfig struct {
	Enabled              bool
	TokenCleanupSchedule string
	MaintenanceSchedule  string
	BackupSchedule       string
}

// BackupConfig holds the S3-compatible target for database backups.
// Backups are disabled when Bucket is empty.
type BackupConfig struct {
	Bucket          string
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string
	StagingDir      string
}

// Enabled reports whether a backup target is configured.
func (b BackupConfig) Enabled() bool {
	return b.Bucket != ""
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Environment: strings.ToLower(getEnv("ENVIRONMENT", "development")),
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8000"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/stock_ledger.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:8000")),
		},
		Auth: AuthConfig{
			SecretKey: os.Getenv("SECRET_KEY"),
			NotesKey:  os.Getenv("NOTES_ENCRYPTION_KEY"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvAsBool("LOG_PRETTY", false),
		},
		Scheduler: SchedulerConfig{
			Enabled:              getEnvAsBool("SCHEDULER_ENABLED", true),
			TokenCleanupSchedule: getEnv("TOKEN_CLEANUP_SCHEDULE", "@hourly"),
			MaintenanceSchedule:  getEnv("MAINTENANCE_SCHEDULE", "0 0 3 * * *"),
			BackupSchedule:       getEnv("BACKUP_SCHEDULE", "0 30 2 * * *"),
		},
		Backup: BackupConfig{
			Bucket:          os.Getenv("BACKUP_BUCKET"),
			Endpoint:        os.Getenv("BACKUP_ENDPOINT"),
			Region:          getEnv("BACKUP_REGION", "auto"),
			AccessKeyID:     os.Getenv("BACKUP_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("BACKUP_SECRET_ACCESS_KEY"),
			Prefix:          strings.Trim(getEnv("BACKUP_PREFIX", "stock-ledger"), "/"),
			StagingDir:      getEnv("BACKUP_STAGING_DIR", os.TempDir()),
		},
		Currency: strings.ToUpper(getEnv("LEDGER_CURRENCY", "TRY")),
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	ttlMinutes, err := getEnvAsInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)
	if err != nil {
		return nil, err
	}
	if ttlMinutes <= 0 {
		return nil, fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive, got %d", ttlMinutes)
	}
	config.Auth.TokenTTL = time.Duration(ttlMinutes) * time.Minute

	if config.Auth.SecretKey == "" {
		if config.IsProduction() {
			return nil, fmt.Errorf("SECRET_KEY must be set in production")
		}
		config.Auth.SecretKey = devSecretKey
	}

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, nil
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
