// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/aristath/lattice/internal/utils"
)

// Config holds application configuration
type Config struct {
	DataDir            string // Base directory for databases and staging (always absolute)
	Host               string
	Port               int
	LogLevel           string
	LogPretty          bool
	DevMode            bool
	CORSAllowedOrigins []string
	Snapshot           SnapshotConfig
	Archive            *ArchiveConfig
}

// SnapshotConfig controls periodic scenario snapshot capture
type SnapshotConfig struct {
	Cron          string // cron spec with seconds field
	RetentionDays int    // snapshots older than this are pruned (0 = keep forever)
}

// ArchiveConfig holds S3-compatible cold archive settings.
// Archiving is disabled when Bucket is empty.
type ArchiveConfig struct {
	Bucket          string
	Region          string
	Endpoint        string // optional, for R2/MinIO style endpoints
	AccessKeyID     string
	SecretAccessKey string
	PathStyle       bool
	Cron            string
	RetentionDays   int // archives older than this are rotated out (0 = keep forever)
}

// Enabled reports whether archiving is configured
func (a *ArchiveConfig) Enabled() bool {
	return a != nil && a.Bucket != ""
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Determine data directory with fallback logic
	// 1. Check LATTICE_DATA_DIR environment variable
	// 2. If not set, default to ./data
	// 3. Always resolve to absolute path
	// 4. Ensure directory exists
	dataDir := getEnv("LATTICE_DATA_DIR", "")
	if dataDir == "" {
		dataDir = "./data"
	}

	// Always resolve to absolute path
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	// Ensure directory exists
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:            absDataDir,
		Host:               getEnv("LATTICE_HOST", "0.0.0.0"),
		Port:               getEnvAsInt("LATTICE_PORT", 8090),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogPretty:          getEnvAsBool("LOG_PRETTY", true),
		DevMode:            getEnvAsBool("DEV_MODE", false),
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		Snapshot: SnapshotConfig{
			Cron:          getEnv("LATTICE_SNAPSHOT_CRON", "0 0 * * * *"), // hourly
			RetentionDays: getEnvAsInt("LATTICE_SNAPSHOT_RETENTION_DAYS", 90),
		},
		Archive: loadArchiveConfig(),
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present and consistent
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range 1-65535", c.Port)
	}
	if c.Snapshot.Cron == "" {
		return fmt.Errorf("snapshot cron spec must not be empty")
	}
	if c.Snapshot.RetentionDays < 0 {
		return fmt.Errorf("snapshot retention days %d must not be negative", c.Snapshot.RetentionDays)
	}
	if c.Archive.Enabled() {
		if c.Archive.Cron == "" {
			return fmt.Errorf("archive cron spec must not be empty when archiving is enabled")
		}
		if c.Archive.RetentionDays < 0 {
			return fmt.Errorf("archive retention days %d must not be negative", c.Archive.RetentionDays)
		}
	}
	return nil
}

// ListenAddr returns the host:port pair the HTTP server binds to
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if parsed := utils.ParseCSV(os.Getenv(key)); parsed != nil {
		return parsed
	}
	return defaultValue
}

// loadArchiveConfig loads S3 archive configuration from environment
func loadArchiveConfig() *ArchiveConfig {
	return &ArchiveConfig{
		Bucket:          getEnv("LATTICE_ARCHIVE_BUCKET", ""),
		Region:          getEnv("LATTICE_ARCHIVE_REGION", "us-east-1"),
		Endpoint:        getEnv("LATTICE_ARCHIVE_ENDPOINT", ""),
		AccessKeyID:     getEnv("LATTICE_ARCHIVE_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("LATTICE_ARCHIVE_SECRET_ACCESS_KEY", ""),
		PathStyle:       getEnvAsBool("LATTICE_ARCHIVE_PATH_STYLE", false),
		Cron:            getEnv("LATTICE_ARCHIVE_CRON", "0 0 3 * * *"), // daily at 3 AM
		RetentionDays:   getEnvAsInt("LATTICE_ARCHIVE_RETENTION_DAYS", 30),
	}
}
