// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir       string // Base directory for the spectrum database (always absolute)
	LogLevel      string
	DevMode       bool // Pretty console logging
	CacheTTLHours int  // Lifetime of stored spectra; 0 uses the store default
	SweepWorkers  int  // Concurrent sweep evaluations; 0 means one per CPU
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Determine data directory with fallback logic
	// 1. Check FLOQUET_DATA_DIR environment variable
	// 2. If not set, default to ./data
	// 3. Always resolve to absolute path
	// 4. Ensure directory exists
	dataDir := getEnv("FLOQUET_DATA_DIR", "")
	if dataDir == "" {
		dataDir = "data"
	}

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:       absDataDir,
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DevMode:       getEnvAsBool("DEV_MODE", false),
		CacheTTLHours: getEnvAsInt("FLOQUET_CACHE_TTL_HOURS", 0),
		SweepWorkers:  getEnvAsInt("FLOQUET_SWEEP_WORKERS", 0),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SpectraDBPath returns the on-disk location of the spectrum database.
func (c *Config) SpectraDBPath() string {
	return filepath.Join(c.DataDir, "spectra.db")
}

// Validate checks if the configuration is usable
func (c *Config) Validate() error {
	if c.CacheTTLHours < 0 {
		return fmt.Errorf("cache TTL hours must be non-negative, got %d", c.CacheTTLHours)
	}
	if c.SweepWorkers < 0 {
		return fmt.Errorf("sweep workers must be non-negative, got %d", c.SweepWorkers)
	}
	return nil
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
