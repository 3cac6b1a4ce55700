// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir       string // Base directory for the bank database (always absolute)
	Port          int
	LogLevel      string
	DevMode       bool
	BrapiBaseURL  string        // Quote provider base URL (override for tests)
	BrapiToken    string        // Optional brapi.dev API token
	QuoteCacheTTL time.Duration // Freshness window for cached quotes
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Determine data directory with fallback logic:
	// 1. Check BANKCORE_DATA_DIR environment variable
	// 2. If not set, default to ./data
	// 3. Always resolve to absolute path and ensure it exists
	dataDir := getEnv("BANKCORE_DATA_DIR", "")
	if dataDir == "" {
		dataDir = "./data"
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
		Port:          getEnvAsInt("PORT", 8080),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DevMode:       getEnvAsBool("DEV_MODE", false),
		BrapiBaseURL:  getEnv("BRAPI_BASE_URL", "https://brapi.dev/api"),
		BrapiToken:    getEnv("BRAPI_TOKEN", ""),
		QuoteCacheTTL: time.Duration(getEnvAsInt("QUOTE_CACHE_TTL_SECONDS", 30)) * time.Second,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.QuoteCacheTTL <= 0 {
		return fmt.Errorf("quote cache TTL must be positive, got %s", c.QuoteCacheTTL)
	}
	// Note: BrapiToken optional - brapi.dev serves a limited free tier without it
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
