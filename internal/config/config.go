package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port string

	// Local store configuration (sqlite file backing the key-value medium)
	LocalDBPath string

	// Remote database configuration
	DBType            string // mysql, postgres, sqlite, sqlserver, etc.
	DBHost            string
	DBPort            string
	DBDatabase        string
	DBUser            string
	DBPassword        string
	DBConnectionLimit int

	// Authorizer configuration. Both settings must be present for remote
	// mode to be available at all; otherwise the service runs local-only.
	AuthzURL      string
	AuthzClientID string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "3000"),
		LocalDBPath:       getEnv("LOCAL_DB_PATH", "stickerdb-local.sqlite"),
		DBType:            getEnv("DB_TYPE", "mysql"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "3306"),
		DBDatabase:        getEnv("DB_DATABASE", ""),
		DBUser:            getEnv("DB_USER", ""),
		DBPassword:        getEnv("DB_PASSWORD", ""),
		DBConnectionLimit: getEnvAsInt("DB_CONNECTION_LIMIT", 5),
		AuthzURL:          getEnv("AUTHZ_URL", ""),
		AuthzClientID:     getEnv("AUTHZ_CLIENT_ID", ""),
	}

	// Remote mode needs a reachable database; validate only when enabled.
	if cfg.RemoteEnabled() {
		if cfg.DBDatabase == "" {
			return nil, fmt.Errorf("DB_DATABASE is required when remote mode is configured")
		}
		if cfg.DBType != "sqlite" && cfg.DBUser == "" {
			return nil, fmt.Errorf("DB_USER is required when remote mode is configured")
		}
	}

	return cfg, nil
}

// RemoteEnabled reports whether the remote backend is configured. Absence of
// either setting forces permanent local-only operation system-wide.
func (c *Config) RemoteEnabled() bool {
	return c.AuthzURL != "" && c.AuthzClientID != ""
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
