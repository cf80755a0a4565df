// Package config loads application configuration from environment variables.
// All variables use the STAPLERO_ prefix.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Cache      CacheConfig
	Auth       AuthConfig
	Log        LogConfig
	CoursePath string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int
	Host string
}

// DatabaseConfig holds PostgreSQL connection settings. An empty URL runs the
// service on in-memory stores.
type DatabaseConfig struct {
	URL      string
	MaxConns int
	MinConns int
}

// CacheConfig holds Dragonfly/Redis connection settings. An empty URL
// disables the course cache.
type CacheConfig struct {
	URL string
}

// AuthConfig holds authentication settings. Learner tokens are issued by the
// external auth service; AdminTokenHash is the bcrypt hash of the authoring
// token.
type AuthConfig struct {
	AdminTokenHash string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with STAPLERO_ prefix.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("STAPLERO_SERVER_PORT", 8080),
			Host: envStr("STAPLERO_SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			URL:      envStr("STAPLERO_DATABASE_URL", ""),
			MaxConns: envInt("STAPLERO_DATABASE_MAX_CONNS", 25),
			MinConns: envInt("STAPLERO_DATABASE_MIN_CONNS", 5),
		},
		Cache: CacheConfig{
			URL: envStr("STAPLERO_CACHE_URL", ""),
		},
		Auth: AuthConfig{
			AdminTokenHash: envStr("STAPLERO_AUTH_ADMIN_TOKEN_HASH", ""),
		},
		Log: LogConfig{
			Level:  envStr("STAPLERO_LOG_LEVEL", "info"),
			Format: envStr("STAPLERO_LOG_FORMAT", "json"),
		},
		CoursePath: envStr("STAPLERO_COURSE_PATH", ""),
	}

	return cfg, nil
}

// Validate checks that required configuration is present and consistent.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("STAPLERO_SERVER_PORT must be a valid port, got %d", c.Server.Port)
	}

	if c.Auth.AdminTokenHash != "" && !strings.HasPrefix(c.Auth.AdminTokenHash, "$2") {
		return fmt.Errorf("STAPLERO_AUTH_ADMIN_TOKEN_HASH must be a bcrypt hash")
	}

	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("STAPLERO_DATABASE_MIN_CONNS (%d) exceeds max conns (%d)",
			c.Database.MinConns, c.Database.MaxConns)
	}

	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
