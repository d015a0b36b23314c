package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for content-studio
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Notify   NotifyConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds PostgreSQL configuration.
// An empty DSN selects the in-memory repository (development mode).
type DatabaseConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// AuthConfig holds admin API authentication configuration.
// An empty token disables authentication (development mode).
type AuthConfig struct {
	AdminToken string
}

// NotifyConfig holds the due-date notification worker configuration
type NotifyConfig struct {
	Enabled  bool
	Interval time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			DSN:          getEnv("DATABASE_DSN", ""),
			MaxOpenConns: getEnvAsInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Auth: AuthConfig{
			AdminToken: getEnv("ADMIN_TOKEN", ""),
		},
		Notify: NotifyConfig{
			Enabled:  getEnvAsBool("NOTIFY_ENABLED", true),
			Interval: getEnvAsDuration("NOTIFY_INTERVAL", 1*time.Minute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Notify.Interval <= 0 {
		return fmt.Errorf("invalid notify interval: %s", c.Notify.Interval)
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
