package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment represents the application environment
type Environment string

const (
	// Development environment - localhost, debug logging
	Development Environment = "development"
	// Production environment - real domain, production settings
	Production Environment = "production"
)

// EnvConfig holds environment-specific configuration
type EnvConfig struct {
	// Environment name (development, production)
	Env Environment

	AllowedOrigin string
	Debug         bool
	LogLevel      string

	// Overrides for config.json
	StoreDriver  string
	DatabasePath string
	UsersFile    string

	// Palette commands per minute for users without their own limit
	DefaultRateLimitRPM int
}

// LoadEnv loads environment configuration from environment variables
func LoadEnv() *EnvConfig {
	env := getEnvOrDefault("APP_ENV", "development")

	cfg := &EnvConfig{
		Env:      Environment(strings.ToLower(env)),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
	}

	switch cfg.Env {
	case Production:
		cfg.AllowedOrigin = getEnvOrDefault("ALLOWED_ORIGIN", "")
		cfg.Debug = getEnvOrDefault("DEBUG", "false") == "true"
	default:
		cfg.Env = Development // Normalize unknown envs to development
		cfg.AllowedOrigin = getEnvOrDefault("ALLOWED_ORIGIN", "*")
		cfg.Debug = getEnvOrDefault("DEBUG", "true") == "true"
		if cfg.LogLevel == "info" {
			cfg.LogLevel = "debug" // Dev default
		}
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	cfg.StoreDriver = os.Getenv("STORE_DRIVER")
	cfg.DatabasePath = os.Getenv("DATABASE_PATH")
	cfg.UsersFile = os.Getenv("USERS_FILE")
	cfg.DefaultRateLimitRPM = parseIntOrDefault(getEnvOrDefault("DEFAULT_RATE_LIMIT_RPM", "30"), 30)

	return cfg
}

// IsDevelopment returns true if running in development mode
func (e *EnvConfig) IsDevelopment() bool {
	return e.Env == Development
}

// IsProduction returns true if running in production mode
func (e *EnvConfig) IsProduction() bool {
	return e.Env == Production
}

// String returns the environment name
func (e Environment) String() string {
	return string(e)
}

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseIntOrDefault parses a string as int, returning default on error
func parseIntOrDefault(s string, defaultValue int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return defaultValue
	}
	return n
}
