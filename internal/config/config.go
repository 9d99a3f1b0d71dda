package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Config holds all service configuration values.
type Config struct {
	Listen        string `json:"listen"`
	MetricsListen string `json:"metrics_listen"`
	TimeoutSec    int    `json:"timeout_sec"`
	DatabasePath  string `json:"database_path"`
	StoreDriver   string `json:"store_driver"`
	UsersFile     string `json:"users_file"`
	SchemeSlug    string `json:"scheme_slug"`
	SchemeName    string `json:"scheme_name"`

	// Environment configuration (loaded from env vars)
	Env *EnvConfig `json:"-"`
}

// Load reads configuration from config.json with sensible defaults.
func Load() *Config {
	return LoadFrom("config.json")
}

// LoadFrom reads configuration from path. A missing file leaves the defaults.
func LoadFrom(path string) *Config {
	cfg := &Config{
		Listen:        ":8080",
		MetricsListen: ":9090",
		TimeoutSec:    15,
		DatabasePath:  "data/monochrome.db",
		StoreDriver:   "sqlite",
		UsersFile:     "users.json",
		SchemeSlug:    "mymono",
		SchemeName:    "Mono",
		Env:           LoadEnv(),
	}

	if file, err := os.Open(path); err == nil {
		defer file.Close()
		json.NewDecoder(file).Decode(cfg)
	}

	// Environment wins over the file
	if cfg.Env.StoreDriver != "" {
		cfg.StoreDriver = cfg.Env.StoreDriver
	}
	if cfg.Env.DatabasePath != "" {
		cfg.DatabasePath = cfg.Env.DatabasePath
	}
	if cfg.Env.UsersFile != "" {
		cfg.UsersFile = cfg.Env.UsersFile
	}

	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	cfg.SchemeSlug = strings.ToLower(strings.TrimSpace(cfg.SchemeSlug))

	return cfg
}

// Validate checks the configuration for errors and returns helpful messages.
func (c *Config) Validate() error {
	var errs []string

	if c.Listen == "" {
		errs = append(errs, "listen address is required")
	}
	if c.TimeoutSec <= 0 {
		errs = append(errs, "timeout_sec must be positive")
	}

	switch c.StoreDriver {
	case "sqlite":
		if c.DatabasePath == "" {
			errs = append(errs, "database_path is required for the sqlite store")
		}
	case "memory":
	default:
		errs = append(errs, fmt.Sprintf("unknown store_driver %q (want sqlite or memory)", c.StoreDriver))
	}

	if _, err := os.Stat(c.UsersFile); os.IsNotExist(err) {
		errs = append(errs, fmt.Sprintf("users file not found: %s", c.UsersFile))
	}

	if !slugPattern.MatchString(c.SchemeSlug) {
		errs = append(errs, fmt.Sprintf("scheme_slug %q must be lowercase letters, digits and dashes", c.SchemeSlug))
	}
	if strings.TrimSpace(c.SchemeName) == "" {
		errs = append(errs, "scheme_name is required")
	}

	if c.Env != nil && c.Env.DefaultRateLimitRPM < 0 {
		errs = append(errs, "DEFAULT_RATE_LIMIT_RPM must not be negative")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n  - " + strings.Join(errs, "\n  - "))
	}

	return nil
}
