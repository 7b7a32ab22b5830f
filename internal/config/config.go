// Package config loads runtime settings from environment variables.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the settings the binary is wired with. DBPath left empty
// means "use the default under the user's home directory".
type Config struct {
	DBPath string

	// TokenEnv names the environment variable holding the API token for
	// a freshly seeded backend. Existing backend rows keep their own.
	TokenEnv string

	// SyncInterval enables periodic background cycles when positive.
	SyncInterval time.Duration

	// StaleAfter is the cache staleness threshold.
	StaleAfter time.Duration

	// LogOps writes operation telemetry to stderr.
	LogOps bool
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		TokenEnv:   "TODOIST_API_TOKEN",
		StaleAfter: 5 * time.Minute,
	}
}

// Load reads configuration from environment variables, falling back to
// defaults for any unset values.
func Load() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("TASKLINE_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("TASKLINE_TOKEN_ENV"); v != "" {
		cfg.TokenEnv = v
	}
	if v := os.Getenv("TASKLINE_SYNC_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.SyncInterval = d
		}
	}
	if v := os.Getenv("TASKLINE_STALE_AFTER"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.StaleAfter = d
		}
	}
	if v := os.Getenv("TASKLINE_LOG_OPS"); v != "" {
		cfg.LogOps, _ = strconv.ParseBool(v)
	}

	return cfg
}
