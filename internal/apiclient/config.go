// Package apiclient talks to the university's REST endpoints: the term
// list, per-term enrollments and catalogs, per-program scorecards, and the
// course rating source. Responses are opaque JSON decoded straight into the
// domain types; retry, timeout and auth live here so the core never sees
// transport concerns.
package apiclient

import (
	"os"
	"strconv"
)

// Config holds all configuration for the upstream API clients.
type Config struct {
	BaseURL    string
	Token      string // opaque bearer token, never inspected
	TimeoutMs  int
	MaxRetries int
}

// DefaultConfig returns a Config with sensible defaults. The base URL and
// token have no useful defaults and must come from the environment.
func DefaultConfig() Config {
	return Config{
		BaseURL:    "https://api.university.example",
		TimeoutMs:  10000,
		MaxRetries: 1,
	}
}

// LoadConfig reads API configuration from environment variables, falling
// back to defaults for any unset values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("STUDYPLAN_API_BASE"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("STUDYPLAN_TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv("STUDYPLAN_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("STUDYPLAN_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}

	return cfg
}
