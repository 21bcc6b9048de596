// Package config defines engine configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the operational HTTP listen address, e.g. ":9090".
	// Only /healthz and /metrics are served; the engine owns no business API.
	Addr string `koanf:"addr"`

	// DefaultPlan selects the plan used when a caller supplies none.
	DefaultPlan string `koanf:"default_plan"`

	// ComboRecentWindow is how many recent combo hashes a candidate session
	// is checked against.
	ComboRecentWindow int `koanf:"combo_recent_window"`

	// ComboMaxAttempts is the anti-repetition regeneration ceiling.
	ComboMaxAttempts int `koanf:"combo_max_attempts"`

	// ComboRetention bounds stored combo history per (user, game).
	ComboRetention int `koanf:"combo_retention"`

	// RetryAttempts and RetryBackoffMS configure store-write retries.
	RetryAttempts  int `koanf:"retry_attempts"`
	RetryBackoffMS int `koanf:"retry_backoff_ms"`

	// DedupeSize bounds the idempotency guard for activity inserts.
	DedupeSize int `koanf:"dedupe_size"`

	// CalibrationWindowDays overrides the baseline calibration window.
	CalibrationWindowDays int `koanf:"calibration_window_days"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":9090",
		DefaultPlan:           "expert",
		ComboRecentWindow:     20,
		ComboMaxAttempts:      5,
		ComboRetention:        100,
		RetryAttempts:         3,
		RetryBackoffMS:        200,
		DedupeSize:            100_000,
		CalibrationWindowDays: 21,
	}
}
