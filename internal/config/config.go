// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() builds a Config with defaults; Load layers file and env on top.
// - Validation errors wrap ErrInvalidConfig, source errors wrap ErrLoadConfig.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Supported persistent store drivers.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// StoreDriver selects the persistent store: memory or sqlite.
	StoreDriver string `koanf:"store_driver"`

	// SQLitePath is the database file used by the sqlite driver.
	SQLitePath string `koanf:"sqlite_path"`

	// WriteQueueSize bounds the write-behind queue in front of the store.
	WriteQueueSize int `koanf:"write_queue_size"`

	// Timezone is the IANA zone used for streak calendar days ("Local" by default).
	Timezone string `koanf:"timezone"`

	// DedupeSize sets how many recent session ids are remembered.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// RivalCount is the number of simulated leaderboard rivals.
	RivalCount int `koanf:"rival_count"`

	// RivalSeed makes the simulated rivals reproducible.
	RivalSeed int64 `koanf:"rival_seed"`

	// XPWeights maps game ids to the score divisor used when xpEarned is omitted.
	XPWeights map[string]float64 `koanf:"xp_weights"`

	// DefaultXPWeight is used for games without an explicit weight.
	DefaultXPWeight float64 `koanf:"default_xp_weight"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		StoreDriver:         StoreSQLite,
		SQLitePath:          "arcade.db",
		WriteQueueSize:      1024,
		Timezone:            "Local",
		DedupeSize:          10_000,
		MaxLeaderboardLimit: 100,
		RivalCount:          25,
		RivalSeed:           42,
		XPWeights: map[string]float64{
			"chess":  10,
			"typing": 4,
		},
		DefaultXPWeight: 5,
	}
}

// Location resolves Timezone into a *time.Location.
func (c *Config) Location() (*time.Location, error) {
	switch c.Timezone {
	case "", "Local":
		return time.Local, nil
	case "UTC":
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, c.Timezone, err)
	}
	return loc, nil
}

// Validate checks the fields the service cannot run without.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch strings.ToLower(c.StoreDriver) {
	case StoreMemory:
	case StoreSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("%w: sqlite_path must not be empty", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w %q", ErrUnknownStoreDriver, c.StoreDriver)
	}
	if c.MaxLeaderboardLimit <= 0 {
		return fmt.Errorf("%w: max_leaderboard_limit must be positive", ErrInvalidConfig)
	}
	if c.DefaultXPWeight <= 0 {
		return fmt.Errorf("%w: default_xp_weight must be positive", ErrInvalidConfig)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}
