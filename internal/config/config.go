package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds runtime settings for the CLI app.
type Config struct {
	BatchSize      int
	PrefetchMargin int
	DBPath         string
	LogLevel       string
	LogPretty      bool
	FetchDelayMin  time.Duration
	FetchDelayMax  time.Duration
}

func LoadFromEnv() (Config, error) {
	cfg := Config{
		BatchSize:      20,
		PrefetchMargin: 3,
		DBPath:         "lazylist.db",
		LogLevel:       "info",
		FetchDelayMin:  150 * time.Millisecond,
		FetchDelayMax:  900 * time.Millisecond,
	}

	var err error
	if cfg.BatchSize, err = intFromEnv("LAZYLIST_BATCH_SIZE", cfg.BatchSize); err != nil {
		return Config{}, err
	}
	if cfg.PrefetchMargin, err = intFromEnv("LAZYLIST_PREFETCH_MARGIN", cfg.PrefetchMargin); err != nil {
		return Config{}, err
	}
	if cfg.FetchDelayMin, err = millisFromEnv("LAZYLIST_FETCH_DELAY_MIN_MS", cfg.FetchDelayMin); err != nil {
		return Config{}, err
	}
	if cfg.FetchDelayMax, err = millisFromEnv("LAZYLIST_FETCH_DELAY_MAX_MS", cfg.FetchDelayMax); err != nil {
		return Config{}, err
	}
	if v := os.Getenv("LAZYLIST_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("LAZYLIST_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	cfg.LogPretty = os.Getenv("LAZYLIST_LOG_PRETTY") == "1"

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.BatchSize < 1 {
		return fmt.Errorf("LAZYLIST_BATCH_SIZE must be positive: %d", c.BatchSize)
	}
	if c.PrefetchMargin < 0 {
		return fmt.Errorf("LAZYLIST_PREFETCH_MARGIN must not be negative: %d", c.PrefetchMargin)
	}
	if c.PrefetchMargin >= c.BatchSize {
		return fmt.Errorf("LAZYLIST_PREFETCH_MARGIN must be smaller than LAZYLIST_BATCH_SIZE: %d >= %d", c.PrefetchMargin, c.BatchSize)
	}
	if c.DBPath == "" {
		return fmt.Errorf("DBPath is required")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LAZYLIST_LOG_LEVEL must be debug, info, warn or error: %s", c.LogLevel)
	}
	if c.FetchDelayMin < 0 {
		return fmt.Errorf("LAZYLIST_FETCH_DELAY_MIN_MS must not be negative: %s", c.FetchDelayMin)
	}
	if c.FetchDelayMax < c.FetchDelayMin {
		return fmt.Errorf("LAZYLIST_FETCH_DELAY_MAX_MS must not be below the minimum: %s < %s", c.FetchDelayMax, c.FetchDelayMin)
	}
	return nil
}

func intFromEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return v, nil
}

func millisFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return time.Duration(v) * time.Millisecond, nil
}
