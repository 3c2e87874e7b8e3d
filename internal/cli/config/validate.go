package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/atlas/internal/cache"
	"github.com/leapstack-labs/atlas/pkg/core"
)

// Validate checks enumerated fields and value ranges.
func (c *Config) Validate() error {
	switch c.Output {
	case "", "auto", "text", "markdown", "json":
	default:
		return fmt.Errorf("invalid output %q (expected auto, text, markdown or json)", c.Output)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case "", cache.BackendMemory, cache.BackendRedis:
	default:
		return fmt.Errorf("invalid cache.backend %q (expected memory or redis)", c.Cache.Backend)
	}
	if c.Content.Concurrency < 0 || c.Content.MaxPages < 0 {
		return fmt.Errorf("content.concurrency and content.max_pages must not be negative")
	}
	for i, r := range c.Content.Rules {
		if r.Prefix == "" {
			return fmt.Errorf("content.rules[%d]: prefix is required", i)
		}
		if r.Intent != "" && !knownIntent(r.Intent) {
			return fmt.Errorf("content.rules[%d]: unknown intent %q", i, r.Intent)
		}
	}
	if c.ESA.Repo != "" && strings.Count(c.ESA.Repo, "/") != 1 {
		return fmt.Errorf("esa.repo must be owner/name, got %q", c.ESA.Repo)
	}
	return nil
}

func knownIntent(s string) bool {
	for _, i := range core.Intents() {
		if i == s {
			return true
		}
	}
	return false
}

// ParseLevel converts a log level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log_level %q (expected debug, info, warn or error)", s)
	}
}
