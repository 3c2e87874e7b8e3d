// Package cache stores built snapshots as JSON with a time-to-live. Two
// backends exist: an in-process map and redis.
package cache

import (
	"context"
	"fmt"
	"time"
)

// DefaultTTL is how long a snapshot stays fresh.
const DefaultTTL = time.Hour

// Cache is a JSON value store with expiry.
type Cache interface {
	// Get decodes the value under key into dst. It reports false on a miss.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Backend names.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config selects and configures a backend.
type Config struct {
	Backend string        `koanf:"backend"`
	TTL     time.Duration `koanf:"ttl"`
	Redis   RedisConfig   `koanf:"redis"`
}

// New creates the configured backend. An empty backend name means memory.
func New(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemory(), nil
	case BackendRedis:
		return NewRedis(ctx, cfg.Redis)
	default:
		return nil, fmt.Errorf("unknown cache backend %q (expected memory or redis)", cfg.Backend)
	}
}
