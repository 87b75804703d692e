// Package cache provides a key/value cache with interchangeable Redis and
// in-process backends, selected once at startup.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"nightlife/internal/middleware"
	"nightlife/internal/observability"
)

// Backend names.
const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Cache stores JSON-encoded values with a TTL.
type Cache interface {
	// Get decodes the cached value into dest and reports whether it was found.
	// Backend failures are reported as misses.
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
	// IncrWindow increments key and starts its expiry on the first hit.
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)
	Ping(ctx context.Context) error
	Backend() string
}

// Remember returns the cached value for key, or calls fetch and caches its
// result for ttl. Cache write failures are logged and ignored.
func Remember[T any](ctx context.Context, c Cache, key string, ttl time.Duration, fetch func() (T, error)) (T, error) {
	var out T
	if c != nil && c.Get(ctx, key, &out) {
		return out, nil
	}

	out, err := fetch()
	if err != nil {
		return out, err
	}

	if c != nil {
		if err := c.Set(ctx, key, out, ttl); err != nil {
			middleware.Logger.WarnContext(ctx, "cache write failed",
				slog.String("key", key), slog.String("error", err.Error()))
		}
	}
	return out, nil
}

// Invalidate deletes keys and prefixes after a mutation. Failures are logged;
// entries then expire with their TTL.
func Invalidate(ctx context.Context, c Cache, keys []string, prefixes ...string) {
	if c == nil {
		return
	}
	if len(keys) > 0 {
		if err := c.Delete(ctx, keys...); err != nil {
			middleware.Logger.WarnContext(ctx, "cache invalidation failed",
				slog.Any("keys", keys), slog.String("error", err.Error()))
		}
	}
	for _, p := range prefixes {
		if err := c.DeletePrefix(ctx, p); err != nil {
			middleware.Logger.WarnContext(ctx, "cache prefix invalidation failed",
				slog.String("prefix", p), slog.String("error", err.Error()))
		}
	}
}

func recordLookup(backend string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	observability.CacheLookups.WithLabelValues(backend, result).Inc()
}

func encode(value any) ([]byte, error) {
	return json.Marshal(value)
}
