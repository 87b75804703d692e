package cache

import (
	"context"
	"log/slog"
	"time"

	"nightlife/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// New selects the cache backend once. A redis backend that cannot be reached
// at startup falls back to the in-process cache.
func New(ctx context.Context, backend, redisURL string) Cache {
	if backend == BackendMemory {
		middleware.Logger.Info("Using in-memory cache", slog.String("reason", "configured"))
		return NewMemoryCache()
	}

	client, err := NewRedisClient(redisURL)
	if err != nil {
		middleware.Logger.Warn("Redis misconfigured, using in-memory cache", slog.String("error", err.Error()))
		return NewMemoryCache()
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		middleware.Logger.Warn("Redis unreachable, using in-memory cache", slog.String("error", err.Error()))
		_ = client.Close()
		return NewMemoryCache()
	}

	middleware.Logger.Info("Redis connected successfully")
	return NewRedisCache(client)
}

// RedisClientOf returns the Redis client behind c, or nil for other backends.
func RedisClientOf(c Cache) *redis.Client {
	if rc, ok := c.(*RedisCache); ok {
		return rc.Client()
	}
	return nil
}
