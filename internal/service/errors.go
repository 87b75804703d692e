// Package service holds the business rules behind the HTTP handlers.
package service

import (
	"errors"
	"log/slog"
	"time"

	"nightlife/internal/middleware"
	"nightlife/internal/models"
	"nightlife/internal/observability"
	"nightlife/internal/repository"

	"gorm.io/gorm"
)

// translate maps storage errors onto the API error taxonomy.
func translate(err error, resource string, id any) error {
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.NewNotFoundError(resource, id)
	case repository.IsUniqueViolation(err):
		return models.NewConflictError(resource + " already exists")
	}
	return err
}

// sideEffectFailed records a best-effort follow-up that did not complete.
func sideEffectFailed(effect string, err error, attrs ...any) {
	observability.SideEffectFailures.WithLabelValues(effect).Inc()
	args := append([]any{slog.String("effect", effect), slog.String("error", err.Error())}, attrs...)
	middleware.Logger.Warn("side effect failed", args...)
}

type clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }
