package server

import (
	"errors"
	"log/slog"
	"strings"

	"nightlife/internal/middleware"
	"nightlife/internal/models"
	"nightlife/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// respondError writes err with the status its code maps to. Server errors
// are logged here because the envelope hides their cause.
func respondError(c *fiber.Ctx, err error) error {
	status := models.StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("path", c.Path()), slog.String("error", err.Error()))
	}
	return models.RespondWithError(c, status, err)
}

// parsePagination reads limit and offset, or page and limit, into a Page.
func parsePagination(c *fiber.Ctx) repository.Page {
	limit := c.QueryInt("limit", defaultPageLimit)
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	offset := c.QueryInt("offset", 0)
	if page := c.QueryInt("page", 0); page > 0 {
		offset = (page - 1) * limit
	}
	if offset < 0 {
		offset = 0
	}
	return repository.Page{Limit: limit, Offset: offset}
}

// parseUUID extracts a route parameter as a UUID. On failure it writes a
// 400 JSON response and returns errResponseWritten.
func parseUUID(c *fiber.Ctx, param, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(param)))
	if err != nil {
		_ = respondError(c, models.NewValidationError("Invalid "+label+" ID"))
		return uuid.Nil, errResponseWritten
	}
	return id, nil
}

// resolveID accepts a UUID or, when enabled, a legacy numeric identifier
// for admin routes. On failure it writes the response and returns
// errResponseWritten.
func (s *Server) resolveID(c *fiber.Ctx, kind models.ModerationKind) (uuid.UUID, error) {
	id, err := s.legacyIDs.Resolve(c.UserContext(), kind, c.Params("id"))
	if err != nil {
		_ = respondError(c, err)
		return uuid.Nil, errResponseWritten
	}
	return id, nil
}

// parseBody decodes the JSON body. On failure it writes a 400 response and
// returns errResponseWritten.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			_ = respondError(c, appErr)
		} else {
			_ = respondError(c, models.NewValidationError("Invalid request body"))
		}
		return errResponseWritten
	}
	return nil
}

// listResponse is the envelope for paginated collections.
func listResponse(key string, items any, total int64, page repository.Page) fiber.Map {
	return fiber.Map{
		key:      items,
		"total":  total,
		"limit":  page.Limit,
		"offset": page.Offset,
	}
}
