package middleware

import (
	"log/slog"
	"time"

	"nightlife/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
)

// CSRF header, cookie and locals key for the double-submit token.
const (
	CSRFHeader     = "X-CSRF-Token"
	CSRFCookieName = "csrf_token"
	CSRFContextKey = "csrf"
)

// CSRF returns double-submit protection for state-changing requests. The token
// is validated independently of the auth token; exempt paths skip the check.
func CSRF(secure bool, exempt ...string) fiber.Handler {
	skip := make(map[string]struct{}, len(exempt))
	for _, p := range exempt {
		skip[p] = struct{}{}
	}

	return csrf.New(csrf.Config{
		KeyLookup:      "header:" + CSRFHeader,
		CookieName:     CSRFCookieName,
		CookieSameSite: "Lax",
		CookieSecure:   secure,
		Expiration:     2 * time.Hour,
		ContextKey:     CSRFContextKey,
		Next: func(c *fiber.Ctx) bool {
			_, ok := skip[c.Path()]
			return ok
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			Logger.WarnContext(c.UserContext(), "csrf validation failed",
				slog.String("path", c.Path()), slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusForbidden,
				&models.AppError{Code: models.CodeCSRFInvalid, Message: "Invalid or missing CSRF token"})
		},
	})
}

// CSRFToken returns the token generated for the current request, if any.
func CSRFToken(c *fiber.Ctx) string {
	token, _ := c.Locals(CSRFContextKey).(string)
	return token
}
