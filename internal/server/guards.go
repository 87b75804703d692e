package server

import (
	"context"
	"errors"
	"slices"

	"nightlife/internal/middleware"
	"nightlife/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	localsUser   = "user"
	localsUserID = "userID"
	localsClaims = "claims"

	blacklistPrefix = "blacklist:"
)

// AuthRequired validates the JWT from the bearer header or auth cookie and
// loads the caller from the database, so role and account type changes
// apply on the next request.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, claims, err := s.authenticate(c)
		if err != nil {
			return respondError(c, err)
		}
		s.setCaller(c, user, claims)
		return c.Next()
	}
}

// OptionalAuth loads the caller when a valid token is present and continues
// anonymously otherwise.
func (s *Server) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if user, claims, err := s.authenticate(c); err == nil {
			s.setCaller(c, user, claims)
		}
		return c.Next()
	}
}

// StaffRequired rejects callers that are neither moderators nor admins.
// Must be placed after AuthRequired.
func (s *Server) StaffRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !currentUser(c).IsStaff() {
			return respondError(c, models.NewForbiddenError("Moderator or admin access required"))
		}
		return c.Next()
	}
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !currentUser(c).IsAdmin() {
			return respondError(c, models.NewForbiddenError("Admin access required"))
		}
		return c.Next()
	}
}

// AccountTypeRequired lets only the given account types through. It runs
// before the handler, so refused requests never write.
func (s *Server) AccountTypeRequired(types ...models.AccountType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := currentUser(c)
		if user == nil || !slices.Contains(types, user.AccountType) {
			return respondError(c, &models.AppError{
				Code:    models.CodeAccountTypeNeeded,
				Message: "This action requires a " + string(types[0]) + " account",
			})
		}
		return c.Next()
	}
}

func (s *Server) authenticate(c *fiber.Ctx) (*models.User, *middleware.Claims, error) {
	raw, err := middleware.TokenFromRequest(c)
	if err != nil {
		return nil, nil, models.NewUnauthorizedError("Authorization required")
	}
	claims, err := middleware.ParseToken(s.config.JWTSecret, raw)
	if err != nil {
		return nil, nil, models.NewUnauthorizedError("Invalid or expired token")
	}
	if s.isRevoked(c.UserContext(), claims.ID) {
		return nil, nil, models.NewUnauthorizedError("Token has been revoked")
	}

	userID, _ := claims.UserID()
	user, err := s.userService.Get(c.UserContext(), userID)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
			return nil, nil, models.NewUnauthorizedError("Account no longer exists")
		}
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, models.NewForbiddenError("Account is disabled")
	}
	return user, claims, nil
}

func (s *Server) setCaller(c *fiber.Ctx, user *models.User, claims *middleware.Claims) {
	c.Locals(localsUser, user)
	c.Locals(localsUserID, user.ID)
	c.Locals(localsClaims, claims)
	ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, user.ID.String())
	c.SetUserContext(ctx)
}

func (s *Server) isRevoked(ctx context.Context, jti string) bool {
	if jti == "" {
		return false
	}
	var revoked bool
	return s.cache.Get(ctx, blacklistPrefix+jti, &revoked) && revoked
}

// currentUser returns the authenticated caller or nil.
func currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(localsUser).(*models.User)
	return user
}

// currentUserID returns the caller's ID when authenticated.
func currentUserID(c *fiber.Ctx) *uuid.UUID {
	if user := currentUser(c); user != nil {
		id := user.ID
		return &id
	}
	return nil
}
