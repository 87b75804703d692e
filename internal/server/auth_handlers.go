package server

import (
	"log/slog"
	"time"

	"nightlife/internal/middleware"
	"nightlife/internal/models"
	"nightlife/internal/service"

	"github.com/gofiber/fiber/v2"
)

const tokenTTL = 7 * 24 * time.Hour

// Register handles POST /api/auth/register
// @Summary Register
// @Description Create an account. The account type decides which flows the user can start.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{pseudonym=string,email=string,password=string,account_type=string} true "Registration"
// @Success 201 {object} object{token=string,user=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /auth/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req service.RegisterInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.userService.Register(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return s.issueSession(c, fiber.StatusCreated, user)
}

// Login handles POST /api/auth/login
// @Summary Login
// @Description Authenticate and receive a token. The token is also set as an HttpOnly cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{email=string,password=string} true "Login credentials"
// @Success 200 {object} object{token=string,user=models.User}
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if req.Email == "" || req.Password == "" {
		return respondError(c, models.NewValidationError("Email and password are required"))
	}

	user, err := s.userService.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return s.issueSession(c, fiber.StatusOK, user)
}

func (s *Server) issueSession(c *fiber.Ctx, status int, user *models.User) error {
	token, claims, err := middleware.IssueToken(s.config.JWTSecret, user.ID, tokenTTL)
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}
	middleware.SetAuthCookie(c, token, claims.ExpiresAt.Time, s.config.CookieSecure)
	return c.Status(status).JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Logout handles POST /api/auth/logout
// @Summary Logout
// @Description Revoke the current token until it expires and clear the auth cookie.
// @Tags auth
// @Produce json
// @Success 200 {object} object{message=string}
// @Router /auth/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	if raw, err := middleware.TokenFromRequest(c); err == nil {
		if claims, err := middleware.ParseToken(s.config.JWTSecret, raw); err == nil && claims.ID != "" {
			ttl := time.Until(claims.ExpiresAt.Time)
			if ttl > 0 {
				if err := s.cache.Set(c.UserContext(), blacklistPrefix+claims.ID, true, ttl); err != nil {
					middleware.Logger.WarnContext(c.UserContext(), "failed to revoke token",
						slog.String("error", err.Error()))
				}
			}
		}
	}
	middleware.ClearAuthCookie(c, s.config.CookieSecure)
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// GetCSRFToken handles GET /api/auth/csrf-token
// @Summary CSRF token
// @Description Returns the double-submit token to echo in the X-CSRF-Token header.
// @Tags auth
// @Produce json
// @Success 200 {object} object{csrf_token=string}
// @Router /auth/csrf-token [get]
func (s *Server) GetCSRFToken(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"csrf_token": middleware.CSRFToken(c)})
}

// Me handles GET /api/auth/me
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} object{user=models.User}
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /auth/me [get]
func (s *Server) Me(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"user": currentUser(c)})
}
