package server

import (
	"github.com/gofiber/fiber/v2"
)

// ListNotifications handles GET /api/notifications
// @Summary My notifications
// @Tags notifications
// @Produce json
// @Param unread query bool false "Only unread"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset"
// @Success 200 {object} service.NotificationPage
// @Security BearerAuth
// @Router /notifications [get]
func (s *Server) ListNotifications(c *fiber.Ctx) error {
	page, err := s.notificationService.List(c.UserContext(), currentUser(c).ID, c.QueryBool("unread"), parsePagination(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// UnreadNotificationCount handles GET /api/notifications/unread-count
// @Summary Unread notification count
// @Tags notifications
// @Produce json
// @Success 200 {object} object{count=int}
// @Security BearerAuth
// @Router /notifications/unread-count [get]
func (s *Server) UnreadNotificationCount(c *fiber.Ctx) error {
	n, err := s.notificationService.UnreadCount(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"count": n})
}

// MarkNotificationRead handles PATCH /api/notifications/:id/read
// @Summary Mark one notification read
// @Tags notifications
// @Param id path string true "Notification ID"
// @Success 204
// @Security BearerAuth
// @Router /notifications/{id}/read [patch]
func (s *Server) MarkNotificationRead(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id", "notification")
	if err != nil {
		return nil
	}
	if err := s.notificationService.MarkRead(c.UserContext(), id, currentUser(c).ID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MarkAllNotificationsRead handles PATCH /api/notifications/read-all
// @Summary Mark every notification read
// @Tags notifications
// @Produce json
// @Success 200 {object} object{updated=int}
// @Security BearerAuth
// @Router /notifications/read-all [patch]
func (s *Server) MarkAllNotificationsRead(c *fiber.Ctx) error {
	n, err := s.notificationService.MarkAllRead(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"updated": n})
}

// GetMyGamification handles GET /api/gamification/me
// @Summary My XP and level
// @Tags gamification
// @Produce json
// @Success 200 {object} object{profile=service.GamificationProfile}
// @Security BearerAuth
// @Router /gamification/me [get]
func (s *Server) GetMyGamification(c *fiber.Ctx) error {
	profile, err := s.gamificationService.Profile(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"profile": profile})
}
