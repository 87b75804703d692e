package server

import (
	"nightlife/internal/models"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) approve(c *fiber.Ctx, kind models.ModerationKind) error {
	id, err := s.resolveID(c, kind)
	if err != nil {
		return nil
	}
	result, err := s.moderationService.Approve(c.UserContext(), kind, id, currentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"moderation": result})
}

func (s *Server) reject(c *fiber.Ctx, kind models.ModerationKind) error {
	id, err := s.resolveID(c, kind)
	if err != nil {
		return nil
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return nil
		}
	}
	result, err := s.moderationService.Reject(c.UserContext(), kind, id, currentUser(c), req.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"moderation": result})
}

// ApproveEstablishment handles POST /api/admin/establishments/:id/approve
// @Summary Approve establishment
// @Description Only pending items can move. Repeating the current decision is a no-op.
// @Tags moderation-admin
// @Produce json
// @Param id path string true "Establishment UUID or legacy numeric ID"
// @Success 200 {object} object{moderation=service.ModerationResult}
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/establishments/{id}/approve [post]
func (s *Server) ApproveEstablishment(c *fiber.Ctx) error {
	return s.approve(c, models.KindEstablishment)
}

// RejectEstablishment handles POST /api/admin/establishments/:id/reject
// @Summary Reject establishment
// @Tags moderation-admin
// @Accept json
// @Produce json
// @Param id path string true "Establishment UUID or legacy numeric ID"
// @Param request body object{reason=string} true "Rejection reason"
// @Success 200 {object} object{moderation=service.ModerationResult}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/establishments/{id}/reject [post]
func (s *Server) RejectEstablishment(c *fiber.Ctx) error {
	return s.reject(c, models.KindEstablishment)
}

// ApproveEmployee handles POST /api/admin/employees/:id/approve
// @Summary Approve employee
// @Tags moderation-admin
// @Produce json
// @Param id path string true "Employee UUID or legacy numeric ID"
// @Success 200 {object} object{moderation=service.ModerationResult}
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/employees/{id}/approve [post]
func (s *Server) ApproveEmployee(c *fiber.Ctx) error {
	return s.approve(c, models.KindEmployee)
}

// RejectEmployee handles POST /api/admin/employees/:id/reject
// @Summary Reject employee
// @Tags moderation-admin
// @Accept json
// @Produce json
// @Param id path string true "Employee UUID or legacy numeric ID"
// @Param request body object{reason=string} true "Rejection reason"
// @Success 200 {object} object{moderation=service.ModerationResult}
// @Security BearerAuth
// @Router /admin/employees/{id}/reject [post]
func (s *Server) RejectEmployee(c *fiber.Ctx) error {
	return s.reject(c, models.KindEmployee)
}

// ApproveComment handles POST /api/admin/comments/:id/approve
// @Summary Approve comment
// @Tags moderation-admin
// @Produce json
// @Param id path string true "Comment UUID or legacy numeric ID"
// @Success 200 {object} object{moderation=service.ModerationResult}
// @Security BearerAuth
// @Router /admin/comments/{id}/approve [post]
func (s *Server) ApproveComment(c *fiber.Ctx) error {
	return s.approve(c, models.KindComment)
}

// RejectComment handles POST /api/admin/comments/:id/reject
// @Summary Reject comment
// @Tags moderation-admin
// @Accept json
// @Produce json
// @Param id path string true "Comment UUID or legacy numeric ID"
// @Param request body object{reason=string} true "Rejection reason"
// @Success 200 {object} object{moderation=service.ModerationResult}
// @Security BearerAuth
// @Router /admin/comments/{id}/reject [post]
func (s *Server) RejectComment(c *fiber.Ctx) error {
	return s.reject(c, models.KindComment)
}

// AdminListComments handles GET /api/admin/comments
// @Summary List comments for moderation
// @Tags moderation-admin
// @Produce json
// @Param status query string false "pending, approved or rejected" default(pending)
// @Success 200 {object} object{comments=[]models.Comment,total=int}
// @Security BearerAuth
// @Router /admin/comments [get]
func (s *Server) AdminListComments(c *fiber.Ctx) error {
	status, err := models.ParseModerationStatus(c.Query("status"), models.StatusPending)
	if err != nil {
		return respondError(c, err)
	}
	page := parsePagination(c)
	rows, total, err := s.commentService.List(c.UserContext(), status, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(listResponse("comments", rows, total, page))
}

// AdminListReports handles GET /api/admin/reports
// @Summary List comment reports
// @Tags moderation-admin
// @Produce json
// @Param status query string false "pending, dismissed or resolved" default(pending)
// @Success 200 {object} object{reports=[]models.CommentReport,total=int}
// @Security BearerAuth
// @Router /admin/reports [get]
func (s *Server) AdminListReports(c *fiber.Ctx) error {
	status, err := models.ParseReportStatus(c.Query("status"), models.ReportPending)
	if err != nil {
		return respondError(c, err)
	}
	page := parsePagination(c)
	rows, total, err := s.commentService.ListReports(c.UserContext(), status, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(listResponse("reports", rows, total, page))
}

// DismissReport handles PATCH /api/admin/reports/:id/dismiss
// @Summary Dismiss report
// @Tags moderation-admin
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} object{report=models.CommentReport}
// @Security BearerAuth
// @Router /admin/reports/{id}/dismiss [patch]
func (s *Server) DismissReport(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id", "report")
	if err != nil {
		return nil
	}
	report, err := s.commentService.Dismiss(c.UserContext(), currentUser(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"report": report})
}

// ResolveReport handles PATCH /api/admin/reports/:id/resolve
// @Summary Resolve report
// @Description Takes the reported comment down.
// @Tags moderation-admin
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} object{report=models.CommentReport}
// @Security BearerAuth
// @Router /admin/reports/{id}/resolve [patch]
func (s *Server) ResolveReport(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id", "report")
	if err != nil {
		return nil
	}
	report, err := s.commentService.Resolve(c.UserContext(), currentUser(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"report": report})
}

// GetDashboardStats handles GET /api/admin/dashboard/stats
// @Summary Moderation dashboard counters
// @Tags moderation-admin
// @Produce json
// @Success 200 {object} object{stats=models.DashboardStats}
// @Security BearerAuth
// @Router /admin/dashboard/stats [get]
func (s *Server) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := s.dashboardService.Stats(c.UserContext(), currentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"stats": stats})
}

// GetFeatureFlags handles GET /api/admin/feature-flags
// @Summary Effective feature flags for the caller
// @Tags moderation-admin
// @Produce json
// @Success 200 {object} object{features=map[string]bool}
// @Security BearerAuth
// @Router /admin/feature-flags [get]
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"features": s.featureFlags.Snapshot(currentUser(c).ID)})
}
