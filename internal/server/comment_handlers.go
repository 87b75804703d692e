package server

import (
	"nightlife/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListEmployeeComments handles GET /api/employees/:id/comments
// @Summary Approved reviews of an employee
// @Tags comments
// @Produce json
// @Param id path string true "Employee ID"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset"
// @Success 200 {object} service.CommentThread
// @Router /employees/{id}/comments [get]
func (s *Server) ListEmployeeComments(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id", "employee")
	if err != nil {
		return nil
	}
	thread, err := s.commentService.ListForEmployee(c.UserContext(), id, parsePagination(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(thread)
}

// CreateComment handles POST /api/employees/:id/comments
// @Summary Review an employee
// @Description The comment is held for moderation.
// @Tags comments
// @Accept json
// @Produce json
// @Param id path string true "Employee ID"
// @Param request body object{content=string,rating=int} true "Review"
// @Success 201 {object} object{comment=models.Comment}
// @Failure 400 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /employees/{id}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id", "employee")
	if err != nil {
		return nil
	}
	var req struct {
		Content string `json:"content"`
		Rating  *int   `json:"rating"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	comment, err := s.commentService.Create(c.UserContext(), currentUser(c), id, service.CreateCommentInput{
		Content: req.Content,
		Rating:  req.Rating,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"comment": comment})
}

// ReportComment handles POST /api/comments/:id/reports
// @Summary Report a comment
// @Tags comments
// @Accept json
// @Produce json
// @Param id path string true "Comment ID"
// @Param request body object{reason=string} true "Report reason"
// @Success 201 {object} object{report=models.CommentReport}
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /comments/{id}/reports [post]
func (s *Server) ReportComment(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id", "comment")
	if err != nil {
		return nil
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	report, err := s.commentService.Report(c.UserContext(), currentUser(c), id, req.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"report": report})
}
