package server

import (
	"time"

	"nightlife/internal/models"
	"nightlife/internal/repository"
	"nightlife/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type createEmployeeRequest struct {
	Name            string            `json:"name"`
	Nickname        string            `json:"nickname"`
	Age             *int              `json:"age"`
	Nationality     string            `json:"nationality"`
	Description     string            `json:"description"`
	SocialMedia     map[string]string `json:"social_media"`
	IsFreelance     bool              `json:"is_freelance"`
	EstablishmentID *uuid.UUID        `json:"establishment_id"`
}

type updateEmployeeRequest struct {
	Name                 *string             `json:"name"`
	Nickname             *string             `json:"nickname"`
	Age                  *int                `json:"age"`
	Nationality          *string             `json:"nationality"`
	Description          *string             `json:"description"`
	SocialMedia          map[string]string   `json:"social_media"`
	IsFreelance          *bool               `json:"is_freelance"`
	VIPExpiresAt         *time.Time          `json:"vip_expires_at"`
	UserID               *uuid.UUID          `json:"user_id"`
	CurrentEstablishment models.OptionalUUID `json:"current_establishment_id"`
	Position             string              `json:"position"`
}

// ListEmployees handles GET /api/employees
// @Summary List employees
// @Description Approved, visible profiles, optionally at one establishment.
// @Tags employees
// @Produce json
// @Param establishment_id query string false "Establishment ID"
// @Param search query string false "Name or nickname search"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset"
// @Success 200 {object} service.EmployeeList
// @Router /employees [get]
func (s *Server) ListEmployees(c *fiber.Ctx) error {
	var estID *uuid.UUID
	if raw := c.Query("establishment_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return respondError(c, models.NewValidationError("Invalid establishment_id"))
		}
		estID = &id
	}
	page := parsePagination(c)
	list, err := s.employeeService.ListPublic(c.UserContext(), estID, c.Query("search"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(listResponse("employees", list.Employees, list.Total, page))
}

// GetEmployee handles GET /api/employees/:id
// @Summary Get employee
// @Tags employees
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} object{employee=models.Employee}
// @Failure 404 {object} models.ErrorResponse
// @Router /employees/{id} [get]
func (s *Server) GetEmployee(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id", "employee")
	if err != nil {
		return nil
	}
	emp, err := s.employeeService.GetPublic(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"employee": emp})
}

// GetEmploymentHistory handles GET /api/employees/:id/employment
// @Summary Employment history
// @Description Newest first. At most one row is current.
// @Tags employees
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} object{employment_history=[]models.EmploymentHistory}
// @Router /employees/{id}/employment [get]
func (s *Server) GetEmploymentHistory(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id", "employee")
	if err != nil {
		return nil
	}
	ctx := c.UserContext()
	if _, err := s.employeeService.GetPublic(ctx, id); err != nil {
		return respondError(c, err)
	}
	rows, err := s.employeeService.History(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"employment_history": rows})
}

// GetEmployeeVotes handles GET /api/employees/:id/votes
// @Summary Existence vote tally
// @Tags employees
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} object{votes=models.VoteTally}
// @Router /employees/{id}/votes [get]
func (s *Server) GetEmployeeVotes(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id", "employee")
	if err != nil {
		return nil
	}
	ctx := c.UserContext()
	if _, err := s.employeeService.GetPublic(ctx, id); err != nil {
		return respondError(c, err)
	}
	tally, err := s.employeeService.Votes(ctx, id, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"votes": tally})
}

// CreateEmployee handles POST /api/employees
// @Summary Submit employee profile
// @Description Creates a profile awaiting moderation, with its first employment when an establishment is given.
// @Tags employees
// @Accept json
// @Produce json
// @Param request body createEmployeeRequest true "Profile"
// @Success 201 {object} object{employee=models.Employee}
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /employees [post]
func (s *Server) CreateEmployee(c *fiber.Ctx) error {
	var req createEmployeeRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	emp, err := s.employeeService.Create(c.UserContext(), currentUser(c), service.CreateEmployeeInput{
		Name:            req.Name,
		Nickname:        req.Nickname,
		Age:             req.Age,
		Nationality:     req.Nationality,
		Description:     req.Description,
		SocialMedia:     req.SocialMedia,
		IsFreelance:     req.IsFreelance,
		EstablishmentID: req.EstablishmentID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"employee": emp})
}

// ReassignEmployee handles POST /api/employees/:id/employment
// @Summary Move employee
// @Description Closes the current employment and opens one at the target. A null establishment_id only closes it.
// @Tags employees
// @Accept json
// @Produce json
// @Param id path string true "Employee ID"
// @Param request body object{establishment_id=string,position=string} true "Target"
// @Success 200 {object} object{current=models.EmploymentHistory}
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /employees/{id}/employment [post]
func (s *Server) ReassignEmployee(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id", "employee")
	if err != nil {
		return nil
	}
	var req struct {
		EstablishmentID models.OptionalUUID `json:"establishment_id"`
		Position        string              `json:"position"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if !req.EstablishmentID.Set {
		return respondError(c, models.NewValidationError("establishment_id is required (null ends the current employment)"))
	}
	row, err := s.employeeService.Reassign(c.UserContext(), currentUser(c), id, req.EstablishmentID.Value, req.Position)
	if err != nil {
		return respondError(c, err)
	}
	if row == nil {
		return c.JSON(fiber.Map{"current": nil})
	}
	return c.JSON(fiber.Map{"current": row})
}

// SetEmployeeVisibility handles PATCH /api/employees/:id/visibility
// @Summary Hide or show a profile
// @Description Visibility is independent of moderation status.
// @Tags employees
// @Accept json
// @Produce json
// @Param id path string true "Employee ID"
// @Param request body object{is_hidden=bool,reason=string} true "Visibility"
// @Success 200 {object} object{employee=models.Employee}
// @Security BearerAuth
// @Router /employees/{id}/visibility [patch]
func (s *Server) SetEmployeeVisibility(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id", "employee")
	if err != nil {
		return nil
	}
	var req struct {
		IsHidden *bool  `json:"is_hidden"`
		Reason   string `json:"reason"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if req.IsHidden == nil {
		return respondError(c, models.NewValidationError("is_hidden is required"))
	}
	emp, err := s.employeeService.SetVisibility(c.UserContext(), currentUser(c), id, *req.IsHidden, req.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"employee": emp})
}

// VoteEmployee handles POST /api/employees/:id/votes
// @Summary Vote on whether a profile is real
// @Tags employees
// @Accept json
// @Produce json
// @Param id path string true "Employee ID"
// @Param request body object{vote_type=string} true "exists or not_exists"
// @Success 200 {object} object{votes=models.VoteTally}
// @Security BearerAuth
// @Router /employees/{id}/votes [post]
func (s *Server) VoteEmployee(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id", "employee")
	if err != nil {
		return nil
	}
	var req struct {
		VoteType models.VoteType `json:"vote_type"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	tally, err := s.employeeService.Vote(c.UserContext(), currentUser(c), id, req.VoteType)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"votes": tally})
}

// RequestSelfRemoval handles POST /api/employees/:id/self-removal
// @Summary Request removal of one's own profile
// @Tags employees
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} object{employee=models.Employee}
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /employees/{id}/self-removal [post]
func (s *Server) RequestSelfRemoval(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id", "employee")
	if err != nil {
		return nil
	}
	emp, err := s.employeeService.RequestSelfRemoval(c.UserContext(), currentUser(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"employee": emp})
}

// AdminListEmployees handles GET /api/admin/employees
// @Summary List employees for moderation
// @Tags moderation-admin
// @Produce json
// @Param status query string false "pending, approved or rejected" default(pending)
// @Param establishment_id query string false "Establishment ID"
// @Param search query string false "Name search"
// @Success 200 {object} service.EmployeeList
// @Security BearerAuth
// @Router /admin/employees [get]
func (s *Server) AdminListEmployees(c *fiber.Ctx) error {
	status, err := models.ParseModerationStatus(c.Query("status"), models.StatusPending)
	if err != nil {
		return respondError(c, err)
	}
	filter := repository.EmployeeFilter{Status: status, Search: c.Query("search"), Page: parsePagination(c)}
	if raw := c.Query("establishment_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return respondError(c, models.NewValidationError("Invalid establishment_id"))
		}
		filter.EstablishmentID = &id
	}
	list, err := s.employeeService.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(listResponse("employees", list.Employees, list.Total, filter.Page))
}

// AdminGetEmployee handles GET /api/admin/employees/:id
// @Summary Get employee in any state
// @Tags moderation-admin
// @Produce json
// @Param id path string true "Employee UUID or legacy numeric ID"
// @Success 200 {object} object{employee=models.Employee}
// @Security BearerAuth
// @Router /admin/employees/{id} [get]
func (s *Server) AdminGetEmployee(c *fiber.Ctx) error {
	id, err := s.resolveID(c, models.KindEmployee)
	if err != nil {
		return nil
	}
	emp, err := s.employeeService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"employee": emp})
}

// AdminUpdateEmployee handles PUT /api/admin/employees/:id
// @Summary Update employee
// @Description Setting current_establishment_id moves the employee transactionally.
// @Tags moderation-admin
// @Accept json
// @Produce json
// @Param id path string true "Employee UUID or legacy numeric ID"
// @Param request body updateEmployeeRequest true "Fields to change"
// @Success 200 {object} object{employee=models.Employee}
// @Security BearerAuth
// @Router /admin/employees/{id} [put]
func (s *Server) AdminUpdateEmployee(c *fiber.Ctx) error {
	id, err := s.resolveID(c, models.KindEmployee)
	if err != nil {
		return nil
	}
	var req updateEmployeeRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	emp, err := s.employeeService.Update(c.UserContext(), currentUser(c), id, service.UpdateEmployeeInput{
		Name:                 req.Name,
		Nickname:             req.Nickname,
		Age:                  req.Age,
		Nationality:          req.Nationality,
		Description:          req.Description,
		SocialMedia:          req.SocialMedia,
		IsFreelance:          req.IsFreelance,
		VIPExpiresAt:         req.VIPExpiresAt,
		UserID:               req.UserID,
		CurrentEstablishment: req.CurrentEstablishment,
		Position:             req.Position,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"employee": emp})
}

// SetEmployeeVerification handles PATCH /api/admin/employees/:id/verification
// @Summary Set verified badge
// @Tags moderation-admin
// @Accept json
// @Produce json
// @Param id path string true "Employee UUID or legacy numeric ID"
// @Param request body object{is_verified=bool} true "Verification"
// @Success 200 {object} object{employee=models.Employee}
// @Security BearerAuth
// @Router /admin/employees/{id}/verification [patch]
func (s *Server) SetEmployeeVerification(c *fiber.Ctx) error {
	id, err := s.resolveID(c, models.KindEmployee)
	if err != nil {
		return nil
	}
	var req struct {
		IsVerified bool `json:"is_verified"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	emp, err := s.employeeService.SetVerification(c.UserContext(), currentUser(c), id, req.IsVerified)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"employee": emp})
}
