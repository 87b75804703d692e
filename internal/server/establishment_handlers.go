package server

import (
	"nightlife/internal/models"
	"nightlife/internal/repository"
	"nightlife/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type establishmentRequest struct {
	Name           *string                `json:"name"`
	Address        *string                `json:"address"`
	Zone           *string                `json:"zone"`
	GridRow        *int                   `json:"grid_row"`
	GridCol        *int                   `json:"grid_col"`
	CategoryID     *uuid.UUID             `json:"category_id"`
	Description    *string                `json:"description"`
	Phone          *string                `json:"phone"`
	Website        *string                `json:"website"`
	OpeningHours   *string                `json:"opening_hours"`
	LadydrinkPrice models.OptionalDecimal `json:"ladydrink_price"`
	BarfinePrice   models.OptionalDecimal `json:"barfine_price"`
	RoomsPrice     models.OptionalDecimal `json:"rooms_price"`
}

func (r establishmentRequest) input() service.EstablishmentInput {
	return service.EstablishmentInput{
		Name:           r.Name,
		Address:        r.Address,
		Zone:           r.Zone,
		GridRow:        r.GridRow,
		GridCol:        r.GridCol,
		CategoryID:     r.CategoryID,
		Description:    r.Description,
		Phone:          r.Phone,
		Website:        r.Website,
		OpeningHours:   r.OpeningHours,
		LadydrinkPrice: r.LadydrinkPrice.Ptr(),
		BarfinePrice:   r.BarfinePrice.Ptr(),
		RoomsPrice:     r.RoomsPrice.Ptr(),
	}
}

func establishmentFilter(c *fiber.Ctx) (repository.EstablishmentFilter, error) {
	filter := repository.EstablishmentFilter{
		Zone:   c.Query("zone"),
		Search: c.Query("search"),
		Page:   parsePagination(c),
	}
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, models.NewValidationError("Invalid category_id")
		}
		filter.CategoryID = &id
	}
	return filter, nil
}

// ListEstablishments handles GET /api/establishments
// @Summary List establishments
// @Description Approved venues only, filtered by zone, category and name.
// @Tags establishments
// @Produce json
// @Param zone query string false "Zone"
// @Param category_id query string false "Category ID"
// @Param search query string false "Name search"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset"
// @Success 200 {object} service.EstablishmentList
// @Router /establishments [get]
func (s *Server) ListEstablishments(c *fiber.Ctx) error {
	filter, err := establishmentFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	list, err := s.establishmentService.ListPublic(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(listResponse("establishments", list.Establishments, list.Total, filter.Page))
}

// ListCategories handles GET /api/establishments/categories
// @Summary List categories
// @Tags establishments
// @Produce json
// @Success 200 {object} object{categories=[]models.EstablishmentCategory}
// @Router /establishments/categories [get]
func (s *Server) ListCategories(c *fiber.Ctx) error {
	categories, err := s.establishmentService.Categories(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"categories": categories})
}

// GetEstablishment handles GET /api/establishments/:id
// @Summary Get establishment
// @Description An approved venue with its price list and current staff.
// @Tags establishments
// @Produce json
// @Param id path string true "Establishment ID"
// @Success 200 {object} object{establishment=service.EstablishmentDetail}
// @Failure 404 {object} models.ErrorResponse
// @Router /establishments/{id} [get]
func (s *Server) GetEstablishment(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id", "establishment")
	if err != nil {
		return nil
	}
	detail, err := s.establishmentService.GetPublic(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"establishment": detail})
}

// CreateEstablishment handles POST /api/establishments
// @Summary Submit establishment
// @Description Creates a venue awaiting moderation.
// @Tags establishments
// @Accept json
// @Produce json
// @Param request body establishmentRequest true "Establishment"
// @Success 201 {object} object{establishment=models.Establishment}
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /establishments [post]
func (s *Server) CreateEstablishment(c *fiber.Ctx) error {
	var req establishmentRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	est, err := s.establishmentService.Create(c.UserContext(), currentUser(c), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"establishment": est})
}

// UpdateEstablishment handles PUT /api/establishments/:id
// @Summary Update establishment
// @Description Owners may edit the field groups their permissions cover.
// @Tags establishments
// @Accept json
// @Produce json
// @Param id path string true "Establishment ID"
// @Param request body establishmentRequest true "Fields to change"
// @Success 200 {object} object{establishment=models.Establishment}
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /establishments/{id} [put]
func (s *Server) UpdateEstablishment(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id", "establishment")
	if err != nil {
		return nil
	}
	return s.updateEstablishment(c, id)
}

func (s *Server) updateEstablishment(c *fiber.Ctx, id uuid.UUID) error {
	var req establishmentRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	est, err := s.establishmentService.Update(c.UserContext(), currentUser(c), id, req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"establishment": est})
}

// AdminListEstablishments handles GET /api/admin/establishments
// @Summary List establishments for moderation
// @Tags moderation-admin
// @Produce json
// @Param status query string false "pending, approved or rejected" default(pending)
// @Param zone query string false "Zone"
// @Param search query string false "Name search"
// @Success 200 {object} service.EstablishmentList
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/establishments [get]
func (s *Server) AdminListEstablishments(c *fiber.Ctx) error {
	filter, err := establishmentFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	filter.Status, err = models.ParseModerationStatus(c.Query("status"), models.StatusPending)
	if err != nil {
		return respondError(c, err)
	}
	list, err := s.establishmentService.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(listResponse("establishments", list.Establishments, list.Total, filter.Page))
}

// AdminCreateEstablishment handles POST /api/admin/establishments
// @Summary Create approved establishment
// @Tags moderation-admin
// @Accept json
// @Produce json
// @Param request body establishmentRequest true "Establishment"
// @Success 201 {object} object{establishment=models.Establishment}
// @Security BearerAuth
// @Router /admin/establishments [post]
func (s *Server) AdminCreateEstablishment(c *fiber.Ctx) error {
	var req establishmentRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	est, err := s.establishmentService.AdminCreate(c.UserContext(), currentUser(c), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"establishment": est})
}

// AdminGetEstablishment handles GET /api/admin/establishments/:id
// @Summary Get establishment in any state
// @Tags moderation-admin
// @Produce json
// @Param id path string true "Establishment UUID or legacy numeric ID"
// @Success 200 {object} object{establishment=models.Establishment}
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/establishments/{id} [get]
func (s *Server) AdminGetEstablishment(c *fiber.Ctx) error {
	id, err := s.resolveID(c, models.KindEstablishment)
	if err != nil {
		return nil
	}
	est, err := s.establishmentService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"establishment": est})
}

// AdminUpdateEstablishment handles PUT /api/admin/establishments/:id
// @Summary Update establishment as staff
// @Tags moderation-admin
// @Accept json
// @Produce json
// @Param id path string true "Establishment UUID or legacy numeric ID"
// @Param request body establishmentRequest true "Fields to change"
// @Success 200 {object} object{establishment=models.Establishment}
// @Security BearerAuth
// @Router /admin/establishments/{id} [put]
func (s *Server) AdminUpdateEstablishment(c *fiber.Ctx) error {
	id, err := s.resolveID(c, models.KindEstablishment)
	if err != nil {
		return nil
	}
	return s.updateEstablishment(c, id)
}

// AdminDeleteEstablishment handles DELETE /api/admin/establishments/:id
// @Summary Delete establishment
// @Tags moderation-admin
// @Param id path string true "Establishment UUID or legacy numeric ID"
// @Success 204
// @Security BearerAuth
// @Router /admin/establishments/{id} [delete]
func (s *Server) AdminDeleteEstablishment(c *fiber.Ctx) error {
	id, err := s.resolveID(c, models.KindEstablishment)
	if err != nil {
		return nil
	}
	if err := s.establishmentService.Delete(c.UserContext(), currentUser(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListEstablishmentOwners handles GET /api/admin/establishments/:id/owners
// @Summary List owners of an establishment
// @Tags ownership-admin
// @Produce json
// @Param id path string true "Establishment UUID or legacy numeric ID"
// @Success 200 {object} object{owners=[]models.EstablishmentOwner}
// @Security BearerAuth
// @Router /admin/establishments/{id}/owners [get]
func (s *Server) ListEstablishmentOwners(c *fiber.Ctx) error {
	id, err := s.resolveID(c, models.KindEstablishment)
	if err != nil {
		return nil
	}
	owners, err := s.ownershipService.OwnersOf(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"owners": owners})
}
