package server

import (
	"nightlife/internal/models"
	"nightlife/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type consumableTemplateRequest struct {
	Name         *string                `json:"name"`
	Category     *string                `json:"category"`
	Icon         *string                `json:"icon"`
	DefaultPrice models.OptionalDecimal `json:"default_price"`
	IsActive     *bool                  `json:"is_active"`
}

func (r consumableTemplateRequest) input() service.ConsumableTemplateInput {
	return service.ConsumableTemplateInput{
		Name:         r.Name,
		Category:     r.Category,
		Icon:         r.Icon,
		DefaultPrice: r.DefaultPrice.Ptr(),
		IsActive:     r.IsActive,
	}
}

// ListConsumables handles GET /api/consumables
// @Summary Drink and service catalog
// @Tags consumables
// @Produce json
// @Success 200 {object} object{templates=[]models.ConsumableTemplate}
// @Router /consumables [get]
func (s *Server) ListConsumables(c *fiber.Ctx) error {
	rows, err := s.consumableService.ListActive(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"templates": rows})
}

// SetConsumablePrice handles PUT /api/establishments/:id/consumables/:consumableId
// @Summary Set a venue price
// @Tags consumables
// @Accept json
// @Produce json
// @Param id path string true "Establishment ID"
// @Param consumableId path string true "Consumable ID"
// @Param request body object{price=string,is_available=bool} true "Price override"
// @Success 200 {object} object{consumable=models.EstablishmentConsumable}
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /establishments/{id}/consumables/{consumableId} [put]
func (s *Server) SetConsumablePrice(c *fiber.Ctx) error {
	estID, err := parseUUID(c, "id", "establishment")
	if err != nil {
		return nil
	}
	consID, err := parseUUID(c, "consumableId", "consumable")
	if err != nil {
		return nil
	}
	var req struct {
		Price       *decimal.Decimal `json:"price"`
		IsAvailable *bool            `json:"is_available"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if req.Price == nil {
		return respondError(c, models.NewValidationError("price is required"))
	}
	row, err := s.consumableService.SetPrice(c.UserContext(), currentUser(c), estID, consID, service.PriceOverride{
		Price:       *req.Price,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"consumable": row})
}

// RemoveConsumablePrice handles DELETE /api/establishments/:id/consumables/:consumableId
// @Summary Remove a venue price
// @Tags consumables
// @Param id path string true "Establishment ID"
// @Param consumableId path string true "Consumable ID"
// @Success 204
// @Security BearerAuth
// @Router /establishments/{id}/consumables/{consumableId} [delete]
func (s *Server) RemoveConsumablePrice(c *fiber.Ctx) error {
	estID, err := parseUUID(c, "id", "establishment")
	if err != nil {
		return nil
	}
	consID, err := parseUUID(c, "consumableId", "consumable")
	if err != nil {
		return nil
	}
	if err := s.consumableService.RemovePrice(c.UserContext(), currentUser(c), estID, consID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateConsumableTemplate handles POST /api/admin/consumables
// @Summary Add a catalog item
// @Tags consumables-admin
// @Accept json
// @Produce json
// @Param request body consumableTemplateRequest true "Catalog item"
// @Success 201 {object} object{template=models.ConsumableTemplate}
// @Security BearerAuth
// @Router /admin/consumables [post]
func (s *Server) CreateConsumableTemplate(c *fiber.Ctx) error {
	var req consumableTemplateRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	tmpl, err := s.consumableService.CreateTemplate(c.UserContext(), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"template": tmpl})
}

// UpdateConsumableTemplate handles PUT /api/admin/consumables/:id
// @Summary Edit a catalog item
// @Tags consumables-admin
// @Accept json
// @Produce json
// @Param id path string true "Consumable ID"
// @Param request body consumableTemplateRequest true "Fields to change"
// @Success 200 {object} object{template=models.ConsumableTemplate}
// @Security BearerAuth
// @Router /admin/consumables/{id} [put]
func (s *Server) UpdateConsumableTemplate(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id", "consumable")
	if err != nil {
		return nil
	}
	var req consumableTemplateRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	tmpl, err := s.consumableService.UpdateTemplate(c.UserContext(), id, req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"template": tmpl})
}
