package server

import (
	"nightlife/internal/models"
	"nightlife/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// CreateOwnershipRequest handles POST /api/ownership-requests
// @Summary Claim an establishment
// @Description Requires an establishment_owner account. One pending claim per establishment.
// @Tags ownership
// @Accept json
// @Produce json
// @Param request body object{establishment_id=string,request_message=string,document_urls=[]string,verification_code=string,contact_me=bool} true "Claim"
// @Success 201 {object} object{ownership_request=models.OwnershipRequest}
// @Failure 403 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /ownership-requests [post]
func (s *Server) CreateOwnershipRequest(c *fiber.Ctx) error {
	var req struct {
		EstablishmentID  uuid.UUID `json:"establishment_id"`
		RequestMessage   string    `json:"request_message"`
		DocumentURLs     []string  `json:"document_urls"`
		VerificationCode string    `json:"verification_code"`
		ContactMe        bool      `json:"contact_me"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	created, err := s.ownershipService.CreateRequest(c.UserContext(), currentUser(c), service.CreateOwnershipRequestInput{
		EstablishmentID:  req.EstablishmentID,
		RequestMessage:   req.RequestMessage,
		DocumentURLs:     req.DocumentURLs,
		VerificationCode: req.VerificationCode,
		ContactMe:        req.ContactMe,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ownership_request": created})
}

// ListMyOwnershipRequests handles GET /api/ownership-requests/my
// @Summary My ownership claims
// @Tags ownership
// @Produce json
// @Success 200 {object} object{ownership_requests=[]models.OwnershipRequest}
// @Security BearerAuth
// @Router /ownership-requests/my [get]
func (s *Server) ListMyOwnershipRequests(c *fiber.Ctx) error {
	rows, err := s.ownershipService.ListMine(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"ownership_requests": rows})
}

// ListOwnershipRequests handles GET /api/ownership-requests
// @Summary Ownership claims for review
// @Tags ownership-admin
// @Produce json
// @Param status query string false "pending, approved or rejected" default(pending)
// @Success 200 {object} object{requests=[]models.OwnershipRequest,total=int}
// @Security BearerAuth
// @Router /ownership-requests [get]
func (s *Server) ListOwnershipRequests(c *fiber.Ctx) error {
	status, err := models.ParseModerationStatus(c.Query("status"), models.StatusPending)
	if err != nil {
		return respondError(c, err)
	}
	page := parsePagination(c)
	rows, total, err := s.ownershipService.List(c.UserContext(), status, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(listResponse("requests", rows, total, page))
}

// ApproveOwnershipRequest handles PATCH /api/ownership-requests/:id/approve
// @Summary Approve ownership claim
// @Description Creates the owner link and upgrades the claimant in one transaction.
// @Tags ownership-admin
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param request body object{admin_notes=string,owner_role=string,permissions=models.OwnerPermissions} false "Decision"
// @Success 200 {object} object{owner=models.EstablishmentOwner}
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /ownership-requests/{id}/approve [patch]
func (s *Server) ApproveOwnershipRequest(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id", "ownership request")
	if err != nil {
		return nil
	}
	var req struct {
		AdminNotes  string                   `json:"admin_notes"`
		OwnerRole   string                   `json:"owner_role"`
		Permissions *models.OwnerPermissions `json:"permissions"`
	}
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return nil
		}
	}
	owner, err := s.ownershipService.Approve(c.UserContext(), id, currentUser(c), service.ApproveOwnershipInput{
		AdminNotes:  req.AdminNotes,
		OwnerRole:   req.OwnerRole,
		Permissions: req.Permissions,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"owner": owner})
}

// RejectOwnershipRequest handles PATCH /api/ownership-requests/:id/reject
// @Summary Reject ownership claim
// @Tags ownership-admin
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param request body object{admin_notes=string} true "Decision"
// @Success 200 {object} object{ownership_request=models.OwnershipRequest}
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /ownership-requests/{id}/reject [patch]
func (s *Server) RejectOwnershipRequest(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id", "ownership request")
	if err != nil {
		return nil
	}
	var req struct {
		AdminNotes string `json:"admin_notes"`
	}
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return nil
		}
	}
	rejected, err := s.ownershipService.Reject(c.UserContext(), id, currentUser(c), req.AdminNotes)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"ownership_request": rejected})
}

// CancelOwnershipRequest handles DELETE /api/ownership-requests/:id
// @Summary Withdraw a pending claim
// @Tags ownership
// @Param id path string true "Request ID"
// @Success 204
// @Security BearerAuth
// @Router /ownership-requests/{id} [delete]
func (s *Server) CancelOwnershipRequest(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id", "ownership request")
	if err != nil {
		return nil
	}
	if err := s.ownershipService.Cancel(c.UserContext(), id, currentUser(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListMyEstablishments handles GET /api/establishment-owners/my-establishments
// @Summary Establishments I manage
// @Tags ownership
// @Produce json
// @Success 200 {object} object{establishments=[]models.EstablishmentOwner}
// @Security BearerAuth
// @Router /establishment-owners/my-establishments [get]
func (s *Server) ListMyEstablishments(c *fiber.Ctx) error {
	rows, err := s.ownershipService.MyEstablishments(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"establishments": rows})
}

// UpdateEstablishmentOwner handles PATCH /api/admin/establishment-owners/:id
// @Summary Change an owner link
// @Tags ownership-admin
// @Accept json
// @Produce json
// @Param id path string true "Owner link ID"
// @Param request body object{owner_role=string,permissions=models.OwnerPermissions} true "Changes"
// @Success 200 {object} object{owner=models.EstablishmentOwner}
// @Security BearerAuth
// @Router /admin/establishment-owners/{id} [patch]
func (s *Server) UpdateEstablishmentOwner(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id", "establishment owner")
	if err != nil {
		return nil
	}
	var req struct {
		OwnerRole   *string                  `json:"owner_role"`
		Permissions *models.OwnerPermissions `json:"permissions"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	owner, err := s.ownershipService.UpdateOwner(c.UserContext(), id, service.UpdateOwnerInput{
		OwnerRole:   req.OwnerRole,
		Permissions: req.Permissions,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"owner": owner})
}

// RevokeEstablishmentOwner handles DELETE /api/admin/establishment-owners/:id
// @Summary Remove an owner link
// @Tags ownership-admin
// @Param id path string true "Owner link ID"
// @Success 204
// @Security BearerAuth
// @Router /admin/establishment-owners/{id} [delete]
func (s *Server) RevokeEstablishmentOwner(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id", "establishment owner")
	if err != nil {
		return nil
	}
	if err := s.ownershipService.RevokeOwner(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
