package server

import (
	"io"

	"nightlife/internal/models"
	"nightlife/internal/service"

	"github.com/gofiber/fiber/v2"
)

// readUpload loads the multipart file under field. On failure it writes a
// 400 response and returns errResponseWritten.
func readUpload(c *fiber.Ctx, field string) (service.Upload, error) {
	file, err := c.FormFile(field)
	if err != nil {
		_ = respondError(c, models.NewValidationError("No file uploaded"))
		return service.Upload{}, errResponseWritten
	}

	src, err := file.Open()
	if err != nil {
		_ = respondError(c, models.NewValidationError("Unable to read uploaded file"))
		return service.Upload{}, errResponseWritten
	}
	defer func() { _ = src.Close() }()

	content, err := io.ReadAll(src)
	if err != nil {
		_ = respondError(c, models.NewValidationError("Unable to read uploaded file"))
		return service.Upload{}, errResponseWritten
	}
	return service.Upload{Filename: file.Filename, Content: content}, nil
}

// UploadEmployeePhoto handles POST /api/employees/:id/photos
// @Summary Add a profile photo
// @Description Stored as JPEG and WebP. A profile holds at most five photos.
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Employee ID"
// @Param photo formData file true "Image"
// @Success 200 {object} object{employee=models.Employee}
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /employees/{id}/photos [post]
func (s *Server) UploadEmployeePhoto(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id", "employee")
	if err != nil {
		return nil
	}
	up, err := readUpload(c, "photo")
	if err != nil {
		return nil
	}
	emp, err := s.mediaService.AddEmployeePhoto(c.UserContext(), currentUser(c), id, up)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"employee": emp})
}

// UploadEstablishmentLogo handles POST /api/establishments/:id/logo
// @Summary Replace a venue logo
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Establishment ID"
// @Param logo formData file true "Image"
// @Success 200 {object} object{establishment=models.Establishment}
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /establishments/{id}/logo [post]
func (s *Server) UploadEstablishmentLogo(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id", "establishment")
	if err != nil {
		return nil
	}
	up, err := readUpload(c, "logo")
	if err != nil {
		return nil
	}
	est, err := s.mediaService.SetEstablishmentLogo(c.UserContext(), currentUser(c), id, up)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"establishment": est})
}
