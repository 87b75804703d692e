package service

import (
	"context"
	"fmt"
	"log/slog"

	"nightlife/internal/media"
	"nightlife/internal/models"
	"nightlife/internal/repository"
	"nightlife/internal/storage"

	"github.com/google/uuid"
)

// Upload is a file received from a multipart form.
type Upload struct {
	Filename string
	Content  []byte
}

// MediaService turns uploads into stored renditions attached to profiles
// and venues.
type MediaService struct {
	store          storage.Store
	employees      repository.EmployeeRepository
	establishments *EstablishmentService
	perms          PermissionChecker
	maxBytes       int64
	onChange       func(ctx context.Context, employeeID uuid.UUID)
}

func NewMediaService(
	store storage.Store,
	employees repository.EmployeeRepository,
	establishments *EstablishmentService,
	perms PermissionChecker,
	maxBytes int64,
	onChange func(ctx context.Context, employeeID uuid.UUID),
) *MediaService {
	return &MediaService{
		store:          store,
		employees:      employees,
		establishments: establishments,
		perms:          perms,
		maxBytes:       maxBytes,
		onChange:       onChange,
	}
}

// AddEmployeePhoto appends a photo to a profile, up to MaxEmployeePhotos.
func (s *MediaService) AddEmployeePhoto(ctx context.Context, actor *models.User, employeeID uuid.UUID, up Upload) (*models.Employee, error) {
	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return nil, translate(err, "employee", employeeID)
	}
	if err := s.authorizeEmployee(ctx, actor, emp); err != nil {
		return nil, err
	}
	if len(emp.Photos) >= models.MaxEmployeePhotos {
		return nil, models.NewValidationError(fmt.Sprintf("A profile can have at most %d photos", models.MaxEmployeePhotos))
	}

	url, err := s.save(ctx, fmt.Sprintf("employees/%s", employeeID), up)
	if err != nil {
		return nil, err
	}

	photos := append(append([]string{}, emp.Photos...), url)
	if err := s.employees.Update(ctx, employeeID, map[string]any{"photos": photos}); err != nil {
		return nil, translate(err, "employee", employeeID)
	}
	emp.Photos = photos
	if s.onChange != nil {
		s.onChange(ctx, employeeID)
	}
	return emp, nil
}

func (s *MediaService) authorizeEmployee(ctx context.Context, actor *models.User, emp *models.Employee) error {
	if actor.IsStaff() {
		return nil
	}
	if emp.CreatedBy != nil && *emp.CreatedBy == actor.ID {
		return nil
	}
	if emp.UserID != nil && *emp.UserID == actor.ID {
		return nil
	}
	if emp.CurrentEstablishmentID != nil {
		ok, err := s.perms.Can(ctx, actor, *emp.CurrentEstablishmentID, models.PermEditPhotos)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return models.NewForbiddenError("You cannot change photos of this employee")
}

// SetEstablishmentLogo replaces a venue's logo.
func (s *MediaService) SetEstablishmentLogo(ctx context.Context, actor *models.User, establishmentID uuid.UUID, up Upload) (*models.Establishment, error) {
	if _, err := s.establishments.Get(ctx, establishmentID); err != nil {
		return nil, err
	}
	if !actor.IsStaff() {
		ok, err := s.perms.Can(ctx, actor, establishmentID, models.PermEditPhotos)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, models.NewForbiddenError("Missing permission " + string(models.PermEditPhotos))
		}
	}

	url, err := s.save(ctx, fmt.Sprintf("establishments/%s", establishmentID), up)
	if err != nil {
		return nil, err
	}
	if err := s.establishments.SetLogo(ctx, establishmentID, url); err != nil {
		return nil, err
	}
	return s.establishments.Get(ctx, establishmentID)
}

// save processes the upload and writes both renditions under dir. It
// returns the JPEG URL.
func (s *MediaService) save(ctx context.Context, dir string, up Upload) (string, error) {
	rendition, err := media.Process(up.Content, s.maxBytes)
	if err != nil {
		return "", err
	}

	base := fmt.Sprintf("%s/%s", dir, uuid.NewString())
	url, err := s.store.Put(ctx, base+".jpg", "image/jpeg", rendition.JPEG)
	if err != nil {
		return "", err
	}
	if _, err := s.store.Put(ctx, base+".webp", "image/webp", rendition.WebP); err != nil {
		sideEffectFailed("webp_rendition", err, slog.String("key", base))
	}
	return url, nil
}
