package service

import (
	"context"
	"strings"

	"nightlife/internal/cache"
	"nightlife/internal/models"
	"nightlife/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConsumableTemplateInput creates or edits a catalog item.
type ConsumableTemplateInput struct {
	Name         *string
	Category     *string
	Icon         *string
	DefaultPrice *decimal.NullDecimal
	IsActive     *bool
}

// PriceOverride sets a venue's price for a catalog item.
type PriceOverride struct {
	Price       decimal.Decimal
	IsAvailable *bool
}

type ConsumableService struct {
	repo           repository.ConsumableRepository
	establishments repository.EstablishmentRepository
	perms          PermissionChecker
	cache          cache.Cache
}

func NewConsumableService(repo repository.ConsumableRepository, establishments repository.EstablishmentRepository, perms PermissionChecker, c cache.Cache) *ConsumableService {
	return &ConsumableService{repo: repo, establishments: establishments, perms: perms, cache: c}
}

func (s *ConsumableService) ListActive(ctx context.Context) ([]models.ConsumableTemplate, error) {
	return cache.Remember(ctx, s.cache, cache.ConsumablesKey, cache.ConsumablesTTL, func() ([]models.ConsumableTemplate, error) {
		rows, err := s.repo.ListActive(ctx)
		if rows == nil {
			rows = []models.ConsumableTemplate{}
		}
		return rows, err
	})
}

func (s *ConsumableService) CreateTemplate(ctx context.Context, in ConsumableTemplateInput) (*models.ConsumableTemplate, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, models.NewValidationError("name is required")
	}
	if in.Category == nil || strings.TrimSpace(*in.Category) == "" {
		return nil, models.NewValidationError("category is required")
	}
	t := &models.ConsumableTemplate{IsActive: true}
	applyTemplateInput(t, in)
	if err := s.repo.CreateTemplate(ctx, t); err != nil {
		return nil, translate(err, "consumable", t.Name)
	}
	cache.Invalidate(ctx, s.cache, []string{cache.ConsumablesKey})
	return t, nil
}

func (s *ConsumableService) UpdateTemplate(ctx context.Context, id uuid.UUID, in ConsumableTemplateInput) (*models.ConsumableTemplate, error) {
	t, err := s.repo.GetTemplate(ctx, id)
	if err != nil {
		return nil, translate(err, "consumable", id)
	}
	applyTemplateInput(t, in)
	if t.Name == "" || t.Category == "" {
		return nil, models.NewValidationError("name and category cannot be empty")
	}
	if err := s.repo.UpdateTemplate(ctx, t); err != nil {
		return nil, translate(err, "consumable", id)
	}
	cache.Invalidate(ctx, s.cache, []string{cache.ConsumablesKey}, cache.EstablishmentPrefix)
	return t, nil
}

func applyTemplateInput(t *models.ConsumableTemplate, in ConsumableTemplateInput) {
	if in.Name != nil {
		t.Name = strings.TrimSpace(*in.Name)
	}
	if in.Category != nil {
		t.Category = strings.TrimSpace(*in.Category)
	}
	if in.Icon != nil {
		t.Icon = strings.TrimSpace(*in.Icon)
	}
	if in.DefaultPrice != nil {
		t.DefaultPrice = *in.DefaultPrice
	}
	if in.IsActive != nil {
		t.IsActive = *in.IsActive
	}
}

func (s *ConsumableService) authorize(ctx context.Context, actor *models.User, establishmentID uuid.UUID) error {
	if actor.IsStaff() {
		return nil
	}
	ok, err := s.perms.Can(ctx, actor, establishmentID, models.PermEditPricing)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewForbiddenError("Missing permission " + string(models.PermEditPricing))
	}
	return nil
}

// SetPrice upserts a venue's override of a catalog item.
func (s *ConsumableService) SetPrice(ctx context.Context, actor *models.User, establishmentID, consumableID uuid.UUID, in PriceOverride) (*models.EstablishmentConsumable, error) {
	if in.Price.IsNegative() {
		return nil, models.NewValidationError("price cannot be negative")
	}
	if _, err := s.establishments.GetByID(ctx, establishmentID); err != nil {
		return nil, translate(err, "establishment", establishmentID)
	}
	if err := s.authorize(ctx, actor, establishmentID); err != nil {
		return nil, err
	}
	tmpl, err := s.repo.GetTemplate(ctx, consumableID)
	if err != nil {
		return nil, translate(err, "consumable", consumableID)
	}

	available := true
	if in.IsAvailable != nil {
		available = *in.IsAvailable
	}
	row := &models.EstablishmentConsumable{
		EstablishmentID: establishmentID,
		ConsumableID:    consumableID,
		Price:           in.Price.Round(2),
		IsAvailable:     available,
	}
	if err := s.repo.UpsertForEstablishment(ctx, row); err != nil {
		return nil, err
	}
	row.Consumable = tmpl
	cache.Invalidate(ctx, s.cache, []string{cache.EstablishmentKey(establishmentID)})
	return row, nil
}

func (s *ConsumableService) RemovePrice(ctx context.Context, actor *models.User, establishmentID, consumableID uuid.UUID) error {
	if err := s.authorize(ctx, actor, establishmentID); err != nil {
		return err
	}
	if err := s.repo.DeleteForEstablishment(ctx, establishmentID, consumableID); err != nil {
		return translate(err, "consumable", consumableID)
	}
	cache.Invalidate(ctx, s.cache, []string{cache.EstablishmentKey(establishmentID)})
	return nil
}
