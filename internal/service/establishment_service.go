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

// EstablishmentInput is the body of a create or update. On update, nil
// fields are left untouched.
type EstablishmentInput struct {
	Name           *string
	Address        *string
	Zone           *string
	GridRow        *int
	GridCol        *int
	CategoryID     *uuid.UUID
	Description    *string
	Phone          *string
	Website        *string
	OpeningHours   *string
	LadydrinkPrice *decimal.NullDecimal
	BarfinePrice   *decimal.NullDecimal
	RoomsPrice     *decimal.NullDecimal
}

// EstablishmentDetail is the public venue page.
type EstablishmentDetail struct {
	models.Establishment
	Consumables []models.EstablishmentConsumable `json:"consumables"`
	Employees   []models.Employee                `json:"employees"`
}

// EstablishmentList is one page of venues.
type EstablishmentList struct {
	Establishments []models.Establishment `json:"establishments"`
	Total          int64                  `json:"total"`
}

type EstablishmentService struct {
	repo        repository.EstablishmentRepository
	employees   repository.EmployeeRepository
	consumables repository.ConsumableRepository
	perms       PermissionChecker
	legacy      LegacyRegistrar
	cache       cache.Cache
	now         clock
}

func NewEstablishmentService(
	repo repository.EstablishmentRepository,
	employees repository.EmployeeRepository,
	consumables repository.ConsumableRepository,
	perms PermissionChecker,
	legacy LegacyRegistrar,
	c cache.Cache,
) *EstablishmentService {
	return &EstablishmentService{
		repo:        repo,
		employees:   employees,
		consumables: consumables,
		perms:       perms,
		legacy:      legacy,
		cache:       c,
		now:         utcNow,
	}
}

// Create stores a user submission awaiting review.
func (s *EstablishmentService) Create(ctx context.Context, user *models.User, in EstablishmentInput) (*models.Establishment, error) {
	return s.create(ctx, user, in, models.StatusPending)
}

// AdminCreate stores a venue that is live immediately.
func (s *EstablishmentService) AdminCreate(ctx context.Context, user *models.User, in EstablishmentInput) (*models.Establishment, error) {
	if !user.IsStaff() {
		return nil, models.NewForbiddenError("Moderator or admin role required")
	}
	return s.create(ctx, user, in, models.StatusApproved)
}

func (s *EstablishmentService) create(ctx context.Context, user *models.User, in EstablishmentInput, status models.ModerationStatus) (*models.Establishment, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, models.NewValidationError("name is required")
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	est := &models.Establishment{CreatedBy: &user.ID, Moderation: models.Moderation{Status: status}}
	if status == models.StatusApproved {
		now := s.now()
		est.ModeratedBy = &user.ID
		est.ModeratedAt = &now
	}
	applyEstablishmentInput(est, in)

	if err := s.repo.Create(ctx, est); err != nil {
		return nil, translate(err, "establishment", est.Name)
	}
	if s.legacy != nil {
		if err := s.legacy.Register(ctx, models.KindEstablishment, est.ID); err != nil {
			sideEffectFailed("legacy_id", err)
		}
	}

	keys := []string{cache.DashboardStatsKey}
	var prefixes []string
	if status == models.StatusApproved {
		prefixes = append(prefixes, cache.EstablishmentListKey)
	}
	cache.Invalidate(ctx, s.cache, keys, prefixes...)
	return est, nil
}

func applyEstablishmentInput(est *models.Establishment, in EstablishmentInput) {
	str := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	str(&est.Name, in.Name)
	str(&est.Address, in.Address)
	str(&est.Zone, in.Zone)
	str(&est.Description, in.Description)
	str(&est.Phone, in.Phone)
	str(&est.Website, in.Website)
	str(&est.OpeningHours, in.OpeningHours)
	est.GridRow = in.GridRow
	est.GridCol = in.GridCol
	est.CategoryID = in.CategoryID
	if in.LadydrinkPrice != nil {
		est.LadydrinkPrice = *in.LadydrinkPrice
	}
	if in.BarfinePrice != nil {
		est.BarfinePrice = *in.BarfinePrice
	}
	if in.RoomsPrice != nil {
		est.RoomsPrice = *in.RoomsPrice
	}
}

func (s *EstablishmentService) checkCategory(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	ok, err := s.repo.CategoryExists(ctx, *id)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewValidationError("category_id does not exist")
	}
	return nil
}

func (s *EstablishmentService) Get(ctx context.Context, id uuid.UUID) (*models.Establishment, error) {
	est, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "establishment", id)
	}
	return est, nil
}

// GetPublic returns an approved venue with its price list and current staff.
func (s *EstablishmentService) GetPublic(ctx context.Context, id uuid.UUID) (*EstablishmentDetail, error) {
	return cache.Remember(ctx, s.cache, cache.EstablishmentKey(id), cache.EntityTTL, func() (*EstablishmentDetail, error) {
		est, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if est.Status != models.StatusApproved {
			return nil, models.NewNotFoundError("establishment", id)
		}

		consumables, err := s.consumables.ListForEstablishment(ctx, id)
		if err != nil {
			return nil, err
		}
		staff, _, err := s.employees.List(ctx, repository.EmployeeFilter{
			PublicOnly:      true,
			EstablishmentID: &id,
			Page:            repository.Page{Limit: 100},
		})
		if err != nil {
			return nil, err
		}
		if consumables == nil {
			consumables = []models.EstablishmentConsumable{}
		}
		if staff == nil {
			staff = []models.Employee{}
		}
		return &EstablishmentDetail{Establishment: *est, Consumables: consumables, Employees: staff}, nil
	})
}

// ListPublic lists approved venues.
func (s *EstablishmentService) ListPublic(ctx context.Context, filter repository.EstablishmentFilter) (*EstablishmentList, error) {
	filter.Status = models.StatusApproved
	filter.Page = filter.Page.Normalize()
	filter.Search = strings.TrimSpace(filter.Search)
	category := ""
	if filter.CategoryID != nil {
		category = filter.CategoryID.String()
	}
	key := cache.ListKey(cache.EstablishmentListKey, filter.Zone, category, strings.ToLower(filter.Search), filter.Page.Limit, filter.Page.Offset)
	return cache.Remember(ctx, s.cache, key, cache.ListingTTL, func() (*EstablishmentList, error) {
		return s.List(ctx, filter)
	})
}

func (s *EstablishmentService) List(ctx context.Context, filter repository.EstablishmentFilter) (*EstablishmentList, error) {
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.Establishment{}
	}
	return &EstablishmentList{Establishments: rows, Total: total}, nil
}

func (s *EstablishmentService) Categories(ctx context.Context) ([]models.EstablishmentCategory, error) {
	return cache.Remember(ctx, s.cache, cache.CategoriesKey, cache.CategoriesTTL, func() ([]models.EstablishmentCategory, error) {
		rows, err := s.repo.Categories(ctx)
		if rows == nil {
			rows = []models.EstablishmentCategory{}
		}
		return rows, err
	})
}

// Update applies an edit. Staff may change every field; owners only the
// groups their permissions cover.
func (s *EstablishmentService) Update(ctx context.Context, actor *models.User, id uuid.UUID, in EstablishmentInput) (*models.Establishment, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if !actor.IsStaff() {
		if err := s.authorizeOwnerEdit(ctx, actor, id, in); err != nil {
			return nil, err
		}
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	updates := establishmentUpdates(in)
	if name, ok := updates["name"]; ok && name == "" {
		return nil, models.NewValidationError("name cannot be empty")
	}
	if len(updates) == 0 {
		return s.Get(ctx, id)
	}
	updates["updated_at"] = s.now()
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, translate(err, "establishment", id)
	}
	s.invalidate(ctx, id)
	return s.Get(ctx, id)
}

func (s *EstablishmentService) authorizeOwnerEdit(ctx context.Context, actor *models.User, id uuid.UUID, in EstablishmentInput) error {
	if in.Zone != nil || in.GridRow != nil || in.GridCol != nil || in.CategoryID != nil {
		return models.NewForbiddenError("Only moderators can move or recategorize an establishment")
	}
	info := in.Name != nil || in.Address != nil || in.Description != nil ||
		in.Phone != nil || in.Website != nil || in.OpeningHours != nil
	pricing := in.LadydrinkPrice != nil || in.BarfinePrice != nil || in.RoomsPrice != nil

	need := map[models.Permission]bool{models.PermEditInfo: info, models.PermEditPricing: pricing}
	for perm, wanted := range need {
		if !wanted {
			continue
		}
		ok, err := s.perms.Can(ctx, actor, id, perm)
		if err != nil {
			return err
		}
		if !ok {
			return models.NewForbiddenError("Missing permission " + string(perm)).WithContext("permission", perm)
		}
	}
	if !info && !pricing {
		ok, err := s.perms.Can(ctx, actor, id, models.PermEditInfo)
		if err != nil {
			return err
		}
		if !ok {
			return models.NewForbiddenError("You do not manage this establishment")
		}
	}
	return nil
}

func establishmentUpdates(in EstablishmentInput) map[string]any {
	updates := map[string]any{}
	str := func(col string, v *string) {
		if v != nil {
			updates[col] = strings.TrimSpace(*v)
		}
	}
	str("name", in.Name)
	str("address", in.Address)
	str("zone", in.Zone)
	str("description", in.Description)
	str("phone", in.Phone)
	str("website", in.Website)
	str("opening_hours", in.OpeningHours)
	if in.GridRow != nil {
		updates["grid_row"] = *in.GridRow
	}
	if in.GridCol != nil {
		updates["grid_col"] = *in.GridCol
	}
	if in.CategoryID != nil {
		updates["category_id"] = *in.CategoryID
	}
	if in.LadydrinkPrice != nil {
		updates["ladydrink_price"] = *in.LadydrinkPrice
	}
	if in.BarfinePrice != nil {
		updates["barfine_price"] = *in.BarfinePrice
	}
	if in.RoomsPrice != nil {
		updates["rooms_price"] = *in.RoomsPrice
	}
	return updates
}

// SetLogo records the public URL of an uploaded logo.
func (s *EstablishmentService) SetLogo(ctx context.Context, id uuid.UUID, url string) error {
	if err := s.repo.Update(ctx, id, map[string]any{"logo_url": url, "updated_at": s.now()}); err != nil {
		return translate(err, "establishment", id)
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *EstablishmentService) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return models.NewForbiddenError("Admin role required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err, "establishment", id)
	}
	s.invalidate(ctx, id)
	cache.Invalidate(ctx, s.cache, []string{cache.DashboardStatsKey})
	return nil
}

func (s *EstablishmentService) invalidate(ctx context.Context, id uuid.UUID) {
	cache.Invalidate(ctx, s.cache, []string{cache.EstablishmentKey(id)}, cache.EstablishmentListKey)
}
