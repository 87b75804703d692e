package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"nightlife/internal/cache"
	"nightlife/internal/middleware"
	"nightlife/internal/models"
	"nightlife/internal/observability"
	"nightlife/internal/repository"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

// PermissionChecker answers owner capability questions.
type PermissionChecker interface {
	Can(ctx context.Context, user *models.User, establishmentID uuid.UUID, perm models.Permission) (bool, error)
}

// LegacyRegistrar records numeric identifiers for new entities.
type LegacyRegistrar interface {
	Register(ctx context.Context, kind models.ModerationKind, id uuid.UUID) error
}

// CreateEmployeeInput is a new profile submission.
type CreateEmployeeInput struct {
	Name            string
	Nickname        string
	Age             *int
	Nationality     string
	Description     string
	SocialMedia     map[string]string
	IsFreelance     bool
	EstablishmentID *uuid.UUID
}

// UpdateEmployeeInput carries the editable fields. Nil pointers are left
// untouched; CurrentEstablishment triggers a reassignment when set.
type UpdateEmployeeInput struct {
	Name                 *string
	Nickname             *string
	Age                  *int
	Nationality          *string
	Description          *string
	SocialMedia          map[string]string
	IsFreelance          *bool
	VIPExpiresAt         *time.Time
	UserID               *uuid.UUID
	CurrentEstablishment models.OptionalUUID
	Position             string
}

// EmployeeList is one page of profiles.
type EmployeeList struct {
	Employees []models.Employee `json:"employees"`
	Total     int64             `json:"total"`
}

type EmployeeService struct {
	repo           repository.EmployeeRepository
	employment     repository.EmploymentRepository
	establishments repository.EstablishmentRepository
	perms          PermissionChecker
	legacy         LegacyRegistrar
	cache          cache.Cache
	now            clock
}

func NewEmployeeService(
	repo repository.EmployeeRepository,
	employment repository.EmploymentRepository,
	establishments repository.EstablishmentRepository,
	perms PermissionChecker,
	legacy LegacyRegistrar,
	c cache.Cache,
) *EmployeeService {
	return &EmployeeService{
		repo:           repo,
		employment:     employment,
		establishments: establishments,
		perms:          perms,
		legacy:         legacy,
		cache:          c,
		now:            utcNow,
	}
}

func (s *EmployeeService) Create(ctx context.Context, user *models.User, in CreateEmployeeInput) (*models.Employee, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, models.NewValidationError("name is required")
	}
	if in.EstablishmentID != nil {
		if _, err := s.establishments.GetByID(ctx, *in.EstablishmentID); err != nil {
			return nil, translate(err, "establishment", *in.EstablishmentID)
		}
	}

	emp := &models.Employee{
		Name:        name,
		Nickname:    strings.TrimSpace(in.Nickname),
		Age:         in.Age,
		Nationality: strings.TrimSpace(in.Nationality),
		Description: strings.TrimSpace(in.Description),
		SocialMedia: in.SocialMedia,
		IsFreelance: in.IsFreelance,
		CreatedBy:   &user.ID,
		Moderation:  models.Moderation{Status: models.StatusPending},
	}
	if err := s.repo.Create(ctx, emp, in.EstablishmentID); err != nil {
		return nil, translate(err, "employee", name)
	}

	s.registerLegacy(ctx, models.KindEmployee, emp.ID)
	cache.Invalidate(ctx, s.cache, []string{cache.DashboardStatsKey})
	return emp, nil
}

func (s *EmployeeService) registerLegacy(ctx context.Context, kind models.ModerationKind, id uuid.UUID) {
	if s.legacy == nil {
		return
	}
	if err := s.legacy.Register(ctx, kind, id); err != nil {
		sideEffectFailed("legacy_id", err, slog.String("kind", string(kind)), slog.String("id", id.String()))
	}
}

// GetPublic returns an approved, visible profile.
func (s *EmployeeService) GetPublic(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	return cache.Remember(ctx, s.cache, cache.EmployeeKey(id), cache.EntityTTL, func() (*models.Employee, error) {
		emp, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, translate(err, "employee", id)
		}
		if !emp.PubliclyVisible() {
			return nil, models.NewNotFoundError("employee", id)
		}
		return emp, nil
	})
}

func (s *EmployeeService) Get(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	emp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "employee", id)
	}
	return emp, nil
}

// ListPublic lists approved, visible profiles.
func (s *EmployeeService) ListPublic(ctx context.Context, establishmentID *uuid.UUID, search string, page repository.Page) (*EmployeeList, error) {
	page = page.Normalize()
	est := ""
	if establishmentID != nil {
		est = establishmentID.String()
	}
	key := cache.ListKey(cache.EmployeeListKey, est, strings.ToLower(strings.TrimSpace(search)), page.Limit, page.Offset)
	return cache.Remember(ctx, s.cache, key, cache.ListingTTL, func() (*EmployeeList, error) {
		return s.list(ctx, repository.EmployeeFilter{PublicOnly: true, EstablishmentID: establishmentID, Search: search, Page: page})
	})
}

func (s *EmployeeService) List(ctx context.Context, filter repository.EmployeeFilter) (*EmployeeList, error) {
	return s.list(ctx, filter)
}

func (s *EmployeeService) list(ctx context.Context, filter repository.EmployeeFilter) (*EmployeeList, error) {
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.Employee{}
	}
	return &EmployeeList{Employees: rows, Total: total}, nil
}

// authorize allows staff, or owners holding perm on the employee's current
// establishment.
func (s *EmployeeService) authorize(ctx context.Context, actor *models.User, emp *models.Employee, perm models.Permission) error {
	if actor.IsStaff() {
		return nil
	}
	if emp.CurrentEstablishmentID != nil && s.perms != nil {
		ok, err := s.perms.Can(ctx, actor, *emp.CurrentEstablishmentID, perm)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return models.NewForbiddenError("You cannot manage this employee")
}

func (s *EmployeeService) Update(ctx context.Context, actor *models.User, id uuid.UUID, in UpdateEmployeeInput) (*models.Employee, error) {
	emp, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, emp, models.PermEditEmployees); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, models.NewValidationError("name cannot be empty")
		}
		updates["name"] = name
	}
	if in.Nickname != nil {
		updates["nickname"] = strings.TrimSpace(*in.Nickname)
	}
	if in.Age != nil {
		updates["age"] = *in.Age
	}
	if in.Nationality != nil {
		updates["nationality"] = strings.TrimSpace(*in.Nationality)
	}
	if in.Description != nil {
		updates["description"] = strings.TrimSpace(*in.Description)
	}
	if in.SocialMedia != nil {
		emp.SocialMedia = in.SocialMedia
		updates["social_media"] = emp.SocialMedia
	}
	if in.IsFreelance != nil {
		updates["is_freelance"] = *in.IsFreelance
	}
	if in.VIPExpiresAt != nil || in.UserID != nil {
		if !actor.IsStaff() {
			return nil, models.NewForbiddenError("Only moderators can change VIP or account links")
		}
		if in.VIPExpiresAt != nil {
			updates["vip_expires_at"] = *in.VIPExpiresAt
		}
		if in.UserID != nil {
			updates["user_id"] = *in.UserID
		}
	}

	var move *repository.Reassignment
	if in.CurrentEstablishment.Set {
		target := in.CurrentEstablishment.Value
		write, err := s.checkReassignment(ctx, actor, emp, target)
		if err != nil {
			return nil, err
		}
		if write {
			move = &repository.Reassignment{
				EmployeeID:      emp.ID,
				EstablishmentID: target,
				Position:        strings.TrimSpace(in.Position),
				ActorID:         &actor.ID,
			}
		}
	}

	now := s.now()
	switch {
	case move != nil:
		move.At = now
		move.Fields = updates
		if _, err := s.applyReassignment(ctx, emp, *move); err != nil {
			return nil, err
		}
	case len(updates) > 0:
		updates["updated_at"] = now
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, translate(err, "employee", id)
		}
	}

	s.invalidate(ctx, id, affectedEstablishments(emp, move)...)
	return s.Get(ctx, id)
}

// Reassign moves the employee to establishmentID, or ends the current
// employment when it is nil.
func (s *EmployeeService) Reassign(ctx context.Context, actor *models.User, id uuid.UUID, establishmentID *uuid.UUID, position string) (row *models.EmploymentHistory, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "employment", "reassign",
		attribute.String("employee_id", id.String()))
	defer func() { observability.EndSpan(span, err) }()

	emp, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	write, err := s.checkReassignment(ctx, actor, emp, establishmentID)
	if err != nil {
		return nil, err
	}
	if !write {
		return s.currentRow(ctx, emp)
	}

	move := repository.Reassignment{
		EmployeeID:      emp.ID,
		EstablishmentID: establishmentID,
		Position:        strings.TrimSpace(position),
		ActorID:         &actor.ID,
		At:              s.now(),
	}
	row, err = s.applyReassignment(ctx, emp, move)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id, affectedEstablishments(emp, &move)...)
	return row, nil
}

// checkReassignment runs every authorization and existence check for moving
// emp to establishmentID without writing anything. It reports false when
// the move is a no-op.
func (s *EmployeeService) checkReassignment(ctx context.Context, actor *models.User, emp *models.Employee, establishmentID *uuid.UUID) (bool, error) {
	if !actor.IsStaff() {
		// owners must hold the permission on both ends of the move
		if emp.CurrentEstablishmentID != nil {
			if err := s.authorize(ctx, actor, emp, models.PermEditEmployees); err != nil {
				return false, err
			}
		}
		if establishmentID != nil {
			ok, err := s.perms.Can(ctx, actor, *establishmentID, models.PermEditEmployees)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, models.NewForbiddenError("You cannot assign employees to this establishment")
			}
		}
	}

	if establishmentID == nil {
		return emp.CurrentEstablishmentID != nil, nil
	}
	if _, err := s.establishments.GetByID(ctx, *establishmentID); err != nil {
		return false, translate(err, "establishment", *establishmentID)
	}
	if emp.CurrentEstablishmentID == nil || *emp.CurrentEstablishmentID != *establishmentID {
		return true, nil
	}
	// same establishment: only a missing current row needs repairing
	_, err := s.employment.Current(ctx, emp.ID)
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return true, nil
	default:
		return false, err
	}
}

func (s *EmployeeService) currentRow(ctx context.Context, emp *models.Employee) (*models.EmploymentHistory, error) {
	if emp.CurrentEstablishmentID == nil {
		return nil, nil
	}
	row, err := s.employment.Current(ctx, emp.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return row, err
}

func (s *EmployeeService) applyReassignment(ctx context.Context, emp *models.Employee, move repository.Reassignment) (*models.EmploymentHistory, error) {
	row, err := s.employment.Reassign(ctx, move)
	if err != nil {
		return nil, translate(err, "employee", emp.ID)
	}

	attrs := []any{slog.String("employee_id", emp.ID.String())}
	if move.EstablishmentID != nil {
		attrs = append(attrs, slog.String("establishment_id", move.EstablishmentID.String()))
	}
	middleware.Logger.InfoContext(ctx, "employee reassigned", attrs...)
	return row, nil
}

// affectedEstablishments lists the venues whose staff listing a move changes.
func affectedEstablishments(emp *models.Employee, move *repository.Reassignment) []uuid.UUID {
	if move == nil {
		return nil
	}
	var ids []uuid.UUID
	if emp.CurrentEstablishmentID != nil {
		ids = append(ids, *emp.CurrentEstablishmentID)
	}
	if move.EstablishmentID != nil {
		ids = append(ids, *move.EstablishmentID)
	}
	return ids
}

func (s *EmployeeService) History(ctx context.Context, id uuid.UUID) ([]models.EmploymentHistory, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	rows, err := s.employment.History(ctx, id)
	if rows == nil {
		rows = []models.EmploymentHistory{}
	}
	return rows, err
}

// SetVisibility hides or shows a profile without touching its status.
func (s *EmployeeService) SetVisibility(ctx context.Context, actor *models.User, id uuid.UUID, hidden bool, reason string) (*models.Employee, error) {
	emp, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, emp, models.PermEditEmployees); err != nil {
		return nil, err
	}

	now := s.now()
	updates := map[string]any{"is_hidden": hidden, "updated_at": now}
	if hidden {
		updates["hidden_by"] = actor.ID
		updates["hidden_at"] = now
		updates["hidden_reason"] = strings.TrimSpace(reason)
	} else {
		updates["hidden_by"] = nil
		updates["hidden_at"] = nil
		updates["hidden_reason"] = ""
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, translate(err, "employee", id)
	}
	s.invalidate(ctx, id)
	return s.Get(ctx, id)
}

// Vote records the caller's existence vote and returns the new tally.
func (s *EmployeeService) Vote(ctx context.Context, user *models.User, id uuid.UUID, vote models.VoteType) (*models.VoteTally, error) {
	if !vote.Valid() {
		return nil, models.NewValidationError("vote_type must be exists or not_exists")
	}
	emp, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if emp.Status != models.StatusApproved {
		return nil, models.NewNotFoundError("employee", id)
	}
	if err := s.repo.UpsertVote(ctx, &models.EmployeeExistenceVote{EmployeeID: id, UserID: user.ID, VoteType: vote}); err != nil {
		return nil, err
	}
	return s.repo.Tally(ctx, id, &user.ID)
}

func (s *EmployeeService) Votes(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (*models.VoteTally, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.Tally(ctx, id, userID)
}

// RequestSelfRemoval hides the profile at the request of the person it
// describes. Staff may file it on their behalf.
func (s *EmployeeService) RequestSelfRemoval(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Employee, error) {
	emp, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	linked := emp.UserID != nil && *emp.UserID == actor.ID
	if !linked && !actor.IsStaff() {
		return nil, models.NewForbiddenError("Only the linked employee account can request removal")
	}

	now := s.now()
	if err := s.repo.Update(ctx, id, map[string]any{
		"is_hidden":                 true,
		"hidden_by":                 actor.ID,
		"hidden_at":                 now,
		"hidden_reason":             "self-removal requested",
		"self_removal_requested_at": now,
		"updated_at":                now,
	}); err != nil {
		return nil, translate(err, "employee", id)
	}
	s.invalidate(ctx, id)
	return s.Get(ctx, id)
}

func (s *EmployeeService) SetVerification(ctx context.Context, actor *models.User, id uuid.UUID, verified bool) (*models.Employee, error) {
	if !actor.IsStaff() {
		return nil, models.NewForbiddenError("Moderator or admin role required")
	}
	updates := map[string]any{"is_verified": verified, "updated_at": s.now()}
	if verified {
		updates["verified_at"] = s.now()
	} else {
		updates["verified_at"] = nil
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, translate(err, "employee", id)
	}
	s.invalidate(ctx, id)
	return s.Get(ctx, id)
}

func (s *EmployeeService) invalidate(ctx context.Context, id uuid.UUID, establishments ...uuid.UUID) {
	keys := []string{cache.EmployeeKey(id)}
	for _, estID := range establishments {
		keys = append(keys, cache.EstablishmentKey(estID))
	}
	cache.Invalidate(ctx, s.cache, keys, cache.EmployeeListKey)
}
