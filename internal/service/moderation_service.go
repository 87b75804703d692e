package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"nightlife/internal/cache"
	"nightlife/internal/middleware"
	"nightlife/internal/models"
	"nightlife/internal/observability"
	"nightlife/internal/repository"

	"github.com/google/uuid"
)

// Notifier delivers in-app notifications.
type Notifier interface {
	Notify(ctx context.Context, in NotifyInput) (*models.Notification, error)
}

// XPAwarder grants experience points.
type XPAwarder interface {
	Award(ctx context.Context, in AwardInput) (*models.UserPoints, error)
}

// ModerationResult reports the outcome of a review decision. Changed is
// false when the item already had the requested status.
type ModerationResult struct {
	Kind    models.ModerationKind   `json:"kind"`
	ID      uuid.UUID               `json:"id"`
	Status  models.ModerationStatus `json:"status"`
	Changed bool                    `json:"changed"`
}

// ModerationService drives pending items to approved or rejected.
type ModerationService struct {
	repo     repository.ModerationRepository
	notifier Notifier
	xp       XPAwarder
	cache    cache.Cache
	now      clock
}

func NewModerationService(repo repository.ModerationRepository, notifier Notifier, xp XPAwarder, c cache.Cache) *ModerationService {
	return &ModerationService{repo: repo, notifier: notifier, xp: xp, cache: c, now: utcNow}
}

// Approve moves a pending item to approved. Repeating an approval is a no-op.
func (s *ModerationService) Approve(ctx context.Context, kind models.ModerationKind, id uuid.UUID, moderator *models.User) (*ModerationResult, error) {
	return s.decide(ctx, kind, id, moderator, models.StatusApproved, "", pendingOnly)
}

// Reject moves a pending item to rejected. The reason is checked before any read.
func (s *ModerationService) Reject(ctx context.Context, kind models.ModerationKind, id uuid.UUID, moderator *models.User, reason string) (*ModerationResult, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, models.NewCodedValidationError(models.CodeReasonRequired, "A rejection reason is required")
	}
	return s.decide(ctx, kind, id, moderator, models.StatusRejected, reason, pendingOnly)
}

// TakeDown rejects an item that may already be live, as when an abuse
// report against it is upheld.
func (s *ModerationService) TakeDown(ctx context.Context, kind models.ModerationKind, id uuid.UUID, moderator *models.User, reason string) (*ModerationResult, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, models.NewCodedValidationError(models.CodeReasonRequired, "A rejection reason is required")
	}
	return s.decide(ctx, kind, id, moderator, models.StatusRejected, reason, []models.ModerationStatus{models.StatusPending, models.StatusApproved})
}

var pendingOnly = []models.ModerationStatus{models.StatusPending}

func (s *ModerationService) decide(
	ctx context.Context,
	kind models.ModerationKind,
	id uuid.UUID,
	moderator *models.User,
	to models.ModerationStatus,
	reason string,
	sources []models.ModerationStatus,
) (*ModerationResult, error) {
	if !moderator.IsStaff() {
		return nil, models.NewForbiddenError("Moderator or admin role required")
	}

	ctx, span := observability.StartServiceSpan(ctx, "moderation", "decide")
	var err error
	defer func() { observability.EndSpan(span, err) }()

	rec, err := s.repo.Find(ctx, kind, id)
	if err != nil {
		err = translate(err, string(kind), id)
		return nil, err
	}

	result := &ModerationResult{Kind: kind, ID: id, Status: to}
	if rec.Status == to {
		observability.ModerationTransitions.WithLabelValues(string(kind), string(to), "noop").Inc()
		return result, nil
	}
	if !slices.Contains(sources, rec.Status) {
		observability.ModerationTransitions.WithLabelValues(string(kind), string(to), "invalid").Inc()
		err = models.NewTransitionError(string(kind), rec.Status, to)
		return nil, err
	}

	applied, err := s.repo.Transition(ctx, kind, id, repository.StatusTransition{
		From:        rec.Status,
		To:          to,
		ModeratorID: moderator.ID,
		Reason:      reason,
		At:          s.now(),
	})
	if err != nil {
		return nil, err
	}
	if !applied {
		// another moderator decided first
		current, findErr := s.repo.Find(ctx, kind, id)
		if findErr != nil {
			err = translate(findErr, string(kind), id)
			return nil, err
		}
		if current.Status == to {
			observability.ModerationTransitions.WithLabelValues(string(kind), string(to), "noop").Inc()
			return result, nil
		}
		err = models.NewTransitionError(string(kind), current.Status, to)
		return nil, err
	}

	observability.ModerationTransitions.WithLabelValues(string(kind), string(to), "applied").Inc()
	result.Changed = true
	middleware.Logger.InfoContext(ctx, "moderation decision",
		slog.String("kind", string(kind)),
		slog.String("id", id.String()),
		slog.String("status", string(to)),
		slog.String("moderator_id", moderator.ID.String()))

	s.invalidate(ctx, kind, id)
	s.afterTransition(ctx, rec, kind, to, reason)
	return result, nil
}

func (s *ModerationService) invalidate(ctx context.Context, kind models.ModerationKind, id uuid.UUID) {
	switch kind {
	case models.KindEstablishment:
		cache.Invalidate(ctx, s.cache, []string{cache.EstablishmentKey(id), cache.DashboardStatsKey}, cache.EstablishmentListKey)
	case models.KindEmployee:
		cache.Invalidate(ctx, s.cache, []string{cache.EmployeeKey(id), cache.DashboardStatsKey}, cache.EmployeeListKey)
	default:
		cache.Invalidate(ctx, s.cache, []string{cache.DashboardStatsKey})
	}
}

// afterTransition runs the best-effort follow-ups of a decision.
func (s *ModerationService) afterTransition(ctx context.Context, rec *models.ModerationRecord, kind models.ModerationKind, to models.ModerationStatus, reason string) {
	if rec.CreatedBy == nil {
		return
	}
	creator := *rec.CreatedBy
	entityID := rec.ID

	if s.notifier != nil {
		in := NotifyInput{
			UserID:     creator,
			EntityType: string(kind),
			EntityID:   &entityID,
		}
		if to == models.StatusApproved {
			in.Type = models.NotifyContentApproved
			in.Title = fmt.Sprintf("Your %s was approved", kind)
			in.Message = fmt.Sprintf("%q is now visible to everyone.", rec.Label)
		} else {
			in.Type = models.NotifyContentRejected
			in.Title = fmt.Sprintf("Your %s was rejected", kind)
			in.Message = reason
		}
		if _, err := s.notifier.Notify(ctx, in); err != nil {
			sideEffectFailed("notification", err, slog.String("kind", string(kind)), slog.String("id", entityID.String()))
		}
	}

	if kind == models.KindEmployee && to == models.StatusApproved && s.xp != nil {
		if _, err := s.xp.Award(ctx, AwardInput{
			UserID:     creator,
			Amount:     models.XPEmployeeProfileApproved,
			Reason:     ReasonEmployeeProfileApproved,
			EntityType: string(kind),
			EntityID:   &entityID,
		}); err != nil {
			sideEffectFailed("xp_award", err, slog.String("kind", string(kind)), slog.String("id", entityID.String()))
		}
	}
}
