package repository

import (
	"context"
	"fmt"
	"time"

	"nightlife/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ModerationRepository reads and transitions the review state of moderated entities.
type ModerationRepository interface {
	Find(ctx context.Context, kind models.ModerationKind, id uuid.UUID) (*models.ModerationRecord, error)
	// Transition moves a row from one status to another and reports whether
	// the row was still in the expected status.
	Transition(ctx context.Context, kind models.ModerationKind, id uuid.UUID, t StatusTransition) (bool, error)
}

// StatusTransition describes a compare-and-set status write.
type StatusTransition struct {
	From        models.ModerationStatus
	To          models.ModerationStatus
	ModeratorID uuid.UUID
	Reason      string
	At          time.Time
}

type moderationRepository struct {
	db *gorm.DB
}

// NewModerationRepository creates a new ModerationRepository
func NewModerationRepository(db *gorm.DB) ModerationRepository {
	return &moderationRepository{db: db}
}

// creator and label columns per kind
var moderationProjection = map[models.ModerationKind]string{
	models.KindEstablishment: "id, status, created_by, name AS label",
	models.KindEmployee:      "id, status, created_by, name AS label",
	models.KindComment:       "id, status, user_id AS created_by, content AS label",
}

func (r *moderationRepository) Find(ctx context.Context, kind models.ModerationKind, id uuid.UUID) (*models.ModerationRecord, error) {
	projection, ok := moderationProjection[kind]
	if !ok {
		return nil, fmt.Errorf("unknown moderation kind %q", kind)
	}

	var rec models.ModerationRecord
	res := r.db.WithContext(ctx).
		Table(kind.Table()).
		Select(projection).
		Where("id = ?", id).
		Limit(1).
		Scan(&rec)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rec, nil
}

func (r *moderationRepository) Transition(ctx context.Context, kind models.ModerationKind, id uuid.UUID, t StatusTransition) (bool, error) {
	if kind.Table() == "" {
		return false, fmt.Errorf("unknown moderation kind %q", kind)
	}

	updates := map[string]any{
		"status":           t.To,
		"moderated_by":     t.ModeratorID,
		"moderated_at":     t.At,
		"rejection_reason": t.Reason,
		"updated_at":       t.At,
	}
	res := r.db.WithContext(ctx).
		Table(kind.Table()).
		Where("id = ? AND status = ?", id, t.From).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
