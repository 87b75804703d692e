package repository

import (
	"context"

	"nightlife/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LegacyIDRepository defines interface for the numeric identifier mapping table
type LegacyIDRepository interface {
	// Register stores the mapping unless the number is already taken and
	// returns the entity the number resolves to afterwards.
	Register(ctx context.Context, entityType string, legacyID int64, entityID uuid.UUID) (uuid.UUID, error)
	Resolve(ctx context.Context, entityType string, legacyID int64) (uuid.UUID, error)
	// Unmapped returns ids in table that have no mapping for entityType yet,
	// in creation order.
	Unmapped(ctx context.Context, entityType, table string, page Page) ([]uuid.UUID, error)
}

type legacyIDRepository struct {
	db *gorm.DB
}

// NewLegacyIDRepository creates a new LegacyIDRepository
func NewLegacyIDRepository(db *gorm.DB) LegacyIDRepository {
	return &legacyIDRepository{db: db}
}

func (r *legacyIDRepository) Register(ctx context.Context, entityType string, legacyID int64, entityID uuid.UUID) (uuid.UUID, error) {
	row := models.LegacyIDMapping{EntityType: entityType, LegacyID: legacyID, EntityID: entityID}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return uuid.Nil, err
	}
	return r.Resolve(ctx, entityType, legacyID)
}

func (r *legacyIDRepository) Resolve(ctx context.Context, entityType string, legacyID int64) (uuid.UUID, error) {
	var row models.LegacyIDMapping
	if err := r.db.WithContext(ctx).
		Where("entity_type = ? AND legacy_id = ?", entityType, legacyID).
		First(&row).Error; err != nil {
		return uuid.Nil, err
	}
	return row.EntityID, nil
}

func (r *legacyIDRepository) Unmapped(ctx context.Context, entityType, table string, page Page) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Table(table).
		Where("NOT EXISTS (SELECT 1 FROM legacy_id_mappings m WHERE m.entity_type = ? AND m.entity_id = "+table+".id)", entityType).
		Order("created_at ASC, id ASC").
		Limit(page.Limit).
		Offset(page.Offset).
		Pluck("id", &ids).Error
	return ids, err
}
