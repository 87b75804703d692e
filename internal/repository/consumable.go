package repository

import (
	"context"

	"nightlife/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConsumableRepository defines interface for the consumable catalog and price overrides
type ConsumableRepository interface {
	ListActive(ctx context.Context) ([]models.ConsumableTemplate, error)
	GetTemplate(ctx context.Context, id uuid.UUID) (*models.ConsumableTemplate, error)
	CreateTemplate(ctx context.Context, t *models.ConsumableTemplate) error
	UpdateTemplate(ctx context.Context, t *models.ConsumableTemplate) error
	ListForEstablishment(ctx context.Context, establishmentID uuid.UUID) ([]models.EstablishmentConsumable, error)
	UpsertForEstablishment(ctx context.Context, ec *models.EstablishmentConsumable) error
	DeleteForEstablishment(ctx context.Context, establishmentID, consumableID uuid.UUID) error
}

type consumableRepository struct {
	db *gorm.DB
}

// NewConsumableRepository creates a new ConsumableRepository
func NewConsumableRepository(db *gorm.DB) ConsumableRepository {
	return &consumableRepository{db: db}
}

func (r *consumableRepository) ListActive(ctx context.Context) ([]models.ConsumableTemplate, error) {
	var rows []models.ConsumableTemplate
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("category ASC, name ASC").Find(&rows).Error
	return rows, err
}

func (r *consumableRepository) GetTemplate(ctx context.Context, id uuid.UUID) (*models.ConsumableTemplate, error) {
	var t models.ConsumableTemplate
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *consumableRepository) CreateTemplate(ctx context.Context, t *models.ConsumableTemplate) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *consumableRepository) UpdateTemplate(ctx context.Context, t *models.ConsumableTemplate) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *consumableRepository) ListForEstablishment(ctx context.Context, establishmentID uuid.UUID) ([]models.EstablishmentConsumable, error) {
	var rows []models.EstablishmentConsumable
	err := r.db.WithContext(ctx).
		Preload("Consumable").
		Where("establishment_id = ?", establishmentID).
		Find(&rows).Error
	return rows, err
}

func (r *consumableRepository) UpsertForEstablishment(ctx context.Context, ec *models.EstablishmentConsumable) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "establishment_id"}, {Name: "consumable_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "is_available", "updated_at"}),
	}).Create(ec).Error
}

func (r *consumableRepository) DeleteForEstablishment(ctx context.Context, establishmentID, consumableID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("establishment_id = ? AND consumable_id = ?", establishmentID, consumableID).
		Delete(&models.EstablishmentConsumable{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
