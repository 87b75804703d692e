package repository

import (
	"context"
	"strings"

	"nightlife/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EstablishmentFilter narrows establishment listings.
type EstablishmentFilter struct {
	Status     models.ModerationStatus
	Zone       string
	CategoryID *uuid.UUID
	Search     string
	Page       Page
}

// EstablishmentRepository defines interface for establishment operations
type EstablishmentRepository interface {
	Create(ctx context.Context, est *models.Establishment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Establishment, error)
	List(ctx context.Context, filter EstablishmentFilter) ([]models.Establishment, int64, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	Categories(ctx context.Context) ([]models.EstablishmentCategory, error)
	CategoryExists(ctx context.Context, id uuid.UUID) (bool, error)
}

type establishmentRepository struct {
	db *gorm.DB
}

// NewEstablishmentRepository creates a new EstablishmentRepository
func NewEstablishmentRepository(db *gorm.DB) EstablishmentRepository {
	return &establishmentRepository{db: db}
}

func (r *establishmentRepository) Create(ctx context.Context, est *models.Establishment) error {
	return r.db.WithContext(ctx).Create(est).Error
}

func (r *establishmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Establishment, error) {
	var est models.Establishment
	if err := r.db.WithContext(ctx).Preload("Category").First(&est, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &est, nil
}

func (r *establishmentRepository) List(ctx context.Context, filter EstablishmentFilter) ([]models.Establishment, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Establishment{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Zone != "" {
		q = q.Where("zone = ?", filter.Zone)
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(address) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page.Normalize()
	var rows []models.Establishment
	err := q.Preload("Category").
		Order("name ASC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&rows).Error
	return rows, total, err
}

func (r *establishmentRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.Establishment{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *establishmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Establishment{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *establishmentRepository) Categories(ctx context.Context) ([]models.EstablishmentCategory, error) {
	var cats []models.EstablishmentCategory
	err := r.db.WithContext(ctx).Order("sort_order ASC, name ASC").Find(&cats).Error
	return cats, err
}

func (r *establishmentRepository) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.EstablishmentCategory{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}
