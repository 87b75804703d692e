package repository

import (
	"context"
	"errors"

	"nightlife/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GamificationRepository defines interface for XP ledger operations
type GamificationRepository interface {
	// Award records the transaction and bumps the user's total atomically.
	Award(ctx context.Context, tx *models.XPTransaction) (*models.UserPoints, error)
	Points(ctx context.Context, userID uuid.UUID) (*models.UserPoints, error)
	RecentTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]models.XPTransaction, error)
}

type gamificationRepository struct {
	db *gorm.DB
}

// NewGamificationRepository creates a new GamificationRepository
func NewGamificationRepository(db *gorm.DB) GamificationRepository {
	return &gamificationRepository{db: db}
}

func (r *gamificationRepository) Award(ctx context.Context, xp *models.XPTransaction) (*models.UserPoints, error) {
	var points models.UserPoints
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(xp).Error; err != nil {
			return err
		}

		row := models.UserPoints{UserID: xp.UserID, TotalXP: xp.Amount, UpdatedAt: xp.CreatedAt}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"total_xp":   gorm.Expr("user_points.total_xp + ?", xp.Amount),
				"updated_at": xp.CreatedAt,
			}),
		}).Create(&row).Error; err != nil {
			return err
		}

		return tx.First(&points, "user_id = ?", xp.UserID).Error
	})
	if err != nil {
		return nil, err
	}
	return &points, nil
}

func (r *gamificationRepository) Points(ctx context.Context, userID uuid.UUID) (*models.UserPoints, error) {
	var points models.UserPoints
	err := r.db.WithContext(ctx).First(&points, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.UserPoints{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &points, nil
}

func (r *gamificationRepository) RecentTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]models.XPTransaction, error) {
	var rows []models.XPTransaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
