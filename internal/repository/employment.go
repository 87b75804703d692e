package repository

import (
	"context"
	"time"

	"nightlife/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reassignment moves an employee to a new establishment. A nil
// EstablishmentID ends the current employment without starting another.
// Fields are extra employee columns written in the same transaction.
type Reassignment struct {
	EmployeeID      uuid.UUID
	EstablishmentID *uuid.UUID
	Position        string
	ActorID         *uuid.UUID
	At              time.Time
	Fields          map[string]any
}

// EmploymentRepository defines interface for employment history operations
type EmploymentRepository interface {
	Current(ctx context.Context, employeeID uuid.UUID) (*models.EmploymentHistory, error)
	History(ctx context.Context, employeeID uuid.UUID) ([]models.EmploymentHistory, error)
	// Reassign ends every current row, inserts the new current row and updates
	// the employee's denormalized establishment in one transaction.
	Reassign(ctx context.Context, r Reassignment) (*models.EmploymentHistory, error)
}

type employmentRepository struct {
	db *gorm.DB
}

// NewEmploymentRepository creates a new EmploymentRepository
func NewEmploymentRepository(db *gorm.DB) EmploymentRepository {
	return &employmentRepository{db: db}
}

func (r *employmentRepository) Current(ctx context.Context, employeeID uuid.UUID) (*models.EmploymentHistory, error) {
	var row models.EmploymentHistory
	if err := r.db.WithContext(ctx).
		Where("employee_id = ? AND is_current = ?", employeeID, true).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *employmentRepository) History(ctx context.Context, employeeID uuid.UUID) ([]models.EmploymentHistory, error) {
	var rows []models.EmploymentHistory
	err := r.db.WithContext(ctx).
		Preload("Establishment").
		Where("employee_id = ?", employeeID).
		Order("start_date DESC, created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *employmentRepository) Reassign(ctx context.Context, re Reassignment) (*models.EmploymentHistory, error) {
	var created *models.EmploymentHistory
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.EmploymentHistory{}).
			Where("employee_id = ? AND is_current = ?", re.EmployeeID, true).
			Updates(map[string]any{"is_current": false, "end_date": re.At, "updated_at": re.At}).Error; err != nil {
			return err
		}

		if re.EstablishmentID != nil {
			created = &models.EmploymentHistory{
				EmployeeID:      re.EmployeeID,
				EstablishmentID: *re.EstablishmentID,
				Position:        re.Position,
				IsCurrent:       true,
				StartDate:       re.At,
				CreatedBy:       re.ActorID,
			}
			if err := tx.Create(created).Error; err != nil {
				return err
			}
		}

		var current any
		if re.EstablishmentID != nil {
			current = *re.EstablishmentID
		}
		updates := make(map[string]any, len(re.Fields)+2)
		for col, v := range re.Fields {
			updates[col] = v
		}
		updates["current_establishment_id"] = current
		updates["updated_at"] = re.At
		res := tx.Model(&models.Employee{}).
			Where("id = ?", re.EmployeeID).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
