package repository

import (
	"context"
	"encoding/json"
	"strings"

	"nightlife/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EmployeeFilter narrows employee listings. PublicOnly restricts the result
// to approved, non-hidden profiles.
type EmployeeFilter struct {
	Status          models.ModerationStatus
	PublicOnly      bool
	EstablishmentID *uuid.UUID
	Search          string
	Page            Page
}

// EmployeeRepository defines interface for employee profile operations
type EmployeeRepository interface {
	// Create inserts the profile and, when establishmentID is set, its first
	// current employment row in the same transaction.
	Create(ctx context.Context, emp *models.Employee, establishmentID *uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]models.Employee, int64, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	UpsertVote(ctx context.Context, vote *models.EmployeeExistenceVote) error
	Tally(ctx context.Context, employeeID uuid.UUID, userID *uuid.UUID) (*models.VoteTally, error)
}

type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new EmployeeRepository
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, emp *models.Employee, establishmentID *uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		emp.CurrentEstablishmentID = establishmentID
		if err := tx.Create(emp).Error; err != nil {
			return err
		}
		if establishmentID == nil {
			return nil
		}
		return tx.Create(&models.EmploymentHistory{
			EmployeeID:      emp.ID,
			EstablishmentID: *establishmentID,
			IsCurrent:       true,
			StartDate:       emp.CreatedAt,
			CreatedBy:       emp.CreatedBy,
		}).Error
	})
}

func (r *employeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	var emp models.Employee
	if err := r.db.WithContext(ctx).First(&emp, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *employeeRepository) List(ctx context.Context, filter EmployeeFilter) ([]models.Employee, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Employee{})
	if filter.PublicOnly {
		q = q.Where("status = ? AND is_hidden = ?", models.StatusApproved, false)
	} else if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.EstablishmentID != nil {
		q = q.Where("current_establishment_id = ?", *filter.EstablishmentID)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(nickname) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page.Normalize()
	var rows []models.Employee
	err := q.Order("created_at DESC").Limit(page.Limit).Offset(page.Offset).Find(&rows).Error
	return rows, total, err
}

// serializedColumns are stored as JSON text; map updates bypass the field
// serializer so they are encoded here.
var serializedColumns = []string{"photos", "social_media"}

func (r *employeeRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	for _, col := range serializedColumns {
		v, ok := updates[col]
		if !ok {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		updates[col] = string(raw)
	}
	res := r.db.WithContext(ctx).Model(&models.Employee{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *employeeRepository) UpsertVote(ctx context.Context, vote *models.EmployeeExistenceVote) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employee_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"vote_type", "updated_at"}),
	}).Create(vote).Error
}

func (r *employeeRepository) Tally(ctx context.Context, employeeID uuid.UUID, userID *uuid.UUID) (*models.VoteTally, error) {
	var rows []struct {
		VoteType models.VoteType
		Count    int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.EmployeeExistenceVote{}).
		Select("vote_type, COUNT(*) AS count").
		Where("employee_id = ?", employeeID).
		Group("vote_type").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	tally := &models.VoteTally{}
	for _, row := range rows {
		switch row.VoteType {
		case models.VoteExists:
			tally.Exists = row.Count
		case models.VoteNotExists:
			tally.NotExists = row.Count
		}
	}

	if userID != nil {
		var own models.EmployeeExistenceVote
		err := r.db.WithContext(ctx).
			Where("employee_id = ? AND user_id = ?", employeeID, *userID).
			Limit(1).
			Find(&own).Error
		if err != nil {
			return nil, err
		}
		if own.VoteType != "" {
			v := own.VoteType
			tally.UserVote = &v
		}
	}
	return tally, nil
}
