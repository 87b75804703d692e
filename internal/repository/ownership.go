package repository

import (
	"context"
	"time"

	"nightlife/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OwnershipApproval carries the reviewer's decision for a pending claim.
type OwnershipApproval struct {
	RequestID   uuid.UUID
	ReviewerID  uuid.UUID
	AdminNotes  string
	OwnerRole   models.OwnerRole
	Permissions models.OwnerPermissions
	At          time.Time
}

// OwnershipRepository defines interface for ownership claims and links
type OwnershipRepository interface {
	CreateRequest(ctx context.Context, req *models.OwnershipRequest) error
	GetRequest(ctx context.Context, id uuid.UUID) (*models.OwnershipRequest, error)
	ListRequestsByUser(ctx context.Context, userID uuid.UUID) ([]models.OwnershipRequest, error)
	ListRequests(ctx context.Context, status models.ModerationStatus, page Page) ([]models.OwnershipRequest, int64, error)
	HasPendingRequest(ctx context.Context, userID, establishmentID uuid.UUID) (bool, error)
	// ApproveRequest runs the pending check, the owner upsert and the account
	// type promotion in one transaction. It returns a nil link when the
	// request was no longer pending.
	ApproveRequest(ctx context.Context, a OwnershipApproval) (*models.EstablishmentOwner, error)
	RejectRequest(ctx context.Context, id, reviewerID uuid.UUID, notes string, at time.Time) (bool, error)
	CancelRequest(ctx context.Context, id, userID uuid.UUID) (bool, error)

	FindOwner(ctx context.Context, userID, establishmentID uuid.UUID) (*models.EstablishmentOwner, error)
	GetOwner(ctx context.Context, id uuid.UUID) (*models.EstablishmentOwner, error)
	ListOwnedBy(ctx context.Context, userID uuid.UUID) ([]models.EstablishmentOwner, error)
	ListOwnersOf(ctx context.Context, establishmentID uuid.UUID) ([]models.EstablishmentOwner, error)
	UpdateOwner(ctx context.Context, owner *models.EstablishmentOwner) error
	DeleteOwner(ctx context.Context, id uuid.UUID) error
}

type ownershipRepository struct {
	db *gorm.DB
}

// NewOwnershipRepository creates a new OwnershipRepository
func NewOwnershipRepository(db *gorm.DB) OwnershipRepository {
	return &ownershipRepository{db: db}
}

func (r *ownershipRepository) CreateRequest(ctx context.Context, req *models.OwnershipRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *ownershipRepository) GetRequest(ctx context.Context, id uuid.UUID) (*models.OwnershipRequest, error) {
	var req models.OwnershipRequest
	if err := r.db.WithContext(ctx).Preload("Establishment").First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *ownershipRepository) ListRequestsByUser(ctx context.Context, userID uuid.UUID) ([]models.OwnershipRequest, error) {
	var rows []models.OwnershipRequest
	err := r.db.WithContext(ctx).
		Preload("Establishment").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *ownershipRepository) ListRequests(ctx context.Context, status models.ModerationStatus, page Page) ([]models.OwnershipRequest, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.OwnershipRequest{}).Where("status = ?", status)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page = page.Normalize()
	var rows []models.OwnershipRequest
	err := q.Preload("User").Preload("Establishment").
		Order("created_at ASC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&rows).Error
	return rows, total, err
}

func (r *ownershipRepository) HasPendingRequest(ctx context.Context, userID, establishmentID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.OwnershipRequest{}).
		Where("user_id = ? AND establishment_id = ? AND status = ?", userID, establishmentID, models.StatusPending).
		Count(&n).Error
	return n > 0, err
}

func (r *ownershipRepository) ApproveRequest(ctx context.Context, a OwnershipApproval) (*models.EstablishmentOwner, error) {
	var link *models.EstablishmentOwner
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req models.OwnershipRequest
		if err := tx.First(&req, "id = ?", a.RequestID).Error; err != nil {
			return err
		}

		res := tx.Model(&models.OwnershipRequest{}).
			Where("id = ? AND status = ?", a.RequestID, models.StatusPending).
			Updates(map[string]any{
				"status":      models.StatusApproved,
				"admin_notes": a.AdminNotes,
				"reviewed_by": a.ReviewerID,
				"reviewed_at": a.At,
				"updated_at":  a.At,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		reviewer := a.ReviewerID
		link = &models.EstablishmentOwner{
			UserID:          req.UserID,
			EstablishmentID: req.EstablishmentID,
			OwnerRole:       a.OwnerRole,
			Permissions:     a.Permissions,
			AssignedBy:      &reviewer,
			AssignedAt:      a.At,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "establishment_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"owner_role", "can_edit_info", "can_edit_pricing", "can_edit_photos",
				"can_edit_employees", "can_view_analytics", "assigned_by", "assigned_at", "updated_at",
			}),
		}).Create(link).Error; err != nil {
			return err
		}

		return tx.Model(&models.User{}).
			Where("id = ? AND account_type <> ?", req.UserID, models.AccountEstablishmentOwner).
			Updates(map[string]any{"account_type": models.AccountEstablishmentOwner, "updated_at": a.At}).Error
	})
	if err != nil {
		return nil, err
	}
	return link, nil
}

func (r *ownershipRepository) RejectRequest(ctx context.Context, id, reviewerID uuid.UUID, notes string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.OwnershipRequest{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Updates(map[string]any{
			"status":      models.StatusRejected,
			"admin_notes": notes,
			"reviewed_by": reviewerID,
			"reviewed_at": at,
			"updated_at":  at,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *ownershipRepository) CancelRequest(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, models.StatusPending).
		Delete(&models.OwnershipRequest{})
	return res.RowsAffected == 1, res.Error
}

func (r *ownershipRepository) FindOwner(ctx context.Context, userID, establishmentID uuid.UUID) (*models.EstablishmentOwner, error) {
	var owner models.EstablishmentOwner
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND establishment_id = ?", userID, establishmentID).
		First(&owner).Error; err != nil {
		return nil, err
	}
	return &owner, nil
}

func (r *ownershipRepository) GetOwner(ctx context.Context, id uuid.UUID) (*models.EstablishmentOwner, error) {
	var owner models.EstablishmentOwner
	if err := r.db.WithContext(ctx).First(&owner, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &owner, nil
}

func (r *ownershipRepository) ListOwnedBy(ctx context.Context, userID uuid.UUID) ([]models.EstablishmentOwner, error) {
	var rows []models.EstablishmentOwner
	err := r.db.WithContext(ctx).
		Preload("Establishment").
		Where("user_id = ?", userID).
		Order("assigned_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *ownershipRepository) ListOwnersOf(ctx context.Context, establishmentID uuid.UUID) ([]models.EstablishmentOwner, error) {
	var rows []models.EstablishmentOwner
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("establishment_id = ?", establishmentID).
		Order("assigned_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *ownershipRepository) UpdateOwner(ctx context.Context, owner *models.EstablishmentOwner) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(owner).Error
}

func (r *ownershipRepository) DeleteOwner(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.EstablishmentOwner{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
