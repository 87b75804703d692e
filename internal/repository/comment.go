package repository

import (
	"context"
	"time"

	"nightlife/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RatingSummary is the average over approved, rated comments.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// CommentRepository defines interface for comment and report operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	ListApprovedByEmployee(ctx context.Context, employeeID uuid.UUID, page Page) ([]models.Comment, int64, error)
	List(ctx context.Context, status models.ModerationStatus, page Page) ([]models.Comment, int64, error)
	Rating(ctx context.Context, employeeID uuid.UUID) (*RatingSummary, error)

	CreateReport(ctx context.Context, report *models.CommentReport) error
	GetReport(ctx context.Context, id uuid.UUID) (*models.CommentReport, error)
	ListReports(ctx context.Context, status models.ReportStatus, page Page) ([]models.CommentReport, int64, error)
	// SetReportStatus moves a pending report to status and reports whether it was pending.
	SetReportStatus(ctx context.Context, id uuid.UUID, status models.ReportStatus, reviewerID uuid.UUID, at time.Time) (bool, error)
	ResolvePendingReports(ctx context.Context, commentID, reviewerID uuid.UUID, at time.Time) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListApprovedByEmployee(ctx context.Context, employeeID uuid.UUID, page Page) ([]models.Comment, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("employee_id = ? AND status = ?", employeeID, models.StatusApproved)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page = page.Normalize()
	var rows []models.Comment
	err := q.Preload("User").Order("created_at DESC").Limit(page.Limit).Offset(page.Offset).Find(&rows).Error
	return rows, total, err
}

func (r *commentRepository) List(ctx context.Context, status models.ModerationStatus, page Page) ([]models.Comment, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Comment{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page = page.Normalize()
	var rows []models.Comment
	err := q.Preload("User").Order("created_at ASC").Limit(page.Limit).Offset(page.Offset).Find(&rows).Error
	return rows, total, err
}

func (r *commentRepository) Rating(ctx context.Context, employeeID uuid.UUID) (*RatingSummary, error) {
	var row struct {
		Average *float64
		Count   int64
	}
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Select("AVG(rating) AS average, COUNT(rating) AS count").
		Where("employee_id = ? AND status = ? AND rating IS NOT NULL", employeeID, models.StatusApproved).
		Scan(&row).Error; err != nil {
		return nil, err
	}

	summary := &RatingSummary{Count: row.Count}
	if row.Average != nil {
		summary.Average = *row.Average
	}
	return summary, nil
}

func (r *commentRepository) CreateReport(ctx context.Context, report *models.CommentReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *commentRepository) GetReport(ctx context.Context, id uuid.UUID) (*models.CommentReport, error) {
	var report models.CommentReport
	if err := r.db.WithContext(ctx).Preload("Comment").First(&report, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *commentRepository) ListReports(ctx context.Context, status models.ReportStatus, page Page) ([]models.CommentReport, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.CommentReport{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page = page.Normalize()
	var rows []models.CommentReport
	err := q.Preload("Comment").Order("created_at ASC").Limit(page.Limit).Offset(page.Offset).Find(&rows).Error
	return rows, total, err
}

func (r *commentRepository) SetReportStatus(ctx context.Context, id uuid.UUID, status models.ReportStatus, reviewerID uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.CommentReport{}).
		Where("id = ? AND status = ?", id, models.ReportPending).
		Updates(map[string]any{"status": status, "reviewed_by": reviewerID, "reviewed_at": at, "updated_at": at})
	return res.RowsAffected == 1, res.Error
}

func (r *commentRepository) ResolvePendingReports(ctx context.Context, commentID, reviewerID uuid.UUID, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.CommentReport{}).
		Where("comment_id = ? AND status = ?", commentID, models.ReportPending).
		Updates(map[string]any{"status": models.ReportResolved, "reviewed_by": reviewerID, "reviewed_at": at, "updated_at": at})
	return res.RowsAffected, res.Error
}
