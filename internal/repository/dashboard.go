package repository

import (
	"context"
	"fmt"
	"strings"

	"nightlife/internal/models"

	"gorm.io/gorm"
)

// StatsRepository defines interface for admin dashboard aggregates
type StatsRepository interface {
	// Aggregate computes every counter in a single statement.
	Aggregate(ctx context.Context) (*models.DashboardStats, error)
	// CountEach computes the counters with one query per value.
	CountEach(ctx context.Context) (*models.DashboardStats, error)
}

type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

var moderatedTables = []string{"establishments", "employees", "comments"}

var moderationStatuses = []models.ModerationStatus{models.StatusPending, models.StatusApproved, models.StatusRejected}

func aggregateStatsSQL() string {
	cols := make([]string, 0, 12)
	for _, table := range moderatedTables {
		for _, status := range moderationStatuses {
			cols = append(cols, fmt.Sprintf(
				"(SELECT COUNT(*) FROM %s WHERE status = '%s') AS %s_%s", table, status, table, status))
		}
	}
	cols = append(cols,
		"(SELECT COUNT(*) FROM ownership_requests WHERE status = 'pending') AS ownership_pending",
		"(SELECT COUNT(*) FROM comment_reports WHERE status = 'pending') AS reports_pending",
		"(SELECT COUNT(*) FROM users) AS users_total",
	)
	return "SELECT " + strings.Join(cols, ", ")
}

type aggregateRow struct {
	EstablishmentsPending  int64
	EstablishmentsApproved int64
	EstablishmentsRejected int64
	EmployeesPending       int64
	EmployeesApproved      int64
	EmployeesRejected      int64
	CommentsPending        int64
	CommentsApproved       int64
	CommentsRejected       int64
	OwnershipPending       int64
	ReportsPending         int64
	UsersTotal             int64
}

func (r *statsRepository) Aggregate(ctx context.Context) (*models.DashboardStats, error) {
	var row aggregateRow
	if err := r.db.WithContext(ctx).Raw(aggregateStatsSQL()).Scan(&row).Error; err != nil {
		return nil, err
	}
	return &models.DashboardStats{
		Establishments:         models.StatusCounts{Pending: row.EstablishmentsPending, Approved: row.EstablishmentsApproved, Rejected: row.EstablishmentsRejected},
		Employees:              models.StatusCounts{Pending: row.EmployeesPending, Approved: row.EmployeesApproved, Rejected: row.EmployeesRejected},
		Comments:               models.StatusCounts{Pending: row.CommentsPending, Approved: row.CommentsApproved, Rejected: row.CommentsRejected},
		PendingOwnershipClaims: row.OwnershipPending,
		PendingReports:         row.ReportsPending,
		TotalUsers:             row.UsersTotal,
	}, nil
}

func (r *statsRepository) CountEach(ctx context.Context) (*models.DashboardStats, error) {
	db := r.db.WithContext(ctx)
	stats := &models.DashboardStats{}

	targets := map[string]*models.StatusCounts{
		"establishments": &stats.Establishments,
		"employees":      &stats.Employees,
		"comments":       &stats.Comments,
	}
	for _, table := range moderatedTables {
		counts := targets[table]
		for _, status := range moderationStatuses {
			var n int64
			if err := db.Table(table).Where("status = ?", status).Count(&n).Error; err != nil {
				return nil, fmt.Errorf("count %s %s: %w", table, status, err)
			}
			switch status {
			case models.StatusPending:
				counts.Pending = n
			case models.StatusApproved:
				counts.Approved = n
			case models.StatusRejected:
				counts.Rejected = n
			}
		}
	}

	if err := db.Table("ownership_requests").Where("status = ?", models.StatusPending).Count(&stats.PendingOwnershipClaims).Error; err != nil {
		return nil, fmt.Errorf("count ownership requests: %w", err)
	}
	if err := db.Table("comment_reports").Where("status = ?", models.ReportPending).Count(&stats.PendingReports).Error; err != nil {
		return nil, fmt.Errorf("count reports: %w", err)
	}
	if err := db.Table("users").Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	return stats, nil
}
