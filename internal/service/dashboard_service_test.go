package service

import (
	"context"
	"testing"

	"nightlife/internal/cache"
	"nightlife/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard_FallsBackToIndividualCounts(t *testing.T) {
	repo := &statsRepoStub{
		aggregateFn: func(context.Context) (*models.DashboardStats, error) { return nil, errStub },
		countEachFn: func(context.Context) (*models.DashboardStats, error) {
			return &models.DashboardStats{TotalUsers: 7, Employees: models.StatusCounts{Pending: 2}}, nil
		},
	}
	svc := NewDashboardService(repo, nil)

	stats, err := svc.Stats(context.Background(), newUser(models.RoleModerator))
	require.NoError(t, err)
	assert.True(t, stats.Fallback)
	assert.Equal(t, int64(7), stats.TotalUsers)
	assert.Equal(t, int64(2), stats.Employees.Pending)
}

func TestDashboard_CachesAggregate(t *testing.T) {
	calls := 0
	repo := &statsRepoStub{aggregateFn: func(context.Context) (*models.DashboardStats, error) {
		calls++
		return &models.DashboardStats{PendingReports: 3}, nil
	}}
	svc := NewDashboardService(repo, cache.NewMemoryCache())
	admin := newUser(models.RoleAdmin)

	for range 3 {
		stats, err := svc.Stats(context.Background(), admin)
		require.NoError(t, err)
		assert.Equal(t, int64(3), stats.PendingReports)
		assert.False(t, stats.Fallback)
	}
	assert.Equal(t, 1, calls)
}

func TestDashboard_RequiresStaff(t *testing.T) {
	svc := NewDashboardService(&statsRepoStub{}, nil)
	_, err := svc.Stats(context.Background(), newUser(models.RoleUser))
	assertCode(t, err, models.CodeForbidden)
}
