package service

import (
	"context"
	"log/slog"

	"nightlife/internal/cache"
	"nightlife/internal/middleware"
	"nightlife/internal/models"
	"nightlife/internal/observability"
	"nightlife/internal/repository"
)

type DashboardService struct {
	repo  repository.StatsRepository
	cache cache.Cache
}

func NewDashboardService(repo repository.StatsRepository, c cache.Cache) *DashboardService {
	return &DashboardService{repo: repo, cache: c}
}

// Stats returns the moderation overview. If the single aggregate query fails
// the counters are computed one query at a time.
func (s *DashboardService) Stats(ctx context.Context, user *models.User) (*models.DashboardStats, error) {
	if !user.IsStaff() {
		return nil, models.NewForbiddenError("Moderator or admin role required")
	}
	return cache.Remember(ctx, s.cache, cache.DashboardStatsKey, cache.DashboardStatsTTL, func() (*models.DashboardStats, error) {
		stats, err := s.repo.Aggregate(ctx)
		if err == nil {
			return stats, nil
		}

		observability.DashboardStatsFallbacks.Inc()
		middleware.Logger.WarnContext(ctx, "dashboard aggregate failed, counting individually",
			slog.String("error", err.Error()))

		stats, err = s.repo.CountEach(ctx)
		if err != nil {
			return nil, err
		}
		stats.Fallback = true
		return stats, nil
	})
}
