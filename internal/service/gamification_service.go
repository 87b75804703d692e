package service

import (
	"context"

	"nightlife/internal/featureflags"
	"nightlife/internal/models"
	"nightlife/internal/repository"

	"github.com/google/uuid"
)

// AwardInput is one XP grant.
type AwardInput struct {
	UserID     uuid.UUID
	Amount     int
	Reason     string
	EntityType string
	EntityID   *uuid.UUID
}

// XP reasons.
const (
	ReasonEmployeeProfileApproved = "employee_profile_approved"
)

type GamificationService struct {
	repo  repository.GamificationRepository
	flags *featureflags.Manager
	now   clock
}

func NewGamificationService(repo repository.GamificationRepository, flags *featureflags.Manager) *GamificationService {
	return &GamificationService{repo: repo, flags: flags, now: utcNow}
}

// Award grants XP unless rewards are switched off for the user, in which
// case it returns nil points and no error.
func (s *GamificationService) Award(ctx context.Context, in AwardInput) (*models.UserPoints, error) {
	if in.Amount <= 0 {
		return nil, models.NewValidationError("XP amount must be positive")
	}
	if s.flags != nil && !s.flags.Enabled(featureflags.XPRewards, in.UserID) {
		return nil, nil
	}
	return s.repo.Award(ctx, &models.XPTransaction{
		UserID:     in.UserID,
		Amount:     in.Amount,
		Reason:     in.Reason,
		EntityType: in.EntityType,
		EntityID:   in.EntityID,
		CreatedAt:  s.now(),
	})
}

// GamificationProfile is the caller's XP summary.
type GamificationProfile struct {
	TotalXP      int                    `json:"total_xp"`
	Level        int                    `json:"level"`
	Transactions []models.XPTransaction `json:"recent_transactions"`
}

func (s *GamificationService) Profile(ctx context.Context, userID uuid.UUID) (*GamificationProfile, error) {
	points, err := s.repo.Points(ctx, userID)
	if err != nil {
		return nil, err
	}
	txs, err := s.repo.RecentTransactions(ctx, userID, 20)
	if err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []models.XPTransaction{}
	}
	return &GamificationProfile{TotalXP: points.TotalXP, Level: points.Level(), Transactions: txs}, nil
}
