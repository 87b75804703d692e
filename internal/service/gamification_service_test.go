package service

import (
	"context"
	"testing"

	"nightlife/internal/featureflags"
	"nightlife/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGamification_AwardRespectsFlag(t *testing.T) {
	awarded := 0
	repo := &gamificationRepoStub{awardFn: func(_ context.Context, tx *models.XPTransaction) (*models.UserPoints, error) {
		awarded++
		return &models.UserPoints{UserID: tx.UserID, TotalXP: tx.Amount}, nil
	}}
	in := AwardInput{UserID: uuid.New(), Amount: 10, Reason: ReasonEmployeeProfileApproved}

	off := NewGamificationService(repo, featureflags.NewManager("xp_rewards=off"))
	points, err := off.Award(context.Background(), in)
	require.NoError(t, err)
	assert.Nil(t, points)
	assert.Zero(t, awarded)

	on := NewGamificationService(repo, featureflags.NewManager("xp_rewards=on"))
	points, err = on.Award(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 10, points.TotalXP)
	assert.Equal(t, 1, awarded)
}

func TestGamification_AwardRejectsNonPositive(t *testing.T) {
	svc := NewGamificationService(&gamificationRepoStub{}, nil)
	_, err := svc.Award(context.Background(), AwardInput{UserID: uuid.New(), Amount: 0})
	assertCode(t, err, models.CodeValidation)
}
