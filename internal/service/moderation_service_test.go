package service

import (
	"context"
	"testing"

	"nightlife/internal/cache"
	"nightlife/internal/models"
	"nightlife/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func recordRepo(status models.ModerationStatus, creator *uuid.UUID) (*moderationRepoStub, *[]repository.StatusTransition) {
	var transitions []repository.StatusTransition
	repo := &moderationRepoStub{
		findFn: func(_ context.Context, _ models.ModerationKind, id uuid.UUID) (*models.ModerationRecord, error) {
			return &models.ModerationRecord{ID: id, Status: status, CreatedBy: creator, Label: "Mint"}, nil
		},
		transitionFn: func(_ context.Context, _ models.ModerationKind, _ uuid.UUID, t repository.StatusTransition) (bool, error) {
			transitions = append(transitions, t)
			return true, nil
		},
	}
	return repo, &transitions
}

func newModeration(repo *moderationRepoStub, notifier *notifierStub, xp *xpStub) *ModerationService {
	var n Notifier
	if notifier != nil {
		n = notifier
	}
	var x XPAwarder
	if xp != nil {
		x = xp
	}
	svc := NewModerationService(repo, n, x, cache.NewMemoryCache())
	svc.now = fixedClock
	return svc
}

func TestModeration_ApproveEmployeeRunsSideEffects(t *testing.T) {
	creator := uuid.New()
	repo, transitions := recordRepo(models.StatusPending, &creator)
	notifier, xp := &notifierStub{}, &xpStub{}
	svc := newModeration(repo, notifier, xp)
	mod := newUser(models.RoleModerator)
	id := uuid.New()

	res, err := svc.Approve(context.Background(), models.KindEmployee, id, mod)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, models.StatusApproved, res.Status)

	require.Len(t, *transitions, 1)
	tr := (*transitions)[0]
	assert.Equal(t, models.StatusPending, tr.From)
	assert.Equal(t, models.StatusApproved, tr.To)
	assert.Equal(t, mod.ID, tr.ModeratorID)
	assert.Equal(t, fixedClock(), tr.At)

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, models.NotifyContentApproved, notifier.calls[0].Type)
	assert.Equal(t, creator, notifier.calls[0].UserID)

	require.Len(t, xp.calls, 1)
	assert.Equal(t, models.XPEmployeeProfileApproved, xp.calls[0].Amount)
	assert.Equal(t, creator, xp.calls[0].UserID)
}

func TestModeration_ApproveEstablishmentAwardsNoXP(t *testing.T) {
	creator := uuid.New()
	repo, _ := recordRepo(models.StatusPending, &creator)
	notifier, xp := &notifierStub{}, &xpStub{}
	svc := newModeration(repo, notifier, xp)

	_, err := svc.Approve(context.Background(), models.KindEstablishment, uuid.New(), newUser(models.RoleAdmin))
	require.NoError(t, err)
	assert.Len(t, notifier.calls, 1)
	assert.Empty(t, xp.calls)
}

func TestModeration_RepeatApprovalIsNoop(t *testing.T) {
	creator := uuid.New()
	repo, transitions := recordRepo(models.StatusApproved, &creator)
	notifier, xp := &notifierStub{}, &xpStub{}
	svc := newModeration(repo, notifier, xp)

	res, err := svc.Approve(context.Background(), models.KindEmployee, uuid.New(), newUser(models.RoleAdmin))
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Empty(t, *transitions)
	assert.Empty(t, notifier.calls)
	assert.Empty(t, xp.calls)
}

func TestModeration_CrossTerminalMoveIsRejected(t *testing.T) {
	repo, transitions := recordRepo(models.StatusApproved, nil)
	svc := newModeration(repo, nil, nil)

	_, err := svc.Reject(context.Background(), models.KindComment, uuid.New(), newUser(models.RoleModerator), "spam")
	assertCode(t, err, models.CodeInvalidTransition)
	assert.Empty(t, *transitions)
}

func TestModeration_RejectRequiresReasonBeforeAnyRead(t *testing.T) {
	repo := &moderationRepoStub{
		findFn: func(context.Context, models.ModerationKind, uuid.UUID) (*models.ModerationRecord, error) {
			t.Fatal("no read expected")
			return nil, nil
		},
	}
	svc := newModeration(repo, nil, nil)

	for _, reason := range []string{"", "   ", "\n\t"} {
		_, err := svc.Reject(context.Background(), models.KindEstablishment, uuid.New(), newUser(models.RoleAdmin), reason)
		assertCode(t, err, models.CodeReasonRequired)
	}
}

func TestModeration_RejectStoresTrimmedReasonAndNotifies(t *testing.T) {
	creator := uuid.New()
	repo, transitions := recordRepo(models.StatusPending, &creator)
	notifier, xp := &notifierStub{}, &xpStub{}
	svc := newModeration(repo, notifier, xp)

	_, err := svc.Reject(context.Background(), models.KindEmployee, uuid.New(), newUser(models.RoleModerator), "  duplicate profile ")
	require.NoError(t, err)
	require.Len(t, *transitions, 1)
	assert.Equal(t, "duplicate profile", (*transitions)[0].Reason)
	require.Len(t, notifier.calls, 1)
	assert.Equal(t, models.NotifyContentRejected, notifier.calls[0].Type)
	assert.Equal(t, "duplicate profile", notifier.calls[0].Message)
	assert.Empty(t, xp.calls)
}

func TestModeration_RequiresStaff(t *testing.T) {
	repo, _ := recordRepo(models.StatusPending, nil)
	svc := newModeration(repo, nil, nil)

	_, err := svc.Approve(context.Background(), models.KindEmployee, uuid.New(), newUser(models.RoleUser))
	assertCode(t, err, models.CodeForbidden)
}

func TestModeration_NotFound(t *testing.T) {
	repo := &moderationRepoStub{
		findFn: func(context.Context, models.ModerationKind, uuid.UUID) (*models.ModerationRecord, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := newModeration(repo, nil, nil)

	_, err := svc.Approve(context.Background(), models.KindEstablishment, uuid.New(), newUser(models.RoleAdmin))
	assertCode(t, err, models.CodeNotFound)
}

func TestModeration_SideEffectFailuresDoNotFailDecision(t *testing.T) {
	creator := uuid.New()
	repo, _ := recordRepo(models.StatusPending, &creator)
	notifier, xp := &notifierStub{err: errStub}, &xpStub{err: errStub}
	svc := newModeration(repo, notifier, xp)

	res, err := svc.Approve(context.Background(), models.KindEmployee, uuid.New(), newUser(models.RoleAdmin))
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Len(t, notifier.calls, 1)
	assert.Len(t, xp.calls, 1)
}

func TestModeration_LostRaceResolvesToCurrentStatus(t *testing.T) {
	id := uuid.New()
	reads := 0
	repo := &moderationRepoStub{
		findFn: func(context.Context, models.ModerationKind, uuid.UUID) (*models.ModerationRecord, error) {
			reads++
			if reads == 1 {
				return &models.ModerationRecord{ID: id, Status: models.StatusPending}, nil
			}
			return &models.ModerationRecord{ID: id, Status: models.StatusApproved}, nil
		},
		transitionFn: func(context.Context, models.ModerationKind, uuid.UUID, repository.StatusTransition) (bool, error) {
			return false, nil
		},
	}
	notifier := &notifierStub{}
	svc := newModeration(repo, notifier, nil)

	res, err := svc.Approve(context.Background(), models.KindEmployee, id, newUser(models.RoleAdmin))
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Empty(t, notifier.calls)

	_, err = svc.Reject(context.Background(), models.KindEmployee, id, newUser(models.RoleAdmin), "late")
	assertCode(t, err, models.CodeInvalidTransition)
}

func TestModeration_TakeDownRejectsLiveContent(t *testing.T) {
	repo, transitions := recordRepo(models.StatusApproved, nil)
	svc := newModeration(repo, nil, nil)

	res, err := svc.TakeDown(context.Background(), models.KindComment, uuid.New(), newUser(models.RoleModerator), "harassment")
	require.NoError(t, err)
	assert.True(t, res.Changed)
	require.Len(t, *transitions, 1)
	assert.Equal(t, models.StatusApproved, (*transitions)[0].From)
	assert.Equal(t, models.StatusRejected, (*transitions)[0].To)
}

func TestModeration_ApprovalInvalidatesCache(t *testing.T) {
	repo, _ := recordRepo(models.StatusPending, nil)
	c := cache.NewMemoryCache()
	svc := NewModerationService(repo, nil, nil, c)
	id := uuid.New()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, cache.EstablishmentKey(id), "stale", cache.EntityTTL))
	require.NoError(t, c.Set(ctx, cache.EstablishmentListKey+"a", "stale", cache.ListingTTL))
	require.NoError(t, c.Set(ctx, cache.DashboardStatsKey, "stale", cache.DashboardStatsTTL))

	_, err := svc.Approve(ctx, models.KindEstablishment, id, newUser(models.RoleAdmin))
	require.NoError(t, err)

	var v string
	assert.False(t, c.Get(ctx, cache.EstablishmentKey(id), &v))
	assert.False(t, c.Get(ctx, cache.EstablishmentListKey+"a", &v))
	assert.False(t, c.Get(ctx, cache.DashboardStatsKey, &v))
}
