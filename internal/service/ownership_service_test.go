package service

import (
	"context"
	"testing"
	"time"

	"nightlife/internal/models"
	"nightlife/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func ownerAccount() *models.User {
	u := newUser(models.RoleUser)
	u.AccountType = models.AccountEstablishmentOwner
	return u
}

func pendingRequest(userID uuid.UUID) *models.OwnershipRequest {
	return &models.OwnershipRequest{
		ID:              uuid.New(),
		UserID:          userID,
		EstablishmentID: uuid.New(),
		Status:          models.StatusPending,
	}
}

func TestOwnership_CreateRequiresOwnerAccount(t *testing.T) {
	svc := NewOwnershipService(&ownershipRepoStub{}, existingEstablishments(), nil)

	_, err := svc.CreateRequest(context.Background(), newUser(models.RoleUser), CreateOwnershipRequestInput{
		EstablishmentID: uuid.New(),
		RequestMessage:  "I run this bar",
	})
	assertCode(t, err, models.CodeAccountTypeNeeded)
}

func TestOwnership_CreateRejectsDuplicates(t *testing.T) {
	user := ownerAccount()
	in := CreateOwnershipRequestInput{EstablishmentID: uuid.New(), RequestMessage: "mine"}

	t.Run("pending request exists", func(t *testing.T) {
		repo := &ownershipRepoStub{
			findOwnerFn: func(context.Context, uuid.UUID, uuid.UUID) (*models.EstablishmentOwner, error) {
				return nil, gorm.ErrRecordNotFound
			},
			hasPendingRequestFn: func(context.Context, uuid.UUID, uuid.UUID) (bool, error) { return true, nil },
		}
		svc := NewOwnershipService(repo, existingEstablishments(), nil)
		_, err := svc.CreateRequest(context.Background(), user, in)
		assertCode(t, err, models.CodeConflict)
	})

	t.Run("already owner", func(t *testing.T) {
		repo := &ownershipRepoStub{
			findOwnerFn: func(context.Context, uuid.UUID, uuid.UUID) (*models.EstablishmentOwner, error) {
				return &models.EstablishmentOwner{}, nil
			},
		}
		svc := NewOwnershipService(repo, existingEstablishments(), nil)
		_, err := svc.CreateRequest(context.Background(), user, in)
		assertCode(t, err, models.CodeConflict)
	})
}

func TestOwnership_CreateValidation(t *testing.T) {
	svc := NewOwnershipService(&ownershipRepoStub{}, existingEstablishments(), nil)
	user := ownerAccount()

	_, err := svc.CreateRequest(context.Background(), user, CreateOwnershipRequestInput{EstablishmentID: uuid.New()})
	assertCode(t, err, models.CodeValidation)

	_, err = svc.CreateRequest(context.Background(), user, CreateOwnershipRequestInput{
		EstablishmentID: uuid.New(),
		RequestMessage:  "docs",
		DocumentURLs:    []string{"a", "b", "c", "d", "e", "f"},
	})
	assertCode(t, err, models.CodeValidation)
}

func TestOwnership_CreateUnknownEstablishment(t *testing.T) {
	ests := &establishmentRepoStub{
		getByIDFn: func(context.Context, uuid.UUID) (*models.Establishment, error) { return nil, gorm.ErrRecordNotFound },
	}
	svc := NewOwnershipService(&ownershipRepoStub{}, ests, nil)

	_, err := svc.CreateRequest(context.Background(), ownerAccount(), CreateOwnershipRequestInput{
		EstablishmentID: uuid.New(),
		RequestMessage:  "mine",
	})
	assertCode(t, err, models.CodeNotFound)
}

func TestOwnership_ApproveDefaultsAndNotifies(t *testing.T) {
	req := pendingRequest(uuid.New())
	var got repository.OwnershipApproval
	repo := &ownershipRepoStub{
		getRequestFn: func(context.Context, uuid.UUID) (*models.OwnershipRequest, error) { return req, nil },
		approveRequestFn: func(_ context.Context, a repository.OwnershipApproval) (*models.EstablishmentOwner, error) {
			got = a
			return &models.EstablishmentOwner{UserID: req.UserID, EstablishmentID: req.EstablishmentID, OwnerRole: a.OwnerRole, Permissions: a.Permissions}, nil
		},
	}
	notifier := &notifierStub{}
	svc := NewOwnershipService(repo, existingEstablishments(), notifier)
	admin := newUser(models.RoleAdmin)

	link, err := svc.Approve(context.Background(), req.ID, admin, ApproveOwnershipInput{AdminNotes: " ok "})
	require.NoError(t, err)
	assert.Equal(t, models.OwnerRoleOwner, link.OwnerRole)
	assert.Equal(t, models.DefaultPermissions(models.OwnerRoleOwner), got.Permissions)
	assert.Equal(t, "ok", got.AdminNotes)
	assert.Equal(t, admin.ID, got.ReviewerID)

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, models.NotifyOwnershipRequestApproved, notifier.calls[0].Type)
	assert.Equal(t, req.UserID, notifier.calls[0].UserID)
}

func TestOwnership_ApproveRejectsUnknownRole(t *testing.T) {
	repo := &ownershipRepoStub{}
	svc := NewOwnershipService(repo, existingEstablishments(), nil)

	_, err := svc.Approve(context.Background(), uuid.New(), newUser(models.RoleAdmin), ApproveOwnershipInput{OwnerRole: "emperor"})
	assertCode(t, err, models.CodeInvalidRole)
}

func TestOwnership_ApproveRequiresAdmin(t *testing.T) {
	svc := NewOwnershipService(&ownershipRepoStub{}, existingEstablishments(), nil)

	_, err := svc.Approve(context.Background(), uuid.New(), newUser(models.RoleModerator), ApproveOwnershipInput{})
	assertCode(t, err, models.CodeForbidden)
}

func TestOwnership_RepeatApprovalReturnsExistingLink(t *testing.T) {
	req := pendingRequest(uuid.New())
	req.Status = models.StatusApproved
	existing := &models.EstablishmentOwner{ID: uuid.New(), UserID: req.UserID, EstablishmentID: req.EstablishmentID}
	repo := &ownershipRepoStub{
		getRequestFn: func(context.Context, uuid.UUID) (*models.OwnershipRequest, error) { return req, nil },
		findOwnerFn: func(context.Context, uuid.UUID, uuid.UUID) (*models.EstablishmentOwner, error) {
			return existing, nil
		},
	}
	notifier := &notifierStub{}
	svc := NewOwnershipService(repo, existingEstablishments(), notifier)

	link, err := svc.Approve(context.Background(), req.ID, newUser(models.RoleAdmin), ApproveOwnershipInput{})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, link.ID)
	assert.Empty(t, notifier.calls)
}

func TestOwnership_ApproveRejectedRequestConflicts(t *testing.T) {
	req := pendingRequest(uuid.New())
	req.Status = models.StatusRejected
	repo := &ownershipRepoStub{
		getRequestFn: func(context.Context, uuid.UUID) (*models.OwnershipRequest, error) { return req, nil },
	}
	svc := NewOwnershipService(repo, existingEstablishments(), nil)

	_, err := svc.Approve(context.Background(), req.ID, newUser(models.RoleAdmin), ApproveOwnershipInput{})
	assertCode(t, err, models.CodeInvalidTransition)
}

func TestOwnership_RejectRequiresNotes(t *testing.T) {
	repo := &ownershipRepoStub{
		getRequestFn: func(context.Context, uuid.UUID) (*models.OwnershipRequest, error) {
			t.Fatal("no read expected")
			return nil, nil
		},
	}
	svc := NewOwnershipService(repo, existingEstablishments(), nil)

	_, err := svc.Reject(context.Background(), uuid.New(), newUser(models.RoleAdmin), "  ")
	assertCode(t, err, models.CodeNotesRequired)
}

func TestOwnership_RejectNotifiesWithNotes(t *testing.T) {
	req := pendingRequest(uuid.New())
	repo := &ownershipRepoStub{
		getRequestFn: func(context.Context, uuid.UUID) (*models.OwnershipRequest, error) { return req, nil },
		rejectRequestFn: func(_ context.Context, _, _ uuid.UUID, notes string, _ time.Time) (bool, error) {
			assert.Equal(t, "no proof", notes)
			return true, nil
		},
	}
	notifier := &notifierStub{}
	svc := NewOwnershipService(repo, existingEstablishments(), notifier)

	out, err := svc.Reject(context.Background(), req.ID, newUser(models.RoleAdmin), "no proof")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, out.Status)
	require.Len(t, notifier.calls, 1)
	assert.Equal(t, "no proof", notifier.calls[0].Message)
}

func TestOwnership_Cancel(t *testing.T) {
	owner := ownerAccount()

	t.Run("other user", func(t *testing.T) {
		req := pendingRequest(uuid.New())
		repo := &ownershipRepoStub{
			getRequestFn: func(context.Context, uuid.UUID) (*models.OwnershipRequest, error) { return req, nil },
		}
		svc := NewOwnershipService(repo, existingEstablishments(), nil)
		assertCode(t, svc.Cancel(context.Background(), req.ID, owner), models.CodeForbidden)
	})

	t.Run("already reviewed", func(t *testing.T) {
		req := pendingRequest(owner.ID)
		req.Status = models.StatusApproved
		repo := &ownershipRepoStub{
			getRequestFn: func(context.Context, uuid.UUID) (*models.OwnershipRequest, error) { return req, nil },
		}
		svc := NewOwnershipService(repo, existingEstablishments(), nil)
		assertCode(t, svc.Cancel(context.Background(), req.ID, owner), models.CodeInvalidTransition)
	})

	t.Run("pending", func(t *testing.T) {
		req := pendingRequest(owner.ID)
		repo := &ownershipRepoStub{
			getRequestFn:    func(context.Context, uuid.UUID) (*models.OwnershipRequest, error) { return req, nil },
			cancelRequestFn: func(context.Context, uuid.UUID, uuid.UUID) (bool, error) { return true, nil },
		}
		svc := NewOwnershipService(repo, existingEstablishments(), nil)
		assert.NoError(t, svc.Cancel(context.Background(), req.ID, owner))
	})
}

func TestOwnership_Can(t *testing.T) {
	owner := ownerAccount()
	repo := &ownershipRepoStub{
		findOwnerFn: func(_ context.Context, userID, _ uuid.UUID) (*models.EstablishmentOwner, error) {
			if userID != owner.ID {
				return nil, gorm.ErrRecordNotFound
			}
			return &models.EstablishmentOwner{Permissions: models.DefaultPermissions(models.OwnerRoleManager)}, nil
		},
	}
	svc := NewOwnershipService(repo, existingEstablishments(), nil)
	ctx := context.Background()
	est := uuid.New()

	ok, err := svc.Can(ctx, owner, est, models.PermEditPricing)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Can(ctx, owner, est, models.PermEditEmployees)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.Can(ctx, newUser(models.RoleUser), est, models.PermEditInfo)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.Can(ctx, newUser(models.RoleModerator), est, models.PermEditEmployees)
	require.NoError(t, err)
	assert.True(t, ok)
}
