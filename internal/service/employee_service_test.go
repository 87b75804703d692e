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

type employeeFixture struct {
	emp        *models.Employee
	updates    []map[string]any
	reassigned []repository.Reassignment
	employees  *employeeRepoStub
	employment *employmentRepoStub
	perms      *permsStub
	legacy     *legacyStub
	svc        *EmployeeService
}

func newEmployeeFixture(emp *models.Employee) *employeeFixture {
	f := &employeeFixture{emp: emp, perms: &permsStub{}, legacy: &legacyStub{}}
	f.employees = &employeeRepoStub{
		createFn: func(_ context.Context, e *models.Employee, _ *uuid.UUID) error {
			e.ID = uuid.New()
			return nil
		},
		getByIDFn: func(_ context.Context, id uuid.UUID) (*models.Employee, error) {
			if id != f.emp.ID {
				return nil, gorm.ErrRecordNotFound
			}
			copied := *f.emp
			return &copied, nil
		},
		updateFn: func(_ context.Context, _ uuid.UUID, u map[string]any) error {
			f.updates = append(f.updates, u)
			if hidden, ok := u["is_hidden"].(bool); ok {
				f.emp.IsHidden = hidden
			}
			return nil
		},
		listFn: func(context.Context, repository.EmployeeFilter) ([]models.Employee, int64, error) {
			return []models.Employee{*f.emp}, 1, nil
		},
	}
	f.employment = &employmentRepoStub{
		currentFn: func(context.Context, uuid.UUID) (*models.EmploymentHistory, error) {
			if f.emp.CurrentEstablishmentID == nil {
				return nil, gorm.ErrRecordNotFound
			}
			return &models.EmploymentHistory{EmployeeID: f.emp.ID, EstablishmentID: *f.emp.CurrentEstablishmentID, IsCurrent: true}, nil
		},
		reassignFn: func(_ context.Context, r repository.Reassignment) (*models.EmploymentHistory, error) {
			f.reassigned = append(f.reassigned, r)
			f.emp.CurrentEstablishmentID = r.EstablishmentID
			if r.EstablishmentID == nil {
				return nil, nil
			}
			return &models.EmploymentHistory{EmployeeID: r.EmployeeID, EstablishmentID: *r.EstablishmentID, IsCurrent: true}, nil
		},
	}
	f.svc = NewEmployeeService(f.employees, f.employment, existingEstablishments(), f.perms, f.legacy, cache.NewMemoryCache())
	f.svc.now = fixedClock
	return f
}

func approvedEmployee() *models.Employee {
	est := uuid.New()
	return &models.Employee{
		ID:                     uuid.New(),
		Name:                   "Noi",
		CurrentEstablishmentID: &est,
		Moderation:             models.Moderation{Status: models.StatusApproved},
	}
}

func TestEmployee_CreateIsPendingAndRegistersLegacyID(t *testing.T) {
	f := newEmployeeFixture(approvedEmployee())
	user := newUser(models.RoleUser)

	emp, err := f.svc.Create(context.Background(), user, CreateEmployeeInput{Name: "  Ploy "})
	require.NoError(t, err)
	assert.Equal(t, "Ploy", emp.Name)
	assert.Equal(t, models.StatusPending, emp.Status)
	assert.Equal(t, user.ID, *emp.CreatedBy)
	assert.Equal(t, []uuid.UUID{emp.ID}, f.legacy.registered)
}

func TestEmployee_CreateRequiresName(t *testing.T) {
	f := newEmployeeFixture(approvedEmployee())
	_, err := f.svc.Create(context.Background(), newUser(models.RoleUser), CreateEmployeeInput{Name: " "})
	assertCode(t, err, models.CodeValidation)
}

func TestEmployee_PublicDetailHidesInvisibleProfiles(t *testing.T) {
	ctx := context.Background()

	pending := approvedEmployee()
	pending.Status = models.StatusPending
	_, err := newEmployeeFixture(pending).svc.GetPublic(ctx, pending.ID)
	assertCode(t, err, models.CodeNotFound)

	hidden := approvedEmployee()
	hidden.IsHidden = true
	_, err = newEmployeeFixture(hidden).svc.GetPublic(ctx, hidden.ID)
	assertCode(t, err, models.CodeNotFound)

	visible := approvedEmployee()
	got, err := newEmployeeFixture(visible).svc.GetPublic(ctx, visible.ID)
	require.NoError(t, err)
	assert.Equal(t, visible.ID, got.ID)
}

func TestEmployee_VisibilityNeverTouchesStatus(t *testing.T) {
	f := newEmployeeFixture(approvedEmployee())
	admin := newUser(models.RoleAdmin)

	_, err := f.svc.SetVisibility(context.Background(), admin, f.emp.ID, true, "reported fake")
	require.NoError(t, err)
	require.Len(t, f.updates, 1)
	assert.Equal(t, true, f.updates[0]["is_hidden"])
	assert.Equal(t, "reported fake", f.updates[0]["hidden_reason"])
	assert.Equal(t, admin.ID, f.updates[0]["hidden_by"])
	assert.NotContains(t, f.updates[0], "status")
}

func TestEmployee_VisibilityAuthorization(t *testing.T) {
	f := newEmployeeFixture(approvedEmployee())
	owner := ownerAccount()

	_, err := f.svc.SetVisibility(context.Background(), owner, f.emp.ID, true, "")
	assertCode(t, err, models.CodeForbidden)

	f.perms.granted = map[models.Permission]bool{models.PermEditEmployees: true}
	_, err = f.svc.SetVisibility(context.Background(), owner, f.emp.ID, true, "")
	require.NoError(t, err)
}

func TestEmployee_ReassignMovesEmployment(t *testing.T) {
	f := newEmployeeFixture(approvedEmployee())
	target := uuid.New()
	mod := newUser(models.RoleModerator)

	row, err := f.svc.Reassign(context.Background(), mod, f.emp.ID, &target, " dancer ")
	require.NoError(t, err)
	assert.Equal(t, target, row.EstablishmentID)
	require.Len(t, f.reassigned, 1)
	assert.Equal(t, "dancer", f.reassigned[0].Position)
	assert.Equal(t, mod.ID, *f.reassigned[0].ActorID)
	assert.Equal(t, fixedClock(), f.reassigned[0].At)
}

func TestEmployee_ReassignToCurrentIsNoop(t *testing.T) {
	f := newEmployeeFixture(approvedEmployee())
	current := *f.emp.CurrentEstablishmentID

	row, err := f.svc.Reassign(context.Background(), newUser(models.RoleAdmin), f.emp.ID, &current, "")
	require.NoError(t, err)
	assert.Equal(t, current, row.EstablishmentID)
	assert.Empty(t, f.reassigned)
}

func TestEmployee_ReassignToNoneEndsEmployment(t *testing.T) {
	f := newEmployeeFixture(approvedEmployee())

	row, err := f.svc.Reassign(context.Background(), newUser(models.RoleAdmin), f.emp.ID, nil, "")
	require.NoError(t, err)
	assert.Nil(t, row)
	require.Len(t, f.reassigned, 1)
	assert.Nil(t, f.reassigned[0].EstablishmentID)
}

func TestEmployee_OwnerNeedsPermissionForReassign(t *testing.T) {
	f := newEmployeeFixture(approvedEmployee())
	target := uuid.New()

	_, err := f.svc.Reassign(context.Background(), ownerAccount(), f.emp.ID, &target, "")
	assertCode(t, err, models.CodeForbidden)
	assert.Empty(t, f.reassigned)
}

func TestEmployee_UpdateWithExplicitNullLeaves(t *testing.T) {
	f := newEmployeeFixture(approvedEmployee())
	name := "Noi B."

	out, err := f.svc.Update(context.Background(), newUser(models.RoleAdmin), f.emp.ID, UpdateEmployeeInput{
		Name:                 &name,
		CurrentEstablishment: models.OptionalUUID{Set: true},
	})
	require.NoError(t, err)
	assert.Nil(t, out.CurrentEstablishmentID)
	assert.Empty(t, f.updates, "field changes travel with the reassignment")
	require.Len(t, f.reassigned, 1)
	assert.Equal(t, "Noi B.", f.reassigned[0].Fields["name"])
}

func TestEmployee_UpdateRejectedMoveWritesNothing(t *testing.T) {
	emp := approvedEmployee()
	f := newEmployeeFixture(emp)
	f.perms.granted = map[models.Permission]bool{models.PermEditEmployees: true}
	f.perms.scope = map[uuid.UUID]bool{*emp.CurrentEstablishmentID: true}
	elsewhere := uuid.New()
	name := "Renamed"

	_, err := f.svc.Update(context.Background(), ownerAccount(), emp.ID, UpdateEmployeeInput{
		Name:                 &name,
		CurrentEstablishment: models.OptionalUUID{Set: true, Value: &elsewhere},
	})
	assertCode(t, err, models.CodeForbidden)
	assert.Empty(t, f.updates)
	assert.Empty(t, f.reassigned)
	assert.Equal(t, "Noi", f.emp.Name)
}

func TestEmployee_UpdateMoveToMissingEstablishmentWritesNothing(t *testing.T) {
	f := newEmployeeFixture(approvedEmployee())
	f.svc.establishments = &establishmentRepoStub{
		getByIDFn: func(context.Context, uuid.UUID) (*models.Establishment, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	missing := uuid.New()
	name := "Renamed"

	_, err := f.svc.Update(context.Background(), newUser(models.RoleAdmin), f.emp.ID, UpdateEmployeeInput{
		Name:                 &name,
		CurrentEstablishment: models.OptionalUUID{Set: true, Value: &missing},
	})
	assertCode(t, err, models.CodeNotFound)
	assert.Empty(t, f.updates)
	assert.Empty(t, f.reassigned)
}

func TestEmployee_ReassignDropsCachedEstablishments(t *testing.T) {
	ctx := context.Background()
	emp := approvedEmployee()
	from := *emp.CurrentEstablishmentID
	to := uuid.New()
	f := newEmployeeFixture(emp)
	store := cache.NewMemoryCache()
	f.svc.cache = store
	for _, id := range []uuid.UUID{from, to} {
		require.NoError(t, store.Set(ctx, cache.EstablishmentKey(id), "stale", cache.EntityTTL))
	}

	_, err := f.svc.Reassign(ctx, newUser(models.RoleModerator), emp.ID, &to, "")
	require.NoError(t, err)

	var v string
	assert.False(t, store.Get(ctx, cache.EstablishmentKey(from), &v))
	assert.False(t, store.Get(ctx, cache.EstablishmentKey(to), &v))
}

func TestEmployee_UpdateWithoutEstablishmentKeepsEmployment(t *testing.T) {
	f := newEmployeeFixture(approvedEmployee())
	nick := "N"

	_, err := f.svc.Update(context.Background(), newUser(models.RoleAdmin), f.emp.ID, UpdateEmployeeInput{Nickname: &nick})
	require.NoError(t, err)
	assert.Empty(t, f.reassigned)
}

func TestEmployee_OwnerCannotGrantVIP(t *testing.T) {
	f := newEmployeeFixture(approvedEmployee())
	f.perms.granted = map[models.Permission]bool{models.PermEditEmployees: true}
	other := uuid.New()

	_, err := f.svc.Update(context.Background(), ownerAccount(), f.emp.ID, UpdateEmployeeInput{UserID: &other})
	assertCode(t, err, models.CodeForbidden)
	assert.Empty(t, f.updates)
}

func TestEmployee_SelfRemoval(t *testing.T) {
	linked := newUser(models.RoleUser)
	emp := approvedEmployee()
	emp.UserID = &linked.ID
	f := newEmployeeFixture(emp)

	_, err := f.svc.RequestSelfRemoval(context.Background(), newUser(models.RoleUser), emp.ID)
	assertCode(t, err, models.CodeForbidden)

	out, err := f.svc.RequestSelfRemoval(context.Background(), linked, emp.ID)
	require.NoError(t, err)
	assert.True(t, out.IsHidden)
	require.Len(t, f.updates, 1)
	assert.Contains(t, f.updates[0], "self_removal_requested_at")
	assert.NotContains(t, f.updates[0], "status")
}

func TestEmployee_Vote(t *testing.T) {
	f := newEmployeeFixture(approvedEmployee())
	user := newUser(models.RoleUser)
	var stored *models.EmployeeExistenceVote
	f.employees.upsertVoteFn = func(_ context.Context, v *models.EmployeeExistenceVote) error {
		stored = v
		return nil
	}
	f.employees.tallyFn = func(_ context.Context, _ uuid.UUID, userID *uuid.UUID) (*models.VoteTally, error) {
		vote := stored.VoteType
		return &models.VoteTally{Exists: 1, UserVote: &vote}, nil
	}

	_, err := f.svc.Vote(context.Background(), user, f.emp.ID, "maybe")
	assertCode(t, err, models.CodeValidation)

	tally, err := f.svc.Vote(context.Background(), user, f.emp.ID, models.VoteExists)
	require.NoError(t, err)
	assert.Equal(t, int64(1), tally.Exists)
	assert.Equal(t, models.VoteExists, *tally.UserVote)
	assert.Equal(t, user.ID, stored.UserID)
}
