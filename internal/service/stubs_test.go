package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"nightlife/internal/models"
	"nightlife/internal/queue"
	"nightlife/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Stubs embed the interface they implement; calling a method without a
// function field set panics, which flags an unexpected call in a test.

type moderationRepoStub struct {
	findFn       func(context.Context, models.ModerationKind, uuid.UUID) (*models.ModerationRecord, error)
	transitionFn func(context.Context, models.ModerationKind, uuid.UUID, repository.StatusTransition) (bool, error)
}

func (s *moderationRepoStub) Find(ctx context.Context, kind models.ModerationKind, id uuid.UUID) (*models.ModerationRecord, error) {
	return s.findFn(ctx, kind, id)
}
func (s *moderationRepoStub) Transition(ctx context.Context, kind models.ModerationKind, id uuid.UUID, t repository.StatusTransition) (bool, error) {
	return s.transitionFn(ctx, kind, id, t)
}

type employeeRepoStub struct {
	repository.EmployeeRepository
	createFn     func(context.Context, *models.Employee, *uuid.UUID) error
	getByIDFn    func(context.Context, uuid.UUID) (*models.Employee, error)
	listFn       func(context.Context, repository.EmployeeFilter) ([]models.Employee, int64, error)
	updateFn     func(context.Context, uuid.UUID, map[string]any) error
	upsertVoteFn func(context.Context, *models.EmployeeExistenceVote) error
	tallyFn      func(context.Context, uuid.UUID, *uuid.UUID) (*models.VoteTally, error)
}

func (s *employeeRepoStub) Create(ctx context.Context, emp *models.Employee, est *uuid.UUID) error {
	return s.createFn(ctx, emp, est)
}
func (s *employeeRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	return s.getByIDFn(ctx, id)
}
func (s *employeeRepoStub) List(ctx context.Context, f repository.EmployeeFilter) ([]models.Employee, int64, error) {
	return s.listFn(ctx, f)
}
func (s *employeeRepoStub) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return s.updateFn(ctx, id, updates)
}
func (s *employeeRepoStub) UpsertVote(ctx context.Context, v *models.EmployeeExistenceVote) error {
	return s.upsertVoteFn(ctx, v)
}
func (s *employeeRepoStub) Tally(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (*models.VoteTally, error) {
	return s.tallyFn(ctx, id, userID)
}

type employmentRepoStub struct {
	currentFn  func(context.Context, uuid.UUID) (*models.EmploymentHistory, error)
	historyFn  func(context.Context, uuid.UUID) ([]models.EmploymentHistory, error)
	reassignFn func(context.Context, repository.Reassignment) (*models.EmploymentHistory, error)
}

func (s *employmentRepoStub) Current(ctx context.Context, id uuid.UUID) (*models.EmploymentHistory, error) {
	return s.currentFn(ctx, id)
}
func (s *employmentRepoStub) History(ctx context.Context, id uuid.UUID) ([]models.EmploymentHistory, error) {
	return s.historyFn(ctx, id)
}
func (s *employmentRepoStub) Reassign(ctx context.Context, r repository.Reassignment) (*models.EmploymentHistory, error) {
	return s.reassignFn(ctx, r)
}

type establishmentRepoStub struct {
	repository.EstablishmentRepository
	createFn         func(context.Context, *models.Establishment) error
	getByIDFn        func(context.Context, uuid.UUID) (*models.Establishment, error)
	listFn           func(context.Context, repository.EstablishmentFilter) ([]models.Establishment, int64, error)
	updateFn         func(context.Context, uuid.UUID, map[string]any) error
	deleteFn         func(context.Context, uuid.UUID) error
	categoryExistsFn func(context.Context, uuid.UUID) (bool, error)
}

func (s *establishmentRepoStub) Create(ctx context.Context, est *models.Establishment) error {
	return s.createFn(ctx, est)
}
func (s *establishmentRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*models.Establishment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *establishmentRepoStub) List(ctx context.Context, f repository.EstablishmentFilter) ([]models.Establishment, int64, error) {
	return s.listFn(ctx, f)
}
func (s *establishmentRepoStub) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return s.updateFn(ctx, id, updates)
}
func (s *establishmentRepoStub) Delete(ctx context.Context, id uuid.UUID) error {
	return s.deleteFn(ctx, id)
}
func (s *establishmentRepoStub) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.categoryExistsFn(ctx, id)
}

// existingEstablishments returns a stub that finds every id.
func existingEstablishments() *establishmentRepoStub {
	return &establishmentRepoStub{
		getByIDFn: func(_ context.Context, id uuid.UUID) (*models.Establishment, error) {
			return &models.Establishment{ID: id, Name: "Rainbow 4", Moderation: models.Moderation{Status: models.StatusApproved}}, nil
		},
	}
}

type ownershipRepoStub struct {
	repository.OwnershipRepository
	createRequestFn     func(context.Context, *models.OwnershipRequest) error
	getRequestFn        func(context.Context, uuid.UUID) (*models.OwnershipRequest, error)
	hasPendingRequestFn func(context.Context, uuid.UUID, uuid.UUID) (bool, error)
	approveRequestFn    func(context.Context, repository.OwnershipApproval) (*models.EstablishmentOwner, error)
	rejectRequestFn     func(context.Context, uuid.UUID, uuid.UUID, string, time.Time) (bool, error)
	cancelRequestFn     func(context.Context, uuid.UUID, uuid.UUID) (bool, error)
	findOwnerFn         func(context.Context, uuid.UUID, uuid.UUID) (*models.EstablishmentOwner, error)
}

func (s *ownershipRepoStub) CreateRequest(ctx context.Context, r *models.OwnershipRequest) error {
	return s.createRequestFn(ctx, r)
}
func (s *ownershipRepoStub) GetRequest(ctx context.Context, id uuid.UUID) (*models.OwnershipRequest, error) {
	return s.getRequestFn(ctx, id)
}
func (s *ownershipRepoStub) HasPendingRequest(ctx context.Context, userID, estID uuid.UUID) (bool, error) {
	return s.hasPendingRequestFn(ctx, userID, estID)
}
func (s *ownershipRepoStub) ApproveRequest(ctx context.Context, a repository.OwnershipApproval) (*models.EstablishmentOwner, error) {
	return s.approveRequestFn(ctx, a)
}
func (s *ownershipRepoStub) RejectRequest(ctx context.Context, id, reviewerID uuid.UUID, notes string, at time.Time) (bool, error) {
	return s.rejectRequestFn(ctx, id, reviewerID, notes, at)
}
func (s *ownershipRepoStub) CancelRequest(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	return s.cancelRequestFn(ctx, id, userID)
}
func (s *ownershipRepoStub) FindOwner(ctx context.Context, userID, estID uuid.UUID) (*models.EstablishmentOwner, error) {
	return s.findOwnerFn(ctx, userID, estID)
}

type commentRepoStub struct {
	repository.CommentRepository
	createFn          func(context.Context, *models.Comment) error
	getByIDFn         func(context.Context, uuid.UUID) (*models.Comment, error)
	createReportFn    func(context.Context, *models.CommentReport) error
	getReportFn       func(context.Context, uuid.UUID) (*models.CommentReport, error)
	setReportStatusFn func(context.Context, uuid.UUID, models.ReportStatus, uuid.UUID, time.Time) (bool, error)
	resolvePendingFn  func(context.Context, uuid.UUID, uuid.UUID, time.Time) (int64, error)
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) CreateReport(ctx context.Context, r *models.CommentReport) error {
	return s.createReportFn(ctx, r)
}
func (s *commentRepoStub) GetReport(ctx context.Context, id uuid.UUID) (*models.CommentReport, error) {
	return s.getReportFn(ctx, id)
}
func (s *commentRepoStub) SetReportStatus(ctx context.Context, id uuid.UUID, st models.ReportStatus, reviewer uuid.UUID, at time.Time) (bool, error) {
	return s.setReportStatusFn(ctx, id, st, reviewer, at)
}
func (s *commentRepoStub) ResolvePendingReports(ctx context.Context, commentID, reviewer uuid.UUID, at time.Time) (int64, error) {
	return s.resolvePendingFn(ctx, commentID, reviewer, at)
}

type statsRepoStub struct {
	aggregateFn func(context.Context) (*models.DashboardStats, error)
	countEachFn func(context.Context) (*models.DashboardStats, error)
}

func (s *statsRepoStub) Aggregate(ctx context.Context) (*models.DashboardStats, error) {
	return s.aggregateFn(ctx)
}
func (s *statsRepoStub) CountEach(ctx context.Context) (*models.DashboardStats, error) {
	return s.countEachFn(ctx)
}

type userRepoStub struct {
	createFn     func(context.Context, *models.User) error
	getByIDFn    func(context.Context, uuid.UUID) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
	updateFn     func(context.Context, *models.User) error
}

func (s *userRepoStub) Create(ctx context.Context, u *models.User) error {
	return s.createFn(ctx, u)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Update(ctx context.Context, u *models.User) error {
	return s.updateFn(ctx, u)
}

type notificationRepoStub struct {
	repository.NotificationRepository
	createFn func(context.Context, *models.Notification) error
}

func (s *notificationRepoStub) Create(ctx context.Context, n *models.Notification) error {
	return s.createFn(ctx, n)
}

type gamificationRepoStub struct {
	repository.GamificationRepository
	awardFn func(context.Context, *models.XPTransaction) (*models.UserPoints, error)
}

func (s *gamificationRepoStub) Award(ctx context.Context, tx *models.XPTransaction) (*models.UserPoints, error) {
	return s.awardFn(ctx, tx)
}

// permsStub grants the listed permissions on every establishment.
type permsStub struct {
	granted map[models.Permission]bool
	// scope limits non-staff grants to these establishments when set.
	scope   map[uuid.UUID]bool
	err     error
}

func (p *permsStub) Can(_ context.Context, user *models.User, establishmentID uuid.UUID, perm models.Permission) (bool, error) {
	if user.IsStaff() {
		return true, nil
	}
	if p.scope != nil && !p.scope[establishmentID] {
		return false, p.err
	}
	return p.granted[perm], p.err
}

type notifierStub struct {
	calls []NotifyInput
	err   error
}

func (n *notifierStub) Notify(_ context.Context, in NotifyInput) (*models.Notification, error) {
	n.calls = append(n.calls, in)
	if n.err != nil {
		return nil, n.err
	}
	return &models.Notification{ID: uuid.New(), UserID: in.UserID, Type: in.Type}, nil
}

type xpStub struct {
	calls []AwardInput
	err   error
}

func (x *xpStub) Award(_ context.Context, in AwardInput) (*models.UserPoints, error) {
	x.calls = append(x.calls, in)
	if x.err != nil {
		return nil, x.err
	}
	return &models.UserPoints{UserID: in.UserID, TotalXP: in.Amount}, nil
}

type publisherStub struct {
	err   error
	calls int
}

func (p *publisherStub) PublishUser(context.Context, uuid.UUID, []byte) error {
	p.calls++
	return p.err
}

type pushStub struct {
	payloads []queue.PushPayload
	err      error
}

func (p *pushStub) EnqueuePush(_ context.Context, payload queue.PushPayload) error {
	p.payloads = append(p.payloads, payload)
	return p.err
}

type legacyStub struct {
	registered []uuid.UUID
	err        error
}

func (l *legacyStub) Register(_ context.Context, _ models.ModerationKind, id uuid.UUID) error {
	l.registered = append(l.registered, id)
	return l.err
}

var errStub = errors.New("stub failure")

func newUser(role models.Role) *models.User {
	return &models.User{ID: uuid.New(), Pseudonym: "user", Role: role, AccountType: models.AccountRegular, IsActive: true}
}

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, code, appErr.Code, appErr.Message)
}
