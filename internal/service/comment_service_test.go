package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"nightlife/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type takeDownStub struct {
	calls []string
	err   error
}

func (s *takeDownStub) TakeDown(_ context.Context, kind models.ModerationKind, id uuid.UUID, _ *models.User, reason string) (*ModerationResult, error) {
	s.calls = append(s.calls, reason)
	if s.err != nil {
		return nil, s.err
	}
	return &ModerationResult{Kind: kind, ID: id, Status: models.StatusRejected, Changed: true}, nil
}

func visibleEmployees() *employeeRepoStub {
	return &employeeRepoStub{
		getByIDFn: func(_ context.Context, id uuid.UUID) (*models.Employee, error) {
			return &models.Employee{ID: id, Moderation: models.Moderation{Status: models.StatusApproved}}, nil
		},
	}
}

func TestComment_CreateValidation(t *testing.T) {
	svc := NewCommentService(&commentRepoStub{}, visibleEmployees(), nil)
	user := newUser(models.RoleUser)
	ctx := context.Background()

	tests := []struct {
		name string
		in   CreateCommentInput
	}{
		{"empty", CreateCommentInput{Content: "   "}},
		{"rating too low", CreateCommentInput{Rating: intPtr(0)}},
		{"rating too high", CreateCommentInput{Rating: intPtr(6)}},
		{"too long", CreateCommentInput{Content: strings.Repeat("x", maxCommentLength+1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, user, uuid.New(), tt.in)
			assertCode(t, err, models.CodeValidation)
		})
	}
}

func TestComment_CreateRatingOnlyIsPending(t *testing.T) {
	var stored *models.Comment
	repo := &commentRepoStub{createFn: func(_ context.Context, c *models.Comment) error {
		stored = c
		return nil
	}}
	svc := NewCommentService(repo, visibleEmployees(), nil)

	_, err := svc.Create(context.Background(), newUser(models.RoleUser), uuid.New(), CreateCommentInput{Rating: intPtr(4)})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.Equal(t, 4, *stored.Rating)
}

func TestComment_CreateOnHiddenEmployeeIsNotFound(t *testing.T) {
	employees := &employeeRepoStub{
		getByIDFn: func(_ context.Context, id uuid.UUID) (*models.Employee, error) {
			return &models.Employee{ID: id, IsHidden: true, Moderation: models.Moderation{Status: models.StatusApproved}}, nil
		},
	}
	svc := NewCommentService(&commentRepoStub{}, employees, nil)

	_, err := svc.Create(context.Background(), newUser(models.RoleUser), uuid.New(), CreateCommentInput{Content: "hi"})
	assertCode(t, err, models.CodeNotFound)
}

func TestComment_DuplicateReportConflicts(t *testing.T) {
	repo := &commentRepoStub{
		getByIDFn: func(_ context.Context, id uuid.UUID) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		createReportFn: func(context.Context, *models.CommentReport) error {
			return errors.New("UNIQUE constraint failed: comment_reports.comment_id, comment_reports.reported_by")
		},
	}
	svc := NewCommentService(repo, visibleEmployees(), nil)

	_, err := svc.Report(context.Background(), newUser(models.RoleUser), uuid.New(), "spam")
	assertCode(t, err, models.CodeConflict)
}

func TestComment_ResolveTakesDownAndClosesReports(t *testing.T) {
	commentID := uuid.New()
	report := &models.CommentReport{ID: uuid.New(), CommentID: commentID, Reason: "insults staff", Status: models.ReportPending}
	var closedFor uuid.UUID
	repo := &commentRepoStub{
		getReportFn: func(context.Context, uuid.UUID) (*models.CommentReport, error) {
			copied := *report
			return &copied, nil
		},
		resolvePendingFn: func(_ context.Context, id, _ uuid.UUID, _ time.Time) (int64, error) {
			closedFor = id
			report.Status = models.ReportResolved
			return 2, nil
		},
	}
	mod := &takeDownStub{}
	svc := NewCommentService(repo, visibleEmployees(), mod)

	out, err := svc.Resolve(context.Background(), newUser(models.RoleModerator), report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportResolved, out.Status)
	assert.Equal(t, []string{"insults staff"}, mod.calls)
	assert.Equal(t, commentID, closedFor)
}

func TestComment_ResolveDismissedReportConflicts(t *testing.T) {
	repo := &commentRepoStub{
		getReportFn: func(_ context.Context, id uuid.UUID) (*models.CommentReport, error) {
			return &models.CommentReport{ID: id, Status: models.ReportDismissed}, nil
		},
	}
	mod := &takeDownStub{}
	svc := NewCommentService(repo, visibleEmployees(), mod)

	_, err := svc.Resolve(context.Background(), newUser(models.RoleAdmin), uuid.New())
	assertCode(t, err, models.CodeInvalidTransition)
	assert.Empty(t, mod.calls)
}

func TestComment_DismissIsIdempotent(t *testing.T) {
	repo := &commentRepoStub{
		getReportFn: func(_ context.Context, id uuid.UUID) (*models.CommentReport, error) {
			return &models.CommentReport{ID: id, Status: models.ReportDismissed}, nil
		},
	}
	svc := NewCommentService(repo, visibleEmployees(), nil)

	out, err := svc.Dismiss(context.Background(), newUser(models.RoleModerator), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, models.ReportDismissed, out.Status)
}

func intPtr(v int) *int { return &v }
