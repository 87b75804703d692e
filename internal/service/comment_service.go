package service

import (
	"context"
	"log/slog"
	"strings"

	"nightlife/internal/middleware"
	"nightlife/internal/models"
	"nightlife/internal/repository"

	"github.com/google/uuid"
)

const maxCommentLength = 2000

// ContentModerator rejects content on behalf of report handling.
type ContentModerator interface {
	TakeDown(ctx context.Context, kind models.ModerationKind, id uuid.UUID, moderator *models.User, reason string) (*ModerationResult, error)
}

// CreateCommentInput is a review, a rating, or both.
type CreateCommentInput struct {
	Content string
	Rating  *int
}

// CommentThread is the public review list of one employee.
type CommentThread struct {
	Comments []models.Comment         `json:"comments"`
	Total    int64                    `json:"total"`
	Rating   repository.RatingSummary `json:"rating"`
}

type CommentService struct {
	repo      repository.CommentRepository
	employees repository.EmployeeRepository
	moderator ContentModerator
	now       clock
}

func NewCommentService(repo repository.CommentRepository, employees repository.EmployeeRepository, moderator ContentModerator) *CommentService {
	return &CommentService{repo: repo, employees: employees, moderator: moderator, now: utcNow}
}

// Create stores a pending comment on a visible employee profile.
func (s *CommentService) Create(ctx context.Context, user *models.User, employeeID uuid.UUID, in CreateCommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" && in.Rating == nil {
		return nil, models.NewValidationError("content or rating is required")
	}
	if len([]rune(content)) > maxCommentLength {
		return nil, models.NewValidationError("content is too long").WithContext("max_length", maxCommentLength)
	}
	if in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5) {
		return nil, models.NewValidationError("rating must be between 1 and 5")
	}

	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return nil, translate(err, "employee", employeeID)
	}
	if !emp.PubliclyVisible() {
		return nil, models.NewNotFoundError("employee", employeeID)
	}

	comment := &models.Comment{
		EmployeeID: employeeID,
		UserID:     user.ID,
		Content:    content,
		Rating:     in.Rating,
		Moderation: models.Moderation{Status: models.StatusPending},
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, translate(err, "comment", employeeID)
	}
	return comment, nil
}

func (s *CommentService) ListForEmployee(ctx context.Context, employeeID uuid.UUID, page repository.Page) (*CommentThread, error) {
	rows, total, err := s.repo.ListApprovedByEmployee(ctx, employeeID, page)
	if err != nil {
		return nil, err
	}
	rating, err := s.repo.Rating(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.Comment{}
	}
	return &CommentThread{Comments: rows, Total: total, Rating: *rating}, nil
}

func (s *CommentService) List(ctx context.Context, status models.ModerationStatus, page repository.Page) ([]models.Comment, int64, error) {
	rows, total, err := s.repo.List(ctx, status, page)
	if rows == nil {
		rows = []models.Comment{}
	}
	return rows, total, err
}

// Report flags a comment. A user may report a given comment once.
func (s *CommentService) Report(ctx context.Context, user *models.User, commentID uuid.UUID, reason string) (*models.CommentReport, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, models.NewCodedValidationError(models.CodeReasonRequired, "A report reason is required")
	}
	if _, err := s.repo.GetByID(ctx, commentID); err != nil {
		return nil, translate(err, "comment", commentID)
	}

	report := &models.CommentReport{
		CommentID:  commentID,
		ReportedBy: user.ID,
		Reason:     reason,
		Status:     models.ReportPending,
	}
	if err := s.repo.CreateReport(ctx, report); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, models.NewConflictError("You already reported this comment")
		}
		return nil, err
	}
	return report, nil
}

func (s *CommentService) ListReports(ctx context.Context, status models.ReportStatus, page repository.Page) ([]models.CommentReport, int64, error) {
	if status == "" {
		status = models.ReportPending
	}
	rows, total, err := s.repo.ListReports(ctx, status, page)
	if rows == nil {
		rows = []models.CommentReport{}
	}
	return rows, total, err
}

// Dismiss closes a report without touching the comment.
func (s *CommentService) Dismiss(ctx context.Context, moderator *models.User, reportID uuid.UUID) (*models.CommentReport, error) {
	if !moderator.IsStaff() {
		return nil, models.NewForbiddenError("Moderator or admin role required")
	}
	report, err := s.report(ctx, reportID, models.ReportDismissed)
	if err != nil || report.Status == models.ReportDismissed {
		return report, err
	}

	applied, err := s.repo.SetReportStatus(ctx, reportID, models.ReportDismissed, moderator.ID, s.now())
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, models.NewConflictError("The report was handled by someone else")
	}
	return s.repo.GetReport(ctx, reportID)
}

// Resolve upholds a report: the comment is rejected with the report reason
// and every pending report on it is closed.
func (s *CommentService) Resolve(ctx context.Context, moderator *models.User, reportID uuid.UUID) (*models.CommentReport, error) {
	if !moderator.IsStaff() {
		return nil, models.NewForbiddenError("Moderator or admin role required")
	}
	report, err := s.report(ctx, reportID, models.ReportResolved)
	if err != nil || report.Status == models.ReportResolved {
		return report, err
	}

	if _, err := s.moderator.TakeDown(ctx, models.KindComment, report.CommentID, moderator, report.Reason); err != nil {
		return nil, err
	}
	n, err := s.repo.ResolvePendingReports(ctx, report.CommentID, moderator.ID, s.now())
	if err != nil {
		return nil, err
	}
	middleware.Logger.InfoContext(ctx, "comment report resolved",
		slog.String("report_id", reportID.String()),
		slog.String("comment_id", report.CommentID.String()),
		slog.Int64("reports_closed", n))
	return s.repo.GetReport(ctx, reportID)
}

// report loads a report that is pending or already in target.
func (s *CommentService) report(ctx context.Context, id uuid.UUID, target models.ReportStatus) (*models.CommentReport, error) {
	report, err := s.repo.GetReport(ctx, id)
	if err != nil {
		return nil, translate(err, "report", id)
	}
	if report.Status != models.ReportPending && report.Status != target {
		return nil, &models.AppError{
			Code:    models.CodeInvalidTransition,
			Message: "Report is already " + string(report.Status),
		}
	}
	return report, nil
}
