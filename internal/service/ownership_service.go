package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"nightlife/internal/middleware"
	"nightlife/internal/models"
	"nightlife/internal/observability"
	"nightlife/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxOwnershipDocuments = 5

// CreateOwnershipRequestInput is a claim submitted by an owner account.
type CreateOwnershipRequestInput struct {
	EstablishmentID  uuid.UUID
	RequestMessage   string
	DocumentURLs     []string
	VerificationCode string
	ContactMe        bool
}

// ApproveOwnershipInput is the admin's decision payload. A nil Permissions
// falls back to the role defaults.
type ApproveOwnershipInput struct {
	AdminNotes  string
	OwnerRole   string
	Permissions *models.OwnerPermissions
}

// UpdateOwnerInput changes an existing link. Nil fields are left as-is.
type UpdateOwnerInput struct {
	OwnerRole   *string
	Permissions *models.OwnerPermissions
}

type OwnershipService struct {
	repo           repository.OwnershipRepository
	establishments repository.EstablishmentRepository
	notifier       Notifier
	now            clock
}

func NewOwnershipService(repo repository.OwnershipRepository, establishments repository.EstablishmentRepository, notifier Notifier) *OwnershipService {
	return &OwnershipService{repo: repo, establishments: establishments, notifier: notifier, now: utcNow}
}

func (s *OwnershipService) CreateRequest(ctx context.Context, user *models.User, in CreateOwnershipRequestInput) (*models.OwnershipRequest, error) {
	if user == nil || user.AccountType != models.AccountEstablishmentOwner {
		return nil, &models.AppError{Code: models.CodeAccountTypeNeeded, Message: "An establishment owner account is required"}
	}
	if in.EstablishmentID == uuid.Nil {
		return nil, models.NewValidationError("establishment_id is required")
	}
	message := strings.TrimSpace(in.RequestMessage)
	if message == "" {
		return nil, models.NewValidationError("request_message is required")
	}
	if len(in.DocumentURLs) > maxOwnershipDocuments {
		return nil, models.NewValidationError(fmt.Sprintf("At most %d documents may be attached", maxOwnershipDocuments))
	}

	if _, err := s.establishments.GetByID(ctx, in.EstablishmentID); err != nil {
		return nil, translate(err, "establishment", in.EstablishmentID)
	}

	if _, err := s.repo.FindOwner(ctx, user.ID, in.EstablishmentID); err == nil {
		return nil, models.NewConflictError("You already manage this establishment")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	pending, err := s.repo.HasPendingRequest(ctx, user.ID, in.EstablishmentID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, models.NewConflictError("A pending request for this establishment already exists")
	}

	req := &models.OwnershipRequest{
		UserID:           user.ID,
		EstablishmentID:  in.EstablishmentID,
		Status:           models.StatusPending,
		DocumentURLs:     in.DocumentURLs,
		RequestMessage:   message,
		ContactMe:        in.ContactMe,
		VerificationCode: strings.TrimSpace(in.VerificationCode),
	}
	if err := s.repo.CreateRequest(ctx, req); err != nil {
		return nil, translate(err, "ownership request", req.EstablishmentID)
	}
	observability.OwnershipRequests.WithLabelValues("created").Inc()
	return req, nil
}

func (s *OwnershipService) ListMine(ctx context.Context, userID uuid.UUID) ([]models.OwnershipRequest, error) {
	rows, err := s.repo.ListRequestsByUser(ctx, userID)
	if rows == nil {
		rows = []models.OwnershipRequest{}
	}
	return rows, err
}

func (s *OwnershipService) List(ctx context.Context, status models.ModerationStatus, page repository.Page) ([]models.OwnershipRequest, int64, error) {
	if status == "" {
		status = models.StatusPending
	}
	rows, total, err := s.repo.ListRequests(ctx, status, page)
	if rows == nil {
		rows = []models.OwnershipRequest{}
	}
	return rows, total, err
}

// Approve accepts a pending claim. The link and the account type change
// commit together with the status.
func (s *OwnershipService) Approve(ctx context.Context, id uuid.UUID, admin *models.User, in ApproveOwnershipInput) (*models.EstablishmentOwner, error) {
	if !admin.IsAdmin() {
		return nil, models.NewForbiddenError("Admin role required")
	}
	role, err := models.ParseOwnerRole(strings.TrimSpace(in.OwnerRole))
	if err != nil {
		return nil, err
	}
	perms := models.DefaultPermissions(role)
	if in.Permissions != nil {
		perms = *in.Permissions
	}

	req, err := s.repo.GetRequest(ctx, id)
	if err != nil {
		return nil, translate(err, "ownership request", id)
	}
	if req.Status == models.StatusApproved {
		return s.existingLink(ctx, req)
	}
	if req.Status != models.StatusPending {
		return nil, models.NewTransitionError("ownership request", req.Status, models.StatusApproved)
	}

	link, err := s.repo.ApproveRequest(ctx, repository.OwnershipApproval{
		RequestID:   id,
		ReviewerID:  admin.ID,
		AdminNotes:  strings.TrimSpace(in.AdminNotes),
		OwnerRole:   role,
		Permissions: perms,
		At:          s.now(),
	})
	if err != nil {
		return nil, err
	}
	if link == nil {
		current, getErr := s.repo.GetRequest(ctx, id)
		if getErr != nil {
			return nil, translate(getErr, "ownership request", id)
		}
		if current.Status == models.StatusApproved {
			return s.existingLink(ctx, current)
		}
		return nil, models.NewTransitionError("ownership request", current.Status, models.StatusApproved)
	}

	observability.OwnershipRequests.WithLabelValues("approved").Inc()
	middleware.Logger.InfoContext(ctx, "ownership request approved",
		slog.String("request_id", id.String()),
		slog.String("establishment_id", req.EstablishmentID.String()),
		slog.String("owner_role", string(role)))

	s.notify(ctx, req, models.NotifyOwnershipRequestApproved, "Your ownership request was approved",
		fmt.Sprintf("You can now manage %s.", establishmentName(req)))
	return link, nil
}

// Reject declines a pending claim. Notes are checked before any read.
func (s *OwnershipService) Reject(ctx context.Context, id uuid.UUID, admin *models.User, notes string) (*models.OwnershipRequest, error) {
	if !admin.IsAdmin() {
		return nil, models.NewForbiddenError("Admin role required")
	}
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return nil, models.NewCodedValidationError(models.CodeNotesRequired, "admin_notes are required to reject a request")
	}

	req, err := s.repo.GetRequest(ctx, id)
	if err != nil {
		return nil, translate(err, "ownership request", id)
	}
	if req.Status == models.StatusRejected {
		return req, nil
	}
	if req.Status != models.StatusPending {
		return nil, models.NewTransitionError("ownership request", req.Status, models.StatusRejected)
	}

	at := s.now()
	ok, err := s.repo.RejectRequest(ctx, id, admin.ID, notes, at)
	if err != nil {
		return nil, err
	}
	if !ok {
		current, getErr := s.repo.GetRequest(ctx, id)
		if getErr != nil {
			return nil, translate(getErr, "ownership request", id)
		}
		if current.Status == models.StatusRejected {
			return current, nil
		}
		return nil, models.NewTransitionError("ownership request", current.Status, models.StatusRejected)
	}

	observability.OwnershipRequests.WithLabelValues("rejected").Inc()
	req.Status = models.StatusRejected
	req.AdminNotes = notes
	req.ReviewedBy = &admin.ID
	req.ReviewedAt = &at

	s.notify(ctx, req, models.NotifyOwnershipRequestRejected, "Your ownership request was rejected", notes)
	return req, nil
}

// Cancel deletes the caller's own pending request.
func (s *OwnershipService) Cancel(ctx context.Context, id uuid.UUID, user *models.User) error {
	req, err := s.repo.GetRequest(ctx, id)
	if err != nil {
		return translate(err, "ownership request", id)
	}
	if req.UserID != user.ID {
		return models.NewForbiddenError("You can only cancel your own requests")
	}
	if req.Status != models.StatusPending {
		return models.NewTransitionError("ownership request", req.Status, "cancelled")
	}

	ok, err := s.repo.CancelRequest(ctx, id, user.ID)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewConflictError("The request was reviewed before it could be cancelled")
	}
	observability.OwnershipRequests.WithLabelValues("cancelled").Inc()
	return nil
}

func (s *OwnershipService) MyEstablishments(ctx context.Context, userID uuid.UUID) ([]models.EstablishmentOwner, error) {
	rows, err := s.repo.ListOwnedBy(ctx, userID)
	if rows == nil {
		rows = []models.EstablishmentOwner{}
	}
	return rows, err
}

func (s *OwnershipService) OwnersOf(ctx context.Context, establishmentID uuid.UUID) ([]models.EstablishmentOwner, error) {
	if _, err := s.establishments.GetByID(ctx, establishmentID); err != nil {
		return nil, translate(err, "establishment", establishmentID)
	}
	rows, err := s.repo.ListOwnersOf(ctx, establishmentID)
	if rows == nil {
		rows = []models.EstablishmentOwner{}
	}
	return rows, err
}

func (s *OwnershipService) UpdateOwner(ctx context.Context, id uuid.UUID, in UpdateOwnerInput) (*models.EstablishmentOwner, error) {
	owner, err := s.repo.GetOwner(ctx, id)
	if err != nil {
		return nil, translate(err, "establishment owner", id)
	}
	if in.OwnerRole != nil {
		role, err := models.ParseOwnerRole(strings.TrimSpace(*in.OwnerRole))
		if err != nil {
			return nil, err
		}
		owner.OwnerRole = role
	}
	if in.Permissions != nil {
		owner.Permissions = *in.Permissions
	}
	if err := s.repo.UpdateOwner(ctx, owner); err != nil {
		return nil, err
	}
	return owner, nil
}

func (s *OwnershipService) RevokeOwner(ctx context.Context, id uuid.UUID) error {
	return translate(s.repo.DeleteOwner(ctx, id), "establishment owner", id)
}

// Can reports whether user may act on establishmentID with perm. Staff
// always can.
func (s *OwnershipService) Can(ctx context.Context, user *models.User, establishmentID uuid.UUID, perm models.Permission) (bool, error) {
	if user == nil {
		return false, nil
	}
	if user.IsStaff() {
		return true, nil
	}
	owner, err := s.repo.FindOwner(ctx, user.ID, establishmentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return owner.Permissions.Has(perm), nil
}

func (s *OwnershipService) notify(ctx context.Context, req *models.OwnershipRequest, typ models.NotificationType, title, message string) {
	if s.notifier == nil {
		return
	}
	estID := req.EstablishmentID
	if _, err := s.notifier.Notify(ctx, NotifyInput{
		UserID:     req.UserID,
		Type:       typ,
		Title:      title,
		Message:    message,
		EntityType: "establishment",
		EntityID:   &estID,
	}); err != nil {
		sideEffectFailed("notification", err, slog.String("request_id", req.ID.String()))
	}
}

// existingLink answers a repeated approval with the link it created.
func (s *OwnershipService) existingLink(ctx context.Context, req *models.OwnershipRequest) (*models.EstablishmentOwner, error) {
	owner, err := s.repo.FindOwner(ctx, req.UserID, req.EstablishmentID)
	if err != nil {
		return nil, translate(err, "establishment owner", req.EstablishmentID)
	}
	return owner, nil
}

func establishmentName(req *models.OwnershipRequest) string {
	if req.Establishment != nil && req.Establishment.Name != "" {
		return req.Establishment.Name
	}
	return "the establishment"
}
