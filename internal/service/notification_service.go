package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"nightlife/internal/models"
	"nightlife/internal/queue"
	"nightlife/internal/repository"

	"github.com/google/uuid"
)

// UserPublisher fans a payload out to a user's live channel.
type UserPublisher interface {
	PublishUser(ctx context.Context, userID uuid.UUID, payload []byte) error
}

// PushEnqueuer schedules an outbound push delivery.
type PushEnqueuer interface {
	EnqueuePush(ctx context.Context, payload queue.PushPayload) error
}

// NotifyInput describes one notification.
type NotifyInput struct {
	UserID     uuid.UUID
	Type       models.NotificationType
	Title      string
	Message    string
	EntityType string
	EntityID   *uuid.UUID
}

type NotificationService struct {
	repo      repository.NotificationRepository
	publisher UserPublisher
	push      PushEnqueuer
	now       clock
}

// NewNotificationService wires the store with optional live and push fan-out.
func NewNotificationService(repo repository.NotificationRepository, publisher UserPublisher, push PushEnqueuer) *NotificationService {
	return &NotificationService{repo: repo, publisher: publisher, push: push, now: utcNow}
}

// Notify persists the notification, then publishes and enqueues a push.
// Only the insert can fail the call.
func (s *NotificationService) Notify(ctx context.Context, in NotifyInput) (*models.Notification, error) {
	n := &models.Notification{
		UserID:     in.UserID,
		Type:       in.Type,
		Title:      in.Title,
		Message:    in.Message,
		EntityType: in.EntityType,
		EntityID:   in.EntityID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		payload, _ := json.Marshal(n)
		if err := s.publisher.PublishUser(ctx, n.UserID, payload); err != nil {
			sideEffectFailed("notification_publish", err, slog.String("notification_id", n.ID.String()))
		}
	}
	if s.push != nil {
		if err := s.push.EnqueuePush(ctx, queue.PushPayload{
			NotificationID: n.ID,
			UserID:         n.UserID,
			Type:           string(n.Type),
			Title:          n.Title,
			Message:        n.Message,
			EntityType:     n.EntityType,
			EntityID:       n.EntityID,
		}); err != nil {
			sideEffectFailed("notification_push", err, slog.String("notification_id", n.ID.String()))
		}
	}
	return n, nil
}

// NotificationPage is one page of a user's notifications.
type NotificationPage struct {
	Notifications []models.Notification `json:"notifications"`
	Total         int64                 `json:"total"`
	Unread        int64                 `json:"unread"`
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, page repository.Page) (*NotificationPage, error) {
	rows, total, err := s.repo.ListByUser(ctx, userID, unreadOnly, page)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.Notification{}
	}
	return &NotificationPage{Notifications: rows, Total: total, Unread: unread}, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.UnreadCount(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	return translate(s.repo.MarkRead(ctx, id, userID, s.now()), "notification", id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID, s.now())
}
