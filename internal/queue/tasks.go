// Package queue carries background push deliveries over asynq.
package queue

import "github.com/google/uuid"

const (
	TypePushNotification = "notification:push"
)

// PushPayload is the body forwarded to the push gateway.
type PushPayload struct {
	NotificationID uuid.UUID  `json:"notification_id"`
	UserID         uuid.UUID  `json:"user_id"`
	Type           string     `json:"type"`
	Title          string     `json:"title"`
	Message        string     `json:"message"`
	EntityType     string     `json:"entity_type,omitempty"`
	EntityID       *uuid.UUID `json:"entity_id,omitempty"`
}
