package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationType identifies the event a notification describes.
type NotificationType string

const (
	NotifyContentApproved          NotificationType = "content_approved"
	NotifyContentRejected          NotificationType = "content_rejected"
	NotifyOwnershipRequestApproved NotificationType = "ownership_request_approved"
	NotifyOwnershipRequestRejected NotificationType = "ownership_request_rejected"
	NotifyXPAwarded                NotificationType = "xp_awarded"
)

// Notification is a persisted in-app message for one user.
type Notification struct {
	ID         uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	Type       NotificationType `gorm:"type:varchar(50);not null" json:"type"`
	Title      string           `gorm:"size:200;not null" json:"title"`
	Message    string           `gorm:"type:text" json:"message"`
	EntityType string           `gorm:"size:40" json:"entity_type,omitempty"`
	EntityID   *uuid.UUID       `gorm:"type:uuid" json:"entity_id,omitempty"`
	IsRead     bool             `gorm:"not null;default:false;index" json:"is_read"`
	ReadAt     *time.Time       `json:"read_at,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

// BeforeCreate assigns the primary key.
func (n *Notification) BeforeCreate(_ *gorm.DB) error {
	assignID(&n.ID)
	return nil
}
