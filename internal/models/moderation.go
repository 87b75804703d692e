package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ModerationStatus is the review lifecycle of user-submitted content.
type ModerationStatus string

const (
	// StatusPending marks content awaiting review.
	StatusPending ModerationStatus = "pending"
	// StatusApproved marks content visible to the public.
	StatusApproved ModerationStatus = "approved"
	// StatusRejected marks content declined by a moderator.
	StatusRejected ModerationStatus = "rejected"
)

// Valid reports whether s is one of the three lifecycle states.
func (s ModerationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// ParseModerationStatus validates a status filter; an empty string yields def.
func ParseModerationStatus(raw string, def ModerationStatus) (ModerationStatus, error) {
	if raw == "" {
		return def, nil
	}
	s := ModerationStatus(raw)
	if !s.Valid() {
		return "", NewCodedValidationError(CodeInvalidStatus, "status must be pending, approved or rejected")
	}
	return s, nil
}

// ModerationKind names an entity type governed by the moderation workflow.
type ModerationKind string

const (
	KindEstablishment ModerationKind = "establishment"
	KindEmployee      ModerationKind = "employee"
	KindComment       ModerationKind = "comment"
)

// Table returns the table backing the kind.
func (k ModerationKind) Table() string {
	switch k {
	case KindEstablishment:
		return "establishments"
	case KindEmployee:
		return "employees"
	case KindComment:
		return "comments"
	}
	return ""
}

// Moderation holds the review columns shared by moderated entities.
type Moderation struct {
	Status          ModerationStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ModeratedBy     *uuid.UUID       `gorm:"type:uuid" json:"moderated_by,omitempty"`
	ModeratedAt     *time.Time       `json:"moderated_at,omitempty"`
	RejectionReason string           `gorm:"type:text" json:"rejection_reason,omitempty"`
}

// ModerationRecord is the minimal projection the state machine needs.
type ModerationRecord struct {
	ID        uuid.UUID
	Status    ModerationStatus
	CreatedBy *uuid.UUID
	Label     string
}

func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func checkStatus(tx *gorm.DB, s ModerationStatus) error {
	if s == "" || s.Valid() {
		return nil
	}
	tx.AddError(NewCodedValidationError(CodeInvalidStatus, "invalid moderation status "+string(s)))
	return tx.Error
}
