package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a review or star rating on an employee profile.
type Comment struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index" json:"employee_id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Content    string    `gorm:"type:text" json:"content"`
	Rating     *int      `json:"rating,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Moderation `gorm:"embedded"`
}

// BeforeCreate assigns the primary key and checks the status enum.
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return checkStatus(tx, c.Status)
}

// BeforeSave rejects statuses outside the lifecycle enum.
func (c *Comment) BeforeSave(tx *gorm.DB) error {
	return checkStatus(tx, c.Status)
}

// ReportStatus is the triage state of an abuse report.
type ReportStatus string

const (
	ReportPending   ReportStatus = "pending"
	ReportDismissed ReportStatus = "dismissed"
	ReportResolved  ReportStatus = "resolved"
)

// ParseReportStatus validates a report filter; an empty string yields def.
func ParseReportStatus(raw string, def ReportStatus) (ReportStatus, error) {
	switch s := ReportStatus(raw); s {
	case "":
		return def, nil
	case ReportPending, ReportDismissed, ReportResolved:
		return s, nil
	}
	return "", NewCodedValidationError(CodeInvalidStatus, "status must be pending, dismissed or resolved")
}

// CommentReport flags a comment for moderator attention.
type CommentReport struct {
	ID         uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	CommentID  uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_report_comment_user" json:"comment_id"`
	Comment    *Comment     `gorm:"foreignKey:CommentID" json:"comment,omitempty"`
	ReportedBy uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_report_comment_user" json:"reported_by"`
	Reason     string       `gorm:"type:text;not null" json:"reason"`
	Status     ReportStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ReviewedBy *uuid.UUID   `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time   `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// BeforeCreate assigns the primary key.
func (r *CommentReport) BeforeCreate(_ *gorm.DB) error {
	assignID(&r.ID)
	return nil
}
