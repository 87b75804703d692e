package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxEmployeePhotos caps the photo list of a profile.
const MaxEmployeePhotos = 5

// Employee is a staff or performer profile.
type Employee struct {
	ID                     uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Name                   string            `gorm:"size:100;not null" json:"name"`
	Nickname               string            `gorm:"size:100" json:"nickname,omitempty"`
	Age                    *int              `json:"age,omitempty"`
	Nationality            string            `gorm:"size:60" json:"nationality,omitempty"`
	Description            string            `gorm:"type:text" json:"description,omitempty"`
	Photos                 []string          `gorm:"type:text;serializer:json" json:"photos"`
	SocialMedia            map[string]string `gorm:"type:text;serializer:json" json:"social_media,omitempty"`
	IsVerified             bool              `gorm:"not null;default:false" json:"is_verified"`
	VerifiedAt             *time.Time        `json:"verified_at,omitempty"`
	IsFreelance            bool              `gorm:"not null;default:false" json:"is_freelance"`
	VIPExpiresAt           *time.Time        `gorm:"column:vip_expires_at" json:"vip_expires_at,omitempty"`
	CurrentEstablishmentID *uuid.UUID        `gorm:"type:uuid;index" json:"current_establishment_id,omitempty"`
	UserID                 *uuid.UUID        `gorm:"type:uuid;index" json:"user_id,omitempty"`
	CreatedBy              *uuid.UUID        `gorm:"type:uuid;index" json:"created_by,omitempty"`
	IsHidden               bool              `gorm:"not null;default:false;index" json:"is_hidden"`
	HiddenBy               *uuid.UUID        `gorm:"type:uuid" json:"hidden_by,omitempty"`
	HiddenAt               *time.Time        `json:"hidden_at,omitempty"`
	HiddenReason           string            `gorm:"type:text" json:"hidden_reason,omitempty"`
	SelfRemovalRequestedAt *time.Time        `json:"self_removal_requested_at,omitempty"`
	CreatedAt              time.Time         `json:"created_at"`
	UpdatedAt              time.Time         `json:"updated_at"`
	Moderation             `gorm:"embedded"`
}

// BeforeCreate assigns the primary key and checks the status enum.
func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	assignID(&e.ID)
	if e.Photos == nil {
		e.Photos = []string{}
	}
	return checkStatus(tx, e.Status)
}

// BeforeSave rejects statuses outside the lifecycle enum.
func (e *Employee) BeforeSave(tx *gorm.DB) error {
	return checkStatus(tx, e.Status)
}

// PubliclyVisible reports whether the profile may appear in public listings.
func (e *Employee) PubliclyVisible() bool {
	return e.Status == StatusApproved && !e.IsHidden
}

// EmploymentHistory links an employee to an establishment for a time span.
// At most one row per employee has IsCurrent set.
type EmploymentHistory struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	EmployeeID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"employee_id"`
	EstablishmentID uuid.UUID      `gorm:"type:uuid;not null;index" json:"establishment_id"`
	Establishment   *Establishment `gorm:"foreignKey:EstablishmentID" json:"establishment,omitempty"`
	Position        string         `gorm:"size:80" json:"position,omitempty"`
	IsCurrent       bool           `gorm:"not null;default:false;index" json:"is_current"`
	StartDate       time.Time      `gorm:"not null" json:"start_date"`
	EndDate         *time.Time     `json:"end_date,omitempty"`
	CreatedBy       *uuid.UUID     `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (EmploymentHistory) TableName() string {
	return "employment_history"
}

// BeforeCreate assigns the primary key.
func (h *EmploymentHistory) BeforeCreate(_ *gorm.DB) error {
	assignID(&h.ID)
	return nil
}

// VoteType is a community validation signal.
type VoteType string

const (
	VoteExists    VoteType = "exists"
	VoteNotExists VoteType = "not_exists"
)

// Valid reports whether v is a known vote type.
func (v VoteType) Valid() bool {
	return v == VoteExists || v == VoteNotExists
}

// EmployeeExistenceVote records whether a user believes a profile is genuine.
type EmployeeExistenceVote struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_vote_employee_user" json:"employee_id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_vote_employee_user" json:"user_id"`
	VoteType   VoteType  `gorm:"type:varchar(20);not null" json:"vote_type"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BeforeCreate assigns the primary key.
func (v *EmployeeExistenceVote) BeforeCreate(_ *gorm.DB) error {
	assignID(&v.ID)
	return nil
}

// VoteTally summarises community votes for one employee.
type VoteTally struct {
	Exists    int64     `json:"exists"`
	NotExists int64     `json:"not_exists"`
	UserVote  *VoteType `json:"user_vote,omitempty"`
}
