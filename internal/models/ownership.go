package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OwnerRole is the management role granted on an establishment.
type OwnerRole string

const (
	OwnerRoleOwner   OwnerRole = "owner"
	OwnerRoleManager OwnerRole = "manager"
)

// ParseOwnerRole validates a requested role; an empty value means owner.
func ParseOwnerRole(raw string) (OwnerRole, error) {
	switch OwnerRole(raw) {
	case "":
		return OwnerRoleOwner, nil
	case OwnerRoleOwner, OwnerRoleManager:
		return OwnerRole(raw), nil
	}
	return "", NewCodedValidationError(CodeInvalidRole, "owner_role must be owner or manager")
}

// OwnerPermissions is the capability set of an ownership link. Column
// defaults live in the SQL schema only; a gorm default tag would turn a
// withheld false into true on insert.
type OwnerPermissions struct {
	CanEditInfo      bool `gorm:"not null" json:"can_edit_info"`
	CanEditPricing   bool `gorm:"not null" json:"can_edit_pricing"`
	CanEditPhotos    bool `gorm:"not null" json:"can_edit_photos"`
	CanEditEmployees bool `gorm:"not null" json:"can_edit_employees"`
	CanViewAnalytics bool `gorm:"not null" json:"can_view_analytics"`
}

// DefaultPermissions returns the permission set granted for a role when none is supplied.
func DefaultPermissions(role OwnerRole) OwnerPermissions {
	if role == OwnerRoleManager {
		return OwnerPermissions{CanEditInfo: true, CanEditPricing: true, CanEditPhotos: true}
	}
	return OwnerPermissions{
		CanEditInfo:      true,
		CanEditPricing:   true,
		CanEditPhotos:    true,
		CanEditEmployees: true,
		CanViewAnalytics: true,
	}
}

// Permission names a single capability flag.
type Permission string

const (
	PermEditInfo      Permission = "can_edit_info"
	PermEditPricing   Permission = "can_edit_pricing"
	PermEditPhotos    Permission = "can_edit_photos"
	PermEditEmployees Permission = "can_edit_employees"
	PermViewAnalytics Permission = "can_view_analytics"
)

// Has reports whether the set grants p.
func (p OwnerPermissions) Has(perm Permission) bool {
	switch perm {
	case PermEditInfo:
		return p.CanEditInfo
	case PermEditPricing:
		return p.CanEditPricing
	case PermEditPhotos:
		return p.CanEditPhotos
	case PermEditEmployees:
		return p.CanEditEmployees
	case PermViewAnalytics:
		return p.CanViewAnalytics
	}
	return false
}

// EstablishmentOwner grants a user management rights over an establishment.
type EstablishmentOwner struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_owner_user_establishment" json:"user_id"`
	User            *User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	EstablishmentID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_owner_user_establishment" json:"establishment_id"`
	Establishment   *Establishment   `gorm:"foreignKey:EstablishmentID" json:"establishment,omitempty"`
	OwnerRole       OwnerRole        `gorm:"type:varchar(20);not null;default:'owner'" json:"owner_role"`
	Permissions     OwnerPermissions `gorm:"embedded" json:"permissions"`
	AssignedBy      *uuid.UUID       `gorm:"type:uuid" json:"assigned_by,omitempty"`
	AssignedAt      time.Time        `json:"assigned_at"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// BeforeCreate assigns the primary key.
func (o *EstablishmentOwner) BeforeCreate(_ *gorm.DB) error {
	assignID(&o.ID)
	return nil
}

// OwnershipRequest is a user's claim to manage an establishment.
type OwnershipRequest struct {
	ID               uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	User             *User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	EstablishmentID  uuid.UUID        `gorm:"type:uuid;not null;index" json:"establishment_id"`
	Establishment    *Establishment   `gorm:"foreignKey:EstablishmentID" json:"establishment,omitempty"`
	Status           ModerationStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	DocumentURLs     []string         `gorm:"column:document_urls;type:text;serializer:json" json:"document_urls"`
	RequestMessage   string           `gorm:"type:text" json:"request_message"`
	ContactMe        bool             `gorm:"not null;default:false" json:"contact_me"`
	VerificationCode string           `gorm:"size:64" json:"verification_code,omitempty"`
	AdminNotes       string           `gorm:"type:text" json:"admin_notes,omitempty"`
	ReviewedBy       *uuid.UUID       `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt       *time.Time       `json:"reviewed_at,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// BeforeCreate assigns the primary key and checks the status enum.
func (r *OwnershipRequest) BeforeCreate(tx *gorm.DB) error {
	assignID(&r.ID)
	if r.DocumentURLs == nil {
		r.DocumentURLs = []string{}
	}
	return checkStatus(tx, r.Status)
}
