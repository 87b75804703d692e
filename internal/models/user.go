package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the moderation privilege level of a user.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// AccountType is the capability profile chosen at registration.
type AccountType string

const (
	AccountRegular            AccountType = "regular"
	AccountEstablishmentOwner AccountType = "establishment_owner"
	AccountEmployee           AccountType = "employee"
)

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	switch t {
	case AccountRegular, AccountEstablishmentOwner, AccountEmployee:
		return true
	}
	return false
}

// User is an authenticated account.
type User struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Pseudonym   string      `gorm:"size:50;not null;uniqueIndex" json:"pseudonym"`
	Email       string      `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password    string      `gorm:"not null" json:"-"`
	Role        Role        `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	AccountType AccountType `gorm:"type:varchar(30);not null;default:'regular'" json:"account_type"`
	IsActive    bool        `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// BeforeCreate assigns the primary key.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	assignID(&u.ID)
	return nil
}

// IsStaff reports whether the user may moderate content.
func (u *User) IsStaff() bool {
	return u != nil && (u.Role == RoleModerator || u.Role == RoleAdmin)
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
