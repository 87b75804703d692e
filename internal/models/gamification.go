package models

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// XPEmployeeProfileApproved is awarded to a creator when their employee profile is approved.
const XPEmployeeProfileApproved = 10

// UserPoints is the running XP total of a user.
type UserPoints struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	TotalXP   int       `gorm:"not null;default:0" json:"total_xp"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (UserPoints) TableName() string {
	return "user_points"
}

// Level derives the user level from total XP.
func (p UserPoints) Level() int {
	if p.TotalXP <= 0 {
		return 1
	}
	return int(math.Floor(math.Sqrt(float64(p.TotalXP)/100))) + 1
}

// XPTransaction is one ledger entry of awarded XP.
type XPTransaction struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount     int        `gorm:"not null" json:"amount"`
	Reason     string     `gorm:"size:80;not null" json:"reason"`
	EntityType string     `gorm:"size:40" json:"entity_type,omitempty"`
	EntityID   *uuid.UUID `gorm:"type:uuid" json:"entity_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (XPTransaction) TableName() string {
	return "xp_transactions"
}

// BeforeCreate assigns the primary key.
func (t *XPTransaction) BeforeCreate(_ *gorm.DB) error {
	assignID(&t.ID)
	return nil
}
