package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EstablishmentCategory groups venues (bar, gogo, club, ...).
type EstablishmentCategory struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:80;not null;uniqueIndex" json:"name"`
	Icon      string    `gorm:"size:40" json:"icon,omitempty"`
	Color     string    `gorm:"size:16" json:"color,omitempty"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns the primary key.
func (c *EstablishmentCategory) BeforeCreate(_ *gorm.DB) error {
	assignID(&c.ID)
	return nil
}

// Establishment is a nightlife venue listing.
type Establishment struct {
	ID             uuid.UUID              `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string                 `gorm:"size:120;not null" json:"name"`
	Address        string                 `gorm:"size:255" json:"address"`
	Zone           string                 `gorm:"size:40;index" json:"zone"`
	GridRow        *int                   `json:"grid_row,omitempty"`
	GridCol        *int                   `json:"grid_col,omitempty"`
	CategoryID     *uuid.UUID             `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Category       *EstablishmentCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Description    string                 `gorm:"type:text" json:"description,omitempty"`
	Phone          string                 `gorm:"size:40" json:"phone,omitempty"`
	Website        string                 `gorm:"size:255" json:"website,omitempty"`
	OpeningHours   string                 `gorm:"size:255" json:"opening_hours,omitempty"`
	LogoURL        string                 `gorm:"size:512" json:"logo_url,omitempty"`
	LadydrinkPrice decimal.NullDecimal    `gorm:"type:decimal(10,2)" json:"ladydrink_price"`
	BarfinePrice   decimal.NullDecimal    `gorm:"type:decimal(10,2)" json:"barfine_price"`
	RoomsPrice     decimal.NullDecimal    `gorm:"type:decimal(10,2)" json:"rooms_price"`
	CreatedBy      *uuid.UUID             `gorm:"type:uuid;index" json:"created_by,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
	Moderation     `gorm:"embedded"`
}

// BeforeCreate assigns the primary key and checks the status enum.
func (e *Establishment) BeforeCreate(tx *gorm.DB) error {
	assignID(&e.ID)
	return checkStatus(tx, e.Status)
}

// BeforeSave rejects statuses outside the lifecycle enum.
func (e *Establishment) BeforeSave(tx *gorm.DB) error {
	return checkStatus(tx, e.Status)
}
