package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ConsumableTemplate is a catalog drink or service item.
type ConsumableTemplate struct {
	ID           uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string              `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Category     string              `gorm:"size:40;not null;index" json:"category"`
	Icon         string              `gorm:"size:40" json:"icon,omitempty"`
	DefaultPrice decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"default_price"`
	IsActive     bool                `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// BeforeCreate assigns the primary key.
func (t *ConsumableTemplate) BeforeCreate(_ *gorm.DB) error {
	assignID(&t.ID)
	return nil
}

// EstablishmentConsumable overrides a template's price and availability for one venue.
type EstablishmentConsumable struct {
	ID              uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	EstablishmentID uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_est_consumable" json:"establishment_id"`
	ConsumableID    uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_est_consumable" json:"consumable_id"`
	Consumable      *ConsumableTemplate `gorm:"foreignKey:ConsumableID" json:"consumable,omitempty"`
	Price           decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"price"`
	IsAvailable     bool                `gorm:"not null" json:"is_available"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// BeforeCreate assigns the primary key.
func (c *EstablishmentConsumable) BeforeCreate(_ *gorm.DB) error {
	assignID(&c.ID)
	return nil
}
