package models

import (
	"time"

	"github.com/google/uuid"
)

// LegacyIDMapping persists the numeric identifier an older admin client uses for an entity.
type LegacyIDMapping struct {
	EntityType string    `gorm:"size:30;primaryKey" json:"entity_type"`
	LegacyID   int64     `gorm:"primaryKey;autoIncrement:false" json:"legacy_id"`
	EntityID   uuid.UUID `gorm:"type:uuid;not null;index" json:"entity_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (LegacyIDMapping) TableName() string {
	return "legacy_id_mappings"
}
