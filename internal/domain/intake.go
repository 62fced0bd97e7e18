package domain

import (
	"time"

	"github.com/google/uuid"
)

// IntakeEntry is one logged consumption event, already scaled to the consumed
// quantity by the logging subsystem. Rows are written by the ledger service and
// are read-only to the analytics core.
type IntakeEntry struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_intake_user_consumed" json:"user_id"`
	ConsumedAt time.Time      `gorm:"not null;index:idx_intake_user_consumed" json:"consumed_at"`
	FoodName   string         `gorm:"column:food_name" json:"food_name,omitempty"`
	Nutrients  NutrientVector `gorm:"type:jsonb;serializer:json" json:"nutrients"`
	CreatedAt  time.Time      `gorm:"not null" json:"created_at"`
}

func (IntakeEntry) TableName() string { return "intake_entry" }
