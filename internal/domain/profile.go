package domain

import (
	"time"

	"github.com/google/uuid"
)

// Activity level multipliers applied on top of resting energy expenditure.
const (
	ActivitySedentary  = "sedentary"
	ActivityLight      = "light"
	ActivityModerate   = "moderate"
	ActivityActive     = "active"
	ActivityVeryActive = "very_active"
)

// UserProfile carries the physiological inputs for macro calculation when a
// winning goal layer has only a goal-type tag and no explicit numbers.
type UserProfile struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Sex           string    `gorm:"not null" json:"sex"`
	Age           int       `gorm:"not null" json:"age"`
	HeightCm      float64   `gorm:"column:height_cm;not null" json:"height_cm"`
	WeightKg      float64   `gorm:"column:weight_kg;not null" json:"weight_kg"`
	ActivityLevel string    `gorm:"column:activity_level;not null;default:'sedentary'" json:"activity_level"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}

func (UserProfile) TableName() string { return "user_profile" }
