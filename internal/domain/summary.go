package domain

import (
	"time"

	"github.com/google/uuid"
)

// DailySummary is the idempotent rollup of all intake entries for one calendar
// day. One row per (user_id, date); recomputation overwrites in place.
type DailySummary struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uq_daily_user_date" json:"user_id"`
	Date       time.Time      `gorm:"type:date;not null;uniqueIndex:uq_daily_user_date" json:"date"`
	Nutrients  NutrientVector `gorm:"type:jsonb;serializer:json" json:"nutrients"`
	EntryCount int            `gorm:"not null;default:0" json:"entry_count"`
	ComputedAt time.Time      `gorm:"not null" json:"computed_at"`
}

func (DailySummary) TableName() string { return "daily_summary" }

// WeeklySummary holds per-nutrient arithmetic means across the ISO week's
// contributing daily summaries. Derived strictly from daily rows, never from
// raw entries; a week with 3 logged days averages those 3.
type WeeklySummary struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uq_weekly_user_key" json:"user_id"`
	ISOYear      int            `gorm:"column:iso_year;not null;uniqueIndex:uq_weekly_user_key" json:"iso_year"`
	ISOWeek      int            `gorm:"column:iso_week;not null;uniqueIndex:uq_weekly_user_key" json:"iso_week"`
	AvgNutrients NutrientVector `gorm:"type:jsonb;serializer:json" json:"avg_nutrients"`
	DaysWithData int            `gorm:"not null;default:0" json:"days_with_data"`
	EntryCount   int            `gorm:"not null;default:0" json:"entry_count"`
	ComputedAt   time.Time      `gorm:"not null" json:"computed_at"`
}

func (WeeklySummary) TableName() string { return "weekly_summary" }

// MonthlySummary mirrors WeeklySummary over a calendar month.
type MonthlySummary struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uq_monthly_user_key" json:"user_id"`
	Year         int            `gorm:"not null;uniqueIndex:uq_monthly_user_key" json:"year"`
	Month        int            `gorm:"not null;uniqueIndex:uq_monthly_user_key" json:"month"`
	AvgNutrients NutrientVector `gorm:"type:jsonb;serializer:json" json:"avg_nutrients"`
	DaysWithData int            `gorm:"not null;default:0" json:"days_with_data"`
	EntryCount   int            `gorm:"not null;default:0" json:"entry_count"`
	ComputedAt   time.Time      `gorm:"not null" json:"computed_at"`
}

func (MonthlySummary) TableName() string { return "monthly_summary" }
