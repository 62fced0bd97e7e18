package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brudallism/macromuse-backend/internal/domain"
)

func SeedIntakeEntry(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, consumedAt time.Time, nutrients domain.NutrientVector) *domain.IntakeEntry {
	tb.Helper()
	e := &domain.IntakeEntry{
		ID:         uuid.New(),
		UserID:     userID,
		ConsumedAt: consumedAt.UTC(),
		FoodName:   "fixture food",
		Nutrients:  nutrients,
		CreatedAt:  time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed intake entry: %v", err)
	}
	return e
}

func SeedDailySummary(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, date time.Time, nutrients domain.NutrientVector, entryCount int) *domain.DailySummary {
	tb.Helper()
	s := &domain.DailySummary{
		ID:         uuid.New(),
		UserID:     userID,
		Date:       domain.DateOnly(date),
		Nutrients:  nutrients,
		EntryCount: entryCount,
		ComputedAt: time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed daily summary: %v", err)
	}
	return s
}

func SeedGoalLayer(tb testing.TB, ctx context.Context, tx *gorm.DB, layer *domain.GoalLayer) *domain.GoalLayer {
	tb.Helper()
	if layer.ID == uuid.Nil {
		layer.ID = uuid.New()
	}
	layer.StartDate = domain.DateOnly(layer.StartDate)
	now := time.Now().UTC()
	layer.CreatedAt = now
	layer.UpdatedAt = now
	if err := tx.WithContext(ctx).Create(layer).Error; err != nil {
		tb.Fatalf("seed goal layer: %v", err)
	}
	return layer
}

func SeedUserProfile(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID) *domain.UserProfile {
	tb.Helper()
	p := &domain.UserProfile{
		ID:            uuid.New(),
		UserID:        userID,
		Sex:           "female",
		Age:           31,
		HeightCm:      168,
		WeightKg:      64,
		ActivityLevel: domain.ActivityModerate,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed user profile: %v", err)
	}
	return p
}
