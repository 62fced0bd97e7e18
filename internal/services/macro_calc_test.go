package services

import (
	"errors"
	"testing"

	"github.com/brudallism/macromuse-backend/internal/domain"
	pkgerrors "github.com/brudallism/macromuse-backend/internal/pkg/errors"
)

func TestCalculateMacroTargets(t *testing.T) {
	profile := &domain.UserProfile{
		Sex:           "male",
		Age:           30,
		HeightCm:      180,
		WeightKg:      80,
		ActivityLevel: domain.ActivityActive,
	}

	// BMR 1780, TDEE 3070.5, weight-loss factor 0.80.
	targets, err := CalculateMacroTargets(profile, domain.GoalTypeWeightLoss)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if targets.Calories != 2456.4 {
		t.Errorf("calories = %v, want 2456.4", targets.Calories)
	}
	if targets.Protein != 160 {
		t.Errorf("protein = %v, want 160", targets.Protein)
	}
	if targets.Fat != 68.23 {
		t.Errorf("fat = %v, want 68.23", targets.Fat)
	}
	if targets.Carbs != 300.58 {
		t.Errorf("carbs = %v, want 300.58", targets.Carbs)
	}
	if targets.Fiber == nil || *targets.Fiber != 34.39 {
		t.Errorf("fiber = %v, want 34.39", targets.Fiber)
	}
}

func TestCalculateMacroTargetsFemaleMaintenance(t *testing.T) {
	profile := &domain.UserProfile{
		Sex:           "female",
		Age:           31,
		HeightCm:      168,
		WeightKg:      64,
		ActivityLevel: domain.ActivityModerate,
	}

	targets, err := CalculateMacroTargets(profile, domain.GoalTypeMaintenance)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if targets.Calories != 2129.7 {
		t.Errorf("calories = %v, want 2129.7", targets.Calories)
	}
	if targets.Protein != 102.4 {
		t.Errorf("protein = %v, want 102.4", targets.Protein)
	}
}

func TestCalculateMacroTargetsFallbacks(t *testing.T) {
	profile := &domain.UserProfile{
		Sex:           "female",
		Age:           40,
		HeightCm:      160,
		WeightKg:      60,
		ActivityLevel: "parkour", // unknown level downgrades to sedentary
	}

	targets, err := CalculateMacroTargets(profile, "bulking-but-misspelled")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// BMR 1239, sedentary TDEE 1486.8, maintenance factor keeps it unchanged.
	if targets.Calories != 1486.8 {
		t.Errorf("calories = %v, want 1486.8", targets.Calories)
	}
	if targets.Protein != 96 {
		t.Errorf("protein = %v, want 96 (maintenance 1.6 g/kg)", targets.Protein)
	}
}

func TestCalculateMacroTargetsInvalidProfile(t *testing.T) {
	tests := []struct {
		name    string
		profile *domain.UserProfile
	}{
		{name: "nil profile", profile: nil},
		{name: "zero weight", profile: &domain.UserProfile{Sex: "male", Age: 30, HeightCm: 180}},
		{name: "implausible age", profile: &domain.UserProfile{Sex: "male", Age: 300, HeightCm: 180, WeightKg: 80}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := CalculateMacroTargets(tt.profile, domain.GoalTypeMaintenance); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}
