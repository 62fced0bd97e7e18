package services

import (
	"fmt"

	"github.com/brudallism/macromuse-backend/internal/domain"
	pkgerrors "github.com/brudallism/macromuse-backend/internal/pkg/errors"
)

// activityMultipliers maps activity levels to their TDEE multiplier. Also the
// source of truth for valid activity level values.
var activityMultipliers = map[string]float64{
	domain.ActivitySedentary:  1.2,
	domain.ActivityLight:      1.375,
	domain.ActivityModerate:   1.55,
	domain.ActivityActive:     1.725,
	domain.ActivityVeryActive: 1.9,
}

// goalAdjustments tunes calories and protein for a goal-type tag. Calorie
// factor applies to TDEE; protein is g per kg body weight; the fat share is a
// fraction of adjusted calories, with carbs taking the remainder.
var goalAdjustments = map[string]struct {
	calorieFactor  float64
	proteinPerKg   float64
	fatShare       float64
	fiberPer1000Kc float64
}{
	domain.GoalTypeWeightLoss:  {calorieFactor: 0.80, proteinPerKg: 2.0, fatShare: 0.25, fiberPer1000Kc: 14},
	domain.GoalTypeMaintenance: {calorieFactor: 1.00, proteinPerKg: 1.6, fatShare: 0.30, fiberPer1000Kc: 14},
	domain.GoalTypeMuscleGain:  {calorieFactor: 1.10, proteinPerKg: 2.2, fatShare: 0.25, fiberPer1000Kc: 14},
	domain.GoalTypePerformance: {calorieFactor: 1.05, proteinPerKg: 1.8, fatShare: 0.28, fiberPer1000Kc: 14},
}

// CalculateMacroTargets derives a full TargetVector from a physiological
// profile and a goal-type tag: Mifflin-St Jeor BMR, activity-scaled TDEE, then
// goal-specific calorie and macro splits (4 kcal/g protein and carbs,
// 9 kcal/g fat).
func CalculateMacroTargets(profile *domain.UserProfile, goalType string) (*domain.TargetVector, error) {
	if profile == nil {
		return nil, fmt.Errorf("%w: profile required for goal-type target derivation", pkgerrors.ErrInvalidArgument)
	}
	if profile.WeightKg <= 0 || profile.HeightCm <= 0 || profile.Age <= 0 || profile.Age > 130 {
		return nil, fmt.Errorf("%w: implausible profile values", pkgerrors.ErrInvalidArgument)
	}

	bmr := 10*profile.WeightKg + 6.25*profile.HeightCm - 5*float64(profile.Age)
	if profile.Sex == "male" {
		bmr += 5
	} else {
		bmr -= 161
	}

	mult, ok := activityMultipliers[profile.ActivityLevel]
	if !ok {
		mult = activityMultipliers[domain.ActivitySedentary]
	}
	tdee := bmr * mult

	adj, ok := goalAdjustments[goalType]
	if !ok {
		adj = goalAdjustments[domain.GoalTypeMaintenance]
	}

	calories := tdee * adj.calorieFactor
	protein := adj.proteinPerKg * profile.WeightKg
	fat := calories * adj.fatShare / 9
	carbs := (calories - protein*4 - fat*9) / 4
	if carbs < 0 {
		carbs = 0
	}
	fiber := adj.fiberPer1000Kc * calories / 1000

	t := &domain.TargetVector{
		Calories: domain.Round2(calories),
		Protein:  domain.Round2(protein),
		Carbs:    domain.Round2(carbs),
		Fat:      domain.Round2(fat),
	}
	f := domain.Round2(fiber)
	t.Fiber = &f
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
