package services

import (
	"fmt"

	"github.com/brudallism/macromuse-backend/internal/domain"
)

// ruleCatalog is the fixed rule set, in priority order. Priorities are spaced
// so deployments can wedge custom rules between the built-ins later.
func ruleCatalog() []insightRule {
	return []insightRule{
		{key: "deficiency_streak", priority: 10, eval: evalDeficiencyStreaks},
		{key: "macro_imbalance", priority: 20, eval: evalMacroImbalance},
		{key: "weekend_pattern", priority: 30, eval: evalWeekendPattern},
		{key: "trend_opportunity", priority: 40, eval: evalTrendOpportunity},
	}
}

func windowBounds(window []domain.DayIntake) (start, end domain.DayIntake) {
	return window[0], window[len(window)-1]
}

// evalDeficiencyStreaks flags tracked nutrients that stayed below a fraction
// of target for N consecutive most-recent days. Severity escalates with
// streak length.
func evalDeficiencyStreaks(window []domain.DayIntake, cfg RuleConfig) []*domain.Insight {
	var out []*domain.Insight
	for _, nutrient := range cfg.TrackedNutrients {
		streak := 0
		var valueSum, targetSum float64
		for i := len(window) - 1; i >= 0; i-- {
			day := window[i]
			if day.Targets == nil {
				break
			}
			target, ok := day.Targets.ValueFor(nutrient)
			if !ok || target <= 0 {
				break
			}
			value, _ := day.Nutrients.Get(nutrient)
			if value >= target*cfg.DeficiencyFraction {
				break
			}
			streak++
			valueSum += value
			targetSum += target
		}
		if streak < cfg.DeficiencyMinDays {
			continue
		}

		severity := domain.SeverityWarn
		if streak >= cfg.DeficiencyHighDays {
			severity = domain.SeverityHigh
		}
		first := window[len(window)-streak]
		last := window[len(window)-1]
		out = append(out, &domain.Insight{
			ID:        fmt.Sprintf("deficiency_streak:%s", nutrient),
			Severity:  severity,
			StartDate: first.Date,
			EndDate:   last.Date,
			Message: fmt.Sprintf("%s has been under %.0f%% of target for %d days in a row",
				nutrient, cfg.DeficiencyFraction*100, streak),
			Details: map[string]interface{}{
				"nutrient":       nutrient,
				"streak_days":    streak,
				"avg_value":      domain.Round2(valueSum / float64(streak)),
				"avg_target":     domain.Round2(targetSum / float64(streak)),
				"recommendation": "increase_intake",
			},
		})
	}
	return out
}

// evalMacroImbalance averages the protein/carb/fat calorie-share split over
// the window and flags shares outside the configured healthy band, one
// finding per offending macro.
func evalMacroImbalance(window []domain.DayIntake, cfg RuleConfig) []*domain.Insight {
	var proteinKcal, carbKcal, fatKcal, totalKcal float64
	for _, day := range window {
		calories, ok := day.Nutrients.Get(domain.NutrientCalories)
		if !ok || calories <= 0 {
			continue
		}
		protein, _ := day.Nutrients.Get(domain.NutrientProtein)
		carbs, _ := day.Nutrients.Get(domain.NutrientCarbs)
		fat, _ := day.Nutrients.Get(domain.NutrientFat)
		proteinKcal += protein * 4
		carbKcal += carbs * 4
		fatKcal += fat * 9
		totalKcal += calories
	}
	if totalKcal <= 0 {
		return nil
	}

	proteinShare := proteinKcal / totalKcal * 100
	carbShare := carbKcal / totalKcal * 100
	fatShare := fatKcal / totalKcal * 100
	first, last := windowBounds(window)

	var out []*domain.Insight
	if proteinShare < cfg.ProteinShareFloor {
		out = append(out, &domain.Insight{
			ID:        "macro_imbalance:protein",
			Severity:  domain.SeverityWarn,
			StartDate: first.Date,
			EndDate:   last.Date,
			Message: fmt.Sprintf("protein supplies %.1f%% of calories, below the %.0f%% floor",
				proteinShare, cfg.ProteinShareFloor),
			Details: map[string]interface{}{
				"macro":          domain.NutrientProtein,
				"share_percent":  domain.Round2(proteinShare),
				"recommendation": "add a protein source to each meal",
			},
		})
	}
	if fatShare > cfg.FatShareCeiling {
		out = append(out, &domain.Insight{
			ID:        "macro_imbalance:fat",
			Severity:  domain.SeverityWarn,
			StartDate: first.Date,
			EndDate:   last.Date,
			Message: fmt.Sprintf("fat supplies %.1f%% of calories, above the %.0f%% ceiling",
				fatShare, cfg.FatShareCeiling),
			Details: map[string]interface{}{
				"macro":          domain.NutrientFat,
				"share_percent":  domain.Round2(fatShare),
				"recommendation": "swap some fats for lean protein or complex carbs",
			},
		})
	}
	if carbShare > cfg.CarbShareCeiling {
		out = append(out, &domain.Insight{
			ID:        "macro_imbalance:carbs",
			Severity:  domain.SeverityInfo,
			StartDate: first.Date,
			EndDate:   last.Date,
			Message: fmt.Sprintf("carbs supply %.1f%% of calories, above the %.0f%% ceiling",
				carbShare, cfg.CarbShareCeiling),
			Details: map[string]interface{}{
				"macro":          domain.NutrientCarbs,
				"share_percent":  domain.Round2(carbShare),
				"recommendation": "rebalance some carbohydrate calories toward protein",
			},
		})
	}
	return out
}

// evalWeekendPattern compares mean weekend intake against the weekday mean.
// Needs at least two full weeks of span so one odd Saturday doesn't read as a
// pattern.
func evalWeekendPattern(window []domain.DayIntake, cfg RuleConfig) []*domain.Insight {
	first, last := windowBounds(window)
	spanDays := int(last.Date.Sub(first.Date).Hours()/24) + 1
	if spanDays < cfg.WeekendMinDays {
		return nil
	}

	var weekendSum, weekdaySum float64
	var weekendN, weekdayN int
	for _, day := range window {
		calories, ok := day.Nutrients.Get(domain.NutrientCalories)
		if !ok {
			continue
		}
		if domain.IsWeekend(day.Date) {
			weekendSum += calories
			weekendN++
		} else {
			weekdaySum += calories
			weekdayN++
		}
	}
	if weekendN < 2 || weekdayN < 2 {
		return nil
	}

	weekendMean := weekendSum / float64(weekendN)
	weekdayMean := weekdaySum / float64(weekdayN)
	if weekdayMean == 0 {
		return nil
	}
	deltaPct := (weekendMean - weekdayMean) / weekdayMean * 100
	if deltaPct < cfg.WeekendDeltaPercent && deltaPct > -cfg.WeekendDeltaPercent {
		return nil
	}

	direction := "higher"
	if deltaPct < 0 {
		direction = "lower"
	}
	return []*domain.Insight{{
		ID:        "weekend_pattern:calories",
		Severity:  domain.SeverityInfo,
		StartDate: first.Date,
		EndDate:   last.Date,
		Message: fmt.Sprintf("weekend calories run %.0f%% %s than weekdays",
			abs(deltaPct), direction),
		Details: map[string]interface{}{
			"weekend_mean":  domain.Round2(weekendMean),
			"weekday_mean":  domain.Round2(weekdayMean),
			"delta_percent": domain.Round2(deltaPct),
		},
	}}
}

// evalTrendOpportunity reuses the trend primitives over the window: a decline
// below the low fraction of target asks for more intake, a rise on a minimize
// nutrient asks for less, and a stable but inconsistent nutrient surfaces a
// consistency nudge.
func evalTrendOpportunity(window []domain.DayIntake, cfg RuleConfig) []*domain.Insight {
	if len(window) < 3 {
		return nil
	}
	first, last := windowBounds(window)

	nutrients := map[string]bool{
		domain.NutrientCalories: true,
		domain.NutrientProtein:  true,
	}
	for _, n := range cfg.TrackedNutrients {
		nutrients[n] = true
	}
	for n := range domain.MinimizeNutrients {
		nutrients[n] = true
	}

	var out []*domain.Insight
	for nutrient := range nutrients {
		series := seriesFromWindow(window, nutrient)
		if len(series) < 3 {
			continue
		}
		direction := Direction(series)

		var valueSum, targetSum float64
		targeted := 0
		for _, p := range series {
			valueSum += p.Value
			if p.Target != nil {
				targetSum += *p.Target
				targeted++
			}
		}
		avgValue := valueSum / float64(len(series))
		var avgTarget float64
		if targeted > 0 {
			avgTarget = targetSum / float64(targeted)
		}

		switch {
		case direction == domain.TrendDecreasing && avgTarget > 0 && avgValue < avgTarget*cfg.TrendLowFraction:
			out = append(out, &domain.Insight{
				ID:        fmt.Sprintf("trend_opportunity:increase:%s", nutrient),
				Severity:  domain.SeverityWarn,
				StartDate: first.Date,
				EndDate:   last.Date,
				Message:   fmt.Sprintf("%s is trending down and sits below %.0f%% of target", nutrient, cfg.TrendLowFraction*100),
				Details: map[string]interface{}{
					"nutrient":       nutrient,
					"avg_value":      domain.Round2(avgValue),
					"avg_target":     domain.Round2(avgTarget),
					"recommendation": "increase_intake",
				},
			})
		case direction == domain.TrendIncreasing && domain.MinimizeNutrients[nutrient]:
			out = append(out, &domain.Insight{
				ID:        fmt.Sprintf("trend_opportunity:decrease:%s", nutrient),
				Severity:  domain.SeverityWarn,
				StartDate: first.Date,
				EndDate:   last.Date,
				Message:   fmt.Sprintf("%s is trending up", nutrient),
				Details: map[string]interface{}{
					"nutrient":       nutrient,
					"avg_value":      domain.Round2(avgValue),
					"recommendation": "decrease_intake",
				},
			})
		case direction == domain.TrendStable && avgTarget > 0:
			if score := ConsistencyScore(series); score < cfg.ConsistencyFloor {
				out = append(out, &domain.Insight{
					ID:        fmt.Sprintf("trend_opportunity:consistency:%s", nutrient),
					Severity:  domain.SeverityInfo,
					StartDate: first.Date,
					EndDate:   last.Date,
					Message:   fmt.Sprintf("%s intake swings day to day (consistency %.0f)", nutrient, score),
					Details: map[string]interface{}{
						"nutrient":          nutrient,
						"consistency_score": score,
						"recommendation":    "improve_consistency",
					},
				})
			}
		}
	}
	return out
}

func seriesFromWindow(window []domain.DayIntake, nutrient string) []domain.TrendPoint {
	var series []domain.TrendPoint
	for _, day := range window {
		value, ok := day.Nutrients.Get(nutrient)
		if !ok {
			continue
		}
		point := domain.TrendPoint{Date: day.Date, Value: value}
		if day.Targets != nil {
			if target, ok := day.Targets.ValueFor(nutrient); ok && target > 0 {
				point.Target = &target
			}
		}
		series = append(series, point)
	}
	return series
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
