package nutrition

import "github.com/brudallism/macromuse-backend/internal/domain"

// Adherence scores how well a consumed amount matches its target, as a
// percentage. Maximize nutrients score value/target capped at 200 so one binge
// day cannot dominate averages. Minimize nutrients are asymmetric: at or under
// target is a full 100, and every percent of overage comes straight off the
// score.
func Adherence(value, target float64, key string) float64 {
	if target <= 0 {
		return 0
	}
	pct := value / target * 100
	if domain.MinimizeNutrients[key] {
		if value <= target {
			return 100
		}
		over := pct - 100
		return clamp(100-over, 0, 100)
	}
	return domain.Round2(clamp(pct, 0, 200))
}

// AdherenceVector scores every nutrient in values that has a defined target.
func AdherenceVector(values domain.NutrientVector, targets *domain.TargetVector) domain.NutrientVector {
	out := domain.NutrientVector{}
	if targets == nil {
		return out
	}
	for key, value := range values {
		if target, ok := targets.ValueFor(key); ok && target > 0 {
			out[key] = domain.Round2(Adherence(value, target, key))
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
