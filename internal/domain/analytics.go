package domain

import "time"

// Trend classifications.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// Insight severities, ranked high > warn > info.
const (
	SeverityHigh = "high"
	SeverityWarn = "warn"
	SeverityInfo = "info"
)

// SeverityRank orders severities for sorting; unknown severities sort last.
func SeverityRank(s string) int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityWarn:
		return 1
	case SeverityInfo:
		return 2
	default:
		return 3
	}
}

// TrendPoint is one dated observation in a single-nutrient series. Target is
// nil when no target data exists for that date.
type TrendPoint struct {
	Date   time.Time `json:"date"`
	Value  float64   `json:"value"`
	Target *float64  `json:"target,omitempty"`
}

// TrendResult describes one nutrient's series over a query range.
type TrendResult struct {
	Nutrient      string       `json:"nutrient"`
	Points        []TrendPoint `json:"points"`
	Direction     string       `json:"direction"`
	PercentChange float64      `json:"percent_change"`
	Consistency   float64      `json:"consistency_score"`
}

// StreakCondition discriminates what a streak counts; carried explicitly
// alongside the predicate so streak results are self-describing.
type StreakCondition string

const (
	StreakMetTarget   StreakCondition = "met_target"
	StreakBelowTarget StreakCondition = "below_target"
	StreakAboveTarget StreakCondition = "above_target"
)

// StreakRecord summarizes a backward scan of a nutrient series against a
// streak condition.
type StreakRecord struct {
	Nutrient      string          `json:"nutrient"`
	Condition     StreakCondition `json:"condition"`
	CurrentStreak int             `json:"current_streak"`
	MaxStreak     int             `json:"max_streak"`
	IsActive      bool            `json:"is_active"`
	StartDate     *time.Time      `json:"start_date,omitempty"`
	EndDate       *time.Time      `json:"end_date,omitempty"`
	AvgValue      float64         `json:"avg_value"`
	AvgTarget     float64         `json:"avg_target"`
}

// Insight is one actionable finding from the rule engine. Ephemeral: always
// recomputed from summaries, never persisted as a source of truth.
type Insight struct {
	ID        string                 `json:"id"`
	RuleKey   string                 `json:"rule_key"`
	Severity  string                 `json:"severity"`
	Priority  int                    `json:"priority"`
	StartDate time.Time              `json:"start_date"`
	EndDate   time.Time              `json:"end_date"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// DayIntake is the per-day tuple the insight rules pattern-match over.
type DayIntake struct {
	Date       time.Time      `json:"date"`
	Nutrients  NutrientVector `json:"nutrients"`
	Targets    *TargetVector  `json:"targets,omitempty"`
	Adherence  NutrientVector `json:"adherence,omitempty"`
	EntryCount int            `json:"entry_count"`
}
