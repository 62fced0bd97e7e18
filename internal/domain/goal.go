package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	pkgerrors "github.com/brudallism/macromuse-backend/internal/pkg/errors"
)

// Goal layer precedence classes, highest first: phase_based > weekly_cycle > base.
const (
	GoalClassPhaseBased  = "phase_based"
	GoalClassWeeklyCycle = "weekly_cycle"
	GoalClassBase        = "base"
)

// Goal type tags used when a layer carries no explicit numbers and targets must
// be derived from the user's physiological profile.
const (
	GoalTypeWeightLoss  = "weight_loss"
	GoalTypeMaintenance = "maintenance"
	GoalTypeMuscleGain  = "muscle_gain"
	GoalTypePerformance = "performance"
)

// TargetVector is the effective daily target set. The four macro fields are
// required and must be positive; fiber and per-micronutrient overrides are
// optional.
type TargetVector struct {
	Calories float64        `json:"calories"`
	Protein  float64        `json:"protein"`
	Carbs    float64        `json:"carbs"`
	Fat      float64        `json:"fat"`
	Fiber    *float64       `json:"fiber,omitempty"`
	Micros   NutrientVector `json:"micros,omitempty"`
}

// Validate fails loudly on contract violations: every required macro must be
// present and strictly positive.
func (t TargetVector) Validate() error {
	check := func(name string, v float64) error {
		if v <= 0 {
			return fmt.Errorf("%w: target %s must be > 0, got %v", pkgerrors.ErrInvalidArgument, name, v)
		}
		return nil
	}
	if err := check(NutrientCalories, t.Calories); err != nil {
		return err
	}
	if err := check(NutrientProtein, t.Protein); err != nil {
		return err
	}
	if err := check(NutrientCarbs, t.Carbs); err != nil {
		return err
	}
	return check(NutrientFat, t.Fat)
}

// ValueFor returns the target amount for a nutrient key, honoring
// micronutrient overrides. The boolean is false when no target exists for key.
func (t TargetVector) ValueFor(key string) (float64, bool) {
	if t.Micros != nil {
		if v, ok := t.Micros[key]; ok {
			return v, true
		}
	}
	switch key {
	case NutrientCalories:
		return t.Calories, true
	case NutrientProtein:
		return t.Protein, true
	case NutrientCarbs:
		return t.Carbs, true
	case NutrientFat:
		return t.Fat, true
	case NutrientFiber:
		if t.Fiber != nil {
			return *t.Fiber, true
		}
	}
	return 0, false
}

// GoalLayer is one time-bounded target definition. Class-specific fields:
// weekly_cycle layers match a day of week, phase_based layers match a window of
// day offsets inside a repeating cycle anchored at StartDate.
type GoalLayer struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Class           string         `gorm:"not null;index" json:"class"`
	GoalType        string         `gorm:"column:goal_type;not null" json:"goal_type"`
	StartDate       time.Time      `gorm:"type:date;not null" json:"start_date"`
	EndDate         *time.Time     `gorm:"type:date" json:"end_date,omitempty"`
	DayOfWeek       *int           `gorm:"column:day_of_week" json:"day_of_week,omitempty"`
	CycleLengthDays *int           `gorm:"column:cycle_length_days" json:"cycle_length_days,omitempty"`
	PhaseStartDay   *int           `gorm:"column:phase_start_day" json:"phase_start_day,omitempty"`
	PhaseEndDay     *int           `gorm:"column:phase_end_day" json:"phase_end_day,omitempty"`
	Targets         datatypes.JSON `gorm:"type:jsonb" json:"targets,omitempty"`
	CreatedAt       time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null" json:"updated_at"`
}

func (GoalLayer) TableName() string { return "goal_layer" }

// ExplicitTargets decodes the layer's stored target numbers. Returns nil when
// the layer carries only a goal-type tag.
func (g *GoalLayer) ExplicitTargets() (*TargetVector, error) {
	if len(g.Targets) == 0 || string(g.Targets) == "null" {
		return nil, nil
	}
	var t TargetVector
	if err := json.Unmarshal(g.Targets, &t); err != nil {
		return nil, fmt.Errorf("decode goal layer targets: %w", err)
	}
	return &t, nil
}

// SetTargets encodes explicit target numbers onto the layer.
func (g *GoalLayer) SetTargets(t *TargetVector) error {
	if t == nil {
		g.Targets = nil
		return nil
	}
	raw, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode goal layer targets: %w", err)
	}
	g.Targets = datatypes.JSON(raw)
	return nil
}

// ActiveOn reports whether the layer's window covers date, including the
// class-specific day-of-week and phase-offset matching.
func (g *GoalLayer) ActiveOn(date time.Time) bool {
	date = DateOnly(date)
	start := DateOnly(g.StartDate)
	if date.Before(start) {
		return false
	}
	if g.EndDate != nil && date.After(DateOnly(*g.EndDate)) {
		return false
	}
	switch g.Class {
	case GoalClassWeeklyCycle:
		if g.DayOfWeek == nil {
			return false
		}
		return int(date.Weekday()) == *g.DayOfWeek
	case GoalClassPhaseBased:
		if g.CycleLengthDays == nil || *g.CycleLengthDays <= 0 || g.PhaseStartDay == nil || g.PhaseEndDay == nil {
			return false
		}
		dayIndex := int(date.Sub(start).Hours()/24) % *g.CycleLengthDays
		return dayIndex >= *g.PhaseStartDay && dayIndex <= *g.PhaseEndDay
	default:
		return true
	}
}
