package services

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/brudallism/macromuse-backend/internal/domain"
)

// RuleConfig carries every threshold the insight rules compare against.
// These numbers are configuration, not algorithm: deployments tune them
// without code changes via a YAML file.
type RuleConfig struct {
	// Deficiency streak rule.
	DeficiencyFraction float64  `yaml:"deficiency_fraction"`
	DeficiencyMinDays  int      `yaml:"deficiency_min_days"`
	DeficiencyHighDays int      `yaml:"deficiency_high_days"`
	TrackedNutrients   []string `yaml:"tracked_nutrients"`

	// Macro imbalance rule, in percent of total calories.
	ProteinShareFloor float64 `yaml:"protein_share_floor"`
	FatShareCeiling   float64 `yaml:"fat_share_ceiling"`
	CarbShareCeiling  float64 `yaml:"carb_share_ceiling"`

	// Weekend pattern rule.
	WeekendDeltaPercent float64 `yaml:"weekend_delta_percent"`
	WeekendMinDays      int     `yaml:"weekend_min_days"`

	// Trend opportunity rule.
	TrendLowFraction float64 `yaml:"trend_low_fraction"`
	ConsistencyFloor float64 `yaml:"consistency_floor"`
}

// DefaultRuleConfig returns the compiled-in thresholds.
func DefaultRuleConfig() RuleConfig {
	return RuleConfig{
		DeficiencyFraction: 0.7,
		DeficiencyMinDays:  3,
		DeficiencyHighDays: 7,
		TrackedNutrients: []string{
			domain.NutrientProtein,
			domain.NutrientFiber,
			domain.NutrientIron,
			domain.NutrientCalcium,
			domain.NutrientPotassium,
			domain.NutrientVitaminD,
			domain.NutrientMagnesium,
		},
		ProteinShareFloor:   15,
		FatShareCeiling:     40,
		CarbShareCeiling:    65,
		WeekendDeltaPercent: 25,
		WeekendMinDays:      14,
		TrendLowFraction:    0.7,
		ConsistencyFloor:    60,
	}
}

// LoadRuleConfig overlays a YAML file onto the defaults. An empty path keeps
// the defaults; a missing or malformed file is an error so bad deploys fail
// at startup, not at query time.
func LoadRuleConfig(path string) (RuleConfig, error) {
	cfg := DefaultRuleConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read insight rule config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse insight rule config: %w", err)
	}
	return cfg, nil
}
