package services

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRuleConfigEmptyPathKeepsDefaults(t *testing.T) {
	cfg, err := LoadRuleConfig("")
	if err != nil {
		t.Fatalf("LoadRuleConfig: %v", err)
	}
	if cfg.DeficiencyMinDays != 3 || cfg.DeficiencyFraction != 0.7 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadRuleConfigOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	raw := "deficiency_min_days: 5\nweekend_delta_percent: 40\ntracked_nutrients:\n  - protein\n"
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadRuleConfig(path)
	if err != nil {
		t.Fatalf("LoadRuleConfig: %v", err)
	}
	if cfg.DeficiencyMinDays != 5 {
		t.Errorf("deficiency_min_days = %d, want 5", cfg.DeficiencyMinDays)
	}
	if cfg.WeekendDeltaPercent != 40 {
		t.Errorf("weekend_delta_percent = %v, want 40", cfg.WeekendDeltaPercent)
	}
	if len(cfg.TrackedNutrients) != 1 || cfg.TrackedNutrients[0] != "protein" {
		t.Errorf("tracked_nutrients = %v", cfg.TrackedNutrients)
	}
	// Keys absent from the file keep their defaults.
	if cfg.ConsistencyFloor != 60 {
		t.Errorf("consistency_floor = %v, want default 60", cfg.ConsistencyFloor)
	}
}

func TestLoadRuleConfigMissingFile(t *testing.T) {
	if _, err := LoadRuleConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing file must error so bad deploys fail at startup")
	}
}
