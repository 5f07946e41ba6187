package config

import (
	"testing"

	"github.com/vovakirdan/molepuzzle/internal/apperr"
)

func TestDefaultIsValid(t *testing.T) {
	res := Validate(Default())
	if !res.Valid {
		t.Fatalf("default config should be valid, got %v", res.Errors)
	}

	if Default() != mediumPreset() {
		t.Error("embedded default should match the Medium preset")
	}
}

func TestBuiltInPresetsAreValid(t *testing.T) {
	for _, p := range BuiltInPresets() {
		if res := Validate(p.Config); !res.Valid {
			t.Errorf("preset %s invalid: %v", p.Name, res.Errors)
		}
	}
}

func TestValidateRanges(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"duration below min", func(c *Config) { c.GameDurationSec = 10 }, "gameDuration"},
		{"duration above max", func(c *Config) { c.GameDurationSec = 301 }, "gameDuration"},
		{"rows below min", func(c *Config) { c.Grid.Rows = 1 }, "grid.rows"},
		{"cols above max", func(c *Config) { c.Grid.Cols = 7 }, "grid.cols"},
		{"interval above max", func(c *Config) { c.MoleAppearanceIntervalMs = 5001 }, "moleAppearanceInterval"},
		{"display below min", func(c *Config) { c.MoleDisplayDurationMs = 200 }, "moleDisplayDuration"},
		{"zero points", func(c *Config) { c.Scoring.PointsPerHit = 0 }, "scoring.pointsPerHit"},
		{"mole too big", func(c *Config) { c.Visual.MoleSize = 121 }, "visual.moleSize"},
		{"piece too small", func(c *Config) { c.Visual.PieceSize = 49 }, "visual.pieceSize"},
		{"area too narrow", func(c *Config) { c.Visual.AreaWidth = 399 }, "visual.areaWidth"},
		{"area too tall", func(c *Config) { c.Visual.AreaHeight = 1921 }, "visual.areaHeight"},
		{"bad color", func(c *Config) { c.Visual.ThemeColor = "green" }, "visual.themeColor"},
		{"zero threshold", func(c *Config) { c.Progression.LevelThreshold = 0 }, "progression.levelThreshold"},
		{"speedup too big", func(c *Config) { c.Progression.SpeedupPerLevel = 0.9 }, "progression.speedupPerLevel"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			res := Validate(cfg)
			if res.Valid {
				t.Fatal("expected config to be rejected")
			}
			if !res.Has(tc.field) {
				t.Errorf("expected error naming %q, got %v", tc.field, res.Errors)
			}
		})
	}
}

func TestValidateCrossFieldRule(t *testing.T) {
	cfg := Default()
	cfg.MoleAppearanceIntervalMs = 600
	cfg.MoleDisplayDurationMs = 900 // both in range individually

	res := Validate(cfg)
	if res.Valid {
		t.Fatal("interval shorter than display duration must be rejected")
	}
	if len(res.Errors) != 1 || res.Errors[0].Field != "moleAppearanceInterval" {
		t.Errorf("expected only the cross-field error, got %v", res.Errors)
	}
}

func TestValidateReportsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.GameDurationSec = 10
	cfg.Grid.Rows = 9
	cfg.Visual.ThemeColor = "#12"

	res := Validate(cfg)
	for _, f := range []string{"gameDuration", "grid.rows", "visual.themeColor"} {
		if !res.Has(f) {
			t.Errorf("missing error for %s in %v", f, res.Errors)
		}
	}

	err := res.Err()
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("Err() should be a validation error, got %v", err)
	}
}

func TestHexColor(t *testing.T) {
	valid := []string{"#fff", "#4CAF50", "#a1B2c3"}
	invalid := []string{"fff", "#ffff", "#GGGGGG", "", "#4CAF50 "}

	for _, c := range valid {
		if !IsValidHexColor(c) {
			t.Errorf("%q should be valid", c)
		}
	}
	for _, c := range invalid {
		if IsValidHexColor(c) {
			t.Errorf("%q should be invalid", c)
		}
	}
}

func TestApplyUpdate(t *testing.T) {
	current := Default()

	dur := 90
	next, res := Apply(current, Update{GameDurationSec: &dur})
	if !res.Valid {
		t.Fatalf("valid update rejected: %v", res.Errors)
	}
	if next.GameDurationSec != 90 {
		t.Errorf("GameDurationSec = %d, expected 90", next.GameDurationSec)
	}
	if current.GameDurationSec != 60 {
		t.Error("Apply must not mutate the current config")
	}

	// Display duration in range but longer than the interval: the merged
	// object is invalid as a whole, so nothing changes.
	display := 1500
	kept, res := Apply(next, Update{MoleDisplayDurationMs: &display})
	if res.Valid {
		t.Fatal("update breaking the cross-field rule must be rejected")
	}
	if kept != next {
		t.Error("rejected update must return the current config unchanged")
	}

	// Fixing both fields together is accepted.
	interval := 2000
	fixed, res := Apply(next, Update{MoleDisplayDurationMs: &display, MoleAppearanceIntervalMs: &interval})
	if !res.Valid || fixed.MoleDisplayDurationMs != 1500 {
		t.Errorf("combined update should succeed, got %v", res.Errors)
	}
}
