package main

import "testing"

func TestParseUpdate(t *testing.T) {
	u, err := parseUpdate([]string{"game_duration_sec=90", "miss_penalty=-5", "theme_color=#FF5722"})
	if err != nil {
		t.Fatalf("parseUpdate: %v", err)
	}
	if u.GameDurationSec == nil || *u.GameDurationSec != 90 {
		t.Errorf("GameDurationSec = %v, want 90", u.GameDurationSec)
	}
	if u.MissPenalty == nil || *u.MissPenalty != -5 {
		t.Errorf("MissPenalty = %v, want -5", u.MissPenalty)
	}
	if u.ThemeColor == nil || *u.ThemeColor != "#FF5722" {
		t.Errorf("ThemeColor = %v, want #FF5722", u.ThemeColor)
	}
	if u.GridRows != nil {
		t.Error("GridRows should be untouched")
	}
}

func TestParseUpdateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		pairs []string
	}{
		{"missing equals", []string{"game_duration_sec"}},
		{"empty key", []string{"=5"}},
		{"unknown key", []string{"lives=3"}},
		{"wrong type", []string{"grid_rows=many"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseUpdate(tt.pairs); err == nil {
				t.Errorf("parseUpdate(%v) succeeded, want error", tt.pairs)
			}
		})
	}
}
