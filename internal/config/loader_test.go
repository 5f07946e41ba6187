package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCustomYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.yaml")
	data := []byte("game_duration_sec: 90\ngrid:\n  rows: 4\n  cols: 5\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.GameDurationSec != 90 || cfg.Grid.Rows != 4 || cfg.Grid.Cols != 5 {
		t.Errorf("custom fields not applied: %+v", cfg)
	}
	// Unset fields keep defaults
	if cfg.Visual.MoleSize != 80 {
		t.Errorf("MoleSize = %d, expected default 80", cfg.Visual.MoleSize)
	}
}

func TestLoadCustomTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.toml")
	data := []byte("game_duration_sec = 45\n\n[visual]\ntheme_color = \"#fff\"\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.GameDurationSec != 45 || cfg.Visual.ThemeColor != "#fff" {
		t.Errorf("TOML fields not applied: %+v", cfg)
	}
	if cfg.Visual.AreaWidth != 800 {
		t.Errorf("AreaWidth = %d, expected default 800", cfg.Visual.AreaWidth)
	}
}

func TestLoadCustomErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing custom path should fail")
	}

	path := filepath.Join(t.TempDir(), "broken.yaml")
	os.WriteFile(path, []byte("grid: [1, 2"), 0o644)
	if _, err := Load(path); err == nil {
		t.Error("malformed YAML should fail")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Scoring.MissPenalty = -3

	for _, name := range []string{"out.yaml", "out.toml"} {
		path := filepath.Join(dir, "nested", name)
		if err := Save(path, cfg); err != nil {
			t.Fatalf("Save(%s) failed: %v", name, err)
		}
		loaded, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s) failed: %v", name, err)
		}
		if loaded != cfg {
			t.Errorf("%s round trip mismatch:\n got %+v\nwant %+v", name, loaded, cfg)
		}
	}
}
