package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestPresetDifficultyOrdering(t *testing.T) {
	presets := BuiltInPresets()
	if len(presets) != 3 {
		t.Fatalf("expected 3 built-in presets, got %d", len(presets))
	}

	easy, medium, hard := presets[0].Config, presets[1].Config, presets[2].Config
	if !(easy.MoleAppearanceIntervalMs > medium.MoleAppearanceIntervalMs &&
		medium.MoleAppearanceIntervalMs > hard.MoleAppearanceIntervalMs) {
		t.Error("harder presets should shrink the appearance interval")
	}
	if !(easy.MoleDisplayDurationMs > medium.MoleDisplayDurationMs &&
		medium.MoleDisplayDurationMs > hard.MoleDisplayDurationMs) {
		t.Error("harder presets should shrink the display duration")
	}
	if !(easy.Progression.LevelThreshold < medium.Progression.LevelThreshold &&
		medium.Progression.LevelThreshold < hard.Progression.LevelThreshold) {
		t.Error("harder presets should raise the level threshold")
	}
}

func TestPresetBookSaveOverwrites(t *testing.T) {
	book := NewPresetBook()

	cfg := Default()
	if res := book.Save("Speedy", cfg); !res.Valid {
		t.Fatalf("Save failed: %v", res.Errors)
	}

	cfg.GameDurationSec = 45
	if res := book.Save("Speedy", cfg); !res.Valid {
		t.Fatalf("overwrite failed: %v", res.Errors)
	}

	user := book.User()
	if len(user) != 1 {
		t.Fatalf("expected a single user preset after overwrite, got %d", len(user))
	}
	if user[0].Config.GameDurationSec != 45 {
		t.Errorf("overwrite did not replace config: %d", user[0].Config.GameDurationSec)
	}

	if len(book.All()) != 4 {
		t.Errorf("All() should list built-ins plus user presets, got %d", len(book.All()))
	}
}

func TestPresetBookRejections(t *testing.T) {
	book := NewPresetBook()

	if res := book.Save("hard", Default()); res.Valid || !res.Has("name") {
		t.Error("built-in names must be reserved")
	}
	if res := book.Save("  ", Default()); res.Valid || !res.Has("name") {
		t.Error("empty names must be rejected")
	}

	bad := Default()
	bad.GameDurationSec = 10
	if res := book.Save("Broken", bad); res.Valid || !res.Has("gameDuration") {
		t.Error("invalid configs must not be saved")
	}
	if _, ok := book.Get("Broken"); ok {
		t.Error("rejected preset should not be stored")
	}
}

func TestPresetBookGetAndDelete(t *testing.T) {
	book := NewPresetBook()
	book.Save("Mine", Default())

	if p, ok := book.Get("easy"); !ok || !p.BuiltIn {
		t.Error("built-ins should be found case-insensitively")
	}
	if _, ok := book.Get("Mine"); !ok {
		t.Error("user preset not found")
	}
	if !book.Delete("Mine") {
		t.Error("Delete should report removal")
	}
	if book.Delete("Mine") {
		t.Error("second Delete should report nothing removed")
	}
}

func TestPresetsRoundTripFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")

	book := NewPresetBook()
	cfg := Default()
	cfg.Grid = Grid{Rows: 5, Cols: 4}
	book.Save("Wide", cfg)

	if err := SavePresets(path, book); err != nil {
		t.Fatalf("SavePresets() failed: %v", err)
	}

	loaded, err := LoadPresets(path)
	if err != nil {
		t.Fatalf("LoadPresets() failed: %v", err)
	}
	p, ok := loaded.Get("Wide")
	if !ok || p.Config.Grid != (Grid{Rows: 5, Cols: 4}) {
		t.Errorf("preset did not survive the file: %+v", p)
	}

	missing, err := LoadPresets(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil || len(missing.User()) != 0 {
		t.Error("missing presets file should yield an empty book")
	}
}

func TestProgression(t *testing.T) {
	p := Progression{LevelThreshold: 500, SpeedupPerLevel: 0.05}

	if p.Level(-20) != 1 || p.Level(0) != 1 || p.Level(499) != 1 {
		t.Error("scores below the threshold stay at level 1")
	}
	if p.Level(500) != 2 || p.Level(1250) != 3 {
		t.Error("level should rise every threshold points")
	}

	up := p.CheckLevelUp(1, 600)
	if !up.LeveledUp || up.NewLevel != 2 || up.NextThreshold <= 500 {
		t.Errorf("CheckLevelUp(1, 600) = %+v", up)
	}
	if p.CheckLevelUp(1, 400).LeveledUp {
		t.Error("should not level up below threshold")
	}
	if down := p.CheckLevelUp(3, 0); down.NewLevel != 3 || down.LeveledUp {
		t.Errorf("levels never go down, got %+v", down)
	}
}

func TestSpawnIntervalShrinksWithFloor(t *testing.T) {
	cfg := Default() // 1000ms interval, 800ms display, 5% per level

	if got := cfg.SpawnInterval(1); got != time.Second {
		t.Errorf("level 1 interval = %v", got)
	}
	if got := cfg.SpawnInterval(3); got != 900*time.Millisecond {
		t.Errorf("level 3 interval = %v, expected 900ms", got)
	}
	if got := cfg.SpawnInterval(50); got != 800*time.Millisecond {
		t.Errorf("interval should floor at display duration, got %v", got)
	}
}
