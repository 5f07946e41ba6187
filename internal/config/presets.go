package config

import (
	"sort"
	"strings"
)

// Built-in preset names.
const (
	PresetEasy   = "Easy"
	PresetMedium = "Medium"
	PresetHard   = "Hard"
)

// Preset is a named, validated configuration bundle.
type Preset struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	BuiltIn     bool   `yaml:"-"`
	Config      Config `yaml:"config"`
}

func easyPreset() Config {
	return Config{
		GameDurationSec:          120,
		Grid:                     Grid{Rows: 2, Cols: 2},
		MoleAppearanceIntervalMs: 2000,
		MoleDisplayDurationMs:    1500,
		Scoring:                  Scoring{PointsPerHit: 5, MissPenalty: 0, TimeBonusMultiplier: 0.2},
		Visual:                   Visual{AreaWidth: 800, AreaHeight: 600, MoleSize: 100, PieceSize: 150, ThemeColor: "#81C784"},
		Progression:              Progression{LevelThreshold: 300, SpeedupPerLevel: 0.03},
	}
}

func mediumPreset() Config {
	return Config{
		GameDurationSec:          60,
		Grid:                     Grid{Rows: 3, Cols: 3},
		MoleAppearanceIntervalMs: 1000,
		MoleDisplayDurationMs:    800,
		Scoring:                  Scoring{PointsPerHit: 10, MissPenalty: -2, TimeBonusMultiplier: 0.1},
		Visual:                   Visual{AreaWidth: 800, AreaHeight: 600, MoleSize: 80, PieceSize: 100, ThemeColor: "#4CAF50"},
		Progression:              Progression{LevelThreshold: 500, SpeedupPerLevel: 0.05},
	}
}

func hardPreset() Config {
	return Config{
		GameDurationSec:          30,
		Grid:                     Grid{Rows: 4, Cols: 4},
		MoleAppearanceIntervalMs: 500,
		MoleDisplayDurationMs:    500,
		Scoring:                  Scoring{PointsPerHit: 15, MissPenalty: -5, TimeBonusMultiplier: 0.05},
		Visual:                   Visual{AreaWidth: 800, AreaHeight: 600, MoleSize: 60, PieceSize: 75, ThemeColor: "#388E3C"},
		Progression:              Progression{LevelThreshold: 1000, SpeedupPerLevel: 0.08},
	}
}

// BuiltInPresets returns the fixed Easy, Medium and Hard presets.
func BuiltInPresets() []Preset {
	return []Preset{
		{Name: PresetEasy, Description: "Relaxed gameplay with larger targets", BuiltIn: true, Config: easyPreset()},
		{Name: PresetMedium, Description: "Balanced challenge", BuiltIn: true, Config: mediumPreset()},
		{Name: PresetHard, Description: "Fast-paced with higher requirements", BuiltIn: true, Config: hardPreset()},
	}
}

// IsBuiltIn reports whether name refers to a built-in preset (case-insensitive).
func IsBuiltIn(name string) bool {
	for _, p := range BuiltInPresets() {
		if strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

// PresetBook holds user-saved presets keyed by unique name. It is an
// in-memory value; callers persist it with SavePresets/LoadPresets.
type PresetBook struct {
	user map[string]Preset
}

// NewPresetBook creates a book seeded with the given user presets. Invalid
// or built-in-named entries are skipped.
func NewPresetBook(user ...Preset) *PresetBook {
	b := &PresetBook{user: make(map[string]Preset)}
	for _, p := range user {
		b.Save(p.Name, p.Config)
	}
	return b
}

// Save validates cfg and stores it under name, overwriting any user preset
// with the same name. Built-in names cannot be overwritten.
func (b *PresetBook) Save(name string, cfg Config) Result {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return Result{Errors: []FieldError{{Field: "name", Message: "must not be empty"}}}
	case IsBuiltIn(name):
		return Result{Errors: []FieldError{{Field: "name", Message: "is reserved by a built-in preset"}}}
	}

	res := Validate(cfg)
	if !res.Valid {
		return res
	}
	b.user[name] = Preset{Name: name, Description: "Custom preset", Config: cfg}
	return res
}

// Delete removes a user preset. It reports whether anything was removed.
func (b *PresetBook) Delete(name string) bool {
	if _, ok := b.user[name]; !ok {
		return false
	}
	delete(b.user, name)
	return true
}

// Get looks up a preset by name, built-ins first (case-insensitive for
// built-ins, exact for user presets).
func (b *PresetBook) Get(name string) (Preset, bool) {
	for _, p := range BuiltInPresets() {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	p, ok := b.user[name]
	return p, ok
}

// User returns the user presets sorted by name.
func (b *PresetBook) User() []Preset {
	out := make([]Preset, 0, len(b.user))
	for _, p := range b.user {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// All returns built-ins followed by user presets.
func (b *PresetBook) All() []Preset {
	return append(BuiltInPresets(), b.User()...)
}
