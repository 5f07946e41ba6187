// Package config holds the game parameters, validates them, manages
// difficulty presets and loads configuration files (YAML or TOML).
//
// A Config is a plain value: sessions receive a copy and nothing mutates it
// afterwards. New configurations are produced by Apply, presets or Load.
package config

import (
	_ "embed"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/molepuzzle.yaml
var defaultYAML []byte

// Config contains every tunable of a play session.
type Config struct {
	GameDurationSec          int         `yaml:"game_duration_sec" toml:"game_duration_sec" json:"gameDurationSec"`
	Grid                     Grid        `yaml:"grid" toml:"grid" json:"grid"`
	MoleAppearanceIntervalMs int         `yaml:"mole_appearance_interval_ms" toml:"mole_appearance_interval_ms" json:"moleAppearanceIntervalMs"`
	MoleDisplayDurationMs    int         `yaml:"mole_display_duration_ms" toml:"mole_display_duration_ms" json:"moleDisplayDurationMs"`
	Scoring                  Scoring     `yaml:"scoring" toml:"scoring" json:"scoring"`
	Visual                   Visual      `yaml:"visual" toml:"visual" json:"visual"`
	Progression              Progression `yaml:"progression" toml:"progression" json:"progression"`
}

// Grid is the puzzle layout.
type Grid struct {
	Rows int `yaml:"rows" toml:"rows" json:"rows"`
	Cols int `yaml:"cols" toml:"cols" json:"cols"`
}

// Pieces returns the number of puzzle pieces the grid produces.
func (g Grid) Pieces() int {
	return g.Rows * g.Cols
}

// Scoring defines how hits, misses and leftover time turn into points.
type Scoring struct {
	PointsPerHit        float64 `yaml:"points_per_hit" toml:"points_per_hit" json:"pointsPerHit"`
	MissPenalty         float64 `yaml:"miss_penalty" toml:"miss_penalty" json:"missPenalty"` // Usually negative or zero
	TimeBonusMultiplier float64 `yaml:"time_bonus_multiplier" toml:"time_bonus_multiplier" json:"timeBonusMultiplier"`
}

// Visual defines the game area and sprite sizes, in pixels.
type Visual struct {
	AreaWidth  int    `yaml:"area_width" toml:"area_width" json:"areaWidth"`
	AreaHeight int    `yaml:"area_height" toml:"area_height" json:"areaHeight"`
	MoleSize   int    `yaml:"mole_size" toml:"mole_size" json:"moleSize"`
	PieceSize  int    `yaml:"piece_size" toml:"piece_size" json:"pieceSize"`
	ThemeColor string `yaml:"theme_color" toml:"theme_color" json:"themeColor"`
}

// Progression controls how the level rises with score and how much faster
// moles appear per level.
type Progression struct {
	LevelThreshold  int     `yaml:"level_threshold" toml:"level_threshold" json:"levelThreshold"`     // Points per level
	SpeedupPerLevel float64 `yaml:"speedup_per_level" toml:"speedup_per_level" json:"speedupPerLevel"` // Interval reduction per level (0.05 = 5%)
}

// GameDuration returns the session length.
func (c Config) GameDuration() time.Duration {
	return time.Duration(c.GameDurationSec) * time.Second
}

// AppearanceInterval returns the base time between mole spawns.
func (c Config) AppearanceInterval() time.Duration {
	return time.Duration(c.MoleAppearanceIntervalMs) * time.Millisecond
}

// DisplayDuration returns how long a mole stays up.
func (c Config) DisplayDuration() time.Duration {
	return time.Duration(c.MoleDisplayDurationMs) * time.Millisecond
}

// Default returns the built-in default configuration.
func Default() Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return mediumPreset() // Fallback to hardcoded if embed fails
	}
	return cfg
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
