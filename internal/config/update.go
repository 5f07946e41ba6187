package config

// Update is a partial configuration change. Nil fields are left untouched.
type Update struct {
	GameDurationSec          *int     `yaml:"game_duration_sec" toml:"game_duration_sec"`
	GridRows                 *int     `yaml:"grid_rows" toml:"grid_rows"`
	GridCols                 *int     `yaml:"grid_cols" toml:"grid_cols"`
	MoleAppearanceIntervalMs *int     `yaml:"mole_appearance_interval_ms" toml:"mole_appearance_interval_ms"`
	MoleDisplayDurationMs    *int     `yaml:"mole_display_duration_ms" toml:"mole_display_duration_ms"`
	PointsPerHit             *float64 `yaml:"points_per_hit" toml:"points_per_hit"`
	MissPenalty              *float64 `yaml:"miss_penalty" toml:"miss_penalty"`
	TimeBonusMultiplier      *float64 `yaml:"time_bonus_multiplier" toml:"time_bonus_multiplier"`
	AreaWidth                *int     `yaml:"area_width" toml:"area_width"`
	AreaHeight               *int     `yaml:"area_height" toml:"area_height"`
	MoleSize                 *int     `yaml:"mole_size" toml:"mole_size"`
	PieceSize                *int     `yaml:"piece_size" toml:"piece_size"`
	ThemeColor               *string  `yaml:"theme_color" toml:"theme_color"`
	LevelThreshold           *int     `yaml:"level_threshold" toml:"level_threshold"`
	SpeedupPerLevel          *float64 `yaml:"speedup_per_level" toml:"speedup_per_level"`
}

// Merge returns current with every non-nil field of u applied. It does not
// validate.
func (u Update) Merge(current Config) Config {
	next := current
	setInt(&next.GameDurationSec, u.GameDurationSec)
	setInt(&next.Grid.Rows, u.GridRows)
	setInt(&next.Grid.Cols, u.GridCols)
	setInt(&next.MoleAppearanceIntervalMs, u.MoleAppearanceIntervalMs)
	setInt(&next.MoleDisplayDurationMs, u.MoleDisplayDurationMs)
	setFloat(&next.Scoring.PointsPerHit, u.PointsPerHit)
	setFloat(&next.Scoring.MissPenalty, u.MissPenalty)
	setFloat(&next.Scoring.TimeBonusMultiplier, u.TimeBonusMultiplier)
	setInt(&next.Visual.AreaWidth, u.AreaWidth)
	setInt(&next.Visual.AreaHeight, u.AreaHeight)
	setInt(&next.Visual.MoleSize, u.MoleSize)
	setInt(&next.Visual.PieceSize, u.PieceSize)
	if u.ThemeColor != nil {
		next.Visual.ThemeColor = *u.ThemeColor
	}
	setInt(&next.Progression.LevelThreshold, u.LevelThreshold)
	setFloat(&next.Progression.SpeedupPerLevel, u.SpeedupPerLevel)
	return next
}

// Apply merges u into current and validates the whole result. On rejection
// current is returned unchanged together with every violated rule; a
// partially valid state is never produced.
func Apply(current Config, u Update) (Config, Result) {
	next := u.Merge(current)
	res := Validate(next)
	if !res.Valid {
		return current, res
	}
	return next, res
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}
