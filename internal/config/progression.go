package config

import (
	"math"
	"time"
)

// LevelUp describes the outcome of a level check.
type LevelUp struct {
	LeveledUp     bool
	NewLevel      int
	NextThreshold int // Score at which the following level starts
}

// Level returns the level reached at score. Levels start at 1 and rise by
// one every LevelThreshold points; negative scores stay at level 1.
func (p Progression) Level(score int) int {
	if p.LevelThreshold <= 0 || score < 0 {
		return 1
	}
	return 1 + score/p.LevelThreshold
}

// CheckLevelUp compares the current level with the level earned by score.
// Levels never go down.
func (p Progression) CheckLevelUp(current, score int) LevelUp {
	earned := max(current, p.Level(score))
	return LevelUp{
		LeveledUp:     earned > current,
		NewLevel:      earned,
		NextThreshold: earned * max(1, p.LevelThreshold),
	}
}

// SpawnInterval returns the mole appearance interval for a level. Each level
// above the first shortens the base interval by SpeedupPerLevel. The result
// never drops below the display duration.
func (c Config) SpawnInterval(level int) time.Duration {
	base := c.AppearanceInterval()
	if level <= 1 || c.Progression.SpeedupPerLevel <= 0 {
		return base
	}
	factor := 1.0 - float64(level-1)*c.Progression.SpeedupPerLevel
	interval := time.Duration(math.Round(float64(base) * factor))
	return max(interval, c.DisplayDuration())
}
