// Package scoring computes session scores, accuracy and hit-speed records.
package scoring

import (
	"math"
	"time"

	"github.com/vovakirdan/molepuzzle/internal/config"
)

// Score returns round(hits*P + misses*M + remainingSec*T). Halves round up.
// The result is not clamped and may be negative.
func Score(hits, misses int, remainingSec float64, rules config.Scoring) int {
	raw := float64(hits)*rules.PointsPerHit +
		float64(misses)*rules.MissPenalty +
		remainingSec*rules.TimeBonusMultiplier
	return int(math.Floor(raw + 0.5))
}

// Accuracy returns hits/(hits+misses), or 0 when nothing was attempted.
func Accuracy(hits, misses int) float64 {
	total := hits + misses
	if total <= 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// StreakLen is the number of consecutive hits timed by Fastest5.
const StreakLen = 5

// Tracker counts hits and misses over one session.
type Tracker struct {
	hits    int
	misses  int
	hitAt   []time.Time
	fastest time.Duration
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Hit records a hit at t.
func (t *Tracker) Hit(at time.Time) {
	t.hits++
	t.hitAt = append(t.hitAt, at)
	if n := len(t.hitAt); n >= StreakLen {
		span := at.Sub(t.hitAt[n-StreakLen])
		if t.fastest == 0 || span < t.fastest {
			t.fastest = span
		}
		t.hitAt = t.hitAt[n-StreakLen+1:]
	}
}

// Miss records a miss.
func (t *Tracker) Miss() {
	t.misses++
}

// Hits returns the number of hits.
func (t *Tracker) Hits() int { return t.hits }

// Misses returns the number of misses.
func (t *Tracker) Misses() int { return t.misses }

// Accuracy returns the tracker's hit ratio.
func (t *Tracker) Accuracy() float64 {
	return Accuracy(t.hits, t.misses)
}

// Fastest5 returns the shortest time it took to land StreakLen hits in a
// row, measured from the first to the last hit. It is 0 until enough hits
// were recorded.
func (t *Tracker) Fastest5() time.Duration {
	return t.fastest
}

// Score applies the rules to the tracked counters.
func (t *Tracker) Score(remainingSec float64, rules config.Scoring) int {
	return Score(t.hits, t.misses, remainingSec, rules)
}

// Reset clears all counters.
func (t *Tracker) Reset() {
	*t = Tracker{}
}
