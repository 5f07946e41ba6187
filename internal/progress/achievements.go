package progress

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Kind selects which statistic an achievement checks.
type Kind int

const (
	KindTotalHits Kind = iota
	KindMaxScore
	KindMaxLevel
	KindPuzzles
	KindPerfect  // Every mole hit, over more than Threshold moles
	KindSpeedRun // Five hits within Threshold milliseconds
)

// Achievement is a static achievement definition.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Kind        Kind
	Threshold   int64
}

// Met reports whether s satisfies the achievement.
func (a Achievement) Met(s Stats) bool {
	switch a.Kind {
	case KindTotalHits:
		return int64(s.TotalHits) >= a.Threshold
	case KindMaxScore:
		return int64(s.MaxScore) >= a.Threshold
	case KindMaxLevel:
		return int64(s.MaxLevel) >= a.Threshold
	case KindPuzzles:
		return int64(s.PuzzlesCompleted) >= a.Threshold
	case KindPerfect:
		return s.TotalHits == s.TotalMoles && int64(s.TotalMoles) > a.Threshold
	case KindSpeedRun:
		return s.Fastest5HitsMs > 0 && s.Fastest5HitsMs <= a.Threshold
	default:
		return false
	}
}

// Definitions lists every achievement in display order.
var Definitions = []Achievement{
	{ID: "first-hit", Name: "First Hit", Description: "Hit your first mole", Icon: "🎯", Kind: KindTotalHits, Threshold: 1},
	{ID: "score-100", Name: "Century", Description: "Score 100 points", Icon: "💯", Kind: KindMaxScore, Threshold: 100},
	{ID: "score-500", Name: "Half Grand", Description: "Score 500 points", Icon: "🏆", Kind: KindMaxScore, Threshold: 500},
	{ID: "score-1000", Name: "Grand Master", Description: "Score 1000 points", Icon: "👑", Kind: KindMaxScore, Threshold: 1000},
	{ID: "level-5", Name: "Rising Star", Description: "Reach level 5", Icon: "⭐", Kind: KindMaxLevel, Threshold: 5},
	{ID: "level-10", Name: "Seasoned Player", Description: "Reach level 10", Icon: "🌟", Kind: KindMaxLevel, Threshold: 10},
	{ID: "puzzle-complete", Name: "Puzzle Master", Description: "Complete a puzzle", Icon: "🧩", Kind: KindPuzzles, Threshold: 1},
	{ID: "puzzle-5", Name: "Puzzle Collector", Description: "Complete 5 puzzles", Icon: "🖼️", Kind: KindPuzzles, Threshold: 5},
	{ID: "perfect-game", Name: "Perfect Game", Description: "Complete a game without missing a mole", Icon: "💎", Kind: KindPerfect, Threshold: 10},
	{ID: "speed-demon", Name: "Speed Demon", Description: "Hit 5 moles in 5 seconds", Icon: "⚡", Kind: KindSpeedRun, Threshold: 5000},
}

// Stats are cumulative over all sessions.
type Stats struct {
	TotalHits        int   `json:"totalHits"`
	TotalMoles       int   `json:"totalMoles"`
	MaxScore         int   `json:"maxScore"`
	MaxLevel         int   `json:"maxLevel"`
	PuzzlesCompleted int   `json:"puzzlesCompleted"`
	Fastest5HitsMs   int64 `json:"fastest5HitsMs"` // 0 means never recorded
}

func freshStats() Stats {
	return Stats{MaxLevel: 1}
}

// SessionStats is what one finished session contributes.
type SessionStats struct {
	Hits            int
	Moles           int
	Score           int
	Level           int
	PuzzleCompleted bool
	Fastest5        time.Duration // Zero when not recorded
}

// merge folds one session into the cumulative stats.
func (s *Stats) merge(in SessionStats) {
	s.TotalHits += in.Hits
	s.TotalMoles += in.Moles
	s.MaxScore = max(s.MaxScore, in.Score)
	s.MaxLevel = max(s.MaxLevel, in.Level)
	if in.PuzzleCompleted {
		s.PuzzlesCompleted++
	}
	if ms := in.Fastest5.Milliseconds(); ms > 0 && (s.Fastest5HitsMs == 0 || ms < s.Fastest5HitsMs) {
		s.Fastest5HitsMs = ms
	}
}

// Progress pairs a definition with its unlock state.
type Progress struct {
	Achievement
	Unlocked bool
}

// Tracker owns player stats and the set of unlocked achievements. It is safe
// for concurrent use.
type Tracker struct {
	mu       sync.Mutex
	kv       KV
	stats    Stats
	unlocked map[string]bool
}

// NewTracker creates a tracker with empty state. Call Load to restore
// persisted progress.
func NewTracker(kv KV) *Tracker {
	return &Tracker{
		kv:       kv,
		stats:    freshStats(),
		unlocked: make(map[string]bool),
	}
}

// Load restores stats and unlocked achievements from the store.
func (t *Tracker) Load(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	stats := freshStats()
	if _, err := loadJSON(ctx, t.kv, KeyStats, &stats); err != nil {
		return err
	}

	var ids []string
	if _, err := loadJSON(ctx, t.kv, KeyAchievements, &ids); err != nil {
		return err
	}

	t.stats = stats
	t.unlocked = make(map[string]bool, len(ids))
	for _, id := range ids {
		t.unlocked[id] = true
	}
	return nil
}

// Update merges one session into the stats, persists them and returns the
// achievements unlocked by this call. Already unlocked achievements are
// never returned again. Persistence errors are returned after the in-memory
// state has been updated.
func (t *Tracker) Update(ctx context.Context, in SessionStats) ([]Achievement, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stats.merge(in)
	statsErr := saveJSON(ctx, t.kv, KeyStats, t.stats)

	var unlocked []Achievement
	for _, a := range Definitions {
		if t.unlocked[a.ID] || !a.Met(t.stats) {
			continue
		}
		t.unlocked[a.ID] = true
		unlocked = append(unlocked, a)
	}

	if len(unlocked) > 0 {
		if err := saveJSON(ctx, t.kv, KeyAchievements, t.unlockedIDs()); err != nil {
			return unlocked, err
		}
	}
	return unlocked, statsErr
}

func (t *Tracker) unlockedIDs() []string {
	ids := make([]string, 0, len(t.unlocked))
	for id := range t.unlocked {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Stats returns the cumulative stats.
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

// All returns every achievement with its unlock state.
func (t *Tracker) All() []Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Progress, 0, len(Definitions))
	for _, a := range Definitions {
		out = append(out, Progress{Achievement: a, Unlocked: t.unlocked[a.ID]})
	}
	return out
}

// IsUnlocked reports whether the achievement with id is unlocked.
func (t *Tracker) IsUnlocked(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.unlocked[id]
}

// ResetAchievements locks every achievement again.
func (t *Tracker) ResetAchievements(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.unlocked = make(map[string]bool)
	if err := t.kv.RemoveValue(ctx, KeyAchievements); err != nil {
		return fmt.Errorf("progress: reset achievements: %w", err)
	}
	return nil
}

// ResetStats zeroes the cumulative stats.
func (t *Tracker) ResetStats(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats = freshStats()
	return saveJSON(ctx, t.kv, KeyStats, t.stats)
}
