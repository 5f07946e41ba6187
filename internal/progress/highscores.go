package progress

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MaxHighScores is the capacity of the high-score table.
const MaxHighScores = 10

// Entry is one high-score row.
type Entry struct {
	Score       int   `json:"score"`
	TimestampMs int64 `json:"timestamp"`
}

// Time returns the entry timestamp.
func (e Entry) Time() time.Time {
	return time.UnixMilli(e.TimestampMs)
}

// HighScores keeps the best MaxHighScores scores in descending order. Ties
// keep the earlier entry ahead. It is safe for concurrent use.
type HighScores struct {
	mu      sync.Mutex
	kv      KV
	entries []Entry
}

// NewHighScores creates an empty table. Call Load to restore persisted rows.
func NewHighScores(kv KV) *HighScores {
	return &HighScores{kv: kv}
}

// Load restores the table from the store.
func (h *HighScores) Load(ctx context.Context) error {
	var entries []Entry
	if _, err := loadJSON(ctx, h.kv, KeyHighScores, &entries); err != nil {
		return err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	if len(entries) > MaxHighScores {
		entries = entries[:MaxHighScores]
	}

	h.mu.Lock()
	h.entries = entries
	h.mu.Unlock()
	return nil
}

// Insert adds score and returns its 1-based rank. Rank 0 means the score
// did not make the table.
func (h *HighScores) Insert(ctx context.Context, score int, at time.Time) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	pos := sort.Search(len(h.entries), func(i int) bool {
		return h.entries[i].Score < score
	})
	if pos >= MaxHighScores {
		return 0, nil
	}

	entry := Entry{Score: score, TimestampMs: at.UnixMilli()}
	h.entries = append(h.entries, Entry{})
	copy(h.entries[pos+1:], h.entries[pos:])
	h.entries[pos] = entry
	if len(h.entries) > MaxHighScores {
		h.entries = h.entries[:MaxHighScores]
	}

	if err := saveJSON(ctx, h.kv, KeyHighScores, h.entries); err != nil {
		return pos + 1, err
	}
	return pos + 1, nil
}

// IsHighScore reports whether score would enter the table.
func (h *HighScores) IsHighScore(score int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) < MaxHighScores {
		return true
	}
	return score > h.entries[len(h.entries)-1].Score
}

// Entries returns a copy of the table, best first.
func (h *HighScores) Entries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Highest returns the best score, or 0 for an empty table.
func (h *HighScores) Highest() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		return 0
	}
	return h.entries[0].Score
}

// At returns the entry at a 1-based rank.
func (h *HighScores) At(rank int) (Entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if rank < 1 || rank > len(h.entries) {
		return Entry{}, false
	}
	return h.entries[rank-1], true
}

// Clear removes every entry.
func (h *HighScores) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
	if err := h.kv.RemoveValue(ctx, KeyHighScores); err != nil {
		return fmt.Errorf("progress: clear high scores: %w", err)
	}
	return nil
}
