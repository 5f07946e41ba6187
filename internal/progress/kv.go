// Package progress keeps cumulative player statistics, unlocks achievements
// and maintains the high-score table.
package progress

import (
	"context"
	"encoding/json"
	"fmt"
)

// KV is the scalar key-value store progress data lives in.
type KV interface {
	GetValue(ctx context.Context, key string) (string, bool, error)
	SetValue(ctx context.Context, key, value string) error
	RemoveValue(ctx context.Context, key string) error
}

// Storage keys.
const (
	KeyAchievements = "achievements"
	KeyStats        = "achievementStats"
	KeyHighScores   = "highScores"
)

func loadJSON(ctx context.Context, kv KV, key string, dst any) (bool, error) {
	raw, ok, err := kv.GetValue(ctx, key)
	if err != nil {
		return false, fmt.Errorf("progress: read %s: %w", key, err)
	}
	if !ok || raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("progress: decode %s: %w", key, err)
	}
	return true, nil
}

func saveJSON(ctx context.Context, kv KV, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("progress: encode %s: %w", key, err)
	}
	if err := kv.SetValue(ctx, key, string(data)); err != nil {
		return fmt.Errorf("progress: write %s: %w", key, err)
	}
	return nil
}
