package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// KeyPrompts holds the image prompt history.
const KeyPrompts = "prompts"

// MaxPrompts bounds the prompt history.
const MaxPrompts = 50

// GetValue returns the value stored under key.
func (s *Store) GetValue(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: cannot read %s: %w", key, err)
	}
	return value, true, nil
}

// SetValue stores value under key, replacing any previous value.
func (s *Store) SetValue(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot write %s: %w", key, err)
	}
	return nil
}

// RemoveValue deletes key. Missing keys are not an error.
func (s *Store) RemoveValue(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("storage: cannot remove %s: %w", key, err)
	}
	return nil
}

// Prompts returns the prompt history, most recent first.
func (s *Store) Prompts(ctx context.Context) ([]string, error) {
	raw, ok, err := s.GetValue(ctx, KeyPrompts)
	if err != nil || !ok {
		return nil, err
	}
	var prompts []string
	if err := json.Unmarshal([]byte(raw), &prompts); err != nil {
		return nil, fmt.Errorf("storage: cannot decode prompts: %w", err)
	}
	return prompts, nil
}

// AddPrompt moves prompt to the front of the history, dropping duplicates
// and anything beyond MaxPrompts.
func (s *Store) AddPrompt(ctx context.Context, prompt string) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil
	}
	prompts, err := s.Prompts(ctx)
	if err != nil {
		return err
	}

	next := make([]string, 0, len(prompts)+1)
	next = append(next, prompt)
	for _, p := range prompts {
		if p != prompt {
			next = append(next, p)
		}
	}
	if len(next) > MaxPrompts {
		next = next[:MaxPrompts]
	}

	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("storage: cannot encode prompts: %w", err)
	}
	return s.SetValue(ctx, KeyPrompts, string(data))
}
