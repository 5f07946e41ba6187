package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/vovakirdan/molepuzzle/internal/session"
)

// Retention windows used by Sweep.
const (
	SessionRetention   = 30 * 24 * time.Hour
	ScoreRetention     = 90 * 24 * time.Hour
	CharacterRetention = 90 * 24 * time.Hour
)

// SweepResult counts the rows removed by Sweep.
type SweepResult struct {
	Sessions   int64
	Pieces     int64
	Scores     int64
	Characters int64
}

// Total returns the number of removed rows.
func (r SweepResult) Total() int64 {
	return r.Sessions + r.Pieces + r.Scores + r.Characters
}

// Sweep deletes records older than their retention window relative to now.
// Sessions still in progress are kept along with their pieces. Pieces whose
// session no longer exists are removed.
func (s *Store) Sweep(ctx context.Context, now time.Time) (res SweepResult, err error) {
	sessionCutoff := now.Add(-SessionRetention).UnixMilli()
	scoreCutoff := now.Add(-ScoreRetention).UnixMilli()
	characterCutoff := now.Add(-CharacterRetention).UnixMilli()
	inProgress := session.InProgress.String()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("storage: cannot begin sweep: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	steps := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&res.Sessions,
			"DELETE FROM game_sessions WHERE started_at < ? AND status != ?",
			[]any{sessionCutoff, inProgress}},
		{&res.Pieces,
			`DELETE FROM puzzle_pieces WHERE session_id NOT IN (
				SELECT id FROM game_sessions WHERE started_at >= ? OR status = ?)`,
			[]any{sessionCutoff, inProgress}},
		{&res.Scores,
			"DELETE FROM score_records WHERE created_at < ?",
			[]any{scoreCutoff}},
		{&res.Characters,
			"DELETE FROM characters WHERE created_at < ?",
			[]any{characterCutoff}},
	}

	for _, step := range steps {
		result, execErr := tx.ExecContext(ctx, step.query, step.args...)
		if execErr != nil {
			err = fmt.Errorf("storage: sweep failed: %w", execErr)
			return SweepResult{}, err
		}
		if *step.dst, err = result.RowsAffected(); err != nil {
			return SweepResult{}, fmt.Errorf("storage: sweep failed: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return SweepResult{}, fmt.Errorf("storage: cannot commit sweep: %w", err)
	}
	return res, nil
}
