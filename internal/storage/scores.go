package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ScoreRecord is the summary of one finished session.
type ScoreRecord struct {
	ID             int64
	SessionID      string
	Score          int
	Hits           int
	Misses         int
	Level          int
	CompletionTime time.Duration // Time to finish the puzzle; zero if unfinished
	PuzzleComplete bool
	CreatedAt      time.Time
}

const scoreColumns = "id, session_id, score, hits, misses, level, completion_ms, puzzle_complete, created_at"

func scanScore(row scanner) (ScoreRecord, error) {
	var (
		r                ScoreRecord
		completionMs, at int64
		complete         int
	)
	if err := row.Scan(&r.ID, &r.SessionID, &r.Score, &r.Hits, &r.Misses, &r.Level, &completionMs, &complete, &at); err != nil {
		return ScoreRecord{}, err
	}
	r.CompletionTime = time.Duration(completionMs) * time.Millisecond
	r.PuzzleComplete = complete != 0
	r.CreatedAt = fromMillis(at)
	return r, nil
}

// AddScore records a new score and returns its ID.
func (s *Store) AddScore(ctx context.Context, r ScoreRecord) (int64, error) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO score_records (session_id, score, hits, misses, level, completion_ms, puzzle_complete, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID, r.Score, r.Hits, r.Misses, r.Level,
		r.CompletionTime.Milliseconds(), boolInt(r.PuzzleComplete), toMillis(r.CreatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// Score retrieves a score record by ID. Returns nil if not found.
func (s *Store) Score(ctx context.Context, id int64) (*ScoreRecord, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+scoreColumns+" FROM score_records WHERE id = ?", id)
	r, err := scanScore(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query score %d: %w", id, err)
	}
	return &r, nil
}

// AllScores returns every score record in insertion order.
func (s *Store) AllScores(ctx context.Context) ([]ScoreRecord, error) {
	return s.queryScores(ctx, "SELECT "+scoreColumns+" FROM score_records ORDER BY id")
}

// ScoresBySession returns the score records of one session.
func (s *Store) ScoresBySession(ctx context.Context, sessionID string) ([]ScoreRecord, error) {
	return s.queryScores(ctx, "SELECT "+scoreColumns+" FROM score_records WHERE session_id = ? ORDER BY id", sessionID)
}

// TopScores returns the best scores, highest first.
func (s *Store) TopScores(ctx context.Context, limit int) ([]ScoreRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryScores(ctx,
		"SELECT "+scoreColumns+" FROM score_records ORDER BY score DESC, id ASC LIMIT ?", limit)
}

// RecentScores returns the latest scores, newest first.
func (s *Store) RecentScores(ctx context.Context, limit int) ([]ScoreRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryScores(ctx,
		"SELECT "+scoreColumns+" FROM score_records ORDER BY created_at DESC, id DESC LIMIT ?", limit)
}

// FastestTimes returns finished puzzles ordered by completion time.
func (s *Store) FastestTimes(ctx context.Context, limit int) ([]ScoreRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryScores(ctx,
		`SELECT `+scoreColumns+` FROM score_records
		 WHERE completion_ms > 0
		 ORDER BY completion_ms ASC, id ASC LIMIT ?`, limit)
}

func (s *Store) queryScores(ctx context.Context, query string, args ...any) ([]ScoreRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var out []ScoreRecord
	for rows.Next() {
		r, err := scanScore(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// DeleteScore removes a score record.
func (s *Store) DeleteScore(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM score_records WHERE id = ?", id); err != nil {
		return fmt.Errorf("storage: cannot delete score %d: %w", id, err)
	}
	return nil
}

// ClearScores deletes all score records.
func (s *Store) ClearScores(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM score_records"); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// Stats contains aggregated statistics over all score records.
type Stats struct {
	GamesCount int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	LastPlayed time.Time
}

// ScoreStats aggregates every score record.
func (s *Store) ScoreStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	var last int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(SUM(score), 0),
		        COALESCE(MAX(created_at), 0)
		 FROM score_records`,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &stats.TotalScore, &last)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get score stats: %w", err)
	}
	stats.LastPlayed = fromMillis(last)
	return stats, nil
}
