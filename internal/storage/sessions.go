package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vovakirdan/molepuzzle/internal/session"
)

const sessionColumns = `id, character_id, status, started_at, ended_at, score, hits, misses,
	moles_spawned, level, fastest5_ms, completed_pieces, total_pieces, puzzle_complete, config`

func sessionArgs(sess session.Session) ([]any, error) {
	cfg, err := json.Marshal(sess.Config)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot encode session config: %w", err)
	}
	return []any{
		sess.ID, sess.CharacterID, sess.Status.String(),
		toMillis(sess.StartedAt), toMillis(sess.EndedAt),
		sess.Score, sess.Hits, sess.Misses, sess.MolesSpawned, sess.Level,
		sess.Fastest5Hits.Milliseconds(),
		sess.CompletedPieces, sess.TotalPieces, boolInt(sess.PuzzleComplete),
		string(cfg),
	}, nil
}

func scanSession(row scanner) (session.Session, error) {
	var (
		sess               session.Session
		status, cfg        string
		started, ended, f5 int64
		complete           int
	)
	err := row.Scan(
		&sess.ID, &sess.CharacterID, &status, &started, &ended,
		&sess.Score, &sess.Hits, &sess.Misses, &sess.MolesSpawned, &sess.Level,
		&f5, &sess.CompletedPieces, &sess.TotalPieces, &complete, &cfg,
	)
	if err != nil {
		return session.Session{}, err
	}
	sess.Status = session.ParseStatus(status)
	sess.StartedAt = fromMillis(started)
	sess.EndedAt = fromMillis(ended)
	sess.Fastest5Hits = time.Duration(f5) * time.Millisecond
	sess.PuzzleComplete = complete != 0
	if err := json.Unmarshal([]byte(cfg), &sess.Config); err != nil {
		return session.Session{}, fmt.Errorf("decode config: %w", err)
	}
	return sess, nil
}

// AddSession inserts a new session. It fails with ErrExists if the ID is
// taken.
func (s *Store) AddSession(ctx context.Context, sess session.Session) error {
	args, err := sessionArgs(sess)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO game_sessions (`+sessionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	if err != nil {
		return insertErr("session "+sess.ID, err)
	}
	return nil
}

// SaveSession inserts or replaces a session. It implements session.Recorder.
func (s *Store) SaveSession(ctx context.Context, sess session.Session) error {
	args, err := sessionArgs(sess)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO game_sessions (`+sessionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	if err != nil {
		return fmt.Errorf("storage: cannot save session %s: %w", sess.ID, err)
	}
	return nil
}

var _ session.Recorder = (*Store)(nil)

// Session retrieves a session by ID. Returns nil if not found.
func (s *Store) Session(ctx context.Context, id string) (*session.Session, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+sessionColumns+" FROM game_sessions WHERE id = ?", id)
	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query session %s: %w", id, err)
	}
	return &sess, nil
}

// Sessions returns every session, newest first.
func (s *Store) Sessions(ctx context.Context) ([]session.Session, error) {
	return s.querySessions(ctx, "SELECT "+sessionColumns+" FROM game_sessions ORDER BY started_at DESC")
}

// SessionsByStatus returns sessions in the given state, newest first.
func (s *Store) SessionsByStatus(ctx context.Context, status session.Status) ([]session.Session, error) {
	return s.querySessions(ctx,
		"SELECT "+sessionColumns+" FROM game_sessions WHERE status = ? ORDER BY started_at DESC",
		status.String())
}

func (s *Store) querySessions(ctx context.Context, query string, args ...any) ([]session.Session, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var out []session.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan session: %w", err)
		}
		out = append(out, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// DeleteSession removes a session.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM game_sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("storage: cannot delete session %s: %w", id, err)
	}
	return nil
}

// ClearSessions removes every session.
func (s *Store) ClearSessions(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM game_sessions"); err != nil {
		return fmt.Errorf("storage: cannot clear sessions: %w", err)
	}
	return nil
}
