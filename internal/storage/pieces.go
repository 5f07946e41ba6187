package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vovakirdan/molepuzzle/internal/puzzle"
)

const pieceColumns = `session_id, id, row_index, col_index, image, size, correct_x, correct_y,
	snap_tolerance, collected, placed, correct, drop_x, drop_y`

func pieceArgs(p puzzle.Piece) []any {
	return []any{
		p.SessionID, p.ID, p.Row, p.Col, p.Image, p.Size, p.CorrectX, p.CorrectY,
		p.SnapTolerance, boolInt(p.Collected), boolInt(p.Placed), boolInt(p.Correct), p.DropX, p.DropY,
	}
}

func scanPiece(row scanner) (puzzle.Piece, error) {
	var (
		p                          puzzle.Piece
		collected, placed, correct int
	)
	err := row.Scan(
		&p.SessionID, &p.ID, &p.Row, &p.Col, &p.Image, &p.Size, &p.CorrectX, &p.CorrectY,
		&p.SnapTolerance, &collected, &placed, &correct, &p.DropX, &p.DropY,
	)
	if err != nil {
		return puzzle.Piece{}, err
	}
	p.Collected = collected != 0
	p.Placed = placed != 0
	p.Correct = correct != 0
	return p, nil
}

// AddPiece inserts a new piece. Pieces are keyed by session and piece ID.
func (s *Store) AddPiece(ctx context.Context, p puzzle.Piece) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO puzzle_pieces ("+pieceColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		pieceArgs(p)...)
	if err != nil {
		return insertErr("piece "+p.ID, err)
	}
	return nil
}

// PutPiece inserts or replaces a piece.
func (s *Store) PutPiece(ctx context.Context, p puzzle.Piece) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO puzzle_pieces ("+pieceColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		pieceArgs(p)...)
	if err != nil {
		return fmt.Errorf("storage: cannot save piece %s: %w", p.ID, err)
	}
	return nil
}

// PutPieces saves a whole batch in one transaction.
func (s *Store) PutPieces(ctx context.Context, pieces []puzzle.Piece) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT OR REPLACE INTO puzzle_pieces ("+pieceColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("storage: cannot prepare piece insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range pieces {
		if _, err = stmt.ExecContext(ctx, pieceArgs(p)...); err != nil {
			return fmt.Errorf("storage: cannot save piece %s: %w", p.ID, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit pieces: %w", err)
	}
	return nil
}

// Piece retrieves one piece. Returns nil if not found.
func (s *Store) Piece(ctx context.Context, sessionID, id string) (*puzzle.Piece, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+pieceColumns+" FROM puzzle_pieces WHERE session_id = ? AND id = ?", sessionID, id)
	p, err := scanPiece(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query piece %s: %w", id, err)
	}
	return &p, nil
}

// Pieces returns every stored piece.
func (s *Store) Pieces(ctx context.Context) ([]puzzle.Piece, error) {
	return s.queryPieces(ctx, "SELECT "+pieceColumns+" FROM puzzle_pieces ORDER BY session_id, row_index, col_index")
}

// PiecesBySession returns a session's pieces in row-major order.
func (s *Store) PiecesBySession(ctx context.Context, sessionID string) ([]puzzle.Piece, error) {
	return s.queryPieces(ctx,
		"SELECT "+pieceColumns+" FROM puzzle_pieces WHERE session_id = ? ORDER BY row_index, col_index",
		sessionID)
}

func (s *Store) queryPieces(ctx context.Context, query string, args ...any) ([]puzzle.Piece, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query pieces: %w", err)
	}
	defer rows.Close()

	var out []puzzle.Piece
	for rows.Next() {
		p, err := scanPiece(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan piece: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// DeletePiece removes one piece.
func (s *Store) DeletePiece(ctx context.Context, sessionID, id string) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM puzzle_pieces WHERE session_id = ? AND id = ?", sessionID, id); err != nil {
		return fmt.Errorf("storage: cannot delete piece %s: %w", id, err)
	}
	return nil
}

// ClearPieces removes every piece.
func (s *Store) ClearPieces(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM puzzle_pieces"); err != nil {
		return fmt.Errorf("storage: cannot clear pieces: %w", err)
	}
	return nil
}
