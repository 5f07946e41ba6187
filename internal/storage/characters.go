package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Character is a generated puzzle source image.
type Character struct {
	ID          string
	Prompt      string
	Image       []byte
	Width       int
	Height      int
	Format      string
	Placeholder bool
	CreatedAt   time.Time
}

const characterColumns = "id, prompt, image, width, height, format, placeholder, created_at"

func characterArgs(c Character) []any {
	return []any{c.ID, c.Prompt, c.Image, c.Width, c.Height, c.Format, boolInt(c.Placeholder), toMillis(c.CreatedAt)}
}

func scanCharacter(row scanner) (Character, error) {
	var (
		c           Character
		placeholder int
		created     int64
	)
	if err := row.Scan(&c.ID, &c.Prompt, &c.Image, &c.Width, &c.Height, &c.Format, &placeholder, &created); err != nil {
		return Character{}, err
	}
	c.Placeholder = placeholder != 0
	c.CreatedAt = fromMillis(created)
	return c, nil
}

// AddCharacter inserts a new character. It fails with ErrExists if the ID
// is taken.
func (s *Store) AddCharacter(ctx context.Context, c Character) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO characters ("+characterColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		characterArgs(c)...)
	if err != nil {
		return insertErr("character "+c.ID, err)
	}
	return nil
}

// PutCharacter inserts or replaces a character.
func (s *Store) PutCharacter(ctx context.Context, c Character) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO characters ("+characterColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		characterArgs(c)...)
	if err != nil {
		return fmt.Errorf("storage: cannot save character %s: %w", c.ID, err)
	}
	return nil
}

// Character retrieves a character by ID. Returns nil if not found.
func (s *Store) Character(ctx context.Context, id string) (*Character, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+characterColumns+" FROM characters WHERE id = ?", id)
	c, err := scanCharacter(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query character %s: %w", id, err)
	}
	return &c, nil
}

// Characters returns every character, newest first.
func (s *Store) Characters(ctx context.Context) ([]Character, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+characterColumns+" FROM characters ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query characters: %w", err)
	}
	defer rows.Close()

	var out []Character
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan character: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// DeleteCharacter removes a character.
func (s *Store) DeleteCharacter(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM characters WHERE id = ?", id); err != nil {
		return fmt.Errorf("storage: cannot delete character %s: %w", id, err)
	}
	return nil
}

// ClearCharacters removes every character.
func (s *Store) ClearCharacters(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM characters"); err != nil {
		return fmt.Errorf("storage: cannot clear characters: %w", err)
	}
	return nil
}
