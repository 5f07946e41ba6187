package puzzle

import (
	"sort"

	"github.com/vovakirdan/molepuzzle/internal/apperr"
)

// Status summarises puzzle progress.
type Status struct {
	Total     int
	Collected int
	Placed    int
	Correct   int
}

// Placement is the outcome of a drop.
type Placement struct {
	Piece   Piece
	Correct bool
	Changed bool // False when the piece was already locked in its slot
}

// Board tracks one session's batch of pieces. Uncollected pieces wait in a
// FIFO queue in row-major order and each Collect takes the head.
type Board struct {
	pieces []Piece
	index  map[string]int
	queue  []int
}

// NewBoard takes ownership of pieces. Their collection order is row-major
// regardless of the order given.
func NewBoard(pieces []Piece) *Board {
	b := &Board{
		pieces: make([]Piece, len(pieces)),
		index:  make(map[string]int, len(pieces)),
	}
	copy(b.pieces, pieces)
	sort.SliceStable(b.pieces, func(i, j int) bool {
		if b.pieces[i].Row != b.pieces[j].Row {
			return b.pieces[i].Row < b.pieces[j].Row
		}
		return b.pieces[i].Col < b.pieces[j].Col
	})

	for i, p := range b.pieces {
		b.index[p.ID] = i
		if !p.Collected {
			b.queue = append(b.queue, i)
		}
	}
	return b
}

// AssignSession tags every piece with the session ID.
func (b *Board) AssignSession(id string) {
	for i := range b.pieces {
		b.pieces[i].SessionID = id
	}
}

// Collect marks the next uncollected piece as collected. It returns false
// once every piece has been collected.
func (b *Board) Collect() (Piece, bool) {
	for len(b.queue) > 0 {
		i := b.queue[0]
		b.queue = b.queue[1:]
		if p, ok := b.CollectID(b.pieces[i].ID); ok {
			return p, true
		}
	}
	return Piece{}, false
}

// CollectID collects a specific piece. Unknown or already collected pieces
// are left alone and reported with false.
func (b *Board) CollectID(id string) (Piece, bool) {
	i, ok := b.index[id]
	if !ok || b.pieces[i].Collected {
		return Piece{}, false
	}
	b.pieces[i].Collected = true
	return b.pieces[i], true
}

// Place drops a collected piece at (x, y) on the assembly grid. A piece that
// is already correct stays correct; later drops are ignored.
func (b *Board) Place(id string, x, y float64) (Placement, error) {
	i, ok := b.index[id]
	if !ok {
		return Placement{}, apperr.Game("puzzle.place", "unknown piece "+id)
	}
	p := &b.pieces[i]
	if !p.Collected {
		return Placement{Piece: *p}, apperr.Game("puzzle.place", "piece "+id+" has not been collected")
	}
	if p.Correct {
		return Placement{Piece: *p, Correct: true}, nil
	}

	p.Placed = true
	p.DropX, p.DropY = x, y
	p.Correct = p.Fits(x, y)
	return Placement{Piece: *p, Correct: p.Correct, Changed: true}, nil
}

// Piece returns a copy of the piece with the given ID.
func (b *Board) Piece(id string) (Piece, bool) {
	i, ok := b.index[id]
	if !ok {
		return Piece{}, false
	}
	return b.pieces[i], true
}

// Pieces returns copies of all pieces in row-major order.
func (b *Board) Pieces() []Piece {
	out := make([]Piece, len(b.pieces))
	copy(out, b.pieces)
	return out
}

// Tray returns collected pieces that are not yet correctly placed.
func (b *Board) Tray() []Piece {
	var out []Piece
	for _, p := range b.pieces {
		if p.Collected && !p.Correct {
			out = append(out, p)
		}
	}
	return out
}

// Len returns the number of pieces.
func (b *Board) Len() int {
	return len(b.pieces)
}

// AllCollected reports whether the board is non-empty and every piece has
// been collected.
func (b *Board) AllCollected() bool {
	if len(b.pieces) == 0 {
		return false
	}
	for _, p := range b.pieces {
		if !p.Collected {
			return false
		}
	}
	return true
}

// Complete reports whether the board is non-empty and every piece sits in
// its slot.
func (b *Board) Complete() bool {
	if len(b.pieces) == 0 {
		return false
	}
	for _, p := range b.pieces {
		if !p.Correct {
			return false
		}
	}
	return true
}

// Status counts pieces by progress.
func (b *Board) Status() Status {
	s := Status{Total: len(b.pieces)}
	for _, p := range b.pieces {
		if p.Collected {
			s.Collected++
		}
		if p.Placed {
			s.Placed++
		}
		if p.Correct {
			s.Correct++
		}
	}
	return s
}
