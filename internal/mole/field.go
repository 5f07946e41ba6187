package mole

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/molepuzzle/internal/core"
)

const (
	// SpawnAttempts bounds the search for a non-overlapping position.
	SpawnAttempts = 50
	// SpacingFactor is the minimum centre distance between live moles,
	// as a multiple of the mole size.
	SpacingFactor = 1.2
)

// Options configures a Field.
type Options struct {
	Seed    int64
	AreaW   int
	AreaH   int
	Size    int
	Display time.Duration // How long a mole stays up before expiring
}

// Field owns the moles of one session. Moles are kept in spawn order and
// that order decides which mole wins a click on overlapping boxes.
type Field struct {
	rng     *rand.Rand
	areaW   int
	areaH   int
	size    int
	display time.Duration
	moles   []Mole
	spawned int
}

// NewField creates an empty field.
func NewField(opts Options) *Field {
	return &Field{
		rng:     rand.New(rand.NewSource(opts.Seed)),
		areaW:   opts.AreaW,
		areaH:   opts.AreaH,
		size:    opts.Size,
		display: opts.Display,
		moles:   make([]Mole, 0, 8),
	}
}

// Reset clears all moles and reseeds the RNG.
func (f *Field) Reset(seed int64) {
	f.rng = rand.New(rand.NewSource(seed))
	f.moles = f.moles[:0]
	f.spawned = 0
}

// GeneratePosition returns a uniformly random top-left corner so that a
// size×size box fits inside a w×h area. Areas smaller than the box collapse
// to the origin on that axis.
func GeneratePosition(rng *rand.Rand, w, h, size int) (x, y int) {
	if span := w - size; span > 0 {
		x = rng.Intn(span + 1)
	}
	if span := h - size; span > 0 {
		y = rng.Intn(span + 1)
	}
	return x, y
}

// Spawn creates a mole at a position at least SpacingFactor×size away from
// every live mole. After SpawnAttempts collisions the last candidate is used
// anyway, so Spawn always succeeds.
func (f *Field) Spawn(now time.Time) Mole {
	var x, y int
	for range SpawnAttempts {
		x, y = GeneratePosition(f.rng, f.areaW, f.areaH, f.size)
		if !f.collides(x, y) {
			break
		}
	}
	return f.place(x, y, now)
}

func (f *Field) collides(x, y int) bool {
	candidate := core.Square(x, y, f.size).Center()
	minDist := SpacingFactor * float64(f.size)
	for _, m := range f.moles {
		if m.State.Terminal() {
			continue
		}
		if core.Distance(candidate, m.Center()) < minDist {
			return true
		}
	}
	return false
}

func (f *Field) place(x, y int, now time.Time) Mole {
	m := Mole{
		ID:        nextID(),
		X:         x,
		Y:         y,
		Size:      f.size,
		SpawnedAt: now,
		State:     Appearing,
	}
	f.moles = append(f.moles, m)
	f.spawned++
	return m
}

// ResolveHit finds the earliest-spawned live mole containing (x, y) and marks
// it Hit. At most one mole is hit per call. It returns false on a miss.
func (f *Field) ResolveHit(x, y float64, now time.Time) (Mole, bool) {
	for i := range f.moles {
		m := &f.moles[i]
		if m.State.Terminal() || !m.Contains(x, y) {
			continue
		}
		m.State = Hit
		m.HitAt = now
		return *m, true
	}
	return Mole{}, false
}

// Tick advances every live mole to the state matching its age and returns
// the transitions that happened. Terminal moles stay in the field until
// Prune is called.
func (f *Field) Tick(now time.Time) []Transition {
	var out []Transition
	for i := range f.moles {
		m := &f.moles[i]
		if m.State.Terminal() {
			continue
		}

		age := m.Age(now)
		next := Visible
		switch {
		case age >= f.display:
			next = Expired
		case age < AppearingFor:
			next = Appearing
		}

		if next != m.State {
			out = append(out, Transition{ID: m.ID, From: m.State, To: next})
			m.State = next
		}
	}
	return out
}

// Prune removes terminal moles and returns how many were dropped.
func (f *Field) Prune() int {
	kept := f.moles[:0]
	for _, m := range f.moles {
		if !m.State.Terminal() {
			kept = append(kept, m)
		}
	}
	removed := len(f.moles) - len(kept)
	f.moles = kept
	return removed
}

// Active returns the live moles in spawn order.
func (f *Field) Active() []Mole {
	out := make([]Mole, 0, len(f.moles))
	for _, m := range f.moles {
		if !m.State.Terminal() {
			out = append(out, m)
		}
	}
	return out
}

// All returns every mole still held, terminal ones included.
func (f *Field) All() []Mole {
	out := make([]Mole, len(f.moles))
	copy(out, f.moles)
	return out
}

// Spawned returns the number of moles spawned since the last Reset.
func (f *Field) Spawned() int {
	return f.spawned
}

// Shift moves the spawn time of every live mole forward by d, so time spent
// paused does not count towards their display duration.
func (f *Field) Shift(d time.Duration) {
	for i := range f.moles {
		if !f.moles[i].State.Terminal() {
			f.moles[i].SpawnedAt = f.moles[i].SpawnedAt.Add(d)
		}
	}
}
