// Package mole implements the mole lifecycle: spawning without overlap,
// hit resolution and time-based state transitions.
package mole

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/vovakirdan/molepuzzle/internal/core"
)

// AppearingFor is how long a freshly spawned mole stays in the Appearing
// sub-state. Hit detection does not depend on it.
const AppearingFor = 100 * time.Millisecond

// State is the lifecycle state of a mole.
type State int

const (
	Appearing State = iota
	Visible
	Hit
	Expired
)

func (s State) String() string {
	switch s {
	case Appearing:
		return "appearing"
	case Visible:
		return "visible"
	case Hit:
		return "hit"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions can happen.
func (s State) Terminal() bool {
	return s == Hit || s == Expired
}

// Mole is a clickable target. Only State and HitAt change after creation.
type Mole struct {
	ID        string
	X, Y      int // Top-left corner in game-area pixels
	Size      int
	SpawnedAt time.Time
	State     State
	HitAt     time.Time
}

// Rect returns the mole's bounding box.
func (m Mole) Rect() core.Rect {
	return core.Square(m.X, m.Y, m.Size)
}

// Center returns the centre of the bounding box.
func (m Mole) Center() core.Point {
	return m.Rect().Center()
}

// Contains reports whether a click at (x, y) lands on the mole. Edges count.
func (m Mole) Contains(x, y float64) bool {
	return m.Rect().ContainsPoint(core.Point{X: x, Y: y})
}

// Age returns how long the mole has been up at now.
func (m Mole) Age(now time.Time) time.Duration {
	return now.Sub(m.SpawnedAt)
}

// Transition records a state change observed by Tick.
type Transition struct {
	ID   string
	From State
	To   State
}

var idCounter atomic.Uint64

// nextID returns a process-unique mole ID.
func nextID() string {
	return fmt.Sprintf("mole-%d", idCounter.Add(1))
}
