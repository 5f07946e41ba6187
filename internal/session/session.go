// Package session tracks one play-through from start to its terminal state
// and hands every change to a Recorder for persistence.
package session

import (
	"time"

	"github.com/vovakirdan/molepuzzle/internal/config"
	"github.com/vovakirdan/molepuzzle/internal/scoring"
)

// Status is the lifecycle state of a session.
type Status int

const (
	NotStarted Status = iota
	InProgress
	Completed
	Abandoned
)

func (s Status) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case Completed:
		return "completed"
	case Abandoned:
		return "abandoned"
	default:
		return "not_started"
	}
}

// ParseStatus is the inverse of Status.String. Unknown values map to
// NotStarted.
func ParseStatus(s string) Status {
	switch s {
	case "in_progress":
		return InProgress
	case "completed":
		return Completed
	case "abandoned":
		return Abandoned
	default:
		return NotStarted
	}
}

// Terminal reports whether the session has ended.
func (s Status) Terminal() bool {
	return s == Completed || s == Abandoned
}

// Session is a snapshot of one play-through. Values handed out by the
// Manager are copies.
type Session struct {
	ID          string
	CharacterID string
	StartedAt   time.Time
	EndedAt     time.Time // Zero while in progress
	Status      Status

	Score        int
	Hits         int
	Misses       int
	MolesSpawned int
	Level        int
	Fastest5Hits time.Duration // Zero until five hits were landed

	CompletedPieces int
	TotalPieces     int
	PuzzleComplete  bool

	Config config.Config
}

// Accuracy returns the hit ratio of the session.
func (s Session) Accuracy() float64 {
	return scoring.Accuracy(s.Hits, s.Misses)
}

// Duration returns how long the session ran. In-progress sessions report
// zero.
func (s Session) Duration() time.Duration {
	if s.EndedAt.IsZero() {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}
