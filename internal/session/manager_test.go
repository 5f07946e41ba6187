package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/molepuzzle/internal/apperr"
	"github.com/vovakirdan/molepuzzle/internal/config"
)

type memRecorder struct {
	mu    sync.Mutex
	saved []Session
	err   error
	delay time.Duration
}

func (r *memRecorder) SaveSession(_ context.Context, s Session) error {
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, s)
	return nil
}

func (r *memRecorder) snapshot() []Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Session, len(r.saved))
	copy(out, r.saved)
	return out
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestManager(rec Recorder) (*Manager, *fakeClock, *apperr.Journal) {
	clock := &fakeClock{t: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	journal := apperr.NewJournal(10, nil)
	m := NewManager(Options{Recorder: rec, Journal: journal, Now: clock.Now})
	return m, clock, journal
}

func TestStartCreatesSession(t *testing.T) {
	rec := &memRecorder{}
	m, clock, _ := newTestManager(rec)

	s, err := m.Start(context.Background(), config.Default(), "char-1")
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if s.ID == "" || s.Status != InProgress || !s.StartedAt.Equal(clock.t) {
		t.Errorf("unexpected session: %+v", s)
	}
	if s.TotalPieces != 9 || s.Hits != 0 || s.Misses != 0 || s.Level != 1 {
		t.Errorf("counters not initialised: %+v", s)
	}
	if s.CharacterID != "char-1" {
		t.Errorf("CharacterID = %q", s.CharacterID)
	}

	saved := rec.snapshot()
	if len(saved) != 1 || saved[0].ID != s.ID {
		t.Errorf("initial record not persisted: %+v", saved)
	}
}

func TestStartRejectsInvalidConfig(t *testing.T) {
	m, _, journal := newTestManager(nil)

	cfg := config.Default()
	cfg.GameDurationSec = 10
	_, err := m.Start(context.Background(), cfg, "")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if journal.Len() != 1 {
		t.Errorf("validation failure should be journaled")
	}
	if _, ok := m.Current(); ok {
		t.Error("no session should exist after rejection")
	}
}

func TestStartWhileInProgress(t *testing.T) {
	m, _, _ := newTestManager(nil)
	ctx := context.Background()

	first, _ := m.Start(ctx, config.Default(), "")
	if _, err := m.Start(ctx, config.Default(), ""); !apperr.Is(err, apperr.KindGame) {
		t.Fatalf("expected game error, got %v", err)
	}

	m.End(ctx, Completed)
	second, err := m.Start(ctx, config.Default(), "")
	if err != nil {
		t.Fatalf("Start after End failed: %v", err)
	}
	if second.ID == first.ID {
		t.Error("new session must get a new ID")
	}
}

func TestCounters(t *testing.T) {
	m, _, _ := newTestManager(nil)
	m.Start(context.Background(), config.Default(), "")

	m.RecordHit()
	m.RecordHit()
	m.RecordMiss()
	m.RecordSpawn()
	m.CollectPiece()
	m.SetScore(42)
	m.SetLevel(2)
	m.SetFastest5(3 * time.Second)

	s, _ := m.Current()
	if s.Hits != 2 || s.Misses != 1 || s.MolesSpawned != 1 || s.CompletedPieces != 1 {
		t.Errorf("counters: %+v", s)
	}
	if s.Score != 42 || s.Level != 2 || s.Fastest5Hits != 3*time.Second {
		t.Errorf("setters: %+v", s)
	}
	if s.Accuracy() < 0.66 || s.Accuracy() > 0.67 {
		t.Errorf("Accuracy() = %v", s.Accuracy())
	}
}

func TestPuzzleCompleteSticks(t *testing.T) {
	m, _, _ := newTestManager(nil)
	cfg := config.Default()
	cfg.Grid = config.Grid{Rows: 2, Cols: 2}
	m.Start(context.Background(), cfg, "")

	for i := 0; i < 3; i++ {
		m.CollectPiece()
	}
	m.PlacePiece(true)
	if s, _ := m.Current(); s.PuzzleComplete {
		t.Fatal("puzzle cannot be complete with missing pieces")
	}

	m.CollectPiece()
	m.PlacePiece(false)
	if s, _ := m.Current(); s.PuzzleComplete {
		t.Fatal("incorrect placement must not complete the puzzle")
	}

	m.PlacePiece(true)
	m.PlacePiece(false)
	if s, _ := m.Current(); !s.PuzzleComplete {
		t.Error("puzzle should stay complete")
	}
}

func TestEnd(t *testing.T) {
	rec := &memRecorder{}
	m, clock, _ := newTestManager(rec)
	ctx := context.Background()

	if _, ok := m.End(ctx, Completed); ok {
		t.Error("End without a session must be a no-op")
	}

	m.Start(ctx, config.Default(), "")
	m.RecordHit()
	clock.Advance(time.Minute)

	if _, ok := m.End(ctx, InProgress); ok {
		t.Error("End with a non-terminal status must be rejected")
	}

	s, ok := m.End(ctx, Abandoned)
	if !ok {
		t.Fatal("End failed")
	}
	if s.Status != Abandoned || s.Duration() != time.Minute || s.Hits != 1 {
		t.Errorf("final snapshot: %+v", s)
	}

	if _, ok := m.End(ctx, Completed); ok {
		t.Error("second End must be a no-op")
	}
	if m.RecordHit() {
		t.Error("counters must be frozen after End")
	}

	saved := rec.snapshot()
	if len(saved) != 2 || saved[1].Status != Abandoned {
		t.Errorf("final record not persisted: %+v", saved)
	}
}

func TestReset(t *testing.T) {
	rec := &memRecorder{}
	m, _, _ := newTestManager(rec)
	ctx := context.Background()

	m.Start(ctx, config.Default(), "")
	m.Reset()

	if _, ok := m.Current(); ok {
		t.Error("Reset should discard the session")
	}
	if _, err := m.Start(ctx, config.Default(), ""); err != nil {
		t.Errorf("Start after Reset failed: %v", err)
	}
	if len(rec.snapshot()) != 2 {
		t.Error("Reset must not persist an end record")
	}
}

func TestPersistenceFailureKeepsState(t *testing.T) {
	rec := &memRecorder{err: errors.New("disk full")}
	m, _, journal := newTestManager(rec)
	ctx := context.Background()

	s, err := m.Start(ctx, config.Default(), "")
	if err != nil {
		t.Fatalf("persistence failure must not fail Start: %v", err)
	}
	m.RecordHit()
	final, ok := m.End(ctx, Completed)
	if !ok || final.ID != s.ID || final.Hits != 1 {
		t.Errorf("state rolled back: %+v", final)
	}
	if journal.Len() != 2 {
		t.Errorf("expected 2 journaled failures, got %d", journal.Len())
	}
}

func TestStatusStrings(t *testing.T) {
	for _, st := range []Status{NotStarted, InProgress, Completed, Abandoned} {
		if ParseStatus(st.String()) != st {
			t.Errorf("ParseStatus(%q) did not round trip", st)
		}
	}
}
