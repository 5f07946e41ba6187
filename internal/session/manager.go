package session

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/molepuzzle/internal/apperr"
	"github.com/vovakirdan/molepuzzle/internal/config"
)

// Recorder persists session snapshots. Saves are upserts keyed by ID.
type Recorder interface {
	SaveSession(ctx context.Context, s Session) error
}

// Options configures a Manager.
type Options struct {
	Recorder Recorder        // Nil disables persistence
	Journal  *apperr.Journal // Nil disables journaling
	Logger   *log.Logger     // Nil disables logging
	Now      func() time.Time
}

// Manager owns the single live session. Persistence failures are logged and
// journaled but never undo in-memory changes.
type Manager struct {
	mu      sync.Mutex
	rec     Recorder
	journal *apperr.Journal
	logger  *log.Logger
	now     func() time.Time
	cur     *Session
}

// NewManager creates a manager with no session.
func NewManager(opts Options) *Manager {
	m := &Manager{
		rec:     opts.Recorder,
		journal: opts.Journal,
		logger:  opts.Logger,
		now:     opts.Now,
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// Start validates cfg and begins a new session with zeroed counters. It
// fails while another session is still in progress.
func (m *Manager) Start(ctx context.Context, cfg config.Config, characterID string) (Session, error) {
	if res := config.Validate(cfg); !res.Valid {
		return Session{}, m.record("session.start", res.Err())
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cur != nil && m.cur.Status == InProgress {
		return Session{}, m.record("session.start", apperr.Game("session.start", "a session is already in progress"))
	}

	m.cur = &Session{
		ID:          uuid.NewString(),
		CharacterID: characterID,
		StartedAt:   m.now(),
		Status:      InProgress,
		Level:       1,
		TotalPieces: cfg.Grid.Pieces(),
		Config:      cfg,
	}
	if m.logger != nil {
		m.logger.Info("session started", "id", m.cur.ID, "pieces", m.cur.TotalPieces)
	}
	m.persist(ctx)
	return *m.cur, nil
}

// mutate applies fn to the live session if it is in progress.
func (m *Manager) mutate(fn func(s *Session)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cur == nil || m.cur.Status != InProgress {
		return false
	}
	fn(m.cur)
	return true
}

// RecordHit counts a hit.
func (m *Manager) RecordHit() bool {
	return m.mutate(func(s *Session) { s.Hits++ })
}

// RecordMiss counts a miss.
func (m *Manager) RecordMiss() bool {
	return m.mutate(func(s *Session) { s.Misses++ })
}

// RecordSpawn counts a spawned mole.
func (m *Manager) RecordSpawn() bool {
	return m.mutate(func(s *Session) { s.MolesSpawned++ })
}

// CollectPiece counts a collected puzzle piece.
func (m *Manager) CollectPiece() bool {
	return m.mutate(func(s *Session) { s.CompletedPieces++ })
}

// PlacePiece records a placement attempt. Once every piece is in and the
// attempt was correct the puzzle is marked complete; that flag never clears.
func (m *Manager) PlacePiece(isCorrect bool) bool {
	return m.mutate(func(s *Session) {
		if isCorrect && s.CompletedPieces >= s.TotalPieces {
			s.PuzzleComplete = true
		}
	})
}

// SetScore stores the running score.
func (m *Manager) SetScore(score int) bool {
	return m.mutate(func(s *Session) { s.Score = score })
}

// SetLevel stores the current level.
func (m *Manager) SetLevel(level int) bool {
	return m.mutate(func(s *Session) { s.Level = level })
}

// SetFastest5 stores the fastest five-hit streak.
func (m *Manager) SetFastest5(d time.Duration) bool {
	return m.mutate(func(s *Session) { s.Fastest5Hits = d })
}

// End finalizes the live session with status, persists it and returns the
// final snapshot. It returns false when no session is in progress or status
// is not terminal.
func (m *Manager) End(ctx context.Context, status Status) (Session, bool) {
	if !status.Terminal() {
		return Session{}, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cur == nil || m.cur.Status != InProgress {
		return Session{}, false
	}
	m.cur.EndedAt = m.now()
	m.cur.Status = status
	if m.logger != nil {
		m.logger.Info("session ended", "id", m.cur.ID, "status", status, "score", m.cur.Score)
	}
	m.persist(ctx)
	return *m.cur, true
}

// Reset drops the live session without ending it.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cur = nil
}

// Current returns a copy of the live or last ended session.
func (m *Manager) Current() (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cur == nil {
		return Session{}, false
	}
	return *m.cur, true
}

// Save persists the current snapshot. The game calls it when assembly begins.
func (m *Manager) Save(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cur != nil {
		m.persist(ctx)
	}
}

// persist must be called with mu held.
func (m *Manager) persist(ctx context.Context) {
	if m.rec == nil {
		return
	}
	if err := m.rec.SaveSession(ctx, *m.cur); err != nil {
		m.record("session.save", err)
	}
}

func (m *Manager) record(op string, err error) error {
	if m.journal != nil {
		return m.journal.Record(op, err)
	}
	if m.logger != nil {
		m.logger.Warn("session error", "op", op, "err", err)
	}
	return apperr.Wrap(op, err)
}
