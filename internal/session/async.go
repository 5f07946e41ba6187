package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/molepuzzle/internal/apperr"
)

// ErrRecorderClosed is returned by SaveSession after Close.
var ErrRecorderClosed = errors.New("session: recorder closed")

// DefaultQueueSize is the write buffer of an AsyncRecorder.
const DefaultQueueSize = 64

const saveTimeout = 5 * time.Second

// AsyncRecorder forwards saves to another Recorder from a background
// goroutine so callers never wait on I/O. At most one snapshot per session
// is pending: a newer save of the same session replaces it. When more than
// size sessions are pending, the oldest unfinished snapshot is dropped.
// Snapshots of ended sessions are never dropped.
type AsyncRecorder struct {
	next    Recorder
	journal *apperr.Journal
	logger  *log.Logger
	size    int

	mu      sync.Mutex
	wake    *sync.Cond
	closed  bool
	pending map[string]Session
	order   []string // Session IDs in arrival order
	done    chan struct{}
}

// NewAsyncRecorder starts the background writer.
func NewAsyncRecorder(next Recorder, size int, journal *apperr.Journal, logger *log.Logger) *AsyncRecorder {
	if size < 1 {
		size = DefaultQueueSize
	}
	a := &AsyncRecorder{
		next:    next,
		journal: journal,
		logger:  logger,
		size:    size,
		pending: make(map[string]Session),
		done:    make(chan struct{}),
	}
	a.wake = sync.NewCond(&a.mu)
	go a.run()
	return a
}

// SaveSession enqueues s and returns immediately.
func (a *AsyncRecorder) SaveSession(_ context.Context, s Session) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrRecorderClosed
	}

	if _, ok := a.pending[s.ID]; ok {
		a.pending[s.ID] = s
		return nil
	}
	if len(a.order) >= a.size {
		a.dropOldest()
	}
	a.pending[s.ID] = s
	a.order = append(a.order, s.ID)
	a.wake.Signal()
	return nil
}

// dropOldest discards the oldest pending snapshot of a session that has not
// ended. Must be called with mu held.
func (a *AsyncRecorder) dropOldest() {
	for i, id := range a.order {
		if a.pending[id].Status.Terminal() {
			continue
		}
		delete(a.pending, id)
		a.order = append(a.order[:i], a.order[i+1:]...)
		if a.logger != nil {
			a.logger.Warn("session write dropped", "id", id)
		}
		return
	}
}

// take blocks until a snapshot is pending or the recorder is closed and
// drained.
func (a *AsyncRecorder) take() (Session, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for len(a.order) == 0 && !a.closed {
		a.wake.Wait()
	}
	if len(a.order) == 0 {
		return Session{}, false
	}
	id := a.order[0]
	a.order = a.order[1:]
	s := a.pending[id]
	delete(a.pending, id)
	return s, true
}

func (a *AsyncRecorder) run() {
	defer close(a.done)
	for {
		s, ok := a.take()
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		err := a.next.SaveSession(ctx, s)
		cancel()
		if err == nil {
			continue
		}
		if a.journal != nil {
			a.journal.Record("session.save", err)
		} else if a.logger != nil {
			a.logger.Error("session write failed", "id", s.ID, "err", err)
		}
	}
}

// Close stops accepting writes and waits for pending ones to finish.
func (a *AsyncRecorder) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	a.wake.Broadcast()
	a.mu.Unlock()

	<-a.done
	return nil
}
