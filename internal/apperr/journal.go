package apperr

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultJournalSize is how many entries a journal keeps.
const DefaultJournalSize = 100

// Entry is one journaled failure.
type Entry struct {
	Time  time.Time
	Kind  Kind
	Op    string
	Error string
}

// Journal is a fixed-capacity ring buffer of recent errors. Oldest entries
// are overwritten once the buffer is full. Safe for concurrent use.
type Journal struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
	logger  *log.Logger
	now     func() time.Time
}

// NewJournal creates a journal holding up to size entries. A nil logger
// disables log output; entries are still retained.
func NewJournal(size int, logger *log.Logger) *Journal {
	if size < 1 {
		size = DefaultJournalSize
	}
	return &Journal{
		entries: make([]Entry, size),
		logger:  logger,
		now:     time.Now,
	}
}

// Record classifies err, logs it and keeps it in the ring. Nil is ignored.
// The classified error is returned so callers can record and return in one step.
func (j *Journal) Record(op string, err error) *Error {
	if err == nil {
		return nil
	}
	ae := Wrap(op, err)

	entry := Entry{
		Time:  j.now(),
		Kind:  ae.Kind,
		Op:    op,
		Error: ae.Error(),
	}

	j.mu.Lock()
	j.entries[j.next] = entry
	j.next = (j.next + 1) % len(j.entries)
	if j.next == 0 {
		j.full = true
	}
	j.mu.Unlock()

	if j.logger != nil {
		switch ae.Kind {
		case KindValidation, KindNetwork:
			j.logger.Warn("recovered error", "op", op, "kind", ae.Kind, "error", ae)
		default:
			j.logger.Error("error", "op", op, "kind", ae.Kind, "error", ae)
		}
	}
	return ae
}

// Len returns the number of retained entries.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.full {
		return len(j.entries)
	}
	return j.next
}

// Recent returns up to n entries, oldest first. n <= 0 returns everything.
func (j *Journal) Recent(n int) []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()

	var ordered []Entry
	if j.full {
		ordered = append(ordered, j.entries[j.next:]...)
	}
	ordered = append(ordered, j.entries[:j.next]...)

	if n > 0 && n < len(ordered) {
		ordered = ordered[len(ordered)-n:]
	}
	return ordered
}

// Clear drops all entries.
func (j *Journal) Clear() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.next = 0
	j.full = false
	clear(j.entries)
}
