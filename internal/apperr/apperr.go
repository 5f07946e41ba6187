// Package apperr defines the error taxonomy shared by the game packages and a
// bounded journal that keeps recent failures for diagnostics.
package apperr

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind classifies an error by how callers are expected to recover from it.
type Kind int

const (
	// KindUnknown is the catch-all for errors that were not classified.
	KindUnknown Kind = iota
	// KindValidation means bad configuration or input; always recoverable.
	KindValidation
	// KindNetwork means an external service failed; recovered locally.
	KindNetwork
	// KindGame means an invariant was violated during play; the session continues.
	KindGame
)

// String returns the stable code for the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindNetwork:
		return "NETWORK_ERROR"
	case KindGame:
		return "GAME_ERROR"
	default:
		return "UNKNOWN_ERROR"
	}
}

// Error is a classified, timestamped error.
type Error struct {
	Kind    Kind
	Op      string   // Operation that failed, e.g. "session.start"
	Message string   // Human-readable description
	Fields  []string // Offending fields for validation errors
	Err     error    // Underlying cause, if any
	Time    time.Time
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Op != "" {
		sb.WriteString(e.Op)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Message)
	if len(e.Fields) > 0 {
		fmt.Fprintf(&sb, " [%s]", strings.Join(e.Fields, ", "))
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap exposes the underlying cause to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, op, msg string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Message: msg, Err: cause, Time: time.Now()}
}

// Validation builds a validation error naming the offending fields.
func Validation(op, msg string, fields ...string) *Error {
	e := newError(KindValidation, op, msg, nil)
	e.Fields = fields
	return e
}

// Network wraps an external-service failure.
func Network(op string, cause error) *Error {
	return newError(KindNetwork, op, "external service failed", cause)
}

// Game builds an invariant-violation error.
func Game(op, msg string) *Error {
	return newError(KindGame, op, msg, nil)
}

// Wrap classifies an arbitrary error. Errors that already carry a kind are
// returned as-is; anything else becomes KindUnknown with the cause preserved.
func Wrap(op string, err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return newError(KindUnknown, op, "unexpected failure", err)
}

// KindOf reports the kind of err, or KindUnknown if it is not classified.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
