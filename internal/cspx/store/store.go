// Package store implements the visited-state set the explorer consults on
// every discovered transition: open/contains/insert/close over a canonical
// state encoding (internal/cspx/lts.State.Bytes), in three backends of
// increasing durability and decreasing raw speed.
package store

import (
	"errors"

	"github.com/itdojp/cspx/internal/cspx/lts"
)

// StoreError reports a domain failure of a store operation, in the same
// Code/Message/Path shape the rest of this codebase uses for repository
// errors: a small closed taxonomy the engine can switch on, rather than
// opaque wrapped errors.
type StoreError struct {
	Code    ErrorCode
	Message string
	Path    string
}

func (e *StoreError) Error() string {
	if e.Path != "" {
		return e.Message + ": " + e.Path
	}
	return e.Message
}

// ErrorCode categorises a store failure.
type ErrorCode int

const (
	ErrIOError ErrorCode = iota
	ErrCorrupted
	ErrAlreadyOpen
	ErrClosed
	ErrLocked
)

func newIOError(path string, err error) *StoreError {
	return &StoreError{Code: ErrIOError, Message: err.Error(), Path: path}
}

// ErrAlreadyOpenErr is returned by Open when the store is already open.
var ErrAlreadyOpenErr = errors.New("store: already open")

// Metrics receives counters from a Store as it runs. A nil Metrics is valid
// and every method on it is a no-op; callers do not need to special-case
// "metrics disabled" the way the store implementations themselves don't
// special-case "no backing metrics registry" (the same convention
// internal/cspx/metrics uses for its Prometheus-backed implementation).
type Metrics interface {
	RecordInsert(isNew bool)
	RecordContains(hit bool)
	RecordBytes(n int)
}

// NullMetrics is the no-op Metrics implementation, used when a caller does
// not care to observe store activity.
type NullMetrics struct{}

func (NullMetrics) RecordInsert(bool)  {}
func (NullMetrics) RecordContains(bool) {}
func (NullMetrics) RecordBytes(int)     {}

var _ Metrics = NullMetrics{}

// Store is the visited-state set contract every explorer backend uses.
// Implementations must be safe for concurrent Contains/Insert calls from
// multiple explorer workers once Open has returned; Open and Close are not
// required to be concurrency-safe with each other or with Contains/Insert.
type Store interface {
	// Open prepares the store for use, creating or recovering any backing
	// files as needed. Open must be called exactly once before Contains or
	// Insert, and returns ErrAlreadyOpenErr if called twice.
	Open() error

	// Contains reports whether s has already been inserted.
	Contains(s lts.State) (bool, error)

	// Insert records s as visited. It reports isNew=false if s was already
	// present, matching the explorer's "did this push a new frontier
	// entry" decision in a single call instead of a separate
	// Contains-then-Insert race window.
	Insert(s lts.State) (isNew bool, err error)

	// Len returns the number of distinct states inserted so far.
	Len() int

	// Close releases any backing resources. Close is idempotent.
	Close() error
}
