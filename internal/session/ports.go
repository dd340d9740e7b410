package session

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

// Infra keeps live session slots. Implementations must be safe for
// concurrent use; the per-session lock lives in the Slot itself.
type Infra interface {
	Load(id string) (*Slot, bool)
	LoadOrStore(id string, slot *Slot) (actual *Slot, loaded bool)
	Delete(id string)
	Range(fn func(id string, slot *Slot) bool)
	Len() int
}

// Service is the session lifecycle.
type Service interface {
	// Start creates a fresh session and returns it locked.
	Start(ctx context.Context) (*Handle, error)
	// Acquire locks an existing session, waiting for a concurrent holder.
	Acquire(ctx context.Context, id string) (*Handle, error)
	// AcquireOrStart locks the session with the given id, creating it when absent.
	AcquireOrStart(ctx context.Context, id string) (h *Handle, created bool, err error)
	// End destroys a session and runs the end hooks.
	End(ctx context.Context, id string) error
	// SweepIdle ends every unlocked session not seen for ttl.
	SweepIdle(ctx context.Context, ttl time.Duration) int
	// OnEnd registers a hook run with the final state of an ended session.
	OnEnd(fn func(ctx context.Context, st *State))
	Count() int
}
