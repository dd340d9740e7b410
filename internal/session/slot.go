package session

import (
	"context"
	"sync"
	"time"
)

// Slot owns one session's state and its lock. The lock is a one-element
// channel so waiting can honour a context and the sweeper can try-lock.
type Slot struct {
	lock  chan struct{}
	state *State
	ended bool
}

func newSlot(st *State) *Slot {
	return &Slot{
		lock:  make(chan struct{}, 1),
		state: st,
	}
}

func (s *Slot) acquire(ctx context.Context) error {
	select {
	case s.lock <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Slot) tryAcquire() bool {
	select {
	case s.lock <- struct{}{}:
		return true
	default:
		return false
	}
}

func (s *Slot) release() {
	<-s.lock
}

// Handle is exclusive access to a session. Release must be called exactly
// once; further calls are ignored.
type Handle struct {
	slot *Slot
	now  func() time.Time
	once sync.Once
}

func (h *Handle) State() *State {
	return h.slot.state
}

func (h *Handle) ID() string {
	return h.slot.state.ID
}

func (h *Handle) Release() {
	h.once.Do(func() {
		h.slot.state.LastSeen = h.now()
		h.slot.release()
	})
}
