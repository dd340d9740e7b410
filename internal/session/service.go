package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type service struct {
	infra  Infra
	logger *zap.Logger
	now    func() time.Time

	hooksMu sync.RWMutex
	hooks   []func(ctx context.Context, st *State)
}

func NewService(infra Infra, logger *zap.Logger) Service {
	return &service{
		infra:  infra,
		logger: logger,
		now:    time.Now,
	}
}

func (s *service) handle(slot *Slot) *Handle {
	return &Handle{slot: slot, now: s.now}
}

func (s *service) Start(ctx context.Context) (*Handle, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		slot := newSlot(NewState(uuid.NewString(), s.now()))
		slot.tryAcquire()
		if _, loaded := s.infra.LoadOrStore(slot.state.ID, slot); !loaded {
			s.logger.Debug("session started", zap.String("session", slot.state.ID))
			return s.handle(slot), nil
		}
	}
}

func (s *service) Acquire(ctx context.Context, id string) (*Handle, error) {
	slot, ok := s.infra.Load(id)
	if !ok {
		return nil, ErrNotFound
	}
	if err := slot.acquire(ctx); err != nil {
		return nil, err
	}
	// ended while we were waiting
	if slot.ended {
		slot.release()
		return nil, ErrNotFound
	}
	return s.handle(slot), nil
}

func (s *service) AcquireOrStart(ctx context.Context, id string) (*Handle, bool, error) {
	if id == "" {
		h, err := s.Start(ctx)
		return h, err == nil, err
	}
	for {
		h, err := s.Acquire(ctx, id)
		if err == nil {
			return h, false, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, false, err
		}

		slot := newSlot(NewState(id, s.now()))
		slot.tryAcquire()
		if _, loaded := s.infra.LoadOrStore(id, slot); !loaded {
			s.logger.Debug("session started", zap.String("session", id))
			return s.handle(slot), true, nil
		}
		// lost the race to a concurrent creator, take theirs
	}
}

func (s *service) End(ctx context.Context, id string) error {
	slot, ok := s.infra.Load(id)
	if !ok {
		return ErrNotFound
	}
	if err := slot.acquire(ctx); err != nil {
		return err
	}
	if slot.ended {
		slot.release()
		return ErrNotFound
	}
	slot.ended = true
	s.infra.Delete(id)
	slot.release()

	s.runHooks(ctx, slot.state)
	return nil
}

func (s *service) SweepIdle(ctx context.Context, ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)
	var expired []*State

	s.infra.Range(func(id string, slot *Slot) bool {
		// busy sessions are by definition not idle
		if !slot.tryAcquire() {
			return true
		}
		if !slot.ended && slot.state.LastSeen.Before(cutoff) {
			slot.ended = true
			s.infra.Delete(id)
			expired = append(expired, slot.state)
		}
		slot.release()
		return true
	})

	for _, st := range expired {
		s.runHooks(ctx, st)
	}
	if len(expired) > 0 {
		s.logger.Info("idle sessions swept",
			zap.Int("expired", len(expired)),
			zap.Int("active", s.infra.Len()),
		)
	}
	return len(expired)
}

func (s *service) OnEnd(fn func(ctx context.Context, st *State)) {
	s.hooksMu.Lock()
	s.hooks = append(s.hooks, fn)
	s.hooksMu.Unlock()
}

func (s *service) runHooks(ctx context.Context, st *State) {
	s.hooksMu.RLock()
	hooks := append([]func(context.Context, *State){}, s.hooks...)
	s.hooksMu.RUnlock()

	for _, fn := range hooks {
		fn(ctx, st)
	}
}

func (s *service) Count() int {
	return s.infra.Len()
}
