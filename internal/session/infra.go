package session

import "sync"

type infra struct {
	mu    sync.RWMutex
	slots map[string]*Slot
}

// NewInfra returns the in-process session table. Sessions are never persisted.
func NewInfra() Infra {
	return &infra{slots: make(map[string]*Slot)}
}

func (i *infra) Load(id string) (*Slot, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	s, ok := i.slots[id]
	return s, ok
}

func (i *infra) LoadOrStore(id string, slot *Slot) (*Slot, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if s, ok := i.slots[id]; ok {
		return s, true
	}
	i.slots[id] = slot
	return slot, false
}

func (i *infra) Delete(id string) {
	i.mu.Lock()
	delete(i.slots, id)
	i.mu.Unlock()
}

// Range walks a snapshot, so fn may call Delete.
func (i *infra) Range(fn func(id string, slot *Slot) bool) {
	i.mu.RLock()
	snapshot := make(map[string]*Slot, len(i.slots))
	for id, s := range i.slots {
		snapshot[id] = s
	}
	i.mu.RUnlock()

	for id, s := range snapshot {
		if !fn(id, s) {
			return
		}
	}
}

func (i *infra) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.slots)
}
