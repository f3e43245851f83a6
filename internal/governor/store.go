package governor

import (
	"sync"
	"time"
)

// State is per-tenant governor state. A zero OpenedAt means the breaker is
// closed. The struct stays comparable so CompareAndSwap can use equality.
type State struct {
	WindowStart         time.Time
	Count               int
	ConsecutiveFailures int
	OpenedAt            time.Time
}

// KeyedStore is keyed governor state storage. A process-local implementation
// yields per-instance limits; a shared store would make them global.
type KeyedStore interface {
	// Get returns state for key, zero state if absent
	Get(key string) (State, bool)
	// Set stores state for key unconditionally
	Set(key string, st State)
	// CompareAndSwap replaces state only if it still equals old.
	// An absent key compares equal to the zero state.
	CompareAndSwap(key string, old, new State) bool
}

// MemoryStore is mutex-guarded in-process KeyedStore
type MemoryStore struct {
	mu     sync.Mutex
	states map[string]State
}

// NewMemoryStore creates new MemoryStore instance
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]State)}
}

// Get returns state for key, zero state if absent
func (ms *MemoryStore) Get(key string) (State, bool) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	st, ok := ms.states[key]
	return st, ok
}

// Set stores state for key unconditionally
func (ms *MemoryStore) Set(key string, st State) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.states[key] = st
}

// CompareAndSwap replaces state only if it still equals old
func (ms *MemoryStore) CompareAndSwap(key string, old, new State) bool {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if cur := ms.states[key]; cur != old {
		return false
	}
	ms.states[key] = new
	return true
}
