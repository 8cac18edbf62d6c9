// ABOUTME: Thread-safe state container
// ABOUTME: Serializes transitions and notifies subscribers with whole snapshots
package store

import (
	"sync"

	"github.com/harperreed/voicecart/internal/catalog"
)

// Store holds the current state and applies actions one at a time
type Store struct {
	mu          sync.Mutex
	state       State
	subscribers []func(State)
}

// New creates a store showing products
func New(products []catalog.Product) *Store {
	return &Store{state: NewState(products)}
}

// Dispatch applies action and returns the resulting state. Subscribers are
// called in transition order with the store lock held, so they must not
// dispatch.
func (s *Store) Dispatch(action Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Reduce(s.state, action)
	for _, fn := range s.subscribers {
		fn(s.state)
	}
	return s.state
}

// State returns the current state
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn for every future transition
func (s *Store) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}
