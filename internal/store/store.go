// Package store owns the live project collections.
//
// The mutation functions in this package are pure: they take a collection
// and return a new one. Store is the container that holds the committed
// result and tells subscribers when it changes. Only the history manager
// commits to a Store.
package store

import (
	"sync"

	"github.com/tgienger/planboard/internal/models"
)

// ChangeFunc is called after every committed replacement
type ChangeFunc func(models.Snapshot)

type subscriber struct {
	id int
	fn ChangeFunc
}

// Store holds the current project snapshot
type Store struct {
	mu      sync.RWMutex
	current models.Snapshot

	subMu  sync.Mutex
	subs   []subscriber
	nextID int
}

// New returns a store holding an empty project
func New() *Store {
	return &Store{current: models.NewSnapshot()}
}

// Snapshot returns an independent copy of the live content
func (s *Store) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Replace swaps the live content wholesale and notifies subscribers
func (s *Store) Replace(snap models.Snapshot) {
	next := snap.Clone()

	s.mu.Lock()
	s.current = next
	s.mu.Unlock()

	s.notify(next)
}

// Subscribe registers fn for change notifications. The returned function
// removes the subscription.
func (s *Store) Subscribe(fn ChangeFunc) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) notify(snap models.Snapshot) {
	s.subMu.Lock()
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	// each subscriber gets its own copy so one cannot disturb another
	for _, sub := range subs {
		sub.fn(snap.Clone())
	}
}
