// Package store holds the role set of a session and broadcasts every replacement.
//
// A Store has a single writer path (Replace) and any number of readers. Readers either
// take a synchronous snapshot with Current or Subscribe to receive the latest snapshot
// immediately followed by every later replacement, in order.
package store

import (
	"sync"
	"sync/atomic"

	"github.com/allisson/rolegate/internal/access/domain"
)

// Store is the source of truth for the roles a session may act as right now.
// The zero value is not usable; create stores with New.
type Store struct {
	current atomic.Pointer[domain.RoleSet]

	// mu serializes replacements against subscription changes so that every
	// subscriber observes the same sequence of snapshots.
	mu     sync.Mutex
	subs   map[uint64]*Subscription
	nextID uint64
	closed bool
}

// New creates a store holding the empty role set.
func New() *Store {
	s := &Store{subs: make(map[uint64]*Subscription)}
	empty := domain.RoleSet{}
	s.current.Store(&empty)
	return s
}

// Replace normalizes raw identifiers and swaps them in as the current role set,
// then notifies every subscriber. Replacing a closed store is a no-op.
func (s *Store) Replace(raw []string) {
	s.ReplaceSet(domain.NewRoleSet(raw...))
}

// ReplaceSet swaps in an already normalized role set.
func (s *Store) ReplaceSet(set domain.RoleSet) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.current.Store(&set)
	for _, sub := range s.subs {
		sub.enqueue(set)
	}
}

// Reset replaces the current role set with the empty set.
func (s *Store) Reset() {
	s.ReplaceSet(domain.RoleSet{})
}

// Current returns the latest snapshot.
func (s *Store) Current() domain.RoleSet {
	return *s.current.Load()
}

// Subscribe registers an observer. The returned subscription delivers the current
// snapshot first and then every replacement until Unsubscribe or Close.
func (s *Store) Subscribe() (*Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, domain.ErrStoreClosed
	}

	s.nextID++
	sub := newSubscription(s, s.nextID)
	sub.enqueue(*s.current.Load())
	s.subs[sub.id] = sub

	go sub.pump()
	return sub, nil
}

// Subscribers returns the number of live subscriptions.
func (s *Store) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Closed reports whether the store was torn down.
func (s *Store) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close tears the store down. Every subscription channel is closed and later
// calls to Subscribe fail with ErrStoreClosed. Close is idempotent.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	subs := s.subs
	s.subs = make(map[uint64]*Subscription)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.stop()
	}
}

func (s *Store) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
