// Package memstore implements [interview.Store] with process-lifetime memory.
//
// Sessions survive only as long as the process; durability is out of scope.
// There is no eviction — a production deployment needs a time-based policy
// layered on Delete.
package memstore

import (
	"fmt"
	"sync"

	"github.com/hireloop/interview"
)

// Interface compliance check.
var _ interview.Store = (*Store)(nil)

// Store maps conversation ids to sessions. An RWMutex guards the map; each
// entry carries its own Mutex, so a slow Mutate on one session never blocks
// operations on another.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	sess *interview.Session
}

// New creates an empty Store.
func New() *Store {
	return &Store{sessions: make(map[string]*entry)}
}

// Create stores a deep copy of s, so the caller retains no reference to the
// stored session.
func (st *Store) Create(s *interview.Session) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[s.ID]; ok {
		return fmt.Errorf("conversation %s: %w", s.ID, interview.ErrSessionExists)
	}
	st.sessions[s.ID] = &entry{sess: s.Clone()}
	return nil
}

// Get returns a deep copy of the session, or false if absent.
func (st *Store) Get(id string) (*interview.Session, bool) {
	st.mu.RLock()
	e, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess.Clone(), true
}

// Mutate runs fn under the session's lock. The entry pointer stays valid for
// the duration of fn even if the session is deleted concurrently.
func (st *Store) Mutate(id string, fn func(*interview.Session) error) error {
	st.mu.RLock()
	e, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return fmt.Errorf("conversation %s: %w", id, interview.ErrSessionNotFound)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.sess)
}

// Delete removes the session if present.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Len returns the number of stored sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
