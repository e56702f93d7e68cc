// Package sessions owns the in-memory draft sessions. Each session
// holds one draft; the reducer is the only writer and every dispatch
// runs under the session lock, so actions apply in strict order.
package sessions

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"github.com/orgforge-labs/orgforge/pkg/engine"
	"github.com/orgforge-labs/orgforge/pkg/model"
)

var ErrSessionNotFound = errors.New("sessions: session not found")

// Session pairs a draft with its access bookkeeping.
type Session struct {
	ID         string
	mu         sync.Mutex
	draft      *model.Draft
	lastAccess time.Time
}

// Store keeps every live session keyed by id.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ids      model.IDSource
	ttl      time.Duration
}

func NewStore(ids model.IDSource, ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ids:      ids,
		ttl:      ttl,
	}
}

// Create opens a session seeded with the initial draft.
func (s *Store) Create() *Session {
	sess := &Session{
		ID:         uuid.NewString(),
		draft:      model.InitialState(s.ids),
		lastAccess: time.Now(),
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops every session idle longer than the TTL and reports how
// many were removed.
func (s *Store) Sweep() int {
	cutoff := time.Now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		stale := sess.lastAccess.Before(cutoff)
		sess.mu.Unlock()
		if stale {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		klog.Infof("session sweep removed %d expired sessions, %d remain", removed, len(s.sessions))
	}
	return removed
}

// Dispatch applies one action and reports whether the draft changed.
// Rejected edits leave the prior draft in place and surface the error.
func (s *Store) Dispatch(id string, action engine.Action) (*model.Draft, bool, error) {
	sess, err := s.Get(id)
	if err != nil {
		return nil, false, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.lastAccess = time.Now()
	next, err := engine.Reduce(sess.draft, action, s.ids)
	if err != nil {
		return sess.draft, false, err
	}
	changed := next != sess.draft
	sess.draft = next
	return next, changed, nil
}

// State returns the current draft snapshot.
func (s *Store) State(id string) (*model.Draft, error) {
	sess, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastAccess = time.Now()
	return sess.draft, nil
}
