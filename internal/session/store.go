// Package session keeps each visitor's latest computation so the report and
// export endpoints can reuse it without a second upload.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/insightdelivered/transcript-gwa/internal/apperrors"
	"github.com/insightdelivered/transcript-gwa/internal/models"
)

type entry struct {
	computation *models.Computation
	updatedAt   time.Time
}

// Store is an in-memory, TTL-bound map of session ID to computation.
// A session is replaced wholesale on every successful upload.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]entry
	ttl      time.Duration
	now      func() time.Time
}

// NewStore returns an empty store whose sessions expire after ttl.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Save stores c under a freshly minted ID and returns it. The session named
// by previous, if any, is dropped. A caller-supplied ID is never adopted.
func (s *Store) Save(previous string, c *models.Computation) string {
	id := uuid.NewString()

	s.mu.Lock()
	delete(s.sessions, previous)
	s.sessions[id] = entry{computation: c, updatedAt: s.now()}
	s.mu.Unlock()
	return id
}

// Get returns the computation saved under id.
func (s *Store) Get(id string) (*models.Computation, error) {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || s.expired(e) {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrSessionNotFound, id)
	}
	return e.computation, nil
}

// Sweep removes expired sessions and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.sessions {
		if s.expired(e) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of sessions held, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// TTL returns the session lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

func (s *Store) expired(e entry) bool {
	return s.now().Sub(e.updatedAt) > s.ttl
}
