package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("session not found")
	ErrSuperseded = errors.New("initialization superseded by a newer request")
)

// Store holds live sessions in memory, keyed by session id, with one active
// session per owner. Each initialization is tagged with a generation number;
// a fetch result that is no longer the owner's latest generation is discarded
// instead of overwriting newer state.
type Store struct {
	mu          sync.RWMutex
	sessions    map[uuid.UUID]*Session
	byOwner     map[uuid.UUID]uuid.UUID
	generations map[uuid.UUID]uint64
	idleTTL     time.Duration
}

func NewStore(idleTTL time.Duration) *Store {
	if idleTTL <= 0 {
		idleTTL = 2 * time.Hour
	}
	return &Store{
		sessions:    make(map[uuid.UUID]*Session),
		byOwner:     make(map[uuid.UUID]uuid.UUID),
		generations: make(map[uuid.UUID]uint64),
		idleTTL:     idleTTL,
	}
}

// Begin registers a new initialization for the owner and returns its
// generation number. Any generation handed out earlier is now stale.
func (s *Store) Begin(owner uuid.UUID) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generations[owner]++
	return s.generations[owner]
}

// Put installs the session as the owner's active one, replacing any previous
// session. Returns ErrSuperseded when a newer initialization has begun since
// gen was handed out.
func (s *Store) Put(owner uuid.UUID, gen uint64, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generations[owner] {
		return ErrSuperseded
	}

	if prev, ok := s.byOwner[owner]; ok {
		delete(s.sessions, prev)
	}
	s.sessions[sess.ID()] = sess
	s.byOwner[owner] = sess.ID()
	return nil
}

// Get returns the session by id.
func (s *Store) Get(id uuid.UUID) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

// Delete removes a session and its owner mapping.
func (s *Store) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return
	}
	delete(s.sessions, id)
	if s.byOwner[sess.OwnerID()] == id {
		delete(s.byOwner, sess.OwnerID())
	}
}

// Sweep drops sessions idle past the TTL and returns how many were removed.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.LastTouched()) > s.idleTTL {
			delete(s.sessions, id)
			if s.byOwner[sess.OwnerID()] == id {
				delete(s.byOwner, sess.OwnerID())
			}
			removed++
		}
	}
	return removed
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
