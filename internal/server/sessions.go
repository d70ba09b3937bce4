package server

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/outreach-forge/internal/outreach"
)

type session struct {
	controller *outreach.Controller
	expiresAt  time.Time
}

// sessionStore maps session IDs to controllers. Every session owns exactly one controller.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session
	now      func() time.Time
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[uuid.UUID]*session), now: time.Now}
}

func (s *sessionStore) add(id uuid.UUID, c *outreach.Controller, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &session{controller: c, expiresAt: expiresAt}
}

func (s *sessionStore) get(id uuid.UUID) (*outreach.Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok || !s.now().Before(sess.expiresAt) {
		return nil, false
	}
	return sess.controller, true
}

func (s *sessionStore) remove(id uuid.UUID) bool {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		closeController(id, sess.controller)
	}
	return ok
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// sweep closes sessions whose token has expired.
func (s *sessionStore) sweep() int {
	now := s.now()
	var expired []uuid.UUID

	s.mu.Lock()
	for id, sess := range s.sessions {
		if !now.Before(sess.expiresAt) {
			expired = append(expired, id)
		}
	}
	s.mu.Unlock()

	for _, id := range expired {
		s.remove(id)
	}
	return len(expired)
}

func (s *sessionStore) closeAll() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[uuid.UUID]*session)
	s.mu.Unlock()

	for id, sess := range sessions {
		closeController(id, sess.controller)
	}
}

func closeController(id uuid.UUID, c *outreach.Controller) {
	if err := c.Close(); err != nil {
		log.Printf("[session] Error closing session %s: %v", id, err)
	}
}
