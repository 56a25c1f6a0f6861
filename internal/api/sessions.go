package api

import (
	"sync"
	"time"

	"resume-chat/internal/rag"
)

// SessionStore keeps one router session per visitor. Entries idle for longer
// than the TTL are dropped, so a returning visitor starts fresh.
type SessionStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*sessionEntry
}

type sessionEntry struct {
	mu    sync.Mutex
	state rag.Session
	seen  time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{ttl: ttl, now: time.Now, entries: make(map[string]*sessionEntry)}
}

// Do applies fn to the session for id and stores its result. Calls for the
// same id are serialized; different ids run independently.
func (s *SessionStore) Do(id string, fn func(rag.Session) rag.Session) rag.Session {
	e := s.entry(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = fn(e.state)
	return e.state
}

// Get returns the current session for id without touching it.
func (s *SessionStore) Get(id string) rag.Session {
	s.mu.Lock()
	e, ok := s.entries[id]
	s.mu.Unlock()
	if !ok {
		return rag.Session{}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *SessionStore) entry(id string) *sessionEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.pruneLocked(now)
	e, ok := s.entries[id]
	if !ok {
		e = &sessionEntry{}
		s.entries[id] = e
	}
	e.seen = now
	return e
}

func (s *SessionStore) pruneLocked(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, e := range s.entries {
		if now.Sub(e.seen) > s.ttl {
			delete(s.entries, id)
		}
	}
}
