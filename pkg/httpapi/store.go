package httpapi

import (
	"sync"
	"time"

	"github.com/goliatone/go-formsession/pkg/schema"
	"github.com/goliatone/go-formsession/pkg/session"
)

// sessionEntry serialises access to one engine; engines hold no locks.
type sessionEntry struct {
	mu       sync.Mutex
	engine   *session.Engine
	lastSeen time.Time
}

// sessionStore keeps at most limit engines. Engines idle for longer than ttl
// are dropped, and when the table is full the least recently used one makes
// room for a new session.
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
	registry *schema.Registry
	options  []session.Option
	limit    int
	ttl      time.Duration
	now      func() time.Time
}

func newSessionStore(registry *schema.Registry, options []session.Option, limit int, ttl time.Duration, now func() time.Time) *sessionStore {
	return &sessionStore{
		sessions: make(map[string]*sessionEntry),
		registry: registry,
		options:  options,
		limit:    limit,
		ttl:      ttl,
		now:      now,
	}
}

// get returns the live session stored under id and marks it as used.
func (s *sessionStore) get(id string) (*sessionEntry, bool) {
	if id == "" {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if s.expired(entry, now) {
		delete(s.sessions, id)
		return nil, false
	}
	entry.lastSeen = now
	return entry, true
}

// transient builds an engine that is never stored. Reads from callers without
// a session see the state a new session would start in.
func (s *sessionStore) transient() (*session.Engine, error) {
	return session.New(s.registry, s.options...)
}

// create builds a fresh engine under id, replacing nothing already stored.
func (s *sessionStore) create(id string) (*sessionEntry, error) {
	engine, err := session.New(s.registry, s.options...)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if existing, ok := s.sessions[id]; ok && !s.expired(existing, now) {
		existing.lastSeen = now
		return existing, nil
	}
	s.sweep(now)
	if s.limit > 0 && len(s.sessions) >= s.limit {
		s.evictOldest()
	}
	entry := &sessionEntry{engine: engine, lastSeen: now}
	s.sessions[id] = entry
	return entry, nil
}

func (s *sessionStore) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *sessionStore) expired(entry *sessionEntry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(entry.lastSeen) > s.ttl
}

// sweep drops expired sessions. Callers hold s.mu.
func (s *sessionStore) sweep(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, entry := range s.sessions {
		if s.expired(entry, now) {
			delete(s.sessions, id)
		}
	}
}

// evictOldest drops the least recently used session. Callers hold s.mu.
func (s *sessionStore) evictOldest() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, entry := range s.sessions {
		if oldestID == "" || entry.lastSeen.Before(oldest) {
			oldestID, oldest = id, entry.lastSeen
		}
	}
	if oldestID != "" {
		delete(s.sessions, oldestID)
	}
}
