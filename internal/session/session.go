// Package session is the process-wide session registry, rebuilt as an
// explicit service: the clock is injected so TTL eviction is testable, and
// interested parties (the websocket server, other tabs) observe changes
// through Watch instead of polling a shared global.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

type Clock func() time.Time

type Session struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

const (
	EventCreated = "created"
	EventRevoked = "revoked"
	EventExpired = "expired"
)

type Event struct {
	Type    string
	Session Session
}

type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      Clock
	sessions map[string]Session
	watchers []chan Event
}

func NewStore(ttl time.Duration, now Clock) *Store {
	if now == nil {
		now = time.Now
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Store{ttl: ttl, now: now, sessions: make(map[string]Session)}
}

func (s *Store) Create(email string, role string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()

	now := s.now()
	sess := Session{
		ID:        newSessionID(),
		Email:     email,
		Role:      role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	s.sessions[sess.ID] = sess
	s.notifyLocked(Event{Type: EventCreated, Session: sess})
	return sess
}

// Get reports whether the session exists and is still live. Expired
// sessions are evicted on access.
func (s *Store) Get(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	if !s.now().Before(sess.ExpiresAt) {
		delete(s.sessions, id)
		s.notifyLocked(Event{Type: EventExpired, Session: sess})
		return Session{}, false
	}
	return sess, true
}

func (s *Store) Revoke(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	delete(s.sessions, id)
	s.notifyLocked(Event{Type: EventRevoked, Session: sess})
	return true
}

// Watch returns a channel receiving every session change. Slow receivers
// drop events rather than block the store.
func (s *Store) Watch() <-chan Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Event, 16)
	s.watchers = append(s.watchers, ch)
	return ch
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	return len(s.sessions)
}

func (s *Store) sweepLocked() {
	now := s.now()
	for id, sess := range s.sessions {
		if !now.Before(sess.ExpiresAt) {
			delete(s.sessions, id)
			s.notifyLocked(Event{Type: EventExpired, Session: sess})
		}
	}
}

func (s *Store) notifyLocked(event Event) {
	for _, ch := range s.watchers {
		select {
		case ch <- event:
		default:
		}
	}
}

func newSessionID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return hex.EncodeToString(buf)
}
