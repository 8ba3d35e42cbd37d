package session

import (
	"context"
	"sync"
	"time"
)

// Session is the state the bot keeps for one user.
type Session struct {
	mu sync.Mutex

	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time

	factIdx int
}

// NextFact returns the user's next fact and advances the rotation.
// It returns "" when facts is empty.
func (s *Session) NextFact(facts []string) string {
	if len(facts) == 0 {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fact := facts[s.factIdx%len(facts)]
	s.advanceLocked(len(facts))
	return fact
}

// PeekFact returns the fact NextFact would return, without advancing.
func (s *Session) PeekFact(facts []string) string {
	if len(facts) == 0 {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return facts[s.factIdx%len(facts)]
}

// SkipFact advances the rotation past the current fact.
func (s *Session) SkipFact(facts []string) {
	if len(facts) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advanceLocked(len(facts))
}

func (s *Session) advanceLocked(n int) {
	s.factIdx = (s.factIdx%n + 1) % n
	s.UpdatedAt = time.Now()
}

// Touch marks the session as used.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UpdatedAt = time.Now()
}

func (s *Session) lastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.UpdatedAt
}

// Store is a thread-safe in-memory session registry with TTL eviction.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Get returns the session for userID, creating it on first use. Every call
// counts as activity for TTL eviction.
func (s *Store) Get(userID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[userID]; ok {
		sess.Touch()
		return sess
	}
	now := time.Now()
	sess := &Session{UserID: userID, CreatedAt: now, UpdatedAt: now}
	s.sessions[userID] = sess
	return sess
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Cleanup removes sessions idle for longer than the TTL.
func (s *Store) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, sess := range s.sessions {
		if now.Sub(sess.lastUsed()) > s.ttl {
			delete(s.sessions, id)
		}
	}
}

// RunCleanup evicts idle sessions every interval until ctx is done.
func (s *Store) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Cleanup()
		}
	}
}
