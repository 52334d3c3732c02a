package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process [Store].
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	max      int
}

// NewMemoryStore creates a store. Non-positive arguments select the defaults.
func NewMemoryStore(ttl time.Duration, maxSessions int) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	return &MemoryStore{sessions: make(map[string]*Session), ttl: ttl, max: maxSessions}
}

// TTL returns the idle lifetime of sessions in this store.
func (s *MemoryStore) TTL() time.Duration { return s.ttl }

// Get implements Store. A successful Get extends the session.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if sess.IsExpired() {
		s.Delete(ctx, id)
		return nil, ErrExpired
	}
	sess.Touch(s.ttl)
	return sess, nil
}

// Set implements Store.
func (s *MemoryStore) Set(ctx context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[sess.ID]; !exists && len(s.sessions) >= s.max {
		s.evictOldestLocked()
	}
	s.sessions[sess.ID] = sess
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// Cleanup implements Store.
func (s *MemoryStore) Cleanup(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.sessions {
		if sess.IsExpired() {
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored sessions, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Run calls Cleanup every interval until ctx is done.
func (s *MemoryStore) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Cleanup(ctx)
		}
	}
}

func (s *MemoryStore) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, sess := range s.sessions {
		if exp := sess.ExpiresAt(); oldestID == "" || exp.Before(oldest) {
			oldestID, oldest = id, exp
		}
	}
	delete(s.sessions, oldestID)
}

var _ Store = (*MemoryStore)(nil)
