// Package session keeps the live treemap views created through the HTTP API.
//
// A view owns a scene and a zoom controller, so sessions live in memory:
// the [MemoryStore] maps UUIDs to views and forgets them after a period of
// inactivity.
//
//	store := session.NewMemoryStore(session.DefaultTTL, session.DefaultMaxSessions)
//	sess, _ := session.New(view, opts, session.DefaultTTL)
//	store.Set(ctx, sess)
//
//	sess, err := store.Get(ctx, id) // ErrNotFound, ErrExpired
//	sess.Touch(session.DefaultTTL)
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/zoomtree/pkg/pipeline"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("session expired")
)

// Default limits.
const (
	// DefaultTTL is how long an idle view is kept.
	DefaultTTL = 30 * time.Minute

	// DefaultMaxSessions caps the number of live views per server.
	DefaultMaxSessions = 1024
)

// Session is one interactive view.
//
// Mu serializes use of the view by concurrent requests on the same session;
// the zoom controller rejects overlapping transitions on its own, but
// rendering and event handling should not interleave.
type Session struct {
	ID      string
	View    *pipeline.View
	Options pipeline.Options

	Mu sync.Mutex

	CreatedAt time.Time

	mu        sync.Mutex
	expiresAt time.Time
}

// New creates a session around view with a fresh UUID.
func New(view *pipeline.View, opts pipeline.Options, ttl time.Duration) (*Session, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &Session{
		ID:        id.String(),
		View:      view,
		Options:   opts,
		CreatedAt: now,
		expiresAt: now.Add(ttl),
	}, nil
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt())
}

// ExpiresAt returns the current expiry.
func (s *Session) ExpiresAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiresAt
}

// Touch extends the session to ttl from now.
func (s *Session) Touch(ttl time.Duration) {
	s.mu.Lock()
	s.expiresAt = time.Now().Add(ttl)
	s.mu.Unlock()
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID. It returns ErrNotFound for unknown IDs
	// and ErrExpired (removing the session) for expired ones.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session, evicting the oldest one if the store is full.
	Set(ctx context.Context, sess *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions and reports how many were dropped.
	Cleanup(ctx context.Context) (int, error)
}
