package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/city-weather/internal/widget"
)

var (
	// ErrNotFound is returned for an unknown or expired session id.
	ErrNotFound = errors.New("no widget session with that id")
)

// Session is one user's widget plus bookkeeping.
type Session struct {
	ID       string
	Widget   *widget.Widget
	Created  time.Time
	LastSeen time.Time
}

// MemoryStore is a concurrency-safe in-memory registry of widget sessions.
type MemoryStore struct {
	mu sync.RWMutex

	// key: session id
	data map[string]*Session

	// sessions idle longer than maxIdle are evicted (0 = never)
	maxIdle time.Duration
	now     func() time.Time
}

// NewMemoryStore creates a store evicting sessions idle for longer than maxIdle.
func NewMemoryStore(maxIdle time.Duration) *MemoryStore {
	return &MemoryStore{
		data:    make(map[string]*Session),
		maxIdle: maxIdle,
		now:     time.Now,
	}
}

// Create registers w under a fresh id.
func (s *MemoryStore) Create(w *widget.Widget) *Session {
	now := s.now()
	sess := &Session{
		ID:       uuid.NewString(),
		Widget:   w,
		Created:  now,
		LastSeen: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sess.ID] = sess
	return sess
}

// Get returns the session and marks it as used.
func (s *MemoryStore) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.data[id]
	if !ok {
		return nil, ErrNotFound
	}
	sess.LastSeen = s.now()
	return sess, nil
}

// Delete closes and removes the session.
func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	sess, ok := s.data[id]
	delete(s.data, id)
	s.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	sess.Widget.Close()
	return nil
}

// Evict closes and removes every session idle since before now-maxIdle.
// It returns the number of sessions removed.
func (s *MemoryStore) Evict(now time.Time) int {
	if s.maxIdle <= 0 {
		return 0
	}
	cutoff := now.Add(-s.maxIdle)

	var expired []*Session
	s.mu.Lock()
	for id, sess := range s.data {
		if sess.LastSeen.Before(cutoff) {
			expired = append(expired, sess)
			delete(s.data, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		sess.Widget.Close()
	}
	return len(expired)
}

// Len returns the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
