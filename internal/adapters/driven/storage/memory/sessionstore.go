package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/docshelf/internal/adapters/driven/storage"
	"github.com/custodia-labs/docshelf/internal/core/domain"
	"github.com/custodia-labs/docshelf/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory implementation of driven.SessionStore.
// It serialises exactly like the SQLite store so quota, parse and
// conflict behaviour match. The store acts as a single writer; Overwrite
// plays the part of a second process.
type SessionStore struct {
	mu       sync.RWMutex
	payload  []byte
	saved    bool
	maxBytes int
	saves    int

	generation int64
	seen       int64
}

// NewSessionStore creates a new in-memory session store.
// maxBytes caps the serialised session; zero disables the cap.
func NewSessionStore(maxBytes int) *SessionStore {
	return &SessionStore{maxBytes: maxBytes}
}

// Save replaces the saved session.
func (s *SessionStore) Save(_ context.Context, docs []domain.Document) error {
	payload, err := storage.MarshalSession(docs, time.Now(), s.maxBytes)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != s.seen {
		return fmt.Errorf("saving session at generation %d: %w", s.seen, domain.ErrSessionConflict)
	}
	s.payload = payload
	s.saved = true
	s.saves++
	s.generation++
	s.seen = s.generation
	return nil
}

// Overwrite saves docs as another writer would, so the next Save from
// this store reports domain.ErrSessionConflict until Load is called.
func (s *SessionStore) Overwrite(docs []domain.Document) error {
	payload, err := storage.MarshalSession(docs, time.Now(), 0)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payload = payload
	s.saved = true
	s.generation++
	return nil
}

// Load returns the saved documents.
func (s *SessionStore) Load(_ context.Context) ([]domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = s.generation
	if !s.saved {
		return nil, domain.ErrNoSession
	}
	return storage.UnmarshalSession(s.payload)
}

// Clear removes the saved session.
func (s *SessionStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payload = nil
	s.saved = false
	s.generation++
	s.seen = s.generation
	return nil
}

// SetRaw replaces the stored payload verbatim. Useful for testing
// restores of corrupt or legacy sessions.
func (s *SessionStore) SetRaw(payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payload = payload
	s.saved = true
}

// SaveCount returns the number of successful saves.
func (s *SessionStore) SaveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
