package session

import (
	"context"
	"sync"

	"prescription-chatbot/pkg"
)

// MemoryStore keeps pending prescriptions in process memory.  It is the
// default backend when no Redis address is configured and the backend
// used by tests.
type MemoryStore struct {
	mu      sync.RWMutex
	pending map[string]pkg.PrescriptionRecord
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{pending: make(map[string]pkg.PrescriptionRecord)}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (*pkg.PrescriptionRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.pending[sessionID]
	if !ok {
		return nil, false, nil
	}
	// Return a copy so callers mutate their own view until Put.
	out := rec
	return &out, true, nil
}

func (s *MemoryStore) Put(_ context.Context, sessionID string, rec *pkg.PrescriptionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[sessionID] = *rec
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, sessionID)
	return nil
}
