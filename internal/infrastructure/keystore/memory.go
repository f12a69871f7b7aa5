package keystore

import (
	"context"
	"sync"

	"github.com/pharmyrus/pharmyrus/internal/domain/credential"
)

// MemoryStore is an in-process StateStore.  It backs tests and the CLI's
// one-shot mode, where quota persistence across runs is not wanted.
type MemoryStore struct {
	mu    sync.Mutex
	state *credential.PoolState
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load implements credential.StateStore.
func (s *MemoryStore) Load(_ context.Context) (*credential.PoolState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return nil, false, nil
	}
	return s.state.Clone(), true, nil
}

// Save implements credential.StateStore.
func (s *MemoryStore) Save(_ context.Context, state *credential.PoolState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state.Clone()
	return nil
}

// Name identifies the store in health checks.
func (s *MemoryStore) Name() string { return "keystore-memory" }

// Check implements the health-check probe.
func (s *MemoryStore) Check(_ context.Context) error { return nil }
