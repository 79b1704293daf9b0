// Package memory provides a process-local snapshot store with no durability.
package memory

import (
	"context"
	"sync"

	"github.com/dailywarden/warden/internal/domain/shared"
)

// SnapshotStore keeps the last saved document in memory.
type SnapshotStore struct {
	mu    sync.RWMutex
	raw   []byte
	saved bool
	saves int
}

// NewSnapshotStore creates an empty store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Load returns a copy of the last saved document or shared.ErrSnapshotNotFound.
func (s *SnapshotStore) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.saved {
		return nil, shared.ErrSnapshotNotFound
	}
	return append([]byte(nil), s.raw...), nil
}

// Save stores a copy of raw.
func (s *SnapshotStore) Save(ctx context.Context, raw []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw = append([]byte(nil), raw...)
	s.saved = true
	s.saves++
	return nil
}

// Saves returns how many times Save succeeded.
func (s *SnapshotStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
