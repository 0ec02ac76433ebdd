package testutil

import (
	"context"
	"sync"

	ierr "github.com/printstudio/docengine/internal/errors"
	"github.com/printstudio/docengine/internal/storage"
)

var _ storage.Store = (*InMemoryKVStore)(nil)

// InMemoryKVStore wraps the memory store with a switch that makes writes fail,
// for asserting that a failed write leaves the service state untouched
type InMemoryKVStore struct {
	*storage.MemoryStore

	mu         sync.Mutex
	failWrites bool
	puts       int
}

func NewInMemoryKVStore() *InMemoryKVStore {
	return &InMemoryKVStore{MemoryStore: storage.NewMemoryStore()}
}

// FailWrites makes every following Put and Delete fail until called with false
func (s *InMemoryKVStore) FailWrites(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrites = fail
}

// Puts returns how many writes succeeded
func (s *InMemoryKVStore) Puts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts
}

func (s *InMemoryKVStore) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	fail := s.failWrites
	s.mu.Unlock()
	if fail {
		return writeFailed(key)
	}
	if err := s.MemoryStore.Put(ctx, key, value); err != nil {
		return err
	}
	s.mu.Lock()
	s.puts++
	s.mu.Unlock()
	return nil
}

func (s *InMemoryKVStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	fail := s.failWrites
	s.mu.Unlock()
	if fail {
		return writeFailed(key)
	}
	return s.MemoryStore.Delete(ctx, key)
}

func writeFailed(key string) error {
	return ierr.NewErrorf("write to %s failed", key).
		WithHint("Storage is unavailable").
		Mark(ierr.ErrStorage)
}
