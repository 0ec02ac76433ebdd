package storage

import (
	"context"
	"slices"

	goCache "github.com/patrickmn/go-cache"
)

// MemoryStore keeps values in process memory. Nothing survives a restart.
type MemoryStore struct {
	cache *goCache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: goCache.New(goCache.NoExpiration, 0),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, notFound(key)
	}
	return slices.Clone(v.([]byte)), nil
}

func (s *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	s.cache.Set(key, slices.Clone(value), goCache.NoExpiration)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

// Keys lists the stored keys
func (s *MemoryStore) Keys() []string {
	items := s.cache.Items()
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (s *MemoryStore) Close() error {
	s.cache.Flush()
	return nil
}
