package linkcache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMemCapacity bounds how many titles MemStore keeps resident.
const DefaultMemCapacity = 200_000

// MemStore is an in-process, bounded, concurrency-safe cache backed by
// an LRU. It is the default store for tests and single-process
// deployments without a Redis instance.
type MemStore struct {
	cache *lru.Cache[string, []string]
}

// NewMemStore creates a MemStore with the given capacity. A
// non-positive capacity falls back to DefaultMemCapacity.
func NewMemStore(capacity int) *MemStore {
	if capacity <= 0 {
		capacity = DefaultMemCapacity
	}
	cache, err := lru.New[string, []string](capacity)
	if err != nil {
		// Only returns an error for a non-positive size, which cannot
		// happen given the guard above.
		panic(err)
	}
	return &MemStore{cache: cache}
}

func (m *MemStore) Get(_ context.Context, title string) ([]string, bool) {
	return m.cache.Get(title)
}

func (m *MemStore) Set(_ context.Context, title string, links []string) {
	m.cache.Add(title, links)
}
