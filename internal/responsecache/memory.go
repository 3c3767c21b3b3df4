package responsecache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMaxEntries bounds the in-memory store.
const DefaultMaxEntries = 4096

// MemoryStore keeps entries in a size-bounded LRU. Stale entries are only
// dropped when the LRU needs room.
type MemoryStore struct {
	entries *lru.Cache[string, Entry]
}

// NewMemoryStore creates a MemoryStore holding at most maxEntries entries.
func NewMemoryStore(maxEntries int) (*MemoryStore, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	entries, err := lru.New[string, Entry](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("create lru store: %w", err)
	}
	return &MemoryStore{entries: entries}, nil
}

// Load implements Store.
func (s *MemoryStore) Load(_ context.Context, key string) (Entry, bool, error) {
	entry, ok := s.entries.Get(key)
	return entry, ok, nil
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, key string, entry Entry) error {
	s.entries.Add(key, entry)
	return nil
}

// Len reports how many entries are held, stale ones included.
func (s *MemoryStore) Len() int {
	return s.entries.Len()
}
