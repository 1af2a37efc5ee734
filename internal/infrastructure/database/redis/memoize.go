package redis

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/texttechlab/enhanced-search/internal/domain/annotation/text"
)

// DefaultMemoizeTTL is how long a lexicon entry stays in the in-process
// cache.  The lexicon changes rarely, so a generous TTL is fine.
const DefaultMemoizeTTL = 15 * time.Minute

// cachedValue distinguishes hits from memoized misses.
type cachedValue struct {
	value string
	found bool
}

// MemoizingStore wraps a KeyValueStore with an in-process read-through
// cache.  Misses are memoized as well, repeated lookups of unknown words
// are the common case during annotation.
type MemoizingStore struct {
	store text.KeyValueStore
	cache *gocache.Cache
}

// NewMemoizingStore wraps the given store.  A non-positive ttl falls back
// to DefaultMemoizeTTL.
func NewMemoizingStore(store text.KeyValueStore, ttl time.Duration) *MemoizingStore {
	if ttl <= 0 {
		ttl = DefaultMemoizeTTL
	}
	return &MemoizingStore{
		store: store,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// Read returns the cached value for the key, falling through to the
// underlying store on a cache miss.  Errors are not cached.
func (m *MemoizingStore) Read(ctx context.Context, key string) (string, bool, error) {
	if cached, ok := m.cache.Get(key); ok {
		entry := cached.(cachedValue)
		return entry.value, entry.found, nil
	}

	value, found, err := m.store.Read(ctx, key)
	if err != nil {
		return "", false, err
	}

	m.cache.SetDefault(key, cachedValue{value: value, found: found})

	return value, found, nil
}

// Flush drops all cached entries.
func (m *MemoizingStore) Flush() {
	m.cache.Flush()
}
