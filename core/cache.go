package core

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// CacheEntry holds a fetched, pre-filter event list and its expiry. The
// value type intentionally cannot hold an error, so a failed populate can
// never be served from cache.
type CacheEntry struct {
	Events    []RawEvent
	ExpiresAt time.Time
}

// Store is the cache backend injected into the pipeline. Implementations
// must be safe for concurrent use.
type Store interface {
	Get(key string) (CacheEntry, bool)
	Put(key string, entry CacheEntry)
	Delete(key string)
}

type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]CacheEntry
}

// NewMemoryStore returns an in-process Store. This is the production
// backend as well as the test substitution point.
func NewMemoryStore() Store {
	return &memoryStore{entries: make(map[string]CacheEntry)}
}

func (s *memoryStore) Get(key string) (CacheEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]

	return entry, ok
}

func (s *memoryStore) Put(key string, entry CacheEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry
}

func (s *memoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
}

// CacheKey derives the stable cache key for a source URL.
func CacheKey(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))

	return "events_" + hex.EncodeToString(sum[:16])
}

// Loader is the read-through cache in front of fetch+parse. Concurrent
// populates for the same key are collapsed into a single call so a burst
// of requests cannot trigger a fetch storm.
type Loader struct {
	store Store
	group singleflight.Group
	now   func() time.Time
}

func NewLoader(store Store) *Loader {
	return &Loader{
		store: store,
		now:   time.Now,
	}
}

// GetOrPopulate returns the cached event list for key when fresh, invoking
// populate otherwise. A non-positive ttl bypasses the store entirely:
// populate runs on every call and nothing is read or written. Populate
// errors propagate untouched and are never cached.
func (l *Loader) GetOrPopulate(key string, ttl time.Duration, populate func() ([]RawEvent, error)) ([]RawEvent, error) {
	if ttl <= 0 {
		return populate()
	}

	if entry, ok := l.store.Get(key); ok {
		if l.now().Before(entry.ExpiresAt) {
			return entry.Events, nil
		}

		l.store.Delete(key)
	}

	v, err, _ := l.group.Do(key, func() (any, error) {
		// Another caller may have populated while we waited on the group.
		if entry, ok := l.store.Get(key); ok && l.now().Before(entry.ExpiresAt) {
			return entry.Events, nil
		}

		events, err := populate()
		if err != nil {
			return nil, err
		}

		l.store.Put(key, CacheEntry{
			Events:    events,
			ExpiresAt: l.now().Add(ttl),
		})

		return events, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]RawEvent), nil
}
