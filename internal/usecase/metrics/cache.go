package metrics

import (
	"sync"
	"time"

	"github.com/revanth11rs/aetherum-main-loan-agent-v2.1/internal/domain"
)

// TTLCache is a small bounded cache for metrics payloads. Entries expire
// after the TTL; when the cache is full an arbitrary entry is dropped to
// make room. Safe for concurrent use.
type TTLCache struct {
	ttl time.Duration
	max int

	mu    sync.Mutex
	store map[string]cacheEntry
}

type cacheEntry struct {
	storedAt time.Time
	value    *domain.AssetMetrics
}

// NewTTLCache creates a cache holding at most maxSize entries for ttl each.
func NewTTLCache(ttl time.Duration, maxSize int) *TTLCache {
	return &TTLCache{
		ttl:   ttl,
		max:   maxSize,
		store: make(map[string]cacheEntry),
	}
}

// Get returns the cached value for key, or nil when absent or expired.
// Expired entries are removed on access.
func (c *TTLCache) Get(key string) *domain.AssetMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.store[key]
	if !ok {
		return nil
	}
	if time.Since(entry.storedAt) > c.ttl {
		delete(c.store, key)
		return nil
	}
	return entry.value
}

// Set stores a value under key, evicting an arbitrary entry when full.
func (c *TTLCache) Set(key string, value *domain.AssetMetrics) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.store[key]; !exists && len(c.store) >= c.max {
		for k := range c.store {
			delete(c.store, k)
			break
		}
	}
	c.store[key] = cacheEntry{storedAt: time.Now(), value: value}
}

// Len reports the number of entries currently held, expired or not.
func (c *TTLCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.store)
}
