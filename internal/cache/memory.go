package cache

import (
	"context"
	"sync"
	"time"
)

const (
	defaultTTL     = time.Hour
	defaultMaxSize = 1000
)

type memoryEntry struct {
	value     string
	createdAt time.Time
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// MemoryCache is a bounded in-process cache with per-entry TTL.
// A single mutex guards the map and the counters; every operation is a
// short critical section, so callers can hold provider calls outside it.
type MemoryCache struct {
	mu         sync.Mutex
	items      map[string]memoryEntry
	maxSize    int
	defaultTTL time.Duration
	hits       int64
	misses     int64
}

// NewMemoryCache creates a memory cache. Non-positive ttl or maxSize
// fall back to one hour and 1000 entries.
func NewMemoryCache(ttl time.Duration, maxSize int) *MemoryCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if maxSize <= 0 {
		maxSize = defaultMaxSize
	}

	return &MemoryCache{
		items:      make(map[string]memoryEntry),
		maxSize:    maxSize,
		defaultTTL: ttl,
	}
}

// Get returns the value for key. Unknown and expired keys both count as
// misses; an expired entry is deleted on the way out.
func (c *MemoryCache) Get(_ context.Context, key string) (string, bool, error) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.items[key]
	if !ok {
		c.misses++
		return "", false, nil
	}

	if entry.expired(now) {
		delete(c.items, key)
		c.misses++
		return "", false, nil
	}

	c.hits++
	return entry.value, true, nil
}

// Set inserts or overwrites an entry. When the cache is at capacity and
// key is not already present, the entry with the oldest createdAt is
// evicted first, keeping size <= maxSize.
func (c *MemoryCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxSize {
		c.evictOldestLocked()
	}

	c.items[key] = memoryEntry{
		value:     value,
		createdAt: now,
		expiresAt: now.Add(ttl),
	}
	return nil
}

// evictOldestLocked removes the single entry with the oldest createdAt.
// Ties are broken by scan order, which is not a contract.
func (c *MemoryCache) evictOldestLocked() {
	if len(c.items) == 0 {
		return
	}

	var oldestKey string
	var oldestAt time.Time
	first := true
	for k, e := range c.items {
		if first || e.createdAt.Before(oldestAt) {
			oldestKey = k
			oldestAt = e.createdAt
			first = false
		}
	}
	delete(c.items, oldestKey)
}

// CleanupExpired sweeps every expired entry and reports how many were
// removed. Meant for a periodic maintenance ticker; leaves counters alone.
func (c *MemoryCache) CleanupExpired(_ context.Context) (int, error) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k, e := range c.items {
		if e.expired(now) {
			delete(c.items, k)
			removed++
		}
	}
	return removed, nil
}

// Stats returns a snapshot of size and hit/miss counters.
func (c *MemoryCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Size:          len(c.items),
		MaxSize:       c.maxSize,
		Hits:          c.hits,
		Misses:        c.misses,
		TotalRequests: c.hits + c.misses,
		HitRate:       hitRate(c.hits, c.misses),
		DefaultTTL:    c.defaultTTL,
	}
}

// Clear removes all items and resets counters. Useful for tests or manual resets.
func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]memoryEntry)
	c.hits = 0
	c.misses = 0
	return nil
}

// Close is a no-op for the memory backend.
func (c *MemoryCache) Close() error {
	return nil
}
