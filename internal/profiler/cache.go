package profiler

import "sync"

// Cache memoizes profiles by dataset content hash. Profiling is pure, so
// concurrent callers may compute the same profile redundantly; the cache
// only guarantees that at most one value is visible per key
// (last-writer-wins, and every writer holds an equal value).
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*DatasetProfile
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]*DatasetProfile)}
}

// Get returns the cached profile for the content hash, if any.
func (c *Cache) Get(contentHash string) (*DatasetProfile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.entries[contentHash]
	return p, ok
}

// Put stores a profile. Idempotent for a given key.
func (c *Cache) Put(contentHash string, p *DatasetProfile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[contentHash] = p
}

// GetOrCompute returns the cached profile or computes and stores one. The
// compute function runs outside the lock, so duplicate work is possible
// under contention but never an inconsistent result.
func (c *Cache) GetOrCompute(contentHash string, compute func() *DatasetProfile) *DatasetProfile {
	if p, ok := c.Get(contentHash); ok {
		return p
	}
	p := compute()
	c.Put(contentHash, p)
	return p
}

// Len reports the number of cached profiles.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
