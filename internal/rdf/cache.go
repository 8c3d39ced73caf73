package rdf

import (
	"sync"
	"time"
)

// DefaultTTL is the conventional lifetime of a cached graph.
const DefaultTTL = 5 * time.Minute

type cacheEntry struct {
	graph     *Graph
	expiresAt time.Time
}

// Cache memoizes parsed graphs by domain id with a fixed TTL. Concurrent
// population of the same key is allowed; the last writer wins, which is safe
// because parsing is deterministic for identical content. The mutex only
// guards the map itself.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

// CacheStats describes the cache for diagnostics.
type CacheStats struct {
	Entries int      `json:"entries"`
	Keys    []string `json:"keys"`
}

// NewCache creates a cache with the given TTL; zero or negative means
// DefaultTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached graph for key if present and unexpired.
func (c *Cache) Get(key string) (*Graph, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.graph, true
}

// Put stores a graph under key, resetting its TTL.
func (c *Cache) Put(key string, g *Graph) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{graph: g, expiresAt: c.now().Add(c.ttl)}
}

// Invalidate removes a single key.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// InvalidateAll empties the cache.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// Sweep drops expired entries and returns how many were removed.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	now := c.now()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Stats returns a snapshot of the cache contents.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return CacheStats{Entries: len(c.entries), Keys: keys}
}
