// Package cache provides the memoization layer consulted by the route
// analyzer before scoring a segment.
package cache

import (
	"sync"

	"github.com/openroam/coverage-server/internal/lib/coverage"
)

// SegmentStore maps a (segment, filter-set) fingerprint to a previously
// computed segment. The interface separates caching policy from the analyzer:
// the default implementation keeps everything for the engine's lifetime, but
// bounded or expiring stores can be swapped in without touching the engine.
type SegmentStore interface {
	Get(key string) (*coverage.RouteSegment, bool)
	Put(key string, segment *coverage.RouteSegment)
	Len() int
	Keys() []string
	Clear()
}

// SegmentCache is a thread-safe, unbounded in-memory SegmentStore. It has no
// eviction and no expiry: entries live as long as the cache, and the cache
// lives as long as the engine it was built for. When the underlying point set
// changes, a new engine/cache pair must be constructed; there is no
// invalidation API.
//
// Concurrent misses on the same key may each compute and store a value;
// last write wins, which is benign because computations are deterministic.
type SegmentCache struct {
	mutex   sync.RWMutex
	entries map[string]*coverage.RouteSegment
	hits    uint64
	misses  uint64
}

// NewSegmentCache creates an empty segment cache.
func NewSegmentCache() *SegmentCache {
	return &SegmentCache{
		entries: make(map[string]*coverage.RouteSegment),
	}
}

// Get retrieves the segment stored under key, if any.
func (c *SegmentCache) Get(key string) (*coverage.RouteSegment, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	segment, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return segment, ok
}

// Put stores a segment under key, replacing any previous value.
func (c *SegmentCache) Put(key string, segment *coverage.RouteSegment) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[key] = segment
}

// Len returns the number of cached segments.
func (c *SegmentCache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.entries)
}

// Keys returns all cache keys.
func (c *SegmentCache) Keys() []string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	return keys
}

// Clear removes all entries and resets counters.
func (c *SegmentCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]*coverage.RouteSegment)
	c.hits = 0
	c.misses = 0
}

// Stats provides cache usage statistics for diagnostics endpoints.
type Stats struct {
	Entries int    `json:"entries"`
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
}

// Stats returns a snapshot of current usage.
func (c *SegmentCache) Stats() Stats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return Stats{
		Entries: len(c.entries),
		Hits:    c.hits,
		Misses:  c.misses,
	}
}
