// Package cache implements the bounded, time-expiring tag lookup cache
// used on the scan path. It is a latency optimization only: removing it
// never changes the result of a lookup.
package cache

import (
	"sync"
	"time"

	"github.com/jicmugot16/fieldsync/internal/models"
)

const (
	DefaultTTL        = 300 * time.Second
	DefaultMaxEntries = 256
)

type entry struct {
	storedAt time.Time
	result   models.LookupResult
}

// Cache maps tag ids to their last resolved lookup result. Entries
// older than the TTL are treated as absent; inserting past the size
// bound evicts the oldest entry first. Safe for concurrent use.
type Cache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	entries    map[string]entry

	now func() time.Time
}

// New returns a cache with the given TTL and entry bound. Non-positive
// arguments fall back to the defaults.
func New(ttl time.Duration, maxEntries int) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Cache{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]entry, maxEntries),
		now:        time.Now,
	}
}

// Get returns the cached result for tagID. hit is false when the entry
// is missing or older than the TTL; expired entries are dropped so the
// map cannot fill with stale keys.
func (c *Cache) Get(tagID string) (models.LookupResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[tagID]
	if !ok {
		return models.LookupResult{}, false
	}
	if c.now().Sub(e.storedAt) > c.ttl {
		delete(c.entries, tagID)
		return models.LookupResult{}, false
	}
	return e.result, true
}

// Put stores the result for tagID, overwriting any existing entry and
// resetting its timestamp. When the cache is full, the oldest entry is
// evicted first.
func (c *Cache) Put(tagID string, result models.LookupResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[tagID]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOldestLocked()
	}
	c.entries[tagID] = entry{storedAt: c.now(), result: result}
}

// Len reports the current number of entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	first := true
	for k, e := range c.entries {
		if first || e.storedAt.Before(oldestAt) {
			oldestKey, oldestAt = k, e.storedAt
			first = false
		}
	}
	if !first {
		delete(c.entries, oldestKey)
	}
}
