// Package cache implements the read-through TTL cache for loaded entities.
// Entries couple the cached value with its last-update timestamp under one
// key, so a timestamp can never survive an invalidation on its own.
package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tripdocs/tripdocs/internal/common"
	"github.com/tripdocs/tripdocs/internal/models"
)

// TTL applies uniformly to all entity types.
const TTL = 5 * time.Minute

// Key identifies one cache entry: entityType + ":" + userID, optionally
// plus ":" + secondaryKey (e.g. a destination id for travel info).
type Key string

// NewKey builds a cache key. secondaryKey may be empty.
func NewKey(entityType models.EntityType, userID, secondaryKey string) Key {
	k := string(entityType) + ":" + userID
	if secondaryKey != "" {
		k += ":" + secondaryKey
	}
	return Key(k)
}

type entry struct {
	value      any
	lastUpdate time.Time
}

// Cache is a mutex-guarded TTL cache with hit/miss/invalidation counters.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]entry
	stats   Stats
	now     func() time.Time
}

func New() *Cache {
	return NewWithClock(time.Now)
}

// NewWithClock injects the clock; tests use it to cross the TTL boundary.
func NewWithClock(now func() time.Time) *Cache {
	return &Cache{
		entries: make(map[Key]entry),
		stats:   Stats{LastReset: now()},
		now:     now,
	}
}

// Get returns the cached value for the key if it is still fresh, recording
// a hit or a miss as a side effect.
func (c *Cache) Get(entityType models.EntityType, userID, secondaryKey string) (any, bool) {
	key := NewKey(entityType, userID, secondaryKey)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || !c.validLocked(e) {
		c.stats.Misses++
		return nil, false
	}
	c.stats.Hits++
	return e.value, true
}

// Set stores the value under the key with a fresh timestamp.
func (c *Cache) Set(entityType models.EntityType, userID string, value any, secondaryKey string) {
	key := NewKey(entityType, userID, secondaryKey)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, lastUpdate: c.now()}
}

// IsValid reports whether the key exists and is within TTL. Unlike Get it
// does not touch the counters.
func (c *Cache) IsValid(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	return ok && c.validLocked(e)
}

func (c *Cache) validLocked(e entry) bool {
	// an entry with no timestamp is always invalid
	if e.lastUpdate.IsZero() {
		return false
	}
	return c.now().Sub(e.lastUpdate) < TTL
}

// Invalidate removes the user's entry for the entity type, including every
// secondary-key variant, and counts one invalidation. Other users' entries
// are untouched.
func (c *Cache) Invalidate(entityType models.EntityType, userID string) {
	base := NewKey(entityType, userID, "")

	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, base)
	prefix := string(base) + ":"
	for k := range c.entries {
		if strings.HasPrefix(string(k), prefix) {
			delete(c.entries, k)
		}
	}
	c.stats.Invalidations++
}

// ClearAll drops every live entry. O(number of live entries).
func (c *Cache) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

// UpdateTimestamp refreshes the key's last-update time without touching the
// value. Refreshing a key that holds no entry would manufacture freshness
// out of nothing, so it is reported as a cache inconsistency.
func (c *Cache) UpdateTimestamp(key Key) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return fmt.Errorf("%w: update timestamp for absent key %q", common.ErrorCacheInconsistency, key)
	}
	e.lastUpdate = c.now()
	c.entries[key] = e
	return nil
}

// Len returns the number of live entries, fresh or stale.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a copy of the counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// ResetStats zeroes the counters. Never called implicitly.
func (c *Cache) ResetStats() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = Stats{LastReset: c.now()}
}
