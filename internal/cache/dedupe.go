// Vibe - Artist and Track Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vibe

package cache

import (
	"sync"
	"time"
)

// dedupeEntry is a node of the recency list.
type dedupeEntry struct {
	key       string
	seenAt    time.Time
	expiresAt time.Time
	prev      *dedupeEntry
	next      *dedupeEntry
}

// DedupeConfig configures a DedupeCache.
type DedupeConfig struct {
	// TTL is how long a key counts as a duplicate after it is first seen.
	TTL time.Duration

	// Threshold is the entry count that triggers eviction.
	Threshold int

	// Retain is the entry count eviction shrinks the cache to.
	Retain int

	// OnEvict, if set, is called with the number of entries removed by each
	// eviction pass. It runs with the cache lock held and must not call back
	// into the cache.
	OnEvict func(evicted int)
}

// DedupeCache remembers recently seen keys for a fixed TTL. It is bounded:
// once more than Threshold keys are held, expired keys are dropped and the
// least recently seen keys are evicted until Retain remain.
//
// Key features:
//   - O(1) IsDuplicate and Remove
//   - Batch eviction so a burst of new keys does not evict on every insert
//   - Thread-safe operations
type DedupeCache struct {
	mu sync.Mutex

	ttl       time.Duration
	threshold int
	retain    int
	onEvict   func(int)

	items map[string]*dedupeEntry

	// head.next is the most recently seen, tail.prev the least
	head *dedupeEntry
	tail *dedupeEntry

	now func() time.Time

	hits      int64
	misses    int64
	evictions int64
}

// NewDedupeCache creates a cache. Non-positive values fall back to a 5
// minute TTL, a threshold of 10000 and a retain size of half the threshold.
func NewDedupeCache(cfg DedupeConfig) *DedupeCache {
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = 10000
	}
	if cfg.Retain <= 0 || cfg.Retain > cfg.Threshold {
		cfg.Retain = cfg.Threshold / 2
	}

	c := &DedupeCache{
		ttl:       cfg.TTL,
		threshold: cfg.Threshold,
		retain:    cfg.Retain,
		onEvict:   cfg.OnEvict,
		items:     make(map[string]*dedupeEntry, cfg.Threshold+1),
		head:      &dedupeEntry{},
		tail:      &dedupeEntry{},
		now:       time.Now,
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

// IsDuplicate reports whether key was seen within the TTL. A key that is
// not a duplicate is recorded. Repeats do not extend the window.
func (c *DedupeCache) IsDuplicate(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()

	if entry, exists := c.items[key]; exists {
		if now.Before(entry.expiresAt) {
			c.moveToFront(entry)
			c.hits++
			return true
		}
		c.removeEntry(entry)
	}

	entry := &dedupeEntry{
		key:       key,
		seenAt:    now,
		expiresAt: now.Add(c.ttl),
	}
	c.addToFront(entry)
	c.items[key] = entry
	c.misses++

	if len(c.items) > c.threshold {
		c.shrink(now)
	}
	return false
}

// contains reports whether key is held and unexpired, without recording it.
func (c *DedupeCache) contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.items[key]
	return exists && c.now().Before(entry.expiresAt)
}

// Remove forgets key. Returns true if it was held.
func (c *DedupeCache) Remove(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, exists := c.items[key]; exists {
		c.removeEntry(entry)
		return true
	}
	return false
}

// Len returns the current number of entries.
func (c *DedupeCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// DedupeStats is a snapshot of cache counters.
type DedupeStats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
}

// Stats returns cache statistics.
func (c *DedupeCache) Stats() DedupeStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return DedupeStats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Size:      len(c.items),
	}
}

// Internal methods (must be called with lock held)

// shrink drops expired entries, then the least recently seen, until at
// most retain entries remain.
func (c *DedupeCache) shrink(now time.Time) {
	removed := 0

	// Walk from tail (oldest) to head (newest)
	for entry := c.tail.prev; entry != c.head; {
		prev := entry.prev
		if !now.Before(entry.expiresAt) {
			c.removeEntry(entry)
			removed++
		}
		entry = prev
	}

	for len(c.items) > c.retain {
		oldest := c.tail.prev
		if oldest == c.head {
			break
		}
		c.removeEntry(oldest)
		removed++
	}

	c.evictions += int64(removed)
	if c.onEvict != nil && removed > 0 {
		c.onEvict(removed)
	}
}

func (c *DedupeCache) addToFront(entry *dedupeEntry) {
	entry.prev = c.head
	entry.next = c.head.next
	c.head.next.prev = entry
	c.head.next = entry
}

func (c *DedupeCache) moveToFront(entry *dedupeEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	c.addToFront(entry)
}

func (c *DedupeCache) removeEntry(entry *dedupeEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	delete(c.items, entry.key)
}
