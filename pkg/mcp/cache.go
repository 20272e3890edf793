package mcp

import (
	"sync"
	"time"
)

// Cache defaults.
const (
	CacheTTL     = 5 * time.Minute
	CacheMaxSize = 100
)

// cacheEntry is one stored value with its expiry.
type cacheEntry struct {
	data      interface{}
	expiresAt time.Time
}

// Cache is an in-memory TTL cache with a bounded size. When full, the
// oldest entry by insertion is evicted. It is not wired into the dispatch
// path; tool responses are always fetched fresh.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	order   []string
	maxSize int
}

// NewCache creates a cache holding at most maxSize entries.
func NewCache(maxSize int) (cache *Cache) {
	if maxSize <= 0 {
		maxSize = CacheMaxSize
	}

	cache = &Cache{
		entries: map[string]cacheEntry{},
		maxSize: maxSize,
	}
	return cache
}

// Set stores a value under key for ttl. A full cache evicts its oldest
// entry first.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, exists := c.entries[key]
	if !exists && len(c.entries) >= c.maxSize {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	if !exists {
		c.order = append(c.order, key)
	}

	c.entries[key] = cacheEntry{
		data:      value,
		expiresAt: time.Now().Add(ttl),
	}
}

// Get returns the value under key. Expired entries are removed on access.
func (c *Cache) Get(key string) (value interface{}, exists bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, found := c.entries[key]
	if !found {
		return value, exists
	}

	if time.Now().After(entry.expiresAt) {
		c.removeLocked(key)
		return value, exists
	}

	value = entry.data
	exists = true
	return value, exists
}

// Delete removes one entry.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.removeLocked(key)
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = map[string]cacheEntry{}
	c.order = nil
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() (n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n = len(c.entries)
	return n
}

// Cleanup removes every expired entry.
func (c *Cache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			c.removeLocked(key)
		}
	}
}

// removeLocked deletes an entry and its order slot. Caller holds the lock.
func (c *Cache) removeLocked(key string) {
	_, exists := c.entries[key]
	if !exists {
		return
	}

	delete(c.entries, key)
	c.order = removeName(c.order, key)
}
