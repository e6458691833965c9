package di

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// sweepInterval is how often the eviction sweep runs. Entries are whole
// query results keyed by query shape, so the map stays small and a coarse
// sweep is enough.
const sweepInterval = time.Minute

type cacheEntry struct {
	result    interface{}
	expiresAt time.Time
}

// InMemoryCache backs the query bus caching middleware for single-instance
// deployments. A multi-instance deployment would swap in Redis behind the
// same port.
type InMemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	logger  *zap.Logger
}

// NewInMemoryCache creates the cache and starts its eviction sweep.
func NewInMemoryCache(logger *zap.Logger) *InMemoryCache {
	c := &InMemoryCache{
		entries: make(map[string]cacheEntry),
		logger:  logger,
	}
	go c.sweep()
	return c
}

// Get returns the cached result when present and not yet expired. Expired
// entries are left for the sweep so Get stays on the read lock.
func (c *InMemoryCache) Get(ctx context.Context, key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.result, true
}

// Set stores a result with a TTL in seconds.
func (c *InMemoryCache) Set(ctx context.Context, key string, value interface{}, ttl int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		result:    value,
		expiresAt: time.Now().Add(time.Duration(ttl) * time.Second),
	}
	return nil
}

// Delete removes one entry.
func (c *InMemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}

// Clear drops every entry.
func (c *InMemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]cacheEntry)
	return nil
}

// sweep evicts expired entries on a fixed interval for the life of the
// process.
func (c *InMemoryCache) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()

		c.mu.Lock()
		evicted := 0
		for key, e := range c.entries {
			if now.After(e.expiresAt) {
				delete(c.entries, key)
				evicted++
			}
		}
		remaining := len(c.entries)
		c.mu.Unlock()

		if evicted > 0 {
			c.logger.Debug("Evicted expired cache entries",
				zap.Int("evicted", evicted),
				zap.Int("remaining", remaining),
			)
		}
	}
}
