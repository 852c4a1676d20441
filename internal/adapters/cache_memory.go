package adapters

import (
	"context"
	"sync"
	"time"
)

type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

// CacheMemoryAdapter is a process-local badge cache used when no redis
// address is configured.
type CacheMemoryAdapter struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

func NewCacheMemoryAdapter() *CacheMemoryAdapter {
	return &CacheMemoryAdapter{entries: map[string]cacheEntry{}}
}

func (c *CacheMemoryAdapter) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (c *CacheMemoryAdapter) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := cacheEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}
