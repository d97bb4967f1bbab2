// Package memcache is a process-local implementation of ports.CacheService.
// Resolved CRS metadata is small and effectively immutable, so a map with
// lazy expiry is all the caching this tool needs.
package memcache

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrMiss is returned for absent or expired keys.
var ErrMiss = errors.New("cache miss")

type item struct {
	value     []byte
	expiresAt time.Time
}

// Cache is a mutex-guarded TTL cache.
type Cache struct {
	mu    sync.Mutex
	items map[string]item
	now   func() time.Time
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{items: make(map[string]item), now: time.Now}
}

// Get retrieves a value by key. Expired entries are dropped on access.
func (c *Cache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.items[key]
	if !ok {
		return nil, ErrMiss
	}
	if c.now().After(it.expiresAt) {
		delete(c.items, key)
		return nil, ErrMiss
	}
	return it.value, nil
}

// Set stores a value with a TTL in seconds.
func (c *Cache) Set(_ context.Context, key string, value []byte, ttlSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = item{
		value:     value,
		expiresAt: c.now().Add(time.Duration(ttlSeconds) * time.Second),
	}
	return nil
}

// Delete removes a key.
func (c *Cache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
	return nil
}
