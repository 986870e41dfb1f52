package cache

import (
	"context"
	"sync"
	"time"
)

// item represents a single cache entry
type item struct {
	value      []byte
	expiration time.Time
	hasExpiry  bool
}

func newItem(value []byte, ttl time.Duration) item {
	it := item{
		value:     make([]byte, len(value)),
		hasExpiry: ttl > 0,
	}
	copy(it.value, value)
	if it.hasExpiry {
		it.expiration = time.Now().Add(ttl)
	}
	return it
}

// isExpired checks if the item has expired
func (it item) isExpired() bool {
	if !it.hasExpiry {
		return false
	}
	return time.Now().After(it.expiration)
}

// ArrayCache keeps entries in a process-local map.
type ArrayCache struct {
	Provider

	items map[string]item
	mu    sync.RWMutex
}

// NewArrayCache creates an empty in-memory cache.
func NewArrayCache() *ArrayCache {
	return &ArrayCache{items: make(map[string]item)}
}

// Get retrieves a value from the cache
func (c *ArrayCache) Get(_ context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	key = c.Key(key)

	c.mu.RLock()
	it, exists := c.items[key]
	c.mu.RUnlock()

	if !exists {
		return nil, ErrNotFound
	}

	if it.isExpired() {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return nil, ErrNotFound
	}

	out := make([]byte, len(it.value))
	copy(out, it.value)
	return out, nil
}

// Set stores a value in the cache
func (c *ArrayCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if err := validateKey(key); err != nil {
		return err
	}

	c.mu.Lock()
	c.items[c.Key(key)] = newItem(value, ttl)
	c.mu.Unlock()
	return nil
}

// Delete removes a key from the cache
func (c *ArrayCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.items, c.Key(key))
	c.mu.Unlock()
	return nil
}

// Exists checks if a key exists
func (c *ArrayCache) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.Get(ctx, key)
	if err == ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

// Clear removes every key in the current namespace.
func (c *ArrayCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.items {
		if c.Owns(key) {
			delete(c.items, key)
		}
	}
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *ArrayCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
