package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultLRUSize bounds an LRUCache built without an explicit size.
const DefaultLRUSize = 1024

// LRUCache is a size-bounded in-memory cache evicting least recently used keys.
type LRUCache struct {
	Provider

	store *lru.Cache[string, item]
}

// NewLRUCache creates a cache holding at most size entries.
func NewLRUCache(size int) (*LRUCache, error) {
	if size <= 0 {
		size = DefaultLRUSize
	}
	store, err := lru.New[string, item](size)
	if err != nil {
		return nil, err
	}
	return &LRUCache{store: store}, nil
}

func (c *LRUCache) Get(_ context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	key = c.Key(key)

	it, ok := c.store.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	if it.isExpired() {
		c.store.Remove(key)
		return nil, ErrNotFound
	}

	out := make([]byte, len(it.value))
	copy(out, it.value)
	return out, nil
}

func (c *LRUCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if err := validateKey(key); err != nil {
		return err
	}
	c.store.Add(c.Key(key), newItem(value, ttl))
	return nil
}

func (c *LRUCache) Delete(_ context.Context, key string) error {
	c.store.Remove(c.Key(key))
	return nil
}

func (c *LRUCache) Exists(_ context.Context, key string) (bool, error) {
	it, ok := c.store.Peek(c.Key(key))
	return ok && !it.isExpired(), nil
}

// Clear removes every key in the current namespace.
func (c *LRUCache) Clear(_ context.Context) error {
	if c.Namespace() == "" {
		c.store.Purge()
		return nil
	}
	for _, key := range c.store.Keys() {
		if c.Owns(key) {
			c.store.Remove(key)
		}
	}
	return nil
}

// Len returns the number of stored entries.
func (c *LRUCache) Len() int {
	return c.store.Len()
}
