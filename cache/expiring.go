package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultCleanupInterval is how often an ExpiringCache sweeps expired keys.
const DefaultCleanupInterval = time.Minute

// ExpiringCache is an in-memory cache with background expiry of keys.
type ExpiringCache struct {
	Provider

	store *gocache.Cache
}

// NewExpiringCache creates a cache sweeping expired keys every cleanup interval.
func NewExpiringCache(cleanup time.Duration) *ExpiringCache {
	if cleanup <= 0 {
		cleanup = DefaultCleanupInterval
	}
	return &ExpiringCache{store: gocache.New(gocache.NoExpiration, cleanup)}
}

func (c *ExpiringCache) Get(_ context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	v, ok := c.store.Get(c.Key(key))
	if !ok {
		return nil, ErrNotFound
	}
	stored := v.([]byte)
	out := make([]byte, len(stored))
	copy(out, stored)
	return out, nil
}

func (c *ExpiringCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	c.store.Set(c.Key(key), stored, ttl)
	return nil
}

func (c *ExpiringCache) Delete(_ context.Context, key string) error {
	c.store.Delete(c.Key(key))
	return nil
}

func (c *ExpiringCache) Exists(_ context.Context, key string) (bool, error) {
	_, ok := c.store.Get(c.Key(key))
	return ok, nil
}

// Clear removes every key in the current namespace.
func (c *ExpiringCache) Clear(_ context.Context) error {
	if c.Namespace() == "" {
		c.store.Flush()
		return nil
	}
	for key := range c.store.Items() {
		if c.Owns(key) {
			c.store.Delete(key)
		}
	}
	return nil
}
