package cache

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

// maxRelativeExpiration is the longest TTL memcache accepts as a relative
// offset. Larger values are read as absolute Unix times.
const maxRelativeExpiration = 30 * 24 * time.Hour

// memcacheExpiration converts ttl to the protocol's expiration field.
// Zero keeps the item forever.
func memcacheExpiration(ttl time.Duration, now time.Time) int32 {
	if ttl <= 0 {
		return 0
	}
	if ttl <= maxRelativeExpiration {
		return int32((ttl + time.Second - 1) / time.Second)
	}
	at := now.Add(ttl).Unix()
	if at > math.MaxInt32 || at < now.Unix() {
		return math.MaxInt32
	}
	return int32(at)
}

// memcacheStore holds the operations shared by the memcache-backed caches.
type memcacheStore struct {
	Provider

	mu     sync.RWMutex
	client MemcacheClient
}

func (s *memcacheStore) handle() (MemcacheClient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.client == nil {
		return nil, ErrNotConnected
	}
	return s.client, nil
}

func (s *memcacheStore) Get(_ context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	client, err := s.handle()
	if err != nil {
		return nil, err
	}

	it, err := client.Get(s.Key(key))
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return it.Value, nil
}

func (s *memcacheStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if err := validateKey(key); err != nil {
		return err
	}
	client, err := s.handle()
	if err != nil {
		return err
	}

	return client.Set(&memcache.Item{
		Key:        s.Key(key),
		Value:      value,
		Expiration: memcacheExpiration(ttl, time.Now()),
	})
}

func (s *memcacheStore) Delete(_ context.Context, key string) error {
	client, err := s.handle()
	if err != nil {
		return err
	}
	err = client.Delete(s.Key(key))
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil
	}
	return err
}

func (s *memcacheStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Clear flushes the server. Memcache cannot enumerate keys, so the
// namespace is not honored here.
func (s *memcacheStore) Clear(_ context.Context) error {
	client, err := s.handle()
	if err != nil {
		return err
	}
	return client.DeleteAll()
}

// MemcacheCache talks to memcache through any protocol client.
type MemcacheCache struct {
	memcacheStore
}

// NewMemcacheCache creates a cache with no handle. Call SetMemcache before use.
func NewMemcacheCache() *MemcacheCache {
	return &MemcacheCache{}
}

// SetMemcache sets the client used for all operations.
func (c *MemcacheCache) SetMemcache(client MemcacheClient) {
	c.mu.Lock()
	c.client = client
	c.mu.Unlock()
}

// Memcache returns the configured client, or nil.
func (c *MemcacheCache) Memcache() MemcacheClient {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client
}

// MemcachedCache is bound to the concrete gomemcache client.
type MemcachedCache struct {
	memcacheStore
}

// NewMemcachedCache creates a cache with no handle. Call SetMemcached before use.
func NewMemcachedCache() *MemcachedCache {
	return &MemcachedCache{}
}

// SetMemcached sets the client used for all operations.
func (c *MemcachedCache) SetMemcached(client *memcache.Client) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if client == nil {
		c.client = nil
		return
	}
	c.client = client
}

// Memcached returns the configured client, or nil.
func (c *MemcachedCache) Memcached() *memcache.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	client, _ := c.client.(*memcache.Client)
	return client
}
