package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const scanBatch = 100

// redisStore holds the operations shared by the redis-backed caches.
type redisStore struct {
	Provider

	mu     sync.RWMutex
	client redis.UniversalClient
}

func (s *redisStore) handle() (redis.UniversalClient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.client == nil {
		return nil, ErrNotConnected
	}
	return s.client, nil
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	client, err := s.handle()
	if err != nil {
		return nil, err
	}

	value, err := client.Get(ctx, s.Key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return value, err
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := validateKey(key); err != nil {
		return err
	}
	client, err := s.handle()
	if err != nil {
		return err
	}
	return client.Set(ctx, s.Key(key), value, ttl).Err()
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	client, err := s.handle()
	if err != nil {
		return err
	}
	return client.Del(ctx, s.Key(key)).Err()
}

func (s *redisStore) Exists(ctx context.Context, key string) (bool, error) {
	client, err := s.handle()
	if err != nil {
		return false, err
	}
	n, err := client.Exists(ctx, s.Key(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Clear deletes every key in the current namespace.
func (s *redisStore) Clear(ctx context.Context) error {
	client, err := s.handle()
	if err != nil {
		return err
	}

	iter := client.Scan(ctx, 0, s.Key("*"), scanBatch).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return client.Del(ctx, batch...).Err()
	}
	return nil
}

// RedisCache talks to a single redis node through a handle set after construction.
type RedisCache struct {
	redisStore
}

// NewRedisCache creates a cache with no handle. Call SetRedis before use.
func NewRedisCache() *RedisCache {
	return &RedisCache{}
}

// SetRedis sets the client used for all operations.
func (c *RedisCache) SetRedis(client *redis.Client) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if client == nil {
		c.client = nil
		return
	}
	c.client = client
}

// Redis returns the configured client, or nil.
func (c *RedisCache) Redis() *redis.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	client, _ := c.client.(*redis.Client)
	return client
}

// UniversalRedisCache is built around a redis.UniversalClient, which may be a
// single node, a sentinel failover client or a cluster client.
type UniversalRedisCache struct {
	redisStore
}

// NewUniversalRedisCache creates a cache over client.
func NewUniversalRedisCache(client redis.UniversalClient) *UniversalRedisCache {
	c := &UniversalRedisCache{}
	c.client = client
	return c
}

// Client returns the underlying client.
func (c *UniversalRedisCache) Client() redis.UniversalClient {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client
}
