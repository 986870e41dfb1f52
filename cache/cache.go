package cache

import (
	"context"
	"errors"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrNotFound is returned when a key is not present in the cache.
	ErrNotFound = errors.New("cache: key not found")

	// ErrNotConnected is returned when a backend has no handle to talk to.
	ErrNotConnected = errors.New("cache: backend not connected")

	// ErrInvalidKey is returned for empty keys.
	ErrInvalidKey = errors.New("cache: invalid key")
)

// Cache is the contract shared by every backend the factory can build.
type Cache interface {
	// Get retrieves a value by key.
	// Returns ErrNotFound if the key doesn't exist
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value. A zero ttl means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists in the cache
	Exists(ctx context.Context, key string) (bool, error)
}

// Clearer is implemented by caches that can drop every key in their namespace.
type Clearer interface {
	Clear(ctx context.Context) error
}

// NamespaceSetter is implemented by caches that prefix their keys.
type NamespaceSetter interface {
	SetNamespace(namespace string)
	Namespace() string
}

// MemcacheClient is the subset of the memcache protocol client a cache needs.
// *memcache.Client satisfies it.
type MemcacheClient interface {
	Get(key string) (*memcache.Item, error)
	Set(item *memcache.Item) error
	Delete(key string) error
	DeleteAll() error
}

// MemcacheSetter accepts a memcache protocol handle.
type MemcacheSetter interface {
	SetMemcache(client MemcacheClient)
}

// MemcachedSetter accepts a concrete memcached client.
type MemcachedSetter interface {
	SetMemcached(client *memcache.Client)
}

// RedisSetter accepts a single-node redis client.
type RedisSetter interface {
	SetRedis(client *redis.Client)
}

// KeyValueSetter accepts a NATS JetStream key-value bucket.
type KeyValueSetter interface {
	SetKeyValue(kv jetstream.KeyValue)
}

// Closer is implemented by caches that hold file handles.
type Closer interface {
	Close() error
}

func validateKey(key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	return nil
}
