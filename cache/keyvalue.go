package cache

import (
	"context"
	"encoding/base64"
	"errors"
	"sync"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// KeyValueCache stores entries in a NATS JetStream key-value bucket. Keys are
// base64url encoded so any string is a valid subject token. Expiry is a
// bucket-level setting; the ttl passed to Set is ignored.
type KeyValueCache struct {
	Provider

	mu sync.RWMutex
	kv jetstream.KeyValue
}

// NewKeyValueCache creates a cache with no bucket. Call SetKeyValue before use.
func NewKeyValueCache() *KeyValueCache {
	return &KeyValueCache{}
}

// SetKeyValue sets the bucket used for all operations.
func (c *KeyValueCache) SetKeyValue(kv jetstream.KeyValue) {
	c.mu.Lock()
	c.kv = kv
	c.mu.Unlock()
}

// KeyValue returns the configured bucket, or nil.
func (c *KeyValueCache) KeyValue() jetstream.KeyValue {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.kv
}

func (c *KeyValueCache) handle() (jetstream.KeyValue, error) {
	kv := c.KeyValue()
	if kv == nil {
		return nil, ErrNotConnected
	}
	return kv, nil
}

func (c *KeyValueCache) encode(key string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(c.Key(key)))
}

func (c *KeyValueCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	kv, err := c.handle()
	if err != nil {
		return nil, err
	}

	entry, err := kv.Get(ctx, c.encode(key))
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return entry.Value(), nil
}

func (c *KeyValueCache) Set(ctx context.Context, key string, value []byte, _ time.Duration) error {
	if err := validateKey(key); err != nil {
		return err
	}
	kv, err := c.handle()
	if err != nil {
		return err
	}
	_, err = kv.Put(ctx, c.encode(key), value)
	return err
}

func (c *KeyValueCache) Delete(ctx context.Context, key string) error {
	kv, err := c.handle()
	if err != nil {
		return err
	}
	err = kv.Delete(ctx, c.encode(key))
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil
	}
	return err
}

func (c *KeyValueCache) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Clear deletes every key in the current namespace.
func (c *KeyValueCache) Clear(ctx context.Context) error {
	kv, err := c.handle()
	if err != nil {
		return err
	}

	keys, err := kv.Keys(ctx)
	if errors.Is(err, jetstream.ErrNoKeysFound) {
		return nil
	}
	if err != nil {
		return err
	}

	for _, encoded := range keys {
		raw, err := base64.RawURLEncoding.DecodeString(encoded)
		if err != nil || !c.Owns(string(raw)) {
			continue
		}
		if err := kv.Delete(ctx, encoded); err != nil {
			return err
		}
	}
	return nil
}
