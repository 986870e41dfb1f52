package cache

import (
	"context"
	"errors"
	"time"
)

// ChainCache delegates to an ordered list of caches. Reads check members in
// order and backfill the earlier members on a hit. Writes go to every member.
type ChainCache struct {
	Provider

	providers []Cache
}

// NewChainCache creates a chain over providers. The first provider has the
// highest lookup priority.
func NewChainCache(providers ...Cache) *ChainCache {
	out := make([]Cache, len(providers))
	copy(out, providers)
	return &ChainCache{providers: out}
}

// Providers returns the chain members in lookup order.
func (c *ChainCache) Providers() []Cache {
	out := make([]Cache, len(c.providers))
	copy(out, c.providers)
	return out
}

func (c *ChainCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	key = c.Key(key)

	for i, p := range c.providers {
		value, err := p.Get(ctx, key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		for j := 0; j < i; j++ {
			if err := c.providers[j].Set(ctx, key, value, 0); err != nil {
				return nil, err
			}
		}
		return value, nil
	}
	return nil, ErrNotFound
}

func (c *ChainCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := validateKey(key); err != nil {
		return err
	}
	key = c.Key(key)

	for _, p := range c.providers {
		if err := p.Set(ctx, key, value, ttl); err != nil {
			return err
		}
	}
	return nil
}

func (c *ChainCache) Delete(ctx context.Context, key string) error {
	key = c.Key(key)

	var errs []error
	for _, p := range c.providers {
		if err := p.Delete(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *ChainCache) Exists(ctx context.Context, key string) (bool, error) {
	key = c.Key(key)

	for _, p := range c.providers {
		ok, err := p.Exists(ctx, key)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Clear clears every member that supports it.
func (c *ChainCache) Clear(ctx context.Context) error {
	var errs []error
	for _, p := range c.providers {
		if cl, ok := p.(Clearer); ok {
			if err := cl.Clear(ctx); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Close closes every member that holds resources.
func (c *ChainCache) Close() error {
	var errs []error
	for _, p := range c.providers {
		if cl, ok := p.(Closer); ok {
			if err := cl.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
