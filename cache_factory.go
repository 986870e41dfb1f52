package ormfactory

import (
	"fmt"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/redis/go-redis/v9"

	"github.com/xraph/ormfactory/cache"
	"github.com/xraph/ormfactory/internal/config"
	"github.com/xraph/ormfactory/internal/di"
	"github.com/xraph/ormfactory/internal/errors"
	"github.com/xraph/ormfactory/registry"
)

// Cache class names.
const (
	ClassArrayCache          = "ArrayCache"
	ClassLRUCache            = "LRUCache"
	ClassExpiringCache       = "ExpiringCache"
	ClassFilesystemCache     = "FilesystemCache"
	ClassBadgerCache         = "BadgerCache"
	ClassRedisCache          = "RedisCache"
	ClassUniversalRedisCache = "UniversalRedisCache"
	ClassMemcacheCache       = "MemcacheCache"
	ClassMemcachedCache      = "MemcachedCache"
	ClassKeyValueCache       = "KeyValueCache"
	ClassChainCache          = "ChainCache"
)

type (
	directoryCtor func(f *CacheFactory, directory string) (cache.Cache, error)
	instanceCtor  func(instance any) (cache.Cache, error)
)

// fileBacked classes are constructed from the configured directory.
var fileBacked = map[string]directoryCtor{
	ClassFilesystemCache: func(f *CacheFactory, directory string) (cache.Cache, error) {
		if f.opts.fs == nil {
			return cache.NewFilesystemCache(directory), nil
		}
		sub, err := f.opts.fs.Chroot(directory)
		if err != nil {
			return nil, err
		}
		return cache.NewFilesystemCacheFS(sub), nil
	},
	ClassBadgerCache: func(_ *CacheFactory, directory string) (cache.Cache, error) {
		return cache.NewBadgerCache(directory)
	},
}

// connectionBacked classes are constructed from the resolved instance.
var connectionBacked = map[string]instanceCtor{
	ClassUniversalRedisCache: func(instance any) (cache.Cache, error) {
		client, ok := instance.(redis.UniversalClient)
		if !ok || client == nil {
			return nil, errors.ErrTypeMismatch("redis.UniversalClient", instance)
		}
		return cache.NewUniversalRedisCache(client), nil
	},
}

func builtinCacheClasses() *registry.Registry[cache.Cache] {
	reg := registry.New[cache.Cache]()
	reg.MustRegister(ClassArrayCache, func() (cache.Cache, error) {
		return cache.NewArrayCache(), nil
	})
	reg.MustRegister(ClassLRUCache, func() (cache.Cache, error) {
		return cache.NewLRUCache(cache.DefaultLRUSize)
	})
	reg.MustRegister(ClassExpiringCache, func() (cache.Cache, error) {
		return cache.NewExpiringCache(cache.DefaultCleanupInterval), nil
	})
	reg.MustRegister(ClassRedisCache, func() (cache.Cache, error) {
		return cache.NewRedisCache(), nil
	})
	reg.MustRegister(ClassMemcacheCache, func() (cache.Cache, error) {
		return cache.NewMemcacheCache(), nil
	})
	reg.MustRegister(ClassMemcachedCache, func() (cache.Cache, error) {
		return cache.NewMemcachedCache(), nil
	})
	reg.MustRegister(ClassKeyValueCache, func() (cache.Cache, error) {
		return cache.NewKeyValueCache(), nil
	})
	return reg
}

// CacheFactory builds caches from the "cache" configuration section.
type CacheFactory struct {
	base
	classes *registry.Registry[cache.Cache]
}

// NewCacheFactory creates a factory building the entry under configKey.
func NewCacheFactory(configKey string, opts ...Option) *CacheFactory {
	return newCacheFactory(newBase(configKey, opts))
}

func newCacheFactory(b base) *CacheFactory {
	classes := builtinCacheClasses()
	for class, ctor := range b.opts.cacheClasses {
		classes.Set(class, ctor)
	}
	return &CacheFactory{base: b, classes: classes}
}

// Create builds the cache for the factory's configuration key.
func (f *CacheFactory) Create(c Container) (cache.Cache, error) {
	return f.CreateWithConfig(c, f.configKey)
}

// Factory returns the factory as a container service constructor.
func (f *CacheFactory) Factory() di.Factory {
	return func(c di.Container) (any, error) {
		return f.Create(c)
	}
}

// CreateWithConfig builds the cache configured under configKey.
func (f *CacheFactory) CreateWithConfig(c Container, configKey string) (cache.Cache, error) {
	return f.create(c, configKey, newResolution())
}

// DefaultConfig returns the built-in entry for configKey.
func (f *CacheFactory) DefaultConfig(configKey string) config.Entry {
	return DefaultCacheConfig(configKey)
}

func (f *CacheFactory) create(c Container, configKey string, res resolution) (cache.Cache, error) {
	res, err := res.enter(SectionCache, configKey)
	if err != nil {
		return nil, err
	}

	entry, err := f.retrieveConfig(c, configKey, SectionCache, DefaultCacheConfig)
	if err != nil {
		return nil, err
	}
	return f.build(c, configKey, entry, res)
}

func (f *CacheFactory) build(c Container, label string, entry config.Entry, res resolution) (obj cache.Cache, err error) {
	start := time.Now()
	class, err := requireClass(entry)
	defer func() {
		f.observe(SectionCache, label, class, res, start, err)
	}()
	if err != nil {
		return nil, err
	}

	instance, hasInstance := entry.Lookup(config.KeyInstance)
	if name, ok := instance.(string); ok {
		instance, err = c.Resolve(name)
		if err != nil {
			return nil, err
		}
	}

	obj, err = f.construct(c, label, class, entry, instance, res)
	if err != nil {
		return nil, err
	}

	if hasInstance {
		if err := applyHandle(obj, instance); err != nil {
			return nil, err
		}
	}

	if setter, ok := obj.(cache.NamespaceSetter); ok && entry.Has(config.KeyNamespace) {
		raw, _ := entry.Lookup(config.KeyNamespace)
		ns, ok := raw.(string)
		if !ok {
			return nil, errors.ErrTypeMismatch("namespace string", raw)
		}
		setter.SetNamespace(ns)
	}

	return obj, nil
}

func (f *CacheFactory) construct(c Container, label, class string, entry config.Entry, instance any, res resolution) (cache.Cache, error) {
	if ctor, ok := fileBacked[class]; ok {
		return ctor(f, entry.String(config.KeyDirectory))
	}
	if ctor, ok := connectionBacked[class]; ok {
		return ctor(instance)
	}
	if class == ClassChainCache {
		return f.chain(c, label, entry, res)
	}

	if c.Has(class) {
		svc, err := c.Resolve(class)
		if err != nil {
			return nil, err
		}
		obj, ok := svc.(cache.Cache)
		if !ok {
			return nil, errors.ErrTypeMismatch("cache.Cache", svc)
		}
		return obj, nil
	}

	return f.classes.New(class)
}

// chain builds every provider in order. The first failure aborts the chain.
func (f *CacheFactory) chain(c Container, label string, entry config.Entry, res resolution) (cache.Cache, error) {
	providers := entry.List(config.KeyProviders)
	members := make([]cache.Cache, 0, len(providers))

	for i, p := range providers {
		var (
			member cache.Cache
			err    error
		)

		switch v := p.(type) {
		case string:
			member, err = f.create(c, v, res)
		default:
			inline, ok := config.AsEntry(v)
			if !ok {
				return nil, errors.ErrTypeMismatch("provider key or entry", p)
			}
			member, err = f.build(c, fmt.Sprintf("%s.providers[%d]", label, i), inline, res)
		}
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}

	return cache.NewChainCache(members...), nil
}

// applyHandle hands the resolved instance to the first handle setter the
// cache implements.
func applyHandle(obj cache.Cache, instance any) error {
	switch target := obj.(type) {
	case cache.MemcacheSetter:
		client, ok := instance.(cache.MemcacheClient)
		if !ok || client == nil {
			return errors.ErrTypeMismatch("cache.MemcacheClient", instance)
		}
		target.SetMemcache(client)
	case cache.MemcachedSetter:
		client, ok := instance.(*memcache.Client)
		if !ok || client == nil {
			return errors.ErrTypeMismatch("*memcache.Client", instance)
		}
		target.SetMemcached(client)
	case cache.RedisSetter:
		client, ok := instance.(*redis.Client)
		if !ok || client == nil {
			return errors.ErrTypeMismatch("*redis.Client", instance)
		}
		target.SetRedis(client)
	case cache.KeyValueSetter:
		kv, ok := instance.(jetstream.KeyValue)
		if !ok || kv == nil {
			return errors.ErrTypeMismatch("jetstream.KeyValue", instance)
		}
		target.SetKeyValue(kv)
	}
	return nil
}
