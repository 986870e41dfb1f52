package ormfactory

import (
	"sort"

	"github.com/xraph/ormfactory/internal/config"
)

// DefaultNamespace is the namespace every default cache entry carries.
const DefaultNamespace = "ormfactory"

const defaultCacheDirectory = "data/cache/OrmCache"

// defaultCacheConfigs is read-only after init. DefaultCacheConfig hands out copies.
var defaultCacheConfigs = map[string]config.Entry{
	"array": {
		config.KeyClass:     ClassArrayCache,
		config.KeyNamespace: DefaultNamespace,
	},
	"lru": {
		config.KeyClass:     ClassLRUCache,
		config.KeyNamespace: DefaultNamespace,
	},
	"expiring": {
		config.KeyClass:     ClassExpiringCache,
		config.KeyNamespace: DefaultNamespace,
	},
	"filesystem": {
		config.KeyClass:     ClassFilesystemCache,
		config.KeyDirectory: defaultCacheDirectory,
		config.KeyNamespace: DefaultNamespace,
	},
	"badger": {
		config.KeyClass:     ClassBadgerCache,
		config.KeyDirectory: defaultCacheDirectory,
		config.KeyNamespace: DefaultNamespace,
	},
	"memcache": {
		config.KeyClass:     ClassMemcacheCache,
		config.KeyInstance:  "my_memcache_alias",
		config.KeyNamespace: DefaultNamespace,
	},
	"memcached": {
		config.KeyClass:     ClassMemcachedCache,
		config.KeyInstance:  "my_memcached_alias",
		config.KeyNamespace: DefaultNamespace,
	},
	"redis_universal": {
		config.KeyClass:     ClassUniversalRedisCache,
		config.KeyInstance:  "my_redis_universal_alias",
		config.KeyNamespace: DefaultNamespace,
	},
	"redis": {
		config.KeyClass:     ClassRedisCache,
		config.KeyInstance:  "my_redis_alias",
		config.KeyNamespace: DefaultNamespace,
	},
	"nats": {
		config.KeyClass:     ClassKeyValueCache,
		config.KeyInstance:  "my_nats_kv_alias",
		config.KeyNamespace: DefaultNamespace,
	},
	"chain": {
		config.KeyClass:     ClassChainCache,
		config.KeyNamespace: DefaultNamespace,
		config.KeyProviders: []any{},
	},
}

// DefaultCacheConfig returns a copy of the built-in entry for configKey, or an
// empty entry when there is none.
func DefaultCacheConfig(configKey string) config.Entry {
	entry, ok := defaultCacheConfigs[configKey]
	if !ok {
		return config.Entry{}
	}

	out := entry.Clone()
	if providers := entry.List(config.KeyProviders); providers != nil {
		out[config.KeyProviders] = append([]any{}, providers...)
	}
	return out
}

// DefaultCacheKeys lists the keys with a built-in cache entry, sorted.
func DefaultCacheKeys() []string {
	keys := make([]string, 0, len(defaultCacheConfigs))
	for k := range defaultCacheConfigs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DefaultDriverConfig returns an empty entry. Drivers have no built-in defaults.
func DefaultDriverConfig(string) config.Entry {
	return config.Entry{}
}
