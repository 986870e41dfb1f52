// Package cache provides the cache backends the factories can build.
//
// Every backend implements Cache and embeds Provider, so a namespace set
// after construction prefixes all keys as "namespace:key". Backends that
// need a connection receive it through a capability setter (SetRedis,
// SetMemcache, SetMemcached, SetKeyValue) or, for UniversalRedisCache,
// through the constructor. A backend without a handle returns
// ErrNotConnected.
package cache
