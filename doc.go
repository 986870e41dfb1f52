// Package ormfactory builds ORM caches and mapping drivers from named
// configuration entries held by a service container.
//
// The container's "config" service holds a mapping of the form
//
//	orm:
//	  cache:
//	    <key>: {class: ..., namespace: ..., ...}
//	  driver:
//	    <key>: {class: ..., paths: [...], ...}
//
// A CacheFactory or DriverFactory is bound to one key and builds the object
// that entry describes. A live entry replaces the built-in default for its
// key entirely. Entries may reference other entries of the same section
// (chain providers, default and nested drivers); those are built
// recursively and reference cycles are reported as errors.
//
// Built objects are usually registered back into the container:
//
//	c := ormfactory.NewContainer()
//	_ = c.RegisterValue(ormfactory.ConfigService, cfg)
//	_ = ormfactory.RegisterCache(c, "array")
//	_ = ormfactory.RegisterDriver(c, ormfactory.DefaultConfigKey)
//
//	driver, err := c.Resolve("orm.driver.orm_default")
package ormfactory
