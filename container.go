package ormfactory

import (
	"github.com/xraph/ormfactory/internal/di"
)

// Container is the service container factories resolve configuration and
// dependencies from.
type Container = di.Container

// ServiceFactory constructs a container service.
type ServiceFactory = di.Factory

// NewContainer creates an empty container.
var NewContainer = di.New

// RegisterCache registers the cache built from configKey as a singleton
// under ServiceName(SectionCache, configKey).
func RegisterCache(c Container, configKey string, opts ...Option) error {
	f := NewCacheFactory(configKey, opts...)
	return c.Register(ServiceName(SectionCache, f.ConfigKey()), f.Factory(),
		di.Singleton(), di.WithMetadata("section", SectionCache))
}

// RegisterDriver registers the driver built from configKey as a singleton
// under ServiceName(SectionDriver, configKey).
func RegisterDriver(c Container, configKey string, opts ...Option) error {
	f := NewDriverFactory(configKey, opts...)
	return c.Register(ServiceName(SectionDriver, f.ConfigKey()), f.Factory(),
		di.Singleton(), di.WithMetadata("section", SectionDriver))
}
