package ormfactory

import (
	"github.com/go-git/go-billy/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/xraph/ormfactory/cache"
	"github.com/xraph/ormfactory/internal/logger"
	"github.com/xraph/ormfactory/internal/metrics"
	"github.com/xraph/ormfactory/mapping"
	"github.com/xraph/ormfactory/registry"
)

// FileDriverConstructor builds a file-based driver reading paths on fs.
// An empty extension selects the driver's default.
type FileDriverConstructor func(fs billy.Filesystem, paths []string, extension string) (mapping.Driver, error)

// Option configures a factory.
type Option func(*options)

type options struct {
	logger     Logger
	registerer prometheus.Registerer
	recorder   metrics.Recorder

	cacheClasses      map[string]registry.Constructor[cache.Cache]
	driverClasses     map[string]registry.Constructor[mapping.Driver]
	fileDriverClasses map[string]FileDriverConstructor

	fs       billy.Filesystem
	entities map[string]any
}

func newOptions(opts []Option) *options {
	o := &options{
		cacheClasses:      make(map[string]registry.Constructor[cache.Cache]),
		driverClasses:     make(map[string]registry.Constructor[mapping.Driver]),
		fileDriverClasses: make(map[string]FileDriverConstructor),
		entities:          make(map[string]any),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	if o.logger == nil {
		o.logger = logger.NewNoopLogger()
	}

	o.recorder = metrics.NewNoop()
	if o.registerer != nil {
		collector, err := metrics.NewCollector(o.registerer)
		if err != nil {
			o.logger.Warn("metrics disabled", logger.Error(err))
		} else {
			o.recorder = collector
		}
	}

	return o
}

// WithLogger sets the logger used for build diagnostics.
func WithLogger(l Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithZapLogger wraps an existing zap logger.
func WithZapLogger(z *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger.NewFromZap(z)
	}
}

// WithMetrics registers build metrics with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithCacheClass makes class constructible by the cache factory.
func WithCacheClass(class string, ctor func() (cache.Cache, error)) Option {
	return func(o *options) {
		o.cacheClasses[class] = ctor
	}
}

// WithDriverClass makes class constructible by the driver factory.
func WithDriverClass(class string, ctor func() (mapping.Driver, error)) Option {
	return func(o *options) {
		o.driverClasses[class] = ctor
	}
}

// WithFileDriverClass adds a file-based driver class. It is built with the
// factory filesystem, the configured paths and extension.
func WithFileDriverClass(class string, ctor FileDriverConstructor) Option {
	return func(o *options) {
		o.fileDriverClasses[class] = ctor
	}
}

// WithFilesystem sets the filesystem mapping files and file caches are read
// from. Without it the local disk is used.
func WithFilesystem(fs billy.Filesystem) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithEntity registers a Go type with attribute drivers under className.
func WithEntity(className string, sample any) Option {
	return func(o *options) {
		o.entities[className] = sample
	}
}
