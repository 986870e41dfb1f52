package ormfactory

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/xraph/ormfactory/cache"
	"github.com/xraph/ormfactory/internal/config"
	"github.com/xraph/ormfactory/internal/di"
	"github.com/xraph/ormfactory/internal/errors"
	"github.com/xraph/ormfactory/mapping"
	"github.com/xraph/ormfactory/registry"
)

// Driver class names.
const (
	ClassAttributeDriver      = "AttributeDriver"
	ClassYamlDriver           = "YamlDriver"
	ClassXmlDriver            = "XmlDriver"
	ClassJSONDriver           = "JSONDriver"
	ClassTomlDriver           = "TomlDriver"
	ClassSimplifiedYamlDriver = "SimplifiedYamlDriver"
	ClassSimplifiedXmlDriver  = "SimplifiedXmlDriver"
	ClassDriverChain          = "DriverChain"
)

// defaultAttributeCache is the cache key attribute drivers use when none is configured.
const defaultAttributeCache = "array"

func builtinFileDrivers() map[string]FileDriverConstructor {
	return map[string]FileDriverConstructor{
		ClassYamlDriver: func(fs billy.Filesystem, paths []string, ext string) (mapping.Driver, error) {
			return mapping.NewYamlDriver(fs, paths, ext), nil
		},
		ClassXmlDriver: func(fs billy.Filesystem, paths []string, ext string) (mapping.Driver, error) {
			return mapping.NewXmlDriver(fs, paths, ext), nil
		},
		ClassJSONDriver: func(fs billy.Filesystem, paths []string, ext string) (mapping.Driver, error) {
			return mapping.NewJSONDriver(fs, paths, ext), nil
		},
		ClassTomlDriver: func(fs billy.Filesystem, paths []string, ext string) (mapping.Driver, error) {
			return mapping.NewTomlDriver(fs, paths, ext), nil
		},
		ClassSimplifiedYamlDriver: func(fs billy.Filesystem, paths []string, ext string) (mapping.Driver, error) {
			return mapping.NewSimplifiedYamlDriver(fs, paths, ext), nil
		},
		ClassSimplifiedXmlDriver: func(fs billy.Filesystem, paths []string, ext string) (mapping.Driver, error) {
			return mapping.NewSimplifiedXmlDriver(fs, paths, ext), nil
		},
	}
}

// driverEntry is the typed form of a driver configuration entry.
type driverEntry struct {
	Class          string            `mapstructure:"class"`
	Paths          []string          `mapstructure:"paths"`
	Extension      *string           `mapstructure:"extension"`
	GlobalBasename *string           `mapstructure:"global_basename"`
	DefaultDriver  *string           `mapstructure:"default_driver"`
	Drivers        map[string]string `mapstructure:"drivers"`
	Cache          string            `mapstructure:"cache"`
}

// DriverFactory builds mapping drivers from the "driver" configuration section.
type DriverFactory struct {
	base
	fileDrivers map[string]FileDriverConstructor
	classes     *registry.Registry[mapping.Driver]
	caches      *CacheFactory
}

// NewDriverFactory creates a factory building the entry under configKey.
func NewDriverFactory(configKey string, opts ...Option) *DriverFactory {
	b := newBase(configKey, opts)

	fileDrivers := builtinFileDrivers()
	for class, ctor := range b.opts.fileDriverClasses {
		fileDrivers[class] = ctor
	}

	classes := registry.New[mapping.Driver]()
	for class, ctor := range b.opts.driverClasses {
		classes.Set(class, ctor)
	}

	return &DriverFactory{
		base:        b,
		fileDrivers: fileDrivers,
		classes:     classes,
		caches:      newCacheFactory(base{configKey: defaultAttributeCache, opts: b.opts}),
	}
}

// Create builds the driver for the factory's configuration key.
func (f *DriverFactory) Create(c Container) (mapping.Driver, error) {
	return f.CreateWithConfig(c, f.configKey)
}

// Factory returns the factory as a container service constructor.
func (f *DriverFactory) Factory() di.Factory {
	return func(c di.Container) (any, error) {
		return f.Create(c)
	}
}

// CreateWithConfig builds the driver configured under configKey.
func (f *DriverFactory) CreateWithConfig(c Container, configKey string) (mapping.Driver, error) {
	return f.create(c, configKey, newResolution())
}

// DefaultConfig returns an empty entry; drivers must be configured.
func (f *DriverFactory) DefaultConfig(configKey string) config.Entry {
	return DefaultDriverConfig(configKey)
}

func (f *DriverFactory) create(c Container, configKey string, res resolution) (driver mapping.Driver, err error) {
	res, err = res.enter(SectionDriver, configKey)
	if err != nil {
		return nil, err
	}

	entry, err := f.retrieveConfig(c, configKey, SectionDriver, DefaultDriverConfig)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	class, err := requireClass(entry)
	defer func() {
		f.observe(SectionDriver, configKey, class, res, start, err)
	}()
	if err != nil {
		return nil, err
	}

	var cfg driverEntry
	if err := entry.Decode(&cfg); err != nil {
		return nil, errors.ErrConfigError("invalid driver entry "+configKey, err)
	}

	driver, err = f.construct(c, class, cfg, res)
	if err != nil {
		return nil, err
	}

	if err := f.configure(c, driver, cfg, res); err != nil {
		return nil, err
	}
	return driver, nil
}

func (f *DriverFactory) construct(c Container, class string, cfg driverEntry, res resolution) (mapping.Driver, error) {
	if class == ClassAttributeDriver {
		return f.attributeDriver(c, cfg, res)
	}

	if ctor, ok := f.fileDrivers[class]; ok {
		fs, paths := f.filesystem(cfg.Paths)
		ext := ""
		if cfg.Extension != nil {
			ext = *cfg.Extension
		}
		return ctor(fs, paths, ext)
	}

	if class == ClassDriverChain {
		return mapping.NewDriverChain(), nil
	}

	if c.Has(class) {
		svc, err := c.Resolve(class)
		if err != nil {
			return nil, err
		}
		driver, ok := svc.(mapping.Driver)
		if !ok {
			return nil, errors.ErrTypeMismatch("mapping.Driver", svc)
		}
		return driver, nil
	}

	return f.classes.New(class)
}

// configure applies the capability setters in a fixed order.
func (f *DriverFactory) configure(c Container, driver mapping.Driver, cfg driverEntry, res resolution) error {
	if cfg.Extension != nil {
		if aware, ok := driver.(mapping.LocatorAware); ok {
			locator := aware.Locator()
			setter, ok := locator.(mapping.ExtensionSetter)
			if !ok {
				return errors.ErrInvalidLocator(locator)
			}
			setter.SetFileExtension(*cfg.Extension)
		}
	}

	if setter, ok := driver.(mapping.DefaultDriverSetter); ok && cfg.DefaultDriver != nil && *cfg.DefaultDriver != "" {
		def, err := f.create(c, *cfg.DefaultDriver, res)
		if err != nil {
			return err
		}
		setter.SetDefaultDriver(def)
	}

	if adder, ok := driver.(mapping.DriverAdder); ok && len(cfg.Drivers) > 0 {
		prefixes := make([]string, 0, len(cfg.Drivers))
		for prefix := range cfg.Drivers {
			prefixes = append(prefixes, prefix)
		}
		sort.Strings(prefixes)

		for _, prefix := range prefixes {
			key := cfg.Drivers[prefix]
			if key == "" {
				continue
			}
			nested, err := f.create(c, key, res)
			if err != nil {
				return err
			}
			adder.AddDriver(nested, prefix)
		}
	}

	if cfg.GlobalBasename != nil {
		if setter, ok := driver.(mapping.GlobalBasenameSetter); ok {
			setter.SetGlobalBasename(*cfg.GlobalBasename)
		}
	}

	return nil
}

func (f *DriverFactory) attributeDriver(c Container, cfg driverEntry, res resolution) (mapping.Driver, error) {
	cacheKey := cfg.Cache
	if cacheKey == "" {
		cacheKey = defaultAttributeCache
	}

	dep, err := f.retrieveDependency(c, cacheKey, SectionCache, func() (any, error) {
		return f.caches.create(c, cacheKey, res)
	})
	if err != nil {
		return nil, err
	}

	store, ok := dep.(cache.Cache)
	if !ok {
		return nil, errors.ErrTypeMismatch("cache.Cache", dep)
	}

	driver := mapping.NewAttributeDriver(mapping.NewCachedReader(mapping.TagReader{}, store))
	for className, sample := range f.opts.entities {
		driver.Register(className, sample)
	}
	return driver, nil
}

// filesystem returns the filesystem drivers read from, with paths adjusted
// for it. On the local disk, relative paths resolve against the working
// directory.
func (f *DriverFactory) filesystem(paths []string) (billy.Filesystem, []string) {
	if f.opts.fs != nil {
		return f.opts.fs, paths
	}

	out := make([]string, len(paths))
	for i, p := range paths {
		dir, prefix, hasPrefix := strings.Cut(p, "=")
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
		if hasPrefix {
			dir += "=" + prefix
		}
		out[i] = dir
	}
	return osfs.New("/"), out
}
