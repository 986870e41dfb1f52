package ormfactory

import (
	"time"

	"github.com/google/uuid"

	"github.com/xraph/ormfactory/internal/config"
	"github.com/xraph/ormfactory/internal/errors"
	"github.com/xraph/ormfactory/internal/logger"
	"github.com/xraph/ormfactory/internal/metrics"
)

// DefaultConfigKey is the configuration key used when none is given.
const DefaultConfigKey = "orm_default"

// Configuration layout constants.
const (
	ConfigService = config.ContainerKey
	RootKey       = config.RootKey
	SectionCache  = config.SectionCache
	SectionDriver = config.SectionDriver
)

// ServiceName returns the container name under which a built object for
// section and configKey is registered, e.g. "orm.cache.orm_default".
func ServiceName(section, configKey string) string {
	return RootKey + "." + section + "." + configKey
}

// resolution tracks the configuration keys being built in one invocation.
type resolution struct {
	invocation string
	chain      []string
}

func newResolution() resolution {
	return resolution{invocation: uuid.NewString()}
}

// enter returns the resolution extended with section.key, or a circular
// dependency error if that key is already being built.
func (r resolution) enter(section, configKey string) (resolution, error) {
	id := section + "." + configKey

	next := make([]string, len(r.chain), len(r.chain)+1)
	copy(next, r.chain)
	next = append(next, id)

	for _, seen := range r.chain {
		if seen == id {
			return r, errors.ErrCircularDependency(next)
		}
	}
	return resolution{invocation: r.invocation, chain: next}, nil
}

// base holds what every factory shares.
type base struct {
	configKey string
	opts      *options
}

func newBase(configKey string, opts []Option) base {
	if configKey == "" {
		configKey = DefaultConfigKey
	}
	return base{configKey: configKey, opts: newOptions(opts)}
}

// ConfigKey returns the configuration key the factory builds by default.
func (b *base) ConfigKey() string {
	return b.configKey
}

// retrieveConfig returns the live entry for section.configKey, or
// defaults(configKey) when the live configuration has none. A live entry
// replaces the default entirely.
func (b *base) retrieveConfig(c Container, configKey, section string, defaults func(string) config.Entry) (config.Entry, error) {
	if c.Has(ConfigService) {
		raw, err := c.Resolve(ConfigService)
		if err != nil {
			return nil, err
		}
		root, ok := config.AsEntry(raw)
		if !ok {
			return nil, errors.ErrTypeMismatch("configuration mapping", raw)
		}
		if entry, ok := config.AsEntry(config.Section(root, RootKey, section)[configKey]); ok {
			return entry.Clone(), nil
		}
	}

	if defaults == nil {
		return config.Entry{}, nil
	}
	return defaults(configKey), nil
}

// retrieveDependency returns the service registered for registryKey.configKey
// when the container has one, and builds it otherwise.
func (b *base) retrieveDependency(c Container, configKey, registryKey string, build func() (any, error)) (any, error) {
	name := ServiceName(registryKey, configKey)
	if c.Has(name) {
		return c.Resolve(name)
	}
	return build()
}

// requireClass returns the class declared by entry.
func requireClass(entry config.Entry) (string, error) {
	raw, ok := entry.Lookup(config.KeyClass)
	if !ok {
		return "", errors.ErrMissingConfigKey(config.KeyClass)
	}
	class, ok := raw.(string)
	if !ok || class == "" {
		return "", errors.ErrTypeMismatch("class name string", raw)
	}
	return class, nil
}

// observe logs and records one build.
func (b *base) observe(section, configKey, class string, res resolution, start time.Time, err error) {
	elapsed := time.Since(start)
	fields := []logger.Field{
		logger.String("section", section),
		logger.String("config_key", configKey),
		logger.String("class", class),
		logger.String("invocation", res.invocation),
		logger.Duration("elapsed", elapsed),
	}

	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeFailure
		b.opts.logger.Warn("build failed", append(fields, logger.Error(err))...)
	} else {
		b.opts.logger.Debug("built", fields...)
	}

	b.opts.recorder.ObserveBuild(section, class, outcome, elapsed)
}
