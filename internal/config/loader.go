package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/xraph/ormfactory/internal/errors"
)

const (
	// ContainerKey is the container service holding the application configuration.
	ContainerKey = "config"

	// RootKey is the top-level key under which factory sections live.
	RootKey = "orm"

	// SectionCache and SectionDriver name the per-factory sections.
	SectionCache  = "cache"
	SectionDriver = "driver"

	// EnvPrefix selects environment variables that override file values.
	EnvPrefix = "ORM_"
)

// keyDelim separates path segments inside koanf. Class prefixes such as
// "app.model" are used as keys, so it cannot be a dot.
const keyDelim = "/"

// Load reads a YAML or JSON file and applies ORM_ environment overrides.
// ORM_CACHE__ORM_DEFAULT__NAMESPACE overrides orm.cache.orm_default.namespace.
func Load(path string) (map[string]any, error) {
	k := koanf.New(keyDelim)

	var parser koanf.Parser
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, errors.ErrConfigError("unsupported config format: "+ext, nil)
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, errors.ErrConfigError(fmt.Sprintf("failed to load %s", path), err)
	}

	if err := k.Load(env.Provider(EnvPrefix, keyDelim, envKey), nil); err != nil {
		return nil, errors.ErrConfigError("failed to apply environment overrides", err)
	}

	return k.Raw(), nil
}

// envKey maps ORM_CACHE__ORM_DEFAULT__NAMESPACE to orm/cache/orm_default/namespace.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return RootKey + keyDelim + strings.ReplaceAll(s, "__", keyDelim)
}
