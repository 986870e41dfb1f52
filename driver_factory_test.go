package ormfactory_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/ormfactory"
	"github.com/xraph/ormfactory/cache"
	"github.com/xraph/ormfactory/mapping"
)

const userMapping = `app.model.User:
  table: users
  id: [id]
  fields:
    id:
      type: integer
    email:
      type: string
`

// stubDriver maps nothing.
type stubDriver struct{}

func (stubDriver) LoadMetadataForClass(string, *mapping.ClassMetadata) error {
	return mapping.ErrClassNotFound
}

func (stubDriver) AllClassNames() ([]string, error) { return nil, nil }

func (stubDriver) IsTransient(string) bool { return true }

// stubFileDriver is a file driver type the factory does not know about.
type stubFileDriver struct{ *mapping.FileDriver }

func newStubFileDriver(fs billy.Filesystem, paths []string, ext string) (mapping.Driver, error) {
	loc := mapping.NewDefaultFileLocator(fs, paths, ext)
	return &stubFileDriver{mapping.NewFileDriver(loc, mapping.YAMLFormat{})}, nil
}

// fixedLocator hides the extension setter of the locator it wraps.
type fixedLocator struct{ mapping.FileLocator }

func newFixedLocatorDriver(fs billy.Filesystem, paths []string, ext string) (mapping.Driver, error) {
	loc := fixedLocator{mapping.NewDefaultFileLocator(fs, paths, ext)}
	return &stubFileDriver{mapping.NewFileDriver(loc, mapping.YAMLFormat{})}, nil
}

func newStubDriver() (mapping.Driver, error) {
	return stubDriver{}, nil
}

func TestDriverFactory_GlobalBasename(t *testing.T) {
	c := newContainer(t, nil, map[string]any{
		"orm_default": map[string]any{
			"class":           "FileDriverX",
			"global_basename": "foobar",
		},
	})

	f := ormfactory.NewDriverFactory("", ormfactory.WithFileDriverClass("FileDriverX", newStubFileDriver))
	got, err := f.Create(c)
	require.NoError(t, err)

	driver, ok := got.(*stubFileDriver)
	require.True(t, ok)
	assert.Equal(t, "foobar", driver.GlobalBasename())
}

func TestDriverFactory_Extension(t *testing.T) {
	for _, class := range []string{ormfactory.ClassSimplifiedXmlDriver, ormfactory.ClassSimplifiedYamlDriver} {
		t.Run(class, func(t *testing.T) {
			c := newContainer(t, nil, map[string]any{
				"orm_default": map[string]any{
					"class":     class,
					"extension": ".foo.bar",
				},
			})

			got, err := ormfactory.NewDriverFactory("").Create(c)
			require.NoError(t, err)

			aware, ok := got.(mapping.LocatorAware)
			require.True(t, ok)
			assert.Equal(t, ".foo.bar", aware.Locator().FileExtension())
		})
	}
}

func TestDriverFactory_ExtensionDefaults(t *testing.T) {
	c := newContainer(t, nil, map[string]any{
		"orm_default": map[string]any{"class": ormfactory.ClassXmlDriver},
	})

	got, err := ormfactory.NewDriverFactory("").Create(c)
	require.NoError(t, err)
	assert.Equal(t, mapping.XMLExtension, got.(mapping.LocatorAware).Locator().FileExtension())
}

func TestDriverFactory_ExtensionWithoutSetter(t *testing.T) {
	c := newContainer(t, nil, map[string]any{
		"orm_default": map[string]any{"class": "Fixed", "extension": ".foo.bar"},
	})

	f := ormfactory.NewDriverFactory("", ormfactory.WithFileDriverClass("Fixed", newFixedLocatorDriver))
	_, err := f.Create(c)
	require.Error(t, err)
	assert.True(t, ormfactory.IsInvalidLocator(err))
}

func TestDriverFactory_DefaultDriver(t *testing.T) {
	c := newContainer(t, nil, map[string]any{
		"orm_default": map[string]any{
			"class":          ormfactory.ClassDriverChain,
			"default_driver": "orm_stub",
		},
		"orm_stub": map[string]any{"class": "FileDriverX"},
	})

	f := ormfactory.NewDriverFactory("", ormfactory.WithFileDriverClass("FileDriverX", newStubFileDriver))
	got, err := f.Create(c)
	require.NoError(t, err)

	chain, ok := got.(*mapping.DriverChain)
	require.True(t, ok)
	assert.IsType(t, &stubFileDriver{}, chain.DefaultDriver())
	assert.Empty(t, chain.Drivers())
}

func TestDriverFactory_ChainWithoutDefault(t *testing.T) {
	tests := []struct {
		name  string
		entry map[string]any
	}{
		{"absent", map[string]any{"class": ormfactory.ClassDriverChain}},
		{"empty", map[string]any{"class": ormfactory.ClassDriverChain, "default_driver": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newContainer(t, nil, map[string]any{"orm_default": tt.entry})

			got, err := ormfactory.NewDriverFactory("").Create(c)
			require.NoError(t, err)
			assert.Nil(t, got.(*mapping.DriverChain).DefaultDriver())
		})
	}
}

func TestDriverFactory_NestedDrivers(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "mappings/app.model.User.orm.yml", []byte(userMapping), 0o644))

	c := newContainer(t, nil, map[string]any{
		"orm_default": map[string]any{
			"class": ormfactory.ClassDriverChain,
			"drivers": map[string]any{
				"app.model": "yaml",
				"app.other": "orm_stub",
				"app.none":  "",
			},
		},
		"yaml":     map[string]any{"class": ormfactory.ClassYamlDriver, "paths": "mappings"},
		"orm_stub": map[string]any{"class": "StubDriver"},
	})

	f := ormfactory.NewDriverFactory("",
		ormfactory.WithFilesystem(fs),
		ormfactory.WithDriverClass("StubDriver", newStubDriver),
	)
	got, err := f.Create(c)
	require.NoError(t, err)

	chain := got.(*mapping.DriverChain)
	drivers := chain.Drivers()
	require.Len(t, drivers, 2)
	assert.IsType(t, &mapping.YamlDriver{}, drivers["app.model"])
	assert.IsType(t, stubDriver{}, drivers["app.other"])

	md := mapping.NewClassMetadata("")
	require.NoError(t, chain.LoadMetadataForClass("app.model.User", md))
	assert.Equal(t, "users", md.Table)

	names, err := chain.AllClassNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"app.model.User"}, names)
}

func TestDriverFactory_LocalPaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.model.User.orm.yml"), []byte(userMapping), 0o644))

	c := newContainer(t, nil, map[string]any{
		"orm_default": map[string]any{"class": ormfactory.ClassYamlDriver, "paths": []any{dir}},
	})

	got, err := ormfactory.NewDriverFactory("").Create(c)
	require.NoError(t, err)

	md := mapping.NewClassMetadata("")
	require.NoError(t, got.LoadMetadataForClass("app.model.User", md))
	assert.Equal(t, []string{"id", "email"}, md.FieldNames())
}

func TestDriverFactory_Circular(t *testing.T) {
	t.Run("default driver", func(t *testing.T) {
		c := newContainer(t, nil, map[string]any{
			"a": map[string]any{"class": ormfactory.ClassDriverChain, "default_driver": "b"},
			"b": map[string]any{"class": ormfactory.ClassDriverChain, "default_driver": "a"},
		})

		_, err := ormfactory.NewDriverFactory("a").Create(c)
		require.Error(t, err)
		assert.True(t, ormfactory.IsCircularDependency(err))
		assert.Contains(t, err.Error(), "driver.a -> driver.b -> driver.a")
	})

	t.Run("nested driver", func(t *testing.T) {
		c := newContainer(t, nil, map[string]any{
			"a": map[string]any{"class": ormfactory.ClassDriverChain, "drivers": map[string]any{"x": "a"}},
		})

		_, err := ormfactory.NewDriverFactory("a").Create(c)
		assert.True(t, ormfactory.IsCircularDependency(err))
	})
}

func TestDriverFactory_SameKeyInSeparateBranches(t *testing.T) {
	c := newContainer(t, nil, map[string]any{
		"orm_default": map[string]any{
			"class":          ormfactory.ClassDriverChain,
			"default_driver": "orm_stub",
			"drivers":        map[string]any{"app": "orm_stub"},
		},
		"orm_stub": map[string]any{"class": "StubDriver"},
	})

	f := ormfactory.NewDriverFactory("", ormfactory.WithDriverClass("StubDriver", newStubDriver))
	_, err := f.Create(c)
	assert.NoError(t, err)
}

func TestDriverFactory_Errors(t *testing.T) {
	tests := []struct {
		name  string
		entry map[string]any
		check func(error) bool
	}{
		{"missing class", map[string]any{"paths": []any{"x"}}, ormfactory.IsMissingConfigKey},
		{"unknown class", map[string]any{"class": "NoSuchDriver"}, ormfactory.IsUnknownClass},
		{"missing default driver", map[string]any{"class": ormfactory.ClassDriverChain, "default_driver": "nope"}, ormfactory.IsMissingConfigKey},
		{"wrong service type", map[string]any{"class": ormfactory.ConfigService}, ormfactory.IsTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newContainer(t, nil, map[string]any{"orm_default": tt.entry})

			_, err := ormfactory.NewDriverFactory("").Create(c)
			require.Error(t, err)
			assert.True(t, tt.check(err), err.Error())
		})
	}
}

func TestDriverFactory_MissingClassMessage(t *testing.T) {
	_, err := ormfactory.NewDriverFactory("").Create(ormfactory.NewContainer())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"class"`)
}

func TestDriverFactory_ContainerClass(t *testing.T) {
	c := newContainer(t, nil, map[string]any{
		"orm_default": map[string]any{"class": "app.driver"},
	})
	shared := mapping.NewDriverChain()
	require.NoError(t, c.RegisterValue("app.driver", shared))

	got, err := ormfactory.NewDriverFactory("").Create(c)
	require.NoError(t, err)
	assert.Same(t, shared, got)
}

type user struct {
	ID    int64  `orm:"id,id"`
	Email string `orm:"email,unique"`
}

func TestDriverFactory_AttributeDriver(t *testing.T) {
	t.Run("reuses registered cache", func(t *testing.T) {
		c := newContainer(t, nil, map[string]any{
			"orm_default": map[string]any{"class": ormfactory.ClassAttributeDriver},
		})
		shared := cache.NewArrayCache()
		require.NoError(t, c.RegisterValue("orm.cache.array", shared))

		f := ormfactory.NewDriverFactory("", ormfactory.WithEntity("app.model.User", user{}))
		got, err := f.Create(c)
		require.NoError(t, err)

		driver, ok := got.(*mapping.AttributeDriver)
		require.True(t, ok)
		reader, ok := driver.Reader().(*mapping.CachedReader)
		require.True(t, ok)
		assert.Same(t, shared, reader.Cache())

		names, err := driver.AllClassNames()
		require.NoError(t, err)
		assert.Equal(t, []string{"app.model.User"}, names)

		md := mapping.NewClassMetadata("")
		require.NoError(t, driver.LoadMetadataForClass("app.model.User", md))
		assert.Equal(t, []string{"id"}, md.Identifier)
		assert.Equal(t, 1, shared.Len())
	})

	t.Run("builds configured cache", func(t *testing.T) {
		c := newContainer(t,
			map[string]any{"meta": map[string]any{"class": ormfactory.ClassLRUCache}},
			map[string]any{"orm_default": map[string]any{"class": ormfactory.ClassAttributeDriver, "cache": "meta"}},
		)

		got, err := ormfactory.NewDriverFactory("").Create(c)
		require.NoError(t, err)

		reader := got.(*mapping.AttributeDriver).Reader().(*mapping.CachedReader)
		assert.IsType(t, &cache.LRUCache{}, reader.Cache())
	})

	t.Run("default cache", func(t *testing.T) {
		c := newContainer(t, nil, map[string]any{
			"orm_default": map[string]any{"class": ormfactory.ClassAttributeDriver},
		})

		got, err := ormfactory.NewDriverFactory("").Create(c)
		require.NoError(t, err)

		reader := got.(*mapping.AttributeDriver).Reader().(*mapping.CachedReader)
		assert.IsType(t, &cache.ArrayCache{}, reader.Cache())
	})

	t.Run("registered cache has wrong type", func(t *testing.T) {
		c := newContainer(t, nil, map[string]any{
			"orm_default": map[string]any{"class": ormfactory.ClassAttributeDriver},
		})
		require.NoError(t, c.RegisterValue("orm.cache.array", "not a cache"))

		_, err := ormfactory.NewDriverFactory("").Create(c)
		assert.True(t, ormfactory.IsTypeMismatch(err))
	})
}

func TestRegisterDriver(t *testing.T) {
	c := newContainer(t, nil, map[string]any{
		"orm_default": map[string]any{"class": ormfactory.ClassDriverChain},
	})
	require.NoError(t, ormfactory.RegisterDriver(c, ""))

	got, err := c.Resolve("orm.driver.orm_default")
	require.NoError(t, err)
	assert.IsType(t, &mapping.DriverChain{}, got)
	assert.Equal(t, "driver", c.Inspect("orm.driver.orm_default").Metadata["section"])
}
