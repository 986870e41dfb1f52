package mapping

import (
	"context"
	"reflect"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/ormfactory/cache"
)

const userYAML = `app.model.User:
  table: users
  id: [id]
  fields:
    id:
      type: integer
    email:
      type: string
      length: 255
      unique: true
`

const userJSON = `{"app.model.User": {"table": "users", "id": ["id"], "fields": {
  "id": {"type": "integer"},
  "email": {"type": "string", "length": 255, "unique": true}}}}`

const userTOML = `["app.model.User"]
table = "users"
id = ["id"]

["app.model.User".fields.id]
type = "integer"

["app.model.User".fields.email]
type = "string"
length = 255
unique = true
`

const userXML = `<?xml version="1.0"?>
<orm-mapping>
  <entity name="app.model.User" table="users">
    <id name="id" type="integer"/>
    <field name="email" type="string" length="255" unique="true"/>
  </entity>
</orm-mapping>
`

func writeFiles(t *testing.T, files map[string]string) billy.Filesystem {
	t.Helper()
	fs := memfs.New()
	for name, content := range files {
		require.NoError(t, util.WriteFile(fs, name, []byte(content), 0o644))
	}
	return fs
}

func assertUser(t *testing.T, md *ClassMetadata) {
	t.Helper()
	assert.Equal(t, "app.model.User", md.Name)
	assert.Equal(t, "users", md.Table)
	assert.Equal(t, []string{"id"}, md.Identifier)
	assert.Equal(t, []string{"id", "email"}, md.FieldNames())

	email, ok := md.Field("email")
	require.True(t, ok)
	assert.Equal(t, "email", email.Column)
	assert.Equal(t, "string", email.Type)
	assert.Equal(t, 255, email.Length)
	assert.True(t, email.Unique)
	assert.False(t, email.ID)
}

func TestFileDrivers_Formats(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		data   string
		driver func(fs billy.Filesystem) Driver
	}{
		{"yaml", "mappings/app.model.User.orm.yml", userYAML, func(fs billy.Filesystem) Driver {
			return NewYamlDriver(fs, []string{"mappings"}, "")
		}},
		{"json", "mappings/app.model.User.orm.json", userJSON, func(fs billy.Filesystem) Driver {
			return NewJSONDriver(fs, []string{"mappings"}, "")
		}},
		{"toml", "mappings/app.model.User.orm.toml", userTOML, func(fs billy.Filesystem) Driver {
			return NewTomlDriver(fs, []string{"mappings"}, "")
		}},
		{"xml", "mappings/app.model.User.orm.xml", userXML, func(fs billy.Filesystem) Driver {
			return NewXmlDriver(fs, []string{"mappings"}, "")
		}},
		{"simplified yaml", "mappings/User.orm.yml", userYAML, func(fs billy.Filesystem) Driver {
			return NewSimplifiedYamlDriver(fs, []string{"mappings=app.model"}, "")
		}},
		{"simplified xml", "mappings/User.orm.xml", userXML, func(fs billy.Filesystem) Driver {
			return NewSimplifiedXmlDriver(fs, []string{"mappings=app.model"}, "")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := writeFiles(t, map[string]string{tt.file: tt.data})
			d := tt.driver(fs)

			md := NewClassMetadata("")
			require.NoError(t, d.LoadMetadataForClass("app.model.User", md))
			assertUser(t, md)

			names, err := d.AllClassNames()
			require.NoError(t, err)
			assert.Equal(t, []string{"app.model.User"}, names)

			assert.False(t, d.IsTransient("app.model.User"))
			assert.True(t, d.IsTransient("app.model.Missing"))

			err = d.LoadMetadataForClass("app.model.Missing", NewClassMetadata(""))
			assert.ErrorIs(t, err, ErrClassNotFound)
		})
	}
}

func TestFileDriver_InvalidMapping(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"m/app.model.User.orm.yml":   "app.model.Other:\n  table: other\n",
		"m/app.model.Broken.orm.yml": "::: not yaml",
	})
	d := NewYamlDriver(fs, []string{"m"}, "")

	err := d.LoadMetadataForClass("app.model.User", NewClassMetadata(""))
	assert.ErrorIs(t, err, ErrInvalidMapping)

	err = d.LoadMetadataForClass("app.model.Broken", NewClassMetadata(""))
	assert.ErrorIs(t, err, ErrInvalidMapping)
}

func TestFileDriver_GlobalBasename(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"m/mapping.orm.yml": userYAML + `app.model.Post:
  table: posts
  id: [id]
  fields:
    id: {type: integer}
`,
		"m/app.model.Tag.orm.yml": "app.model.Tag:\n  table: tags\n",
	})

	d := NewYamlDriver(fs, []string{"m"}, "")
	assert.True(t, d.IsTransient("app.model.Post"))

	d.SetGlobalBasename("mapping")
	assert.Equal(t, "mapping", d.GlobalBasename())

	md := NewClassMetadata("")
	require.NoError(t, d.LoadMetadataForClass("app.model.User", md))
	assertUser(t, md)
	assert.False(t, d.IsTransient("app.model.Post"))

	names, err := d.AllClassNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"app.model.Post", "app.model.Tag", "app.model.User"}, names)
}

func TestFileDriver_GlobalBasenameFollowsExtension(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"m/mapping.orm.yml":    userYAML,
		"m/mapping.custom.yml": "app.model.Post:\n  table: posts\n",
	})

	d := NewYamlDriver(fs, []string{"m"}, "")
	d.SetGlobalBasename("mapping")
	assert.False(t, d.IsTransient("app.model.User"))

	d.Locator().(ExtensionSetter).SetFileExtension(".custom.yml")

	names, err := d.AllClassNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"app.model.Post"}, names)
	assert.True(t, d.IsTransient("app.model.User"))
}

func TestDefaultFileLocator(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"a/app.User.orm.yml":   userYAML,
		"b/app.Post.orm.yml":   userYAML,
		"b/nested/x.orm.yml":   userYAML,
		"b/app.Ignored.orm.js": "",
	})
	loc := NewDefaultFileLocator(fs, []string{"a", "b", "missing"}, ".orm.yml")

	file, err := loc.FindMappingFile("app.Post")
	require.NoError(t, err)
	assert.Equal(t, "b/app.Post.orm.yml", file)
	assert.True(t, loc.FileExists("app.User"))
	assert.False(t, loc.FileExists("app.Ignored"))

	names, err := loc.AllClassNames("")
	require.NoError(t, err)
	assert.Equal(t, []string{"app.Post", "app.User", "x"}, names)

	loc.SetFileExtension(".orm.js")
	assert.Equal(t, ".orm.js", loc.FileExtension())
	assert.True(t, loc.FileExists("app.Ignored"))
	assert.Equal(t, []string{"a", "b", "missing"}, loc.Paths())
}

func TestPrefixFileLocator(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"model/User.orm.xml":      userXML,
		"model/blog/Post.orm.xml": userXML,
		"other/Thing.orm.xml":     userXML,
	})
	loc := NewPrefixFileLocator(fs, ParsePrefixes([]string{"model=app.model", "other"}), ".orm.xml")

	file, err := loc.FindMappingFile("app.model.blog.Post")
	require.NoError(t, err)
	assert.Equal(t, "model/blog/Post.orm.xml", file)

	_, err = loc.FindMappingFile("app.model.Nope")
	assert.ErrorIs(t, err, ErrClassNotFound)

	names, err := loc.AllClassNames("")
	require.NoError(t, err)
	assert.Equal(t, []string{"Thing", "app.model.User", "app.model.blog.Post"}, names)

	assert.Equal(t, map[string]string{"model": "app.model", "other": ""}, loc.Prefixes())
}

func TestFileDriver_SetLocator(t *testing.T) {
	fs := writeFiles(t, map[string]string{"x/app.model.User.orm.yml": userYAML})
	d := NewYamlDriver(fs, []string{"missing"}, "")
	assert.True(t, d.IsTransient("app.model.User"))

	d.SetLocator(NewDefaultFileLocator(fs, []string{"x"}, YAMLExtension))
	assert.False(t, d.IsTransient("app.model.User"))
}

func TestDriverChain(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"app/app.model.User.orm.yml":     userYAML,
		"vendor/vendor.pkg.Item.orm.yml": "vendor.pkg.Item:\n  table: items\n",
		"fallback/other.Thing.orm.yml":   "other.Thing:\n  table: things\n",
	})

	appDriver := NewYamlDriver(fs, []string{"app"}, "")
	vendorDriver := NewYamlDriver(fs, []string{"vendor"}, "")
	fallback := NewYamlDriver(fs, []string{"fallback"}, "")

	chain := NewDriverChain()
	chain.AddDriver(appDriver, "app.")
	chain.AddDriver(vendorDriver, "vendor.")

	md := NewClassMetadata("")
	require.NoError(t, chain.LoadMetadataForClass("app.model.User", md))
	assertUser(t, md)

	err := chain.LoadMetadataForClass("other.Thing", NewClassMetadata(""))
	assert.ErrorIs(t, err, ErrClassNotFound)
	assert.True(t, chain.IsTransient("other.Thing"))

	chain.SetDefaultDriver(fallback)
	assert.Same(t, fallback, chain.DefaultDriver())

	md = NewClassMetadata("")
	require.NoError(t, chain.LoadMetadataForClass("other.Thing", md))
	assert.Equal(t, "things", md.Table)

	names, err := chain.AllClassNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"app.model.User", "other.Thing", "vendor.pkg.Item"}, names)

	drivers := chain.Drivers()
	assert.Len(t, drivers, 2)
	assert.Same(t, appDriver, drivers["app."])

	chain.AddDriver(fallback, "app.")
	assert.Same(t, fallback, chain.Drivers()["app."])
}

type account struct {
	ID        int64   `orm:"id,id"`
	Email     string  `orm:"email_address,length=255,unique"`
	Nickname  *string `orm:""`
	CreatedAt string  `orm:",type=datetime"`
	Ignored   string
	Skipped   string `orm:"-"`
}

func (account) TableName() string { return "accounts" }

type plain struct {
	Name string
}

type badTag struct {
	Name string `orm:"name,length=abc"`
}

func TestTagReader(t *testing.T) {
	md, err := TagReader{}.Read("app.Account", reflect.TypeOf(&account{}))
	require.NoError(t, err)

	assert.Equal(t, "app.Account", md.Name)
	assert.Equal(t, "accounts", md.Table)
	assert.Equal(t, []string{"ID"}, md.Identifier)
	assert.Equal(t, []string{"ID", "Email", "Nickname", "CreatedAt"}, md.FieldNames())

	email, _ := md.Field("Email")
	assert.Equal(t, "email_address", email.Column)
	assert.Equal(t, "string", email.Type)
	assert.Equal(t, 255, email.Length)
	assert.True(t, email.Unique)

	nick, _ := md.Field("Nickname")
	assert.Equal(t, "nickname", nick.Column)
	assert.True(t, nick.Nullable)

	created, _ := md.Field("CreatedAt")
	assert.Equal(t, "created_at", created.Column)
	assert.Equal(t, "datetime", created.Type)

	id, _ := md.Field("ID")
	assert.Equal(t, "integer", id.Type)

	_, err = TagReader{}.Read("bad", reflect.TypeOf(badTag{}))
	assert.ErrorIs(t, err, ErrInvalidMapping)

	_, err = TagReader{}.Read("int", reflect.TypeOf(1))
	assert.ErrorIs(t, err, ErrInvalidMapping)
}

func TestAttributeDriver_CachedReader(t *testing.T) {
	ctx := context.Background()
	store := cache.NewArrayCache()
	reader := NewCachedReader(TagReader{}, store)
	assert.Same(t, store, reader.Cache())

	d := NewAttributeDriver(reader)
	d.Register("app.Account", account{})
	d.Register("app.Plain", plain{})

	md := NewClassMetadata("")
	require.NoError(t, d.LoadMetadataForClass("app.Account", md))
	assert.Equal(t, "accounts", md.Table)

	ok, err := store.Exists(ctx, "mapping.app.Account")
	require.NoError(t, err)
	assert.True(t, ok)

	again := NewClassMetadata("")
	require.NoError(t, d.LoadMetadataForClass("app.Account", again))
	assert.Equal(t, md, again)

	names, err := d.AllClassNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"app.Account", "app.Plain"}, names)

	assert.False(t, d.IsTransient("app.Account"))
	assert.True(t, d.IsTransient("app.Plain"))
	assert.True(t, d.IsTransient("app.Unknown"))

	err = d.LoadMetadataForClass("app.Unknown", NewClassMetadata(""))
	assert.ErrorIs(t, err, ErrClassNotFound)
}

func TestSnakeCase(t *testing.T) {
	tests := map[string]string{
		"ID":          "id",
		"UserProfile": "user_profile",
		"HTTPServer":  "http_server",
		"name":        "name",
	}
	for in, want := range tests {
		assert.Equal(t, want, snakeCase(in), in)
	}
}
