package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orm.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultsCommand(t *testing.T) {
	out, err := run(t, "defaults")
	require.NoError(t, err)

	assert.Contains(t, out, "array ArrayCache")
	assert.Contains(t, out, "namespace: ormfactory")
	assert.Contains(t, out, "instance: my_redis_alias")
}

func TestResolveCommand_Cache(t *testing.T) {
	path := writeConfig(t, `
orm:
  cache:
    orm_default:
      class: ChainCache
      namespace: app
      providers:
        - array
        - class: LRUCache
`)

	out, err := run(t, "resolve", "--config", path, "--section", "cache", "--key", "orm_default")
	require.NoError(t, err)

	assert.Contains(t, out, "orm.cache.orm_default *cache.ChainCache")
	assert.Contains(t, out, `namespace: "app"`)
	assert.Contains(t, out, "provider[0]: *cache.ArrayCache")
	assert.Contains(t, out, "provider[1]: *cache.LRUCache")
}

func TestResolveCommand_Driver(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.model.User.orm.yml"),
		[]byte("app.model.User:\n  table: users\n"), 0o644))

	path := writeConfig(t, `
orm:
  driver:
    orm_default:
      class: YamlDriver
      paths: ["`+dir+`"]
`)

	out, err := run(t, "resolve", "-c", path, "-s", "driver", "-k", "orm_default")
	require.NoError(t, err)

	assert.Contains(t, out, "*mapping.YamlDriver")
	assert.Contains(t, out, "extension: .orm.yml")
	assert.Contains(t, out, "class: app.model.User")
}

func TestResolveCommand_Errors(t *testing.T) {
	path := writeConfig(t, "orm:\n  cache:\n    orm_default:\n      namespace: app\n")

	_, err := run(t, "resolve", "-c", path, "-s", "cache", "-k", "orm_default")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"class"`)

	_, err = run(t, "resolve", "-c", path, "-s", "queue", "-k", "orm_default")
	assert.Error(t, err)

	_, err = run(t, "resolve", "-c", filepath.Join(t.TempDir(), "missing.yaml"), "-s", "cache")
	assert.Error(t, err)
}
