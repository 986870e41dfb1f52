package mapping

import (
	"fmt"
	"path"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// FileDriver reads mappings from files found by a FileLocator. When a global
// basename is set, a file with that basename in each locator path may hold
// mappings for many classes; those take precedence over per-class files.
type FileDriver struct {
	mu             sync.RWMutex
	locator        FileLocator
	format         Format
	globalBasename string
	classCache     map[string]classMapping
	cacheExt       string
}

// NewFileDriver creates a driver reading files through locator in format.
func NewFileDriver(locator FileLocator, format Format) *FileDriver {
	return &FileDriver{locator: locator, format: format}
}

func (d *FileDriver) Locator() FileLocator {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.locator
}

func (d *FileDriver) SetLocator(locator FileLocator) {
	d.mu.Lock()
	d.locator = locator
	d.classCache = nil
	d.mu.Unlock()
}

// Format returns the file format the driver parses.
func (d *FileDriver) Format() Format {
	return d.format
}

func (d *FileDriver) GlobalBasename() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.globalBasename
}

func (d *FileDriver) SetGlobalBasename(basename string) {
	d.mu.Lock()
	d.globalBasename = basename
	d.classCache = nil
	d.mu.Unlock()
}

func (d *FileDriver) LoadMetadataForClass(className string, md *ClassMetadata) error {
	element, err := d.element(className)
	if err != nil {
		return err
	}
	element.apply(className, md)
	return nil
}

func (d *FileDriver) AllClassNames() ([]string, error) {
	global, err := d.globalClasses()
	if err != nil {
		return nil, err
	}

	names, err := d.Locator().AllClassNames(d.GlobalBasename())
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(names)+len(global))
	for _, name := range names {
		seen[name] = true
	}
	for name := range global {
		seen[name] = true
	}
	return sortedKeys(seen), nil
}

func (d *FileDriver) IsTransient(className string) bool {
	global, err := d.globalClasses()
	if err == nil {
		if _, ok := global[className]; ok {
			return false
		}
	}
	return !d.Locator().FileExists(className)
}

func (d *FileDriver) element(className string) (classMapping, error) {
	global, err := d.globalClasses()
	if err != nil {
		return classMapping{}, err
	}
	if cm, ok := global[className]; ok {
		return cm, nil
	}

	file, err := d.Locator().FindMappingFile(className)
	if err != nil {
		return classMapping{}, err
	}

	elements, err := d.load(file)
	if err != nil {
		return classMapping{}, err
	}

	cm, ok := elements[className]
	if !ok {
		return classMapping{}, fmt.Errorf("%w: %s does not map %s", ErrInvalidMapping, file, className)
	}
	return cm, nil
}

// globalClasses loads and memoizes the global basename files. The memo is
// keyed by the locator's extension at load time.
func (d *FileDriver) globalClasses() (map[string]classMapping, error) {
	d.mu.RLock()
	cached, cacheExt, basename, locator := d.classCache, d.cacheExt, d.globalBasename, d.locator
	d.mu.RUnlock()

	if basename == "" {
		return nil, nil
	}
	ext := locator.FileExtension()
	if cached != nil && cacheExt == ext {
		return cached, nil
	}

	out := make(map[string]classMapping)
	for _, p := range locator.Paths() {
		file := path.Join(p, basename+ext)
		if !exists(locator.Filesystem(), file) {
			continue
		}
		elements, err := d.load(file)
		if err != nil {
			return nil, err
		}
		for name, cm := range elements {
			out[name] = cm
		}
	}

	d.mu.Lock()
	d.classCache, d.cacheExt = out, ext
	d.mu.Unlock()
	return out, nil
}

func (d *FileDriver) load(file string) (map[string]classMapping, error) {
	data, err := util.ReadFile(d.Locator().Filesystem(), file)
	if err != nil {
		return nil, err
	}
	return d.format.decode(data)
}

// Default file extensions per driver.
const (
	YAMLExtension = ".orm.yml"
	XMLExtension  = ".orm.xml"
	JSONExtension = ".orm.json"
	TOMLExtension = ".orm.toml"
)

// YamlDriver reads YAML mapping files named after each class.
type YamlDriver struct{ *FileDriver }

// XmlDriver reads XML mapping files named after each class.
type XmlDriver struct{ *FileDriver }

// JSONDriver reads JSON mapping files named after each class.
type JSONDriver struct{ *FileDriver }

// TomlDriver reads TOML mapping files named after each class.
type TomlDriver struct{ *FileDriver }

// SimplifiedYamlDriver reads YAML files from directories bound to class prefixes.
type SimplifiedYamlDriver struct{ *FileDriver }

// SimplifiedXmlDriver reads XML files from directories bound to class prefixes.
type SimplifiedXmlDriver struct{ *FileDriver }

func defaultExtension(extension, fallback string) string {
	if extension == "" {
		return fallback
	}
	return extension
}

func NewYamlDriver(fs billy.Filesystem, paths []string, extension string) *YamlDriver {
	loc := NewDefaultFileLocator(fs, paths, defaultExtension(extension, YAMLExtension))
	return &YamlDriver{NewFileDriver(loc, YAMLFormat{})}
}

func NewXmlDriver(fs billy.Filesystem, paths []string, extension string) *XmlDriver {
	loc := NewDefaultFileLocator(fs, paths, defaultExtension(extension, XMLExtension))
	return &XmlDriver{NewFileDriver(loc, XMLFormat{})}
}

func NewJSONDriver(fs billy.Filesystem, paths []string, extension string) *JSONDriver {
	loc := NewDefaultFileLocator(fs, paths, defaultExtension(extension, JSONExtension))
	return &JSONDriver{NewFileDriver(loc, JSONFormat{})}
}

func NewTomlDriver(fs billy.Filesystem, paths []string, extension string) *TomlDriver {
	loc := NewDefaultFileLocator(fs, paths, defaultExtension(extension, TOMLExtension))
	return &TomlDriver{NewFileDriver(loc, TOMLFormat{})}
}

// NewSimplifiedYamlDriver binds directories to prefixes from "dir=prefix" entries.
func NewSimplifiedYamlDriver(fs billy.Filesystem, paths []string, extension string) *SimplifiedYamlDriver {
	loc := NewPrefixFileLocator(fs, ParsePrefixes(paths), defaultExtension(extension, YAMLExtension))
	return &SimplifiedYamlDriver{NewFileDriver(loc, YAMLFormat{})}
}

// NewSimplifiedXmlDriver binds directories to prefixes from "dir=prefix" entries.
func NewSimplifiedXmlDriver(fs billy.Filesystem, paths []string, extension string) *SimplifiedXmlDriver {
	loc := NewPrefixFileLocator(fs, ParsePrefixes(paths), defaultExtension(extension, XMLExtension))
	return &SimplifiedXmlDriver{NewFileDriver(loc, XMLFormat{})}
}
