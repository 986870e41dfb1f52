package mapping

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5"
)

// DefaultFileLocator maps class a.b.C to the file a.b.C<ext> in one of its paths.
type DefaultFileLocator struct {
	fs        billy.Filesystem
	paths     []string
	mu        sync.RWMutex
	extension string
}

// NewDefaultFileLocator creates a locator searching paths in order.
func NewDefaultFileLocator(fs billy.Filesystem, paths []string, extension string) *DefaultFileLocator {
	return &DefaultFileLocator{
		fs:        fs,
		paths:     append([]string(nil), paths...),
		extension: extension,
	}
}

func (l *DefaultFileLocator) Paths() []string {
	return append([]string(nil), l.paths...)
}

func (l *DefaultFileLocator) Filesystem() billy.Filesystem {
	return l.fs
}

func (l *DefaultFileLocator) FileExtension() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.extension
}

func (l *DefaultFileLocator) SetFileExtension(extension string) {
	l.mu.Lock()
	l.extension = extension
	l.mu.Unlock()
}

func (l *DefaultFileLocator) FindMappingFile(className string) (string, error) {
	name := className + l.FileExtension()
	for _, p := range l.paths {
		candidate := path.Join(p, name)
		if exists(l.fs, candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: no mapping file %q in %v", ErrClassNotFound, name, l.paths)
}

func (l *DefaultFileLocator) FileExists(className string) bool {
	_, err := l.FindMappingFile(className)
	return err == nil
}

func (l *DefaultFileLocator) AllClassNames(globalBasename string) ([]string, error) {
	ext := l.FileExtension()
	seen := make(map[string]bool)

	for _, p := range l.paths {
		files, err := walkFiles(l.fs, p, ext)
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			base := strings.TrimSuffix(path.Base(file), ext)
			if base == globalBasename {
				continue
			}
			seen[base] = true
		}
	}

	return sortedKeys(seen), nil
}

// PrefixFileLocator maps directories to class name prefixes. With the
// directory "mappings" bound to prefix "app.model", class app.model.blog.Post
// resolves to mappings/blog.Post<ext>.
type PrefixFileLocator struct {
	fs        billy.Filesystem
	prefixes  map[string]string
	mu        sync.RWMutex
	extension string
}

// NewPrefixFileLocator creates a locator from directory to prefix bindings.
func NewPrefixFileLocator(fs billy.Filesystem, prefixes map[string]string, extension string) *PrefixFileLocator {
	out := make(map[string]string, len(prefixes))
	for dir, prefix := range prefixes {
		out[dir] = prefix
	}
	return &PrefixFileLocator{fs: fs, prefixes: out, extension: extension}
}

// ParsePrefixes turns "dir" and "dir=prefix" entries into prefix bindings.
func ParsePrefixes(paths []string) map[string]string {
	out := make(map[string]string, len(paths))
	for _, entry := range paths {
		dir, prefix, _ := strings.Cut(entry, "=")
		out[dir] = prefix
	}
	return out
}

// Prefixes returns a copy of the directory to prefix bindings.
func (l *PrefixFileLocator) Prefixes() map[string]string {
	out := make(map[string]string, len(l.prefixes))
	for dir, prefix := range l.prefixes {
		out[dir] = prefix
	}
	return out
}

func (l *PrefixFileLocator) Paths() []string {
	paths := make([]string, 0, len(l.prefixes))
	for dir := range l.prefixes {
		paths = append(paths, dir)
	}
	sort.Strings(paths)
	return paths
}

func (l *PrefixFileLocator) Filesystem() billy.Filesystem {
	return l.fs
}

func (l *PrefixFileLocator) FileExtension() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.extension
}

func (l *PrefixFileLocator) SetFileExtension(extension string) {
	l.mu.Lock()
	l.extension = extension
	l.mu.Unlock()
}

func (l *PrefixFileLocator) FindMappingFile(className string) (string, error) {
	ext := l.FileExtension()

	for _, dir := range l.Paths() {
		prefix := l.prefixes[dir]

		var rest string
		switch {
		case prefix == "":
			rest = className
		case strings.HasPrefix(className, prefix+"."):
			rest = strings.TrimPrefix(className, prefix+".")
		default:
			continue
		}

		candidate := path.Join(dir, rest+ext)
		if exists(l.fs, candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: no mapping file for %q", ErrClassNotFound, className)
}

func (l *PrefixFileLocator) FileExists(className string) bool {
	_, err := l.FindMappingFile(className)
	return err == nil
}

func (l *PrefixFileLocator) AllClassNames(globalBasename string) ([]string, error) {
	ext := l.FileExtension()
	seen := make(map[string]bool)

	for _, dir := range l.Paths() {
		prefix := l.prefixes[dir]
		files, err := walkFiles(l.fs, dir, ext)
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			rel := strings.TrimPrefix(strings.TrimPrefix(file, path.Clean(dir)), "/")
			rel = strings.TrimSuffix(rel, ext)
			if rel == globalBasename {
				continue
			}
			name := strings.ReplaceAll(rel, "/", ".")
			if prefix != "" {
				name = prefix + "." + name
			}
			seen[name] = true
		}
	}

	return sortedKeys(seen), nil
}

func exists(fs billy.Filesystem, name string) bool {
	info, err := fs.Stat(name)
	return err == nil && !info.IsDir()
}

// walkFiles lists files under root whose name ends with ext.
func walkFiles(fs billy.Filesystem, root, ext string) ([]string, error) {
	infos, err := fs.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []string
	for _, info := range infos {
		full := path.Join(root, info.Name())
		if info.IsDir() {
			nested, err := walkFiles(fs, full, ext)
			if err != nil {
				return nil, err
			}
			files = append(files, nested...)
			continue
		}
		if ext == "" || strings.HasSuffix(info.Name(), ext) {
			files = append(files, full)
		}
	}
	return files, nil
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
