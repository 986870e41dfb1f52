package mapping

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/xraph/ormfactory/cache"
)

// TagName is the struct tag read by TagReader.
const TagName = "orm"

// Tabler is implemented by entity types that name their table.
type Tabler interface {
	TableName() string
}

// Reader produces metadata for a Go type registered under className.
type Reader interface {
	Read(className string, t reflect.Type) (*ClassMetadata, error)
}

// TagReader reads `orm` struct tags. The first tag element is the column
// name; the rest are options:
//
//	ID    int64  `orm:"id,id"`
//	Email string `orm:"email,type=string,length=255,unique"`
//	Bio   string `orm:",nullable"`
//
// Fields without the tag are not mapped.
type TagReader struct{}

func (TagReader) Read(className string, t reflect.Type) (*ClassMetadata, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is a %s, not a struct", ErrInvalidMapping, className, t.Kind())
	}

	md := NewClassMetadata(className)
	md.Table = snakeCase(t.Name())
	if tabler, ok := reflect.New(t).Interface().(Tabler); ok {
		md.Table = tabler.TableName()
	}

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag, ok := sf.Tag.Lookup(TagName)
		if !ok || tag == "-" || !sf.IsExported() {
			continue
		}

		f, err := parseTag(sf, tag)
		if err != nil {
			return nil, fmt.Errorf("%w: %s.%s: %v", ErrInvalidMapping, className, sf.Name, err)
		}
		md.MapField(f)
	}

	return md, nil
}

func parseTag(sf reflect.StructField, tag string) (FieldMapping, error) {
	parts := strings.Split(tag, ",")

	f := FieldMapping{
		Name:   sf.Name,
		Column: parts[0],
		Type:   columnType(sf.Type),
	}
	if f.Column == "" {
		f.Column = snakeCase(sf.Name)
	}

	for _, opt := range parts[1:] {
		key, value, _ := strings.Cut(strings.TrimSpace(opt), "=")
		switch key {
		case "id":
			f.ID = true
		case "unique":
			f.Unique = true
		case "nullable":
			f.Nullable = true
		case "type":
			f.Type = value
		case "length":
			n, err := strconv.Atoi(value)
			if err != nil {
				return f, fmt.Errorf("invalid length %q", value)
			}
			f.Length = n
		case "":
		default:
			return f, fmt.Errorf("unknown option %q", key)
		}
	}

	if sf.Type.Kind() == reflect.Pointer {
		f.Nullable = true
	}
	return f, nil
}

var timeType = reflect.TypeOf(time.Time{})

func columnType(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == timeType {
		return "datetime"
	}

	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "float"
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return "blob"
		}
		return "json"
	default:
		return "json"
	}
}

func snakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CachedReader memoizes another reader's results in a cache.
type CachedReader struct {
	delegate Reader
	cache    cache.Cache
}

// NewCachedReader wraps delegate, storing results in c.
func NewCachedReader(delegate Reader, c cache.Cache) *CachedReader {
	return &CachedReader{delegate: delegate, cache: c}
}

// Cache returns the cache holding read metadata.
func (r *CachedReader) Cache() cache.Cache {
	return r.cache
}

// Delegate returns the wrapped reader.
func (r *CachedReader) Delegate() Reader {
	return r.delegate
}

func (r *CachedReader) key(className string) string {
	return "mapping." + className
}

func (r *CachedReader) Read(className string, t reflect.Type) (*ClassMetadata, error) {
	ctx := context.Background()

	data, err := r.cache.Get(ctx, r.key(className))
	switch {
	case err == nil:
		var md ClassMetadata
		if err := json.Unmarshal(data, &md); err == nil {
			return &md, nil
		}
	case !errors.Is(err, cache.ErrNotFound):
		return nil, err
	}

	md, err := r.delegate.Read(className, t)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(md)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, r.key(className), encoded, 0); err != nil {
		return nil, err
	}
	return md, nil
}

// AttributeDriver maps registered Go types through a Reader.
type AttributeDriver struct {
	reader Reader
	mu     sync.RWMutex
	types  map[string]reflect.Type
}

// NewAttributeDriver creates a driver reading metadata through reader.
func NewAttributeDriver(reader Reader) *AttributeDriver {
	return &AttributeDriver{reader: reader, types: make(map[string]reflect.Type)}
}

// Reader returns the metadata reader.
func (d *AttributeDriver) Reader() Reader {
	return d.reader
}

// Register maps className to the type of sample.
func (d *AttributeDriver) Register(className string, sample any) {
	d.mu.Lock()
	d.types[className] = reflect.TypeOf(sample)
	d.mu.Unlock()
}

func (d *AttributeDriver) lookup(className string) (reflect.Type, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	t, ok := d.types[className]
	return t, ok
}

func (d *AttributeDriver) LoadMetadataForClass(className string, md *ClassMetadata) error {
	t, ok := d.lookup(className)
	if !ok {
		return fmt.Errorf("%w: %s is not registered", ErrClassNotFound, className)
	}

	read, err := d.reader.Read(className, t)
	if err != nil {
		return err
	}
	*md = *read
	return nil
}

func (d *AttributeDriver) AllClassNames() ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.types))
	for name := range d.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// IsTransient reports true for unregistered classes and for types with no
// tagged fields.
func (d *AttributeDriver) IsTransient(className string) bool {
	t, ok := d.lookup(className)
	if !ok {
		return true
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return true
	}
	for i := 0; i < t.NumField(); i++ {
		if tag, ok := t.Field(i).Tag.Lookup(TagName); ok && tag != "-" {
			return false
		}
	}
	return true
}
