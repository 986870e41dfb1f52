package config

import (
	"github.com/mitchellh/mapstructure"
)

// Recognized configuration entry keys.
const (
	KeyClass          = "class"
	KeyInstance       = "instance"
	KeyDirectory      = "directory"
	KeyNamespace      = "namespace"
	KeyProviders      = "providers"
	KeyDefaultDriver  = "default_driver"
	KeyExtension      = "extension"
	KeyGlobalBasename = "global_basename"
	KeyPaths          = "paths"
	KeyDrivers        = "drivers"
	KeyCache          = "cache"
)

// Entry is the set of construction parameters for one named cache or driver.
type Entry map[string]any

// AsEntry converts a decoded configuration value into an Entry.
func AsEntry(v any) (Entry, bool) {
	switch m := v.(type) {
	case Entry:
		return m, true
	case map[string]any:
		return Entry(m), true
	case map[any]any:
		out := make(Entry, len(m))
		for k, val := range m {
			key, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[key] = val
		}
		return out, true
	default:
		return nil, false
	}
}

// Has reports whether key is present, even with a nil value.
func (e Entry) Has(key string) bool {
	_, ok := e[key]
	return ok
}

// Lookup returns the raw value stored under key.
func (e Entry) Lookup(key string) (any, bool) {
	v, ok := e[key]
	return v, ok
}

// String returns the value under key when it is a string.
func (e Entry) String(key string) string {
	s, _ := e[key].(string)
	return s
}

// Class returns the declared implementation identifier.
func (e Entry) Class() (string, bool) {
	v, ok := e[KeyClass]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// List returns the value under key when it is sequence-shaped, nil otherwise.
func (e Entry) List(key string) []any {
	switch v := e[key].(type) {
	case []any:
		return v
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for i, m := range v {
			out[i] = m
		}
		return out
	case []Entry:
		out := make([]any, len(v))
		for i, m := range v {
			out[i] = m
		}
		return out
	default:
		return nil
	}
}

// Clone returns a shallow copy of the entry.
func (e Entry) Clone() Entry {
	if e == nil {
		return Entry{}
	}
	out := make(Entry, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Decode fills out using mapstructure tags. Scalars are lifted into
// single-element slices where the target expects one.
func (e Entry) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(map[string]any(e))
}

// Section descends through nested mappings following path. It returns nil
// when any step is missing or not a mapping.
func Section(root any, path ...string) Entry {
	current, ok := AsEntry(root)
	if !ok {
		return nil
	}
	for _, key := range path {
		next, ok := AsEntry(current[key])
		if !ok {
			return nil
		}
		current = next
	}
	return current
}
