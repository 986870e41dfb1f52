// Package registry maps class names to no-argument constructors. The factories
// consult it when a configured class is neither a built-in strategy nor a
// service known to the container.
//
//	reg := registry.New[cache.Cache]()
//	reg.MustRegister("ArrayCache", func() (cache.Cache, error) { return cache.NewArrayCache(), nil })
//	c, err := reg.New("ArrayCache")
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/xraph/ormfactory/internal/errors"
)

// Constructor builds a fresh T without arguments.
type Constructor[T any] func() (T, error)

// Registry stores constructors keyed by class name.
type Registry[T any] struct {
	mu    sync.RWMutex
	ctors map[string]Constructor[T]
}

// New returns an empty registry.
func New[T any]() *Registry[T] {
	return &Registry[T]{ctors: make(map[string]Constructor[T])}
}

// Register adds a constructor for class.
func (r *Registry[T]) Register(class string, ctor Constructor[T]) error {
	if class == "" {
		return errors.ErrEmptyName
	}
	if ctor == nil {
		return fmt.Errorf("constructor nil for %s", class)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.ctors[class]; ok {
		return fmt.Errorf("constructor already registered for %s", class)
	}
	r.ctors[class] = ctor
	return nil
}

// MustRegister is Register that panics on error.
func (r *Registry[T]) MustRegister(class string, ctor Constructor[T]) {
	if err := r.Register(class, ctor); err != nil {
		panic(err)
	}
}

// Set adds or replaces the constructor for class.
func (r *Registry[T]) Set(class string, ctor Constructor[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctors[class] = ctor
}

// New instantiates class. Unknown classes fail with an UNKNOWN_CLASS error.
func (r *Registry[T]) New(class string) (T, error) {
	r.mu.RLock()
	ctor, ok := r.ctors[class]
	r.mu.RUnlock()

	if !ok {
		var zero T
		return zero, errors.ErrUnknownClass(class)
	}
	return ctor()
}

// Has reports whether class is registered.
func (r *Registry[T]) Has(class string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.ctors[class]
	return ok
}

// Names returns the registered class names, sorted.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy of the registry.
func (r *Registry[T]) Clone() *Registry[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := New[T]()
	for name, ctor := range r.ctors {
		out.ctors[name] = ctor
	}
	return out
}
