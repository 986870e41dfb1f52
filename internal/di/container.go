package di

import (
	"fmt"
	"sort"
	"sync"

	"github.com/xraph/ormfactory/internal/errors"
)

// Factory creates a service instance. It receives the container so it can
// resolve its own dependencies.
type Factory func(c Container) (any, error)

// Container is a name-keyed service container.
type Container interface {
	// Register adds a service factory under name.
	Register(name string, factory Factory, opts ...RegisterOption) error

	// RegisterValue adds an already-built service under name.
	RegisterValue(name string, value any) error

	// Resolve returns the service registered under name.
	Resolve(name string) (any, error)

	// Has reports whether a service is registered under name.
	Has(name string) bool

	// Services returns all registered service names, sorted.
	Services() []string

	// Inspect returns diagnostic information about a service.
	Inspect(name string) ServiceInfo
}

// ServiceInfo contains diagnostic information about a registration.
type ServiceInfo struct {
	Name      string
	Type      string
	Lifecycle string
	Metadata  map[string]string
}

// containerImpl implements Container
type containerImpl struct {
	services map[string]*serviceRegistration
	mu       sync.RWMutex
}

// serviceRegistration holds service registration details
type serviceRegistration struct {
	name      string
	factory   Factory
	singleton bool
	metadata  map[string]string
	instance  any
	built     bool
	mu        sync.Mutex
}

// New creates an empty container.
func New() Container {
	return &containerImpl{
		services: make(map[string]*serviceRegistration),
	}
}

// Register adds a service factory to the container
func (c *containerImpl) Register(name string, factory Factory, opts ...RegisterOption) error {
	if name == "" {
		return errors.ErrEmptyName
	}
	if factory == nil {
		return errors.ErrInvalidFactory
	}

	merged := mergeOptions(opts)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.services[name]; exists {
		return errors.ErrServiceAlreadyExists(name)
	}

	c.services[name] = &serviceRegistration{
		name:      name,
		factory:   factory,
		singleton: merged.lifecycle != lifecycleTransient,
		metadata:  merged.metadata,
	}

	return nil
}

// RegisterValue adds a pre-built singleton to the container
func (c *containerImpl) RegisterValue(name string, value any) error {
	if name == "" {
		return errors.ErrEmptyName
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.services[name]; exists {
		return errors.ErrServiceAlreadyExists(name)
	}

	c.services[name] = &serviceRegistration{
		name:      name,
		factory:   func(Container) (any, error) { return value, nil },
		singleton: true,
		instance:  value,
		built:     true,
	}

	return nil
}

// Resolve returns a service by name
func (c *containerImpl) Resolve(name string) (any, error) {
	c.mu.RLock()
	reg, exists := c.services[name]
	c.mu.RUnlock()

	if !exists {
		return nil, errors.ErrServiceNotFound(name)
	}

	if !reg.singleton {
		instance, err := reg.factory(c)
		if err != nil {
			return nil, errors.NewServiceError(name, "resolve", err)
		}
		return instance, nil
	}

	// Factories may resolve other services; the per-registration lock is
	// separate from the container lock so that does not deadlock.
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if reg.built {
		return reg.instance, nil
	}

	instance, err := reg.factory(c)
	if err != nil {
		return nil, errors.NewServiceError(name, "resolve", err)
	}

	reg.instance = instance
	reg.built = true
	return instance, nil
}

// Has checks if a service is registered
func (c *containerImpl) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, exists := c.services[name]
	return exists
}

// Services returns all registered service names
func (c *containerImpl) Services() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.services))
	for name := range c.services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Inspect returns diagnostic information about a service
func (c *containerImpl) Inspect(name string) ServiceInfo {
	c.mu.RLock()
	reg, exists := c.services[name]
	c.mu.RUnlock()

	if !exists {
		return ServiceInfo{Name: name}
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	lifecycle := lifecycleTransient
	if reg.singleton {
		lifecycle = lifecycleSingleton
	}

	typeName := "unknown"
	if reg.built {
		typeName = fmt.Sprintf("%T", reg.instance)
	}

	return ServiceInfo{
		Name:      name,
		Type:      typeName,
		Lifecycle: lifecycle,
		Metadata:  reg.metadata,
	}
}
