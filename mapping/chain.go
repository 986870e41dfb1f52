package mapping

import (
	"fmt"
	"strings"
	"sync"
)

type chainLink struct {
	namespace string
	driver    Driver
}

// DriverChain routes classes to nested drivers by class name prefix, in the
// order the drivers were added. Classes no prefix matches go to the default
// driver when one is set.
type DriverChain struct {
	mu            sync.RWMutex
	links         []chainLink
	defaultDriver Driver
}

// NewDriverChain creates an empty chain.
func NewDriverChain() *DriverChain {
	return &DriverChain{}
}

// AddDriver routes classes starting with namespace to driver. Adding the same
// namespace again replaces its driver.
func (c *DriverChain) AddDriver(driver Driver, namespace string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.links {
		if c.links[i].namespace == namespace {
			c.links[i].driver = driver
			return
		}
	}
	c.links = append(c.links, chainLink{namespace: namespace, driver: driver})
}

// Drivers returns the nested drivers keyed by namespace.
func (c *DriverChain) Drivers() map[string]Driver {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]Driver, len(c.links))
	for _, l := range c.links {
		out[l.namespace] = l.driver
	}
	return out
}

func (c *DriverChain) SetDefaultDriver(driver Driver) {
	c.mu.Lock()
	c.defaultDriver = driver
	c.mu.Unlock()
}

func (c *DriverChain) DefaultDriver() Driver {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defaultDriver
}

func (c *DriverChain) route(className string) Driver {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, l := range c.links {
		if strings.HasPrefix(className, l.namespace) {
			return l.driver
		}
	}
	return c.defaultDriver
}

func (c *DriverChain) LoadMetadataForClass(className string, md *ClassMetadata) error {
	driver := c.route(className)
	if driver == nil {
		return fmt.Errorf("%w: %s is not part of any chained namespace", ErrClassNotFound, className)
	}
	return driver.LoadMetadataForClass(className, md)
}

func (c *DriverChain) AllClassNames() ([]string, error) {
	c.mu.RLock()
	links := append([]chainLink(nil), c.links...)
	def := c.defaultDriver
	c.mu.RUnlock()

	seen := make(map[string]bool)
	for _, l := range links {
		names, err := l.driver.AllClassNames()
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			if strings.HasPrefix(name, l.namespace) {
				seen[name] = true
			}
		}
	}

	if def != nil {
		names, err := def.AllClassNames()
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			seen[name] = true
		}
	}

	return sortedKeys(seen), nil
}

func (c *DriverChain) IsTransient(className string) bool {
	driver := c.route(className)
	if driver == nil {
		return true
	}
	return driver.IsTransient(className)
}
