package cache

import (
	"strings"
	"sync"
)

const namespaceSeparator = ":"

// Provider carries the namespace shared by all backends. Embed it to
// implement NamespaceSetter.
type Provider struct {
	mu        sync.RWMutex
	namespace string
}

// SetNamespace sets the key prefix.
func (p *Provider) SetNamespace(namespace string) {
	p.mu.Lock()
	p.namespace = namespace
	p.mu.Unlock()
}

// Namespace returns the key prefix.
func (p *Provider) Namespace() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.namespace
}

// Key returns key qualified by the namespace.
func (p *Provider) Key(key string) string {
	ns := p.Namespace()
	if ns == "" {
		return key
	}
	return ns + namespaceSeparator + key
}

// Owns reports whether a stored key belongs to the current namespace.
func (p *Provider) Owns(stored string) bool {
	ns := p.Namespace()
	if ns == "" {
		return true
	}
	return strings.HasPrefix(stored, ns+namespaceSeparator)
}
