package variation

import (
	"slices"
	"sync"
)

// Factory builds a variation with default parameters.
type Factory func() Func

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register adds a factory under name, replacing any previous entry.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// New builds the variation registered under name.
func New(name string) (Func, bool) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, false
	}
	return f(), true
}

// Names returns all registered names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Registered reports whether name has a factory.
func Registered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}
