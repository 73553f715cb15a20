package connector

import "sync"

var (
	registryMu sync.RWMutex
	registry   = map[string]ErasedConnector{}
)

// Register adds a connector to the global name-keyed registry, overwriting any existing entry
// under the same name.
func Register(name string, c ErasedConnector) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = c
}

// Lookup returns the registered connector for name.
func Lookup(name string) (ErasedConnector, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	c, ok := registry[name]
	return c, ok
}

// Names returns every registered connector name, for diagnostics.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	return names
}
