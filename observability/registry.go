package observability

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry = map[string]Observer{
		"noop": NoOpObserver{},
	}
	registryMu sync.RWMutex
)

// GetObserver returns the observer registered under name. "noop" is always
// registered. The "slog", "prometheus", and "influx" observers need runtime
// dependencies and are built by the service rather than looked up here.
func GetObserver(name string) (Observer, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	obs, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown observer: %s", name)
	}
	return obs, nil
}

// RegisterObserver adds or replaces a named observer.
func RegisterObserver(name string, observer Observer) {
	registryMu.Lock()
	defer registryMu.Unlock()

	registry[name] = observer
}

// Registered lists the registered observer names in sorted order.
func Registered() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
