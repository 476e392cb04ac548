package ggchart

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Common engine errors.
var (
	// ErrEngineNotRegistered is returned when no engine is registered under
	// the requested name.
	ErrEngineNotRegistered = errors.New("ggchart: engine not registered")

	// ErrNoEngine is returned when a Composer renders before Create or
	// WithEngine supplied an engine.
	ErrNoEngine = errors.New("ggchart: no engine")
)

// EngineFactory creates an engine with the given canvas size.
type EngineFactory func(width, height int) (Engine, error)

var (
	registryMu sync.RWMutex
	engines    = make(map[string]EngineFactory)
)

// Register registers an engine factory under name. It is typically called
// from init() in a backend package:
//
//	import _ "github.com/gogpu/ggchart/backend/raster"
//
// Registering a name twice replaces the previous factory.
func Register(name string, factory EngineFactory) {
	if factory == nil {
		panic("ggchart: Register factory is nil")
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	engines[name] = factory
}

// Unregister removes an engine from the registry. This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(engines, name)
}

// Available returns the sorted names of the registered engines.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(engines))
	for name := range engines {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered checks if an engine with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := engines[name]
	return ok
}

// NewEngine creates a registered engine by name.
func NewEngine(name string, width, height int) (Engine, error) {
	registryMu.RLock()
	factory, ok := engines[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrEngineNotRegistered, name)
	}
	e, err := factory(width, height)
	if err != nil {
		return nil, fmt.Errorf("ggchart: create %s engine: %w", name, err)
	}
	return e, nil
}
