package search

import (
	"sort"
	"sync"

	"github.com/texttechlab/enhanced-search/pkg/errors"
)

// EngineRegistry holds named semantic engines.  The registry decouples the
// processor from engine construction: deployments register the engines
// their configuration names and refer to them by name afterwards.
type EngineRegistry struct {
	mu      sync.RWMutex
	engines map[string]SemanticEngine
}

// NewEngineRegistry creates an empty registry.
func NewEngineRegistry() *EngineRegistry {
	return &EngineRegistry{engines: make(map[string]SemanticEngine)}
}

// Register adds an engine under the given name, replacing any previous
// registration.
func (r *EngineRegistry) Register(name string, engine SemanticEngine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engines[name] = engine
}

// Get returns the engine registered under the given name.
func (r *EngineRegistry) Get(name string) (SemanticEngine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	engine, ok := r.engines[name]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeEngineNotRegistered,
			"no semantic engine is registered under the name %q", name)
	}
	return engine, nil
}

// Names returns the sorted names of all registered engines.
func (r *EngineRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.engines))
	for name := range r.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
