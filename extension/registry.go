package extension

import (
	"sort"
	"sync"

	"github.com/prospectio/leadflow/model/graph"
	"github.com/prospectio/leadflow/model/types"
	"github.com/viant/x"
)

// Factory constructs a capability instance for one step invocation from the
// step definition and its resolved tool configurations.
type Factory func(step *graph.Step, tools types.ToolConfigs) (types.Capability, error)

// Registry maps capability names to factories. It is populated once at
// startup, before any run begins, and is read-only during execution.
type Registry struct {
	types     *Types
	factories map[string]Factory
	mux       sync.RWMutex
}

// Types returns the capability I/O type registry.
func (r *Registry) Types() *Types {
	return r.types
}

// Register registers a capability factory under the given name.
func (r *Registry) Register(name string, factory Factory) {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.factories[name] = factory
}

// Lookup returns the factory registered under name, failing with
// UnknownCapabilityError when absent.
func (r *Registry) Lookup(name string) (Factory, error) {
	r.mux.RLock()
	defer r.mux.RUnlock()
	factory, ok := r.factories[name]
	if !ok {
		return nil, types.NewUnknownCapabilityError(name)
	}
	return factory, nil
}

// Names returns registered capability names in lexical order.
func (r *Registry) Names() []string {
	r.mux.RLock()
	defer r.mux.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewRegistry creates a capability registry
func NewRegistry(goTypes ...*x.Type) *Registry {
	ret := &Registry{
		types:     NewTypes(),
		factories: make(map[string]Factory),
	}
	for _, t := range goTypes {
		if t != nil {
			ret.types.Register(t)
		}
	}
	return ret
}
