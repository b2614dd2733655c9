package types

import "context"

// ToolConfigs holds resolved tool configurations keyed by tool name. Values
// are the tool's configuration map after environment placeholder and secret
// substitution.
type ToolConfigs map[string]map[string]interface{}

// Config returns the configuration for the named tool, or nil when the tool
// was not declared by the step.
func (t ToolConfigs) Config(name string) map[string]interface{} {
	if t == nil {
		return nil
	}
	return t[name]
}

// Has reports whether the named tool was configured for the step.
func (t ToolConfigs) Has(name string) bool {
	_, ok := t[name]
	return ok
}

// Capability is a pluggable unit of step-specific work invoked uniformly by
// the orchestrator. Implementations receive fully resolved inputs and return
// an output mapping; the orchestrator treats the call as opaque.
type Capability interface {
	// Name returns the capability name the instance was registered under.
	Name() string

	// Execute runs the capability against resolved inputs. The supplied
	// context carries the run deadline/cancellation; implementations
	// performing blocking I/O must honor it.
	Execute(ctx context.Context, inputs map[string]interface{}) (map[string]interface{}, error)

	// Reasoning returns the reasoning trace accumulated during Execute.
	Reasoning() *Reasoning
}
