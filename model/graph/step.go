package graph

type (
	// Tool declares an external integration available to a step. Config
	// string leaves may carry {{ENV_VAR}} placeholders that are substituted
	// once per step invocation, before the capability is constructed.
	Tool struct {
		Name   string                 `json:"name" yaml:"name"`
		Config map[string]interface{} `json:"config,omitempty" yaml:"config,omitempty"`
	}

	// Step represents a single unit of a workflow. Inputs may contain
	// reference expressions ({{step.output.field}} or {{config.key}})
	// resolved against the run state just before execution. Instructions
	// are passed through to the capability verbatim.
	Step struct {
		ID           string                 `json:"id" yaml:"id"`
		Agent        string                 `json:"agent" yaml:"agent"`
		Inputs       map[string]interface{} `json:"inputs,omitempty" yaml:"inputs,omitempty"`
		Instructions string                 `json:"instructions,omitempty" yaml:"instructions,omitempty"`
		Tools        []*Tool                `json:"tools,omitempty" yaml:"tools,omitempty"`
		OutputSchema map[string]interface{} `json:"output_schema,omitempty" yaml:"output_schema,omitempty"`
	}
)

// NewStep creates a step with the given id and capability name
func NewStep(id, agent string) *Step {
	return &Step{ID: id, Agent: agent}
}

// WithInputs sets the step input template
func (s *Step) WithInputs(inputs map[string]interface{}) *Step {
	s.Inputs = inputs
	return s
}

// WithInstructions sets the step instructions
func (s *Step) WithInstructions(instructions string) *Step {
	s.Instructions = instructions
	return s
}

// WithTool adds a tool declaration to the step
func (s *Step) WithTool(name string, config map[string]interface{}) *Step {
	s.Tools = append(s.Tools, &Tool{Name: name, Config: config})
	return s
}

// WithOutputSchema sets the expected output keys for the step
func (s *Step) WithOutputSchema(schema map[string]interface{}) *Step {
	s.OutputSchema = schema
	return s
}
