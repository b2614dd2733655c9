package model

import (
	"fmt"

	"github.com/prospectio/leadflow/model/graph"
)

// Workflow represents a declarative workflow definition loaded from a JSON or
// YAML document. Step order defines execution order.
type Workflow struct {

	// Source provides information about the origin of the workflow
	Source *Source `json:"-" yaml:"-"`

	// Name is the unique identifier for the workflow
	Name string `json:"workflow_name" yaml:"workflow_name"`

	// Description provides a human-readable description of the workflow
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Config contains workflow-level static configuration referenced by
	// steps via {{config.<path>}} expressions
	Config map[string]interface{} `json:"config,omitempty" yaml:"config,omitempty"`

	// Steps is the ordered step sequence
	Steps []*graph.Step `json:"steps" yaml:"steps"`
}

// Source describes where a workflow definition was loaded from.
type Source struct {
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Validate performs a best-effort structural validation of the workflow. The
// returned slice is empty when the workflow is sound; otherwise it contains
// human-readable error descriptions. No expressions are evaluated - only
// static properties are verified.
func (w *Workflow) Validate() []error {
	var issues []error
	if w.Name == "" {
		issues = append(issues, fmt.Errorf("workflow_name is required"))
	}
	if len(w.Steps) == 0 {
		issues = append(issues, fmt.Errorf("workflow has no steps"))
		return issues
	}
	seen := map[string]bool{}
	for i, step := range w.Steps {
		if step == nil {
			issues = append(issues, fmt.Errorf("step[%d] is nil", i))
			continue
		}
		if step.ID == "" {
			issues = append(issues, fmt.Errorf("step[%d] is missing id", i))
		}
		if step.Agent == "" {
			issues = append(issues, fmt.Errorf("step %q is missing agent", step.ID))
		}
		if seen[step.ID] {
			issues = append(issues, fmt.Errorf("duplicate step id %q", step.ID))
		}
		seen[step.ID] = true
		for _, tool := range step.Tools {
			if tool.Name == "" {
				issues = append(issues, fmt.Errorf("step %q declares a tool without name", step.ID))
			}
		}
	}
	return issues
}

// Step returns the step with the given id, or nil when absent.
func (w *Workflow) Step(id string) *graph.Step {
	for _, step := range w.Steps {
		if step.ID == id {
			return step
		}
	}
	return nil
}

// NewWorkflow creates a new workflow with the given name
func NewWorkflow(name string) *Workflow {
	return &Workflow{Name: name}
}

// WithDescription sets the description of the workflow
func (w *Workflow) WithDescription(description string) *Workflow {
	w.Description = description
	return w
}

// WithConfig adds a configuration entry to the workflow
func (w *Workflow) WithConfig(key string, value interface{}) *Workflow {
	if w.Config == nil {
		w.Config = make(map[string]interface{})
	}
	w.Config[key] = value
	return w
}

// NewStep creates a new step and appends it to the workflow
func (w *Workflow) NewStep(id, agent string) *graph.Step {
	step := graph.NewStep(id, agent)
	w.Steps = append(w.Steps, step)
	return step
}
