package types

import (
	"errors"
	"fmt"
)

// ErrEmptyWorkflow indicates a workflow with no steps was submitted for
// graph construction.
var ErrEmptyWorkflow = errors.New("workflow has no steps")

// UnknownCapabilityError indicates a step references a capability name that
// was never registered.
type UnknownCapabilityError struct {
	Name string
}

func (e *UnknownCapabilityError) Error() string {
	return fmt.Sprintf("unknown capability %q", e.Name)
}

// NewUnknownCapabilityError creates an unknown capability error
func NewUnknownCapabilityError(name string) error {
	return &UnknownCapabilityError{Name: name}
}

// DuplicateStepError indicates a workflow declares the same step id twice.
type DuplicateStepError struct {
	ID string
}

func (e *DuplicateStepError) Error() string {
	return fmt.Sprintf("duplicate step id %q", e.ID)
}

// NewDuplicateStepError creates a duplicate step id error
func NewDuplicateStepError(id string) error {
	return &DuplicateStepError{ID: id}
}

// OutputConflictError indicates an attempt to record a second output for a
// step id that already holds one (write-once invariant).
type OutputConflictError struct {
	StepID string
}

func (e *OutputConflictError) Error() string {
	return fmt.Sprintf("output already recorded for step %q", e.StepID)
}

// NewOutputConflictError creates an output conflict error
func NewOutputConflictError(stepID string) error {
	return &OutputConflictError{StepID: stepID}
}

// StepExecutionError wraps a capability failure with the step id and
// capability name needed to diagnose a failed run.
type StepExecutionError struct {
	StepID     string
	Capability string
	Err        error
}

func (e *StepExecutionError) Error() string {
	return fmt.Sprintf("step %q (%s) failed: %v", e.StepID, e.Capability, e.Err)
}

func (e *StepExecutionError) Unwrap() error {
	return e.Err
}

// NewStepExecutionError creates a step execution error
func NewStepExecutionError(stepID, capability string, err error) error {
	return &StepExecutionError{StepID: stepID, Capability: capability, Err: err}
}
