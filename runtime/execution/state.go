package execution

import (
	"sync"
	"time"

	"github.com/prospectio/leadflow/internal/clock"
	"github.com/prospectio/leadflow/internal/idgen"
	"github.com/prospectio/leadflow/model/types"
)

// Trace entry kinds
const (
	TraceInfo    = "info"
	TraceWarning = "warning"
)

// TraceEntry is a single message in the run's ordered trace log.
type TraceEntry struct {
	At      time.Time `json:"at"`
	StepID  string    `json:"stepId,omitempty"`
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
}

// State is the per-run accumulator of step outputs and execution cursor. It
// is created fresh for every run and mutated exclusively by the orchestrator,
// one step at a time. The mutex exists for external observers (for example a
// live dashboard): the orchestrator remains the single writer, but concurrent
// readers are safe.
type State struct {
	ID        string
	Workflow  string
	StartedAt time.Time

	mux         sync.RWMutex
	stepOutputs map[string]map[string]interface{}
	completed   []string
	currentStep string
	trace       []TraceEntry
}

// NewState creates an empty run state for the named workflow.
func NewState(workflow string) *State {
	return &State{
		ID:          idgen.New(),
		Workflow:    workflow,
		StartedAt:   clock.Now(),
		stepOutputs: make(map[string]map[string]interface{}),
	}
}

// Record stores a step's output. Each step id may be recorded at most once
// per run; a second attempt fails with OutputConflictError.
func (s *State) Record(stepID string, output map[string]interface{}) error {
	s.mux.Lock()
	defer s.mux.Unlock()
	if _, exists := s.stepOutputs[stepID]; exists {
		return types.NewOutputConflictError(stepID)
	}
	s.stepOutputs[stepID] = output
	s.completed = append(s.completed, stepID)
	return nil
}

// Output returns the recorded output for the given step id. Implements
// expander.Source.
func (s *State) Output(stepID string) (map[string]interface{}, bool) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	output, ok := s.stepOutputs[stepID]
	return output, ok
}

// Outputs returns all recorded outputs keyed by step id. The top-level map is
// copied; output values are shared with the state.
func (s *State) Outputs() map[string]map[string]interface{} {
	s.mux.RLock()
	defer s.mux.RUnlock()
	outputs := make(map[string]map[string]interface{}, len(s.stepOutputs))
	for stepID, output := range s.stepOutputs {
		outputs[stepID] = output
	}
	return outputs
}

// Completed returns step ids with recorded outputs, in completion order.
func (s *State) Completed() []string {
	s.mux.RLock()
	defer s.mux.RUnlock()
	completed := make([]string, len(s.completed))
	copy(completed, s.completed)
	return completed
}

// Advance moves the execution cursor. The cursor is observability-only; it
// never gates reads.
func (s *State) Advance(stepID string) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.currentStep = stepID
}

// CurrentStep returns the execution cursor.
func (s *State) CurrentStep() string {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.currentStep
}

// Log appends a message to the run's trace log.
func (s *State) Log(kind, stepID, message string) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.trace = append(s.trace, TraceEntry{At: clock.Now(), StepID: stepID, Kind: kind, Message: message})
}

// Trace returns a copy of the trace log.
func (s *State) Trace() []TraceEntry {
	s.mux.RLock()
	defer s.mux.RUnlock()
	trace := make([]TraceEntry, len(s.trace))
	copy(trace, s.trace)
	return trace
}
