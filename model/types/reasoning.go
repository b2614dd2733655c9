package types

import (
	"log"
	"time"

	"github.com/prospectio/leadflow/internal/clock"
)

// Reasoning records the think/act/observe trail a capability produces while
// executing a step.
type Reasoning struct {
	Thoughts     []string      `json:"thoughts,omitempty"`
	Actions      []TraceAction `json:"actions,omitempty"`
	Observations []string      `json:"observations,omitempty"`
}

// TraceAction captures a single action taken by a capability.
type TraceAction struct {
	Name    string                 `json:"action"`
	Details map[string]interface{} `json:"details,omitempty"`
	At      time.Time              `json:"timestamp"`
}

// Think records a reasoning thought.
func (r *Reasoning) Think(thought string) {
	r.Thoughts = append(r.Thoughts, thought)
	log.Printf("[thought] %s", thought)
}

// Act records an action taken.
func (r *Reasoning) Act(name string, details map[string]interface{}) {
	r.Actions = append(r.Actions, TraceAction{Name: name, Details: details, At: clock.Now()})
	log.Printf("[action] %s", name)
}

// Observe records an observation from action results.
func (r *Reasoning) Observe(observation string) {
	r.Observations = append(r.Observations, observation)
	log.Printf("[observation] %s", observation)
}
