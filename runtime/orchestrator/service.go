// Package orchestrator compiles workflows into executable plans and drives
// them strictly sequentially: one step at a time, in declaration order, with
// no retry. A step failure aborts the run and surfaces the failing step.
package orchestrator

import (
	"context"
	"fmt"
	"log"

	"github.com/prospectio/leadflow/extension"
	"github.com/prospectio/leadflow/model"
	"github.com/prospectio/leadflow/model/graph"
	"github.com/prospectio/leadflow/model/types"
	"github.com/prospectio/leadflow/policy"
	"github.com/prospectio/leadflow/progress"
	"github.com/prospectio/leadflow/runtime/execution"
	"github.com/prospectio/leadflow/runtime/expander"
	"github.com/prospectio/leadflow/service/tool"
	"github.com/prospectio/leadflow/tracing"
)

// Listener is invoked after every executed step with the resolved inputs and
// the produced output. Implementations can log, collect metrics or feed a
// dashboard; errors they encounter are their own concern.
type Listener func(step *graph.Step, inputs, output map[string]interface{})

// Service turns workflow definitions into plans and runs them.
type Service struct {
	registry *extension.Registry
	tools    *tool.Service
	listener Listener
}

// Option customizes the orchestrator.
type Option func(*Service)

// WithListener sets the post-step listener.
func WithListener(listener Listener) Option {
	return func(s *Service) {
		s.listener = listener
	}
}

// WithToolService overrides the tool resolution service.
func WithToolService(tools *tool.Service) Option {
	return func(s *Service) {
		s.tools = tools
	}
}

// New creates an orchestrator backed by the given capability registry.
func New(registry *extension.Registry, options ...Option) *Service {
	ret := &Service{
		registry: registry,
		tools:    tool.New(),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// node binds a graph node to the capability factory that will serve it.
type node struct {
	step    *graph.Step
	factory extension.Factory
}

// Plan is a compiled, immutable execution plan. Compiling is separated from
// running so definition problems (unknown capabilities, duplicate steps)
// surface before any side effects happen; a plan can be run many times.
type Plan struct {
	workflow *model.Workflow
	graph    *graph.Graph
	nodes    map[string]*node
}

// Workflow returns the definition the plan was compiled from.
func (p *Plan) Workflow() *model.Workflow {
	return p.workflow
}

// Graph returns the compiled step graph.
func (p *Plan) Graph() *graph.Graph {
	return p.graph
}

// Compile validates the workflow against the capability registry and builds
// the execution plan. Every step's capability must be registered; the first
// unknown capability fails compilation.
func (s *Service) Compile(workflow *model.Workflow) (*Plan, error) {
	if workflow == nil {
		return nil, types.ErrEmptyWorkflow
	}
	g, err := graph.Build(workflow.Steps)
	if err != nil {
		return nil, err
	}
	nodes := make(map[string]*node, g.Size())
	for _, stepID := range g.Order() {
		step := g.Node(stepID).Step
		factory, err := s.registry.Lookup(step.Agent)
		if err != nil {
			return nil, fmt.Errorf("step %s: %w", step.ID, err)
		}
		nodes[stepID] = &node{step: step, factory: factory}
	}
	return &Plan{workflow: workflow, graph: g, nodes: nodes}, nil
}

// Run executes the plan from its entry node until the terminal edge. The
// returned state carries all step outputs recorded before a failure, so a
// partial run remains inspectable.
func (s *Service) Run(ctx context.Context, plan *Plan) (*execution.State, error) {
	state := execution.NewState(plan.workflow.Name)
	ctx, span := tracing.StartSpan(ctx, "workflow/"+plan.workflow.Name, "INTERNAL")
	defer func() { tracing.EndSpan(span, nil) }()

	tracker := progress.FromContext(ctx)
	if tracker != nil {
		tracker.RunID = state.ID
		tracker.Workflow = state.Workflow
		tracker.StartedAt = state.StartedAt
		tracker.Update(progress.Delta{Total: plan.graph.Size()})
	}

	current := plan.graph.Entry()
	for current != graph.Terminal {
		if err := ctx.Err(); err != nil {
			return state, err
		}
		node := plan.nodes[current]
		state.Advance(current)

		tracker.Update(progress.Delta{Running: 1})
		if err := s.runStep(ctx, node, plan.workflow, state); err != nil {
			tracker.Update(progress.Delta{Running: -1, Failed: 1})
			span.SetStatus(err)
			return state, err
		}
		tracker.Update(progress.Delta{Running: -1, Completed: 1})

		next, ok := plan.graph.Next(current)
		if !ok {
			return state, fmt.Errorf("step %s has no successor", current)
		}
		current = next
	}
	state.Advance(graph.Terminal)
	return state, nil
}

func (s *Service) runStep(ctx context.Context, node *node, workflow *model.Workflow, state *execution.State) error {
	step := node.step
	stepCtx, span := tracing.StartSpan(ctx, "step/"+step.ID, "INTERNAL")
	var stepErr error
	defer func() { tracing.EndSpan(span.WithAttributes(map[string]string{"agent": step.Agent}), stepErr) }()

	state.Log(execution.TraceInfo, step.ID, fmt.Sprintf("executing %s", step.Agent))

	tools, err := s.tools.ResolveAll(stepCtx, step.Tools)
	if err != nil {
		stepErr = types.NewStepExecutionError(step.ID, step.Agent, err)
		return stepErr
	}
	capability, err := node.factory(step, tools)
	if err != nil {
		stepErr = types.NewStepExecutionError(step.ID, step.Agent, err)
		return stepErr
	}
	resolved, err := expander.Resolve(step.Inputs, state, workflow.Config)
	if err != nil {
		stepErr = types.NewStepExecutionError(step.ID, step.Agent, err)
		return stepErr
	}
	inputs, _ := resolved.(map[string]interface{})
	if inputs == nil {
		inputs = map[string]interface{}{}
	}

	if err := s.checkPolicy(stepCtx, step, inputs); err != nil {
		stepErr = err
		return stepErr
	}

	output, err := capability.Execute(stepCtx, inputs)
	if err != nil {
		stepErr = types.NewStepExecutionError(step.ID, step.Agent, err)
		return stepErr
	}
	if output == nil {
		output = map[string]interface{}{}
	}

	s.checkOutputSchema(step, output, state)

	if err := state.Record(step.ID, output); err != nil {
		stepErr = err
		return stepErr
	}
	if s.listener != nil {
		s.listener(step, inputs, output)
	}
	return nil
}

// checkPolicy consults the run policy attached to the context, if any. A step
// blocked by the policy fails the run like any other step error.
func (s *Service) checkPolicy(ctx context.Context, step *graph.Step, inputs map[string]interface{}) error {
	p := policy.FromContext(ctx)
	if p == nil {
		return nil
	}
	if !p.IsAllowed(step.Agent) {
		return types.NewStepExecutionError(step.ID, step.Agent, fmt.Errorf("capability blocked by policy"))
	}
	switch p.Mode {
	case policy.ModeDeny:
		return types.NewStepExecutionError(step.ID, step.Agent, fmt.Errorf("execution denied by policy"))
	case policy.ModeAsk:
		if p.Ask == nil || !p.Ask(ctx, step.ID, step.Agent, inputs, p) {
			return types.NewStepExecutionError(step.ID, step.Agent, fmt.Errorf("step rejected by approver"))
		}
	}
	return nil
}

// checkOutputSchema warns about expected output keys the capability did not
// produce. Schema mismatches never fail a run.
func (s *Service) checkOutputSchema(step *graph.Step, output map[string]interface{}, state *execution.State) {
	for key := range step.OutputSchema {
		if _, ok := output[key]; ok {
			continue
		}
		message := fmt.Sprintf("missing expected output key: %s", key)
		state.Log(execution.TraceWarning, step.ID, message)
		log.Printf("[%s] warning: %s", step.ID, message)
	}
}
