package leadflow

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/prospectio/leadflow/model"
	"github.com/prospectio/leadflow/runtime/execution"
	"github.com/prospectio/leadflow/runtime/orchestrator"
	"github.com/prospectio/leadflow/service/dao/workflow"
)

// Runtime exposes the workflow lifecycle: load or decode a definition,
// compile it into a plan and run it.
type Runtime struct {
	workflowDAO  *workflow.Service
	orchestrator *orchestrator.Service
}

// LoadWorkflow loads a workflow definition from the given location.
func (r *Runtime) LoadWorkflow(ctx context.Context, location string) (*model.Workflow, error) {
	return r.workflowDAO.Load(ctx, location)
}

// DecodeWorkflow decodes a workflow definition from raw bytes. The location
// is used to pick the codec and to label the definition's source.
func (r *Runtime) DecodeWorkflow(data []byte, location string) (*model.Workflow, error) {
	wf, err := r.workflowDAO.Decode(data, filepath.Ext(location))
	if err != nil {
		return nil, err
	}
	wf.Source = &model.Source{URL: location}
	return wf, nil
}

// RefreshWorkflow discards any cached copy of the workflow definition at the
// given location; the next LoadWorkflow re-reads the document.
func (r *Runtime) RefreshWorkflow(location string) error {
	if r == nil || r.workflowDAO == nil {
		return fmt.Errorf("runtime not fully initialised, workflowDAO missing")
	}
	r.workflowDAO.Refresh(location)
	return nil
}

// Compile validates the workflow against the registered capabilities and
// builds an execution plan.
func (r *Runtime) Compile(workflow *model.Workflow) (*orchestrator.Plan, error) {
	return r.orchestrator.Compile(workflow)
}

// Run executes a compiled plan and returns the final run state.
func (r *Runtime) Run(ctx context.Context, plan *orchestrator.Plan) (*execution.State, error) {
	return r.orchestrator.Run(ctx, plan)
}

// Execute loads, compiles and runs the workflow at the given location.
func (r *Runtime) Execute(ctx context.Context, location string) (*execution.State, error) {
	wf, err := r.LoadWorkflow(ctx, location)
	if err != nil {
		return nil, err
	}
	plan, err := r.Compile(wf)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx, plan)
}
