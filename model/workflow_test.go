package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkflowValidate(t *testing.T) {
	testCases := []struct {
		description string
		workflow    *Workflow
		expectCount int
	}{
		{
			description: "valid workflow",
			workflow: func() *Workflow {
				w := NewWorkflow("prospect_to_lead")
				w.NewStep("search", "ProspectSearchAgent")
				w.NewStep("score", "ScoringAgent")
				return w
			}(),
			expectCount: 0,
		},
		{
			description: "missing name",
			workflow: func() *Workflow {
				w := NewWorkflow("")
				w.NewStep("search", "ProspectSearchAgent")
				return w
			}(),
			expectCount: 1,
		},
		{
			description: "no steps",
			workflow:    NewWorkflow("empty"),
			expectCount: 1,
		},
		{
			description: "missing step id and agent",
			workflow: func() *Workflow {
				w := NewWorkflow("broken")
				w.NewStep("", "")
				return w
			}(),
			expectCount: 2,
		},
		{
			description: "duplicate step id",
			workflow: func() *Workflow {
				w := NewWorkflow("dup")
				w.NewStep("search", "ProspectSearchAgent")
				w.NewStep("search", "ScoringAgent")
				return w
			}(),
			expectCount: 1,
		},
		{
			description: "tool without name",
			workflow: func() *Workflow {
				w := NewWorkflow("tools")
				w.NewStep("search", "ProspectSearchAgent").WithTool("", nil)
				return w
			}(),
			expectCount: 1,
		},
	}

	for _, testCase := range testCases {
		issues := testCase.workflow.Validate()
		assert.Equal(t, testCase.expectCount, len(issues), testCase.description)
	}
}

func TestWorkflowStep(t *testing.T) {
	w := NewWorkflow("prospect_to_lead").
		WithDescription("prospect discovery pipeline").
		WithConfig("icp_industry", "SaaS")
	w.NewStep("search", "ProspectSearchAgent")
	w.NewStep("enrich", "DataEnrichmentAgent")

	step := w.Step("enrich")
	if assert.NotNil(t, step) {
		assert.Equal(t, "DataEnrichmentAgent", step.Agent)
	}
	assert.Nil(t, w.Step("missing"))
	assert.Equal(t, "SaaS", w.Config["icp_industry"])
}
