package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	srv := New(WithBaseURL("testdata"))

	workflow, err := srv.Load(context.Background(), "prospect_to_lead")
	assert.Nil(t, err)
	assert.Equal(t, "prospect_to_lead", workflow.Name)
	assert.Equal(t, 7, len(workflow.Steps))
	assert.NotNil(t, workflow.Source)

	search := workflow.Step("search")
	if assert.NotNil(t, search) {
		assert.Equal(t, "ProspectSearchAgent", search.Agent)
		assert.Equal(t, "{{config.icp}}", search.Inputs["icp"])
		assert.Equal(t, 1, len(search.Tools))
		assert.Equal(t, "ApolloAPI", search.Tools[0].Name)
	}
	icp, ok := workflow.Config["icp"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "SaaS", icp["industry"])

	// second load hits the cache and returns the same instance
	again, err := srv.Load(context.Background(), "prospect_to_lead")
	assert.Nil(t, err)
	assert.Same(t, workflow, again)
}

func TestLoadNotFound(t *testing.T) {
	srv := New(WithBaseURL("testdata"))
	_, err := srv.Load(context.Background(), "missing")
	assert.NotNil(t, err)
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestDecodeYAML(t *testing.T) {
	document := `
workflow_name: minimal
steps:
  - id: search
    agent: ProspectSearchAgent
  - id: score
    agent: ScoringAgent
    inputs:
      enriched_leads: "{{search.output.leads}}"
`
	srv := New()
	workflow, err := srv.Decode([]byte(document), ".yaml")
	assert.Nil(t, err)
	assert.Equal(t, "minimal", workflow.Name)
	assert.Equal(t, 2, len(workflow.Steps))
	assert.Equal(t, "{{search.output.leads}}", workflow.Steps[1].Inputs["enriched_leads"])
}

func TestDecodeInvalid(t *testing.T) {
	srv := New()
	_, err := srv.Decode([]byte(`{"workflow_name": "broken", "steps": []}`), ".json")
	assert.NotNil(t, err)
	var invalid *ValidationError
	assert.ErrorAs(t, err, &invalid)

	_, err = srv.Decode([]byte(`{not json`), ".json")
	assert.NotNil(t, err)
	var parse *ParseError
	assert.ErrorAs(t, err, &parse)
}
