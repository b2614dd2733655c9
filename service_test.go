package leadflow

import (
	"context"
	"os"
	"testing"

	"github.com/prospectio/leadflow/model/graph"
	"github.com/stretchr/testify/assert"
)

func TestProspectToLeadRun(t *testing.T) {
	t.Setenv("FEEDBACK_OUTPUT_URL", t.TempDir())
	// no API keys: every capability falls back to its offline path
	t.Setenv("APOLLO_API_KEY", "")
	t.Setenv("CLEARBIT_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("SENDGRID_API_KEY", "")

	var executed []string
	srv := New(
		WithMetaBaseURL("testdata"),
		WithListener(func(step *graph.Step, inputs, output map[string]interface{}) {
			executed = append(executed, step.ID)
		}),
	)

	state, err := srv.Runtime().Execute(context.Background(), "prospect_to_lead")
	assert.Nil(t, err)
	assert.Equal(t, "prospect_to_lead", state.Workflow)
	assert.Equal(t, []string{"search", "enrich", "score", "generate", "send", "track", "analyze"}, executed)
	assert.Equal(t, executed, state.Completed())

	search, ok := state.Output("search")
	assert.True(t, ok)
	leads := search["leads"].([]interface{})
	assert.Equal(t, 5, len(leads))

	enriched, _ := state.Output("enrich")
	assert.Equal(t, 5, len(enriched["enriched_leads"].([]interface{})))

	score, _ := state.Output("score")
	ranked := score["ranked_leads"].([]interface{})
	assert.True(t, len(ranked) > 0)
	// ranked leads are sorted highest score first
	previous := 101.0
	for _, entry := range ranked {
		current := entry.(map[string]interface{})["score"].(float64)
		assert.True(t, current <= previous)
		previous = current
	}

	generate, _ := state.Output("generate")
	messages := generate["messages"].([]interface{})
	assert.Equal(t, len(ranked), len(messages))

	send, _ := state.Output("send")
	assert.NotEmpty(t, send["campaign_id"])
	for _, entry := range send["sent_status"].([]interface{}) {
		assert.Equal(t, "simulated", entry.(map[string]interface{})["status"])
	}

	analyze, _ := state.Output("analyze")
	assert.NotNil(t, analyze["metrics"])
	assert.NotNil(t, analyze["recommendations"])

	// feedback report was written to the configured store
	entries, err := os.ReadDir(os.Getenv("FEEDBACK_OUTPUT_URL"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(entries))
}

func TestCapabilities(t *testing.T) {
	srv := New()
	names := srv.Capabilities()
	assert.Contains(t, names, "ProspectSearchAgent")
	assert.Contains(t, names, "FeedbackTrainerAgent")
	assert.Equal(t, 7, len(names))
}

func TestCustomCapabilityOverride(t *testing.T) {
	t.Setenv("FEEDBACK_OUTPUT_URL", t.TempDir())

	srv := New(WithMetaBaseURL("testdata"))
	wf, err := srv.Runtime().LoadWorkflow(context.Background(), "prospect_to_lead")
	assert.Nil(t, err)
	assert.Equal(t, 7, len(wf.Steps))

	plan, err := srv.Runtime().Compile(wf)
	assert.Nil(t, err)
	assert.Equal(t, 7, plan.Graph().Size())
	assert.Equal(t, "search", plan.Graph().Entry())
}
