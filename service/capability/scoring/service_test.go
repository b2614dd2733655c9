package scoring

import (
	"context"
	"testing"

	"github.com/prospectio/leadflow/model/graph"
	"github.com/stretchr/testify/assert"
)

func TestExecuteRanksLeads(t *testing.T) {
	capability, err := New(graph.NewStep("score", Name), nil)
	assert.Nil(t, err)

	inputs := map[string]interface{}{
		"enriched_leads": []interface{}{
			map[string]interface{}{
				"company":      "Acme",
				"contact":      "Jane Doe",
				"email":        "jane@acme.com",
				"role":         "VP of Sales",
				"technologies": []interface{}{"Salesforce", "AWS", "Docker"},
				"recent_news":  "Acme raises Series B funding",
			},
			map[string]interface{}{
				"company":      "Initech",
				"contact":      "Bob Smith",
				"email":        "bob@initech.com",
				"role":         "Analyst",
				"technologies": []interface{}{},
				"recent_news":  "",
			},
		},
		"scoring_criteria": map[string]interface{}{
			"weights": map[string]interface{}{
				"revenue_match":    0.3,
				"employee_match":   0.2,
				"technology_match": 0.2,
				"signal_strength":  0.3,
			},
			"thresholds": map[string]interface{}{"min_score": 60},
		},
	}

	output, err := capability.Execute(context.Background(), inputs)
	assert.Nil(t, err)

	ranked, ok := output["ranked_leads"].([]interface{})
	assert.True(t, ok)
	// Acme: 27 + 17 + 9 + 27 = 80; Initech: 27 + 17 + 0 + 15 = 59 (below threshold)
	assert.Equal(t, 1, len(ranked))
	lead := ranked[0].(map[string]interface{})
	assert.Equal(t, "Acme", lead["company"])
	assert.Equal(t, 80.0, lead["score"])

	breakdown := lead["score_breakdown"].(map[string]interface{})
	assert.Equal(t, 27.0, breakdown["revenue_match"])
	assert.Equal(t, 17.0, breakdown["employee_match"])
	assert.Equal(t, 9.0, breakdown["technology_match"])
	assert.Equal(t, 27.0, breakdown["signal_strength"])
}

func TestExecuteOrdering(t *testing.T) {
	capability, err := New(graph.NewStep("score", Name), nil)
	assert.Nil(t, err)

	inputs := map[string]interface{}{
		"enriched_leads": []interface{}{
			map[string]interface{}{
				"company":     "LowSignal",
				"role":        "Director of Sales",
				"recent_news": "LowSignal launches new product line",
			},
			map[string]interface{}{
				"company":     "HighSignal",
				"role":        "VP of Sales",
				"recent_news": "HighSignal raises Series B funding",
			},
		},
		"scoring_criteria": map[string]interface{}{
			"thresholds": map[string]interface{}{"min_score": 10},
		},
	}
	output, err := capability.Execute(context.Background(), inputs)
	assert.Nil(t, err)
	ranked := output["ranked_leads"].([]interface{})
	assert.Equal(t, 2, len(ranked))
	assert.Equal(t, "HighSignal", ranked[0].(map[string]interface{})["company"])
	assert.Equal(t, "LowSignal", ranked[1].(map[string]interface{})["company"])
}

func TestScoreTechnologies(t *testing.T) {
	assert.Equal(t, 0.0, scoreTechnologies(nil))
	assert.Equal(t, 40.0, scoreTechnologies([]string{"Salesforce", "HubSpot"}))
	assert.Equal(t, 5.0, scoreTechnologies([]string{"FoxPro"}))
	many := []string{"Salesforce", "HubSpot", "AWS", "Azure", "Google Cloud", "Slack", "Zoom", "Docker", "Kubernetes"}
	assert.Equal(t, 100.0, scoreTechnologies(many))
}

func TestScoreSignalsCap(t *testing.T) {
	lead := &EnrichedLead{
		Role:       "VP of Growth",
		RecentNews: "raises funding, hiring, growth, launches new product",
	}
	assert.Equal(t, 100.0, scoreSignals(lead))
}
