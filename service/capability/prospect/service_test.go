package prospect

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prospectio/leadflow/model/graph"
	"github.com/prospectio/leadflow/model/types"
	"github.com/stretchr/testify/assert"
)

func TestExecuteSampleFallback(t *testing.T) {
	capability, err := New(graph.NewStep("search", Name), nil)
	assert.Nil(t, err)

	inputs := map[string]interface{}{
		"icp": map[string]interface{}{
			"industry": "SaaS",
			"location": "USA",
			"employee_count": map[string]interface{}{
				"min": 100,
				"max": 1000,
			},
			"signals": []interface{}{"hiring_sales", "recent_funding"},
		},
		"limit": 3,
	}
	output, err := capability.Execute(context.Background(), inputs)
	assert.Nil(t, err)

	leads, ok := output["leads"].([]interface{})
	assert.True(t, ok)
	assert.Equal(t, 3, len(leads))

	first := leads[0].(map[string]interface{})
	assert.Equal(t, "Salesforce", first["company"])
	assert.Equal(t, "sarah.johnson@salesforce.com", first["email"])
	assert.Equal(t, "hiring_sales", first["signal"])

	second := leads[1].(map[string]interface{})
	assert.Equal(t, "recent_funding", second["signal"])
}

func TestExecuteApollo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		var payload map[string]interface{}
		assert.Nil(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, []interface{}{"100,1000"}, payload["organization_num_employees_ranges"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"people": []interface{}{
				map[string]interface{}{
					"name":         "Jane Doe",
					"email":        "jane@acme.com",
					"title":        "VP of Sales",
					"linkedin_url": "https://linkedin.com/in/jane-doe",
					"organization": map[string]interface{}{
						"name":                    "Acme",
						"estimated_num_employees": 250,
					},
				},
			},
		})
	}))
	defer server.Close()

	tools := types.ToolConfigs{
		apolloTool: {
			"api_key":  "test-key",
			"endpoint": server.URL,
		},
	}
	capability, err := New(graph.NewStep("search", Name), tools)
	assert.Nil(t, err)

	output, err := capability.Execute(context.Background(), map[string]interface{}{
		"icp": map[string]interface{}{
			"location":       "USA",
			"employee_count": map[string]interface{}{"min": 100, "max": 1000},
		},
		"signals": []interface{}{"recent_funding"},
		"limit":   5,
	})
	assert.Nil(t, err)

	leads := output["leads"].([]interface{})
	assert.Equal(t, 1, len(leads))
	lead := leads[0].(map[string]interface{})
	assert.Equal(t, "Acme", lead["company"])
	assert.Equal(t, "Jane Doe", lead["contact_name"])
	assert.Equal(t, 250, lead["company_size"])
	assert.Equal(t, "recent_funding", lead["signal"])
}

func TestExecuteNegativeLimit(t *testing.T) {
	capability, err := New(graph.NewStep("search", Name), nil)
	assert.Nil(t, err)

	output, err := capability.Execute(context.Background(), map[string]interface{}{
		"limit": -1,
	})
	assert.Nil(t, err)

	// a non-positive limit falls back to the default
	leads, ok := output["leads"].([]interface{})
	assert.True(t, ok)
	assert.Equal(t, 10, len(leads))
}
