package outreach

import (
	"context"
	"strings"
	"testing"

	"github.com/prospectio/leadflow/model/graph"
	"github.com/stretchr/testify/assert"
)

func TestExecuteDryRun(t *testing.T) {
	capability, err := New(graph.NewStep("send", Name), nil)
	assert.Nil(t, err)

	output, err := capability.Execute(context.Background(), map[string]interface{}{
		"messages": []interface{}{
			map[string]interface{}{
				"lead":       "Jane Doe",
				"email":      "jane@acme.com",
				"subject":    "Quick question",
				"email_body": "Hi Jane",
				"company":    "Acme",
			},
			map[string]interface{}{
				"lead":       "Bob Smith",
				"email":      "bob@initech.com",
				"subject":    "Scaling sales",
				"email_body": "Hi Bob",
				"company":    "Initech",
			},
		},
	})
	assert.Nil(t, err)

	campaignID, ok := output["campaign_id"].(string)
	assert.True(t, ok)
	assert.True(t, strings.HasPrefix(campaignID, "campaign_"))

	sentStatus := output["sent_status"].([]interface{})
	assert.Equal(t, 2, len(sentStatus))
	for _, entry := range sentStatus {
		status := entry.(map[string]interface{})
		assert.Equal(t, "simulated", status["status"])
		assert.True(t, strings.HasPrefix(status["message_id"].(string), "sim_"))
		assert.NotEmpty(t, status["timestamp"])
	}
}

func TestExecuteLiveWithoutSendGrid(t *testing.T) {
	capability, err := New(graph.NewStep("send", Name), nil)
	assert.Nil(t, err)

	output, err := capability.Execute(context.Background(), map[string]interface{}{
		"messages": []interface{}{
			map[string]interface{}{
				"lead":  "Jane Doe",
				"email": "jane@acme.com",
			},
		},
		"dry_run": false,
	})
	assert.Nil(t, err)

	sentStatus := output["sent_status"].([]interface{})
	status := sentStatus[0].(map[string]interface{})
	assert.Equal(t, "failed", status["status"])
	assert.Equal(t, "SendGrid not configured", status["error"])
}
