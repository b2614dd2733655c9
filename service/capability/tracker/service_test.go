package tracker

import (
	"context"
	"testing"

	"github.com/prospectio/leadflow/model/graph"
	"github.com/stretchr/testify/assert"
)

func TestExecuteSkipsFailedSends(t *testing.T) {
	capability, err := New(graph.NewStep("track", Name), nil)
	assert.Nil(t, err)

	output, err := capability.Execute(context.Background(), map[string]interface{}{
		"campaign_id": "campaign_abc_20260825",
		"sent_status": []interface{}{
			map[string]interface{}{"email": "jane@acme.com", "lead": "Jane Doe", "company": "Acme", "status": "simulated"},
			map[string]interface{}{"email": "bob@initech.com", "lead": "Bob Smith", "company": "Initech", "status": "failed"},
			map[string]interface{}{"email": "sam@globex.com", "lead": "Sam Roe", "company": "Globex", "status": "sent"},
		},
	})
	assert.Nil(t, err)

	responses := output["responses"].([]interface{})
	assert.Equal(t, 2, len(responses))

	first := responses[0].(map[string]interface{})
	assert.Equal(t, "jane@acme.com", first["email"])
	for _, key := range []string{"opened", "clicked", "replied", "meeting_booked"} {
		_, ok := first[key].(bool)
		assert.True(t, ok, key)
	}

	// clicked/replied imply opened; a booked meeting implies a reply
	for _, entry := range responses {
		engagement := entry.(map[string]interface{})
		if engagement["clicked"].(bool) || engagement["replied"].(bool) {
			assert.True(t, engagement["opened"].(bool))
		}
		if engagement["meeting_booked"].(bool) {
			assert.True(t, engagement["replied"].(bool))
		}
		if engagement["replied"].(bool) {
			assert.NotEmpty(t, engagement["reply_content"])
		} else {
			assert.Nil(t, engagement["reply_timestamp"])
		}
	}
}

func TestExecuteEmptyCampaign(t *testing.T) {
	capability, err := New(graph.NewStep("track", Name), nil)
	assert.Nil(t, err)

	output, err := capability.Execute(context.Background(), map[string]interface{}{
		"campaign_id": "campaign_empty",
	})
	assert.Nil(t, err)
	assert.Equal(t, 0, len(output["responses"].([]interface{})))
}
