package tool

import (
	"context"
	"testing"

	"github.com/prospectio/leadflow/model/graph"
	"github.com/stretchr/testify/assert"
)

func TestResolveAll(t *testing.T) {
	env := map[string]string{
		"APOLLO_API_KEY": "apollo-key-123",
		"SMTP_HOST":      "smtp.example.com",
	}
	srv := New(WithLookup(func(name string) (string, bool) {
		value, ok := env[name]
		return value, ok
	}))

	tools := []*graph.Tool{
		{
			Name: "apollo",
			Config: map[string]interface{}{
				"api_key":  "{{APOLLO_API_KEY}}",
				"base_url": "https://api.apollo.io/v1",
				"page":     1,
			},
		},
		{
			Name: "smtp",
			Config: map[string]interface{}{
				"host":     "{{SMTP_HOST}}",
				"password": "{{SMTP_PASSWORD}}",
			},
		},
	}

	resolved, err := srv.ResolveAll(context.Background(), tools)
	assert.Nil(t, err)
	assert.True(t, resolved.Has("apollo"))
	assert.Equal(t, "apollo-key-123", resolved.Config("apollo")["api_key"])
	assert.Equal(t, "https://api.apollo.io/v1", resolved.Config("apollo")["base_url"])
	assert.Equal(t, 1, resolved.Config("apollo")["page"])
	assert.Equal(t, "smtp.example.com", resolved.Config("smtp")["host"])
	// Unset variables resolve to empty rather than failing the run.
	assert.Equal(t, "", resolved.Config("smtp")["password"])

	// Source declaration is untouched.
	assert.Equal(t, "{{APOLLO_API_KEY}}", tools[0].Config["api_key"])
}

func TestResolveLeavesReferencesAlone(t *testing.T) {
	srv := New(WithLookup(func(name string) (string, bool) { return "", false }))
	config, err := srv.Resolve(context.Background(), &graph.Tool{
		Name: "crm",
		Config: map[string]interface{}{
			"lead": "{{score.output.qualified}}",
		},
	})
	assert.Nil(t, err)
	assert.Equal(t, "{{score.output.qualified}}", config["lead"])
}

func TestResolveAllEmpty(t *testing.T) {
	srv := New()
	resolved, err := srv.ResolveAll(context.Background(), nil)
	assert.Nil(t, err)
	assert.Nil(t, resolved)
}
