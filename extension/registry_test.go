package extension

import (
	"context"
	"testing"

	"github.com/prospectio/leadflow/model/graph"
	"github.com/prospectio/leadflow/model/types"
	"github.com/stretchr/testify/assert"
)

type nopCapability struct {
	reasoning types.Reasoning
}

func (c *nopCapability) Name() string { return "Nop" }

func (c *nopCapability) Execute(ctx context.Context, inputs map[string]interface{}) (map[string]interface{}, error) {
	return map[string]interface{}{}, nil
}

func (c *nopCapability) Reasoning() *types.Reasoning { return &c.reasoning }

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	registry.Register("Nop", func(step *graph.Step, tools types.ToolConfigs) (types.Capability, error) {
		return &nopCapability{}, nil
	})

	factory, err := registry.Lookup("Nop")
	assert.Nil(t, err)
	capability, err := factory(graph.NewStep("s1", "Nop"), nil)
	assert.Nil(t, err)
	assert.Equal(t, "Nop", capability.Name())

	_, err = registry.Lookup("Missing")
	assert.NotNil(t, err)
	var unknown *types.UnknownCapabilityError
	assert.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Missing", unknown.Name)

	assert.Equal(t, []string{"Nop"}, registry.Names())
}
