package graph

import (
	"testing"

	"github.com/prospectio/leadflow/model/types"
	"github.com/stretchr/testify/assert"
)

func TestBuild(t *testing.T) {
	steps := []*Step{
		NewStep("search", "ProspectSearchAgent"),
		NewStep("enrich", "DataEnrichmentAgent"),
		NewStep("score", "ScoringAgent"),
	}
	g, err := Build(steps)
	assert.Nil(t, err)
	assert.Equal(t, 3, g.Size())
	assert.Equal(t, "search", g.Entry())
	assert.Equal(t, []string{"search", "enrich", "score"}, g.Order())

	next, ok := g.Next("search")
	assert.True(t, ok)
	assert.Equal(t, "enrich", next)
	next, ok = g.Next("enrich")
	assert.True(t, ok)
	assert.Equal(t, "score", next)
	next, ok = g.Next("score")
	assert.True(t, ok)
	assert.Equal(t, Terminal, next)

	_, ok = g.Next("missing")
	assert.False(t, ok)

	node := g.Node("enrich")
	if assert.NotNil(t, node) {
		assert.Equal(t, "DataEnrichmentAgent", node.Step.Agent)
	}
}

func TestBuildSingleStep(t *testing.T) {
	g, err := Build([]*Step{NewStep("only", "ScoringAgent")})
	assert.Nil(t, err)
	assert.Equal(t, "only", g.Entry())
	next, ok := g.Next("only")
	assert.True(t, ok)
	assert.Equal(t, Terminal, next)
}

func TestBuildEmpty(t *testing.T) {
	_, err := Build(nil)
	assert.ErrorIs(t, err, types.ErrEmptyWorkflow)
}

func TestBuildDuplicate(t *testing.T) {
	_, err := Build([]*Step{
		NewStep("search", "ProspectSearchAgent"),
		NewStep("search", "DataEnrichmentAgent"),
	})
	assert.NotNil(t, err)
	var duplicate *types.DuplicateStepError
	assert.ErrorAs(t, err, &duplicate)
	assert.Equal(t, "search", duplicate.ID)
}
