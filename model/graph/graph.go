package graph

import (
	"github.com/prospectio/leadflow/model/types"
)

// Terminal is the sentinel edge target marking successful completion of the
// step chain. It is not a real node; reaching it ends a run.
const Terminal = "__end__"

// Node wraps a step inside a compiled graph.
type Node struct {
	Step *Step
}

// Graph is an immutable execution graph built from an ordered step list. The
// structure can express arbitrary single-successor topologies, though Build
// only ever produces a linear chain; it carries no run state and is safe to
// reuse across runs.
type Graph struct {
	entry string
	nodes map[string]*Node
	next  map[string]string
	order []string
}

// Entry returns the id of the graph's entry node.
func (g *Graph) Entry() string {
	return g.entry
}

// Node returns the node registered under the given step id.
func (g *Graph) Node(id string) *Node {
	return g.nodes[id]
}

// Next returns the successor of the given node id. The successor of the last
// step is Terminal.
func (g *Graph) Next(id string) (string, bool) {
	next, ok := g.next[id]
	return next, ok
}

// Order returns step ids in declaration order.
func (g *Graph) Order() []string {
	order := make([]string, len(g.order))
	copy(order, g.order)
	return order
}

// Size returns the number of nodes in the graph.
func (g *Graph) Size() int {
	return len(g.nodes)
}

// Build turns an ordered step list into a linear graph: one node per step,
// an edge from each step to its successor and a final edge to Terminal.
func Build(steps []*Step) (*Graph, error) {
	if len(steps) == 0 {
		return nil, types.ErrEmptyWorkflow
	}
	g := &Graph{
		entry: steps[0].ID,
		nodes: make(map[string]*Node, len(steps)),
		next:  make(map[string]string, len(steps)),
		order: make([]string, 0, len(steps)),
	}
	for _, step := range steps {
		if _, exists := g.nodes[step.ID]; exists {
			return nil, types.NewDuplicateStepError(step.ID)
		}
		g.nodes[step.ID] = &Node{Step: step}
		g.order = append(g.order, step.ID)
	}
	for i := 0; i < len(steps)-1; i++ {
		g.next[steps[i].ID] = steps[i+1].ID
	}
	g.next[steps[len(steps)-1].ID] = Terminal
	return g, nil
}
