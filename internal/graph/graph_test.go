package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGraph(t *testing.T) *Graph {
	t.Helper()
	nodes := []*Node{
		{ID: NodeID("app", NodeKindModule), Kind: NodeKindModule, Name: "app", QualifiedName: "app"},
		{ID: NodeID("app.run", NodeKindFunction), Kind: NodeKindFunction, Name: "run", QualifiedName: "app.run"},
		{ID: NodeID("util.helper", NodeKindFunction), Kind: NodeKindFunction, Name: "helper", QualifiedName: "util.helper"},
		{ID: NodeID("web.view", NodeKindFunction), Kind: NodeKindFunction, Name: "view", QualifiedName: "web.view"},
	}
	edges := []Edge{
		{SourceID: nodes[0].ID, TargetID: nodes[1].ID, Kind: EdgeKindDefines},
		{SourceID: nodes[1].ID, TargetID: nodes[2].ID, Kind: EdgeKindCalls},
		{SourceID: nodes[3].ID, TargetID: nodes[2].ID, Kind: EdgeKindCalls},
		{SourceID: nodes[0].ID, TargetID: nodes[2].ID, Kind: EdgeKindImports},
	}
	return New(nodes, edges)
}

func TestGraphIndexes(t *testing.T) {
	g := testGraph(t)

	helper := NodeID("util.helper", NodeKindFunction)
	run := NodeID("app.run", NodeKindFunction)

	assert.Len(t, g.In(helper), 3)
	assert.Len(t, g.Out(run), 1)
	assert.Equal(t, 4, g.NodeCount())
	assert.Equal(t, 4, g.EdgeCount())
}

func TestGraphFanInCountsDistinctDependents(t *testing.T) {
	g := testGraph(t)

	// Three incoming edges on util.helper, all from distinct sources and all
	// of dependency kinds, so fan-in is 3; the defines edge onto app.run does
	// not count toward its fan-in.
	assert.Equal(t, 3, g.FanIn(NodeID("util.helper", NodeKindFunction)))
	assert.Equal(t, 0, g.FanIn(NodeID("app.run", NodeKindFunction)))
}

func TestGraphNodesSortedByQualifiedName(t *testing.T) {
	g := testGraph(t)

	var prev string
	for _, n := range g.Nodes() {
		require.GreaterOrEqual(t, n.QualifiedName, prev)
		prev = n.QualifiedName
	}
}

func TestGraphFindByName(t *testing.T) {
	g := testGraph(t)

	byShort := g.FindByName("helper")
	require.Len(t, byShort, 1)
	assert.Equal(t, "util.helper", byShort[0].QualifiedName)

	byQualified := g.FindByName("app.run")
	require.Len(t, byQualified, 1)

	assert.Empty(t, g.FindByName("nope"))
}

func TestNodeIDStableAndKindScoped(t *testing.T) {
	a := NodeID("app.run", NodeKindFunction)
	b := NodeID("app.run", NodeKindFunction)
	c := NodeID("app.run", NodeKindClass)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 16)
}
