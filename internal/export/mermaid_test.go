package export

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zheng/aurora/internal/graph"
)

func fnNode(qname string) *graph.Node {
	return &graph.Node{
		ID:            graph.NodeID(qname, graph.NodeKindFunction),
		Kind:          graph.NodeKindFunction,
		Name:          qname,
		QualifiedName: qname,
	}
}

func TestRenderDeterministic(t *testing.T) {
	a, b, c := fnNode("pkg.a"), fnNode("pkg.b"), fnNode("pkg.c")
	sg := Subgraph{
		Nodes: []*graph.Node{c, a, b},
		Edges: []graph.Edge{
			{SourceID: b.ID, TargetID: a.ID, Kind: graph.EdgeKindCalls},
			{SourceID: c.ID, TargetID: a.ID, Kind: graph.EdgeKindCalls},
		},
		Highlight: map[string]bool{a.ID: true},
	}

	e := NewExporter(DefaultOptions())
	first := e.Render(sg)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, e.Render(sg))
	}
}

func TestRenderBasicShape(t *testing.T) {
	a, b := fnNode("pkg.a"), fnNode("pkg.b")
	sg := Subgraph{
		Nodes:     []*graph.Node{a, b},
		Edges:     []graph.Edge{{SourceID: b.ID, TargetID: a.ID, Kind: graph.EdgeKindCalls}},
		Highlight: map[string]bool{a.ID: true},
	}

	out := NewExporter(DefaultOptions()).Render(sg)

	assert.True(t, strings.HasPrefix(out, "graph TD;\n"))
	assert.Contains(t, out, `pkg_b["pkg.b"];`)
	assert.Contains(t, out, "pkg_b -->|calls| pkg_a;")
	// The highlighted root carries a style line.
	assert.Contains(t, out, "style pkg_a fill:")
	assert.NotContains(t, out, "+0 more")
}

func TestRenderCapsNodesAndMarksOverflow(t *testing.T) {
	var nodes []*graph.Node
	rank := make(map[string]int)
	for i := 0; i < 50; i++ {
		n := fnNode(fmt.Sprintf("pkg.f%02d", i))
		nodes = append(nodes, n)
		rank[n.ID] = i
	}
	sg := Subgraph{Nodes: nodes, Rank: rank}

	out := NewExporter(Options{MaxNodes: 20}).Render(sg)

	assert.Contains(t, out, `aurora_truncated["+30 more"];`)
	assert.Contains(t, out, "showing 20 of 50 nodes")
	// The lowest-ranked (highest-priority) nodes survive, the rest do not.
	assert.Contains(t, out, "pkg.f00")
	assert.Contains(t, out, "pkg.f19")
	assert.NotContains(t, out, "pkg.f20")
	assert.NotContains(t, out, "pkg.f49")
}

func TestRenderDropsEdgesToTruncatedNodes(t *testing.T) {
	a, b, c := fnNode("pkg.a"), fnNode("pkg.b"), fnNode("pkg.c")
	sg := Subgraph{
		Nodes: []*graph.Node{a, b, c},
		Edges: []graph.Edge{
			{SourceID: b.ID, TargetID: a.ID, Kind: graph.EdgeKindCalls},
			{SourceID: c.ID, TargetID: a.ID, Kind: graph.EdgeKindCalls},
		},
		Rank: map[string]int{a.ID: 0, b.ID: 1, c.ID: 2},
	}

	out := NewExporter(Options{MaxNodes: 2}).Render(sg)

	assert.Contains(t, out, "pkg_b -->|calls| pkg_a;")
	assert.NotContains(t, out, "pkg_c")
}

func TestRenderEscapesLabels(t *testing.T) {
	n := fnNode(`weird."name"`)
	out := NewExporter(DefaultOptions()).Render(Subgraph{Nodes: []*graph.Node{n}})

	assert.Contains(t, out, "#quot;name#quot;")
	assert.NotContains(t, out, `["weird.""`)
}

func TestRenderDisambiguatesSanitizedCollisions(t *testing.T) {
	// Both qualified names sanitize to pkg_a_b; the second in render order
	// gets a stable disambiguating suffix.
	n1 := fnNode("pkg.a-b")
	n2 := fnNode("pkg.a.b")
	out := NewExporter(DefaultOptions()).Render(Subgraph{Nodes: []*graph.Node{n1, n2}})

	require.Contains(t, out, "pkg_a_b[")
	assert.Contains(t, out, "pkg_a_b_"+n2.ID[:8]+"[")
}

func TestRenderZeroCapIsUnbounded(t *testing.T) {
	var nodes []*graph.Node
	for i := 0; i < 60; i++ {
		nodes = append(nodes, fnNode(fmt.Sprintf("pkg.f%02d", i)))
	}
	out := NewExporter(Options{MaxNodes: 0}).Render(Subgraph{Nodes: nodes})

	assert.NotContains(t, out, "more")
	assert.Contains(t, out, "pkg.f59")
}
