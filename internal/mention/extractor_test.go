package mention

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zheng/aurora/internal/graph"
)

func buildGraph(qnames ...string) *graph.Graph {
	var nodes []*graph.Node
	for _, q := range qnames {
		nodes = append(nodes, &graph.Node{
			ID:            graph.NodeID(q, graph.NodeKindFunction),
			Kind:          graph.NodeKindFunction,
			Name:          lastSegment(q),
			QualifiedName: q,
		})
	}
	return graph.New(nodes, nil)
}

func lastSegment(q string) string {
	for i := len(q) - 1; i >= 0; i-- {
		if q[i] == '.' {
			return q[i+1:]
		}
	}
	return q
}

func TestExtractByQualifiedName(t *testing.T) {
	g := buildGraph("auth.login", "auth.logout")

	ids := Extract(g, "what breaks if auth.login changes?")
	assert.Equal(t, []string{graph.NodeID("auth.login", graph.NodeKindFunction)}, ids)
}

func TestExtractByShortName(t *testing.T) {
	g := buildGraph("auth.login", "billing.charge")

	ids := Extract(g, "does charge depend on anything risky?")
	assert.Equal(t, []string{graph.NodeID("billing.charge", graph.NodeKindFunction)}, ids)
}

func TestExtractIgnoresPartialWords(t *testing.T) {
	g := buildGraph("auth.log")

	// "login" contains "log" but is a different word.
	ids := Extract(g, "check the login flow")
	assert.Empty(t, ids)
}

func TestExtractSkipsExternalStubs(t *testing.T) {
	stub := &graph.Node{
		ID:            graph.NodeID("os.path", graph.NodeKindExternal),
		Kind:          graph.NodeKindExternal,
		Name:          "path",
		QualifiedName: "os.path",
	}
	g := graph.New([]*graph.Node{stub}, nil)

	assert.Empty(t, Extract(g, "os.path handling"))
}

func TestExtractSortedAndDeduplicated(t *testing.T) {
	g := buildGraph("b.two", "a.one")

	ids := Extract(g, "a.one calls two, and a.one again")
	assert.Equal(t, []string{
		graph.NodeID("a.one", graph.NodeKindFunction),
		graph.NodeID("b.two", graph.NodeKindFunction),
	}, ids)
}

func TestExtractEmptyText(t *testing.T) {
	g := buildGraph("a.one")
	assert.Empty(t, Extract(g, ""))
}
