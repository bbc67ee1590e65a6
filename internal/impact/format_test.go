package impact

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zheng/aurora/internal/graph"
)

func sampleReport() *Report {
	root := &graph.Node{
		ID: graph.NodeID("auth.login", graph.NodeKindFunction), Kind: graph.NodeKindFunction,
		Name: "login", QualifiedName: "auth.login", File: "auth.py", LineStart: 10,
	}
	dep := &graph.Node{
		ID: graph.NodeID("web.view", graph.NodeKindFunction), Kind: graph.NodeKindFunction,
		Name: "view", QualifiedName: "web.view", File: "web.py", LineStart: 4,
	}
	far := &graph.Node{
		ID: graph.NodeID("jobs.sync", graph.NodeKindFunction), Kind: graph.NodeKindFunction,
		Name: "sync", QualifiedName: "jobs.sync", File: "jobs.py", LineStart: 30,
	}
	return &Report{
		Roots: []*graph.Node{root},
		Entries: []Entry{
			{Node: dep, Depth: 1, FanIn: 4, Criticality: CriticalityHigh,
				Justification: "direct dependent of a root entity; fan-in 4 meets threshold 3"},
			{Node: far, Depth: 3, FanIn: 1, Criticality: CriticalityLow,
				Justification: "transitive dependent at depth 3; fan-in 1 below threshold 3"},
		},
	}
}

func TestFormatMarkdown(t *testing.T) {
	out := sampleReport().FormatMarkdown()

	assert.Contains(t, out, "- `auth.login` (auth.py:10)")
	assert.Contains(t, out, "| `web.view` | 1 | high |")
	assert.Contains(t, out, "| `jobs.sync` | 3 | low |")
}

func TestFormatMarkdownEmptyImpact(t *testing.T) {
	r := &Report{Roots: sampleReport().Roots}
	assert.Contains(t, r.FormatMarkdown(), "_No entities depend on the root set._")
}

func TestFormatTreeGroupsByCriticality(t *testing.T) {
	out := sampleReport().FormatTree()

	// High before low, last line closed with the terminal branch.
	assert.Less(t, strings.Index(out, "web.view"), strings.Index(out, "jobs.sync"))
	assert.Contains(t, out, "└── 🟢")
	assert.Contains(t, out, "Dependents (2)")
}

func TestFormatTreeNoRoots(t *testing.T) {
	out := (&Report{}).FormatTree()
	assert.Contains(t, out, "└── (none)")
}

func TestSummaryCounts(t *testing.T) {
	assert.Equal(t, "roots: 1, affected: 2 (high: 1, medium: 0, low: 1)", sampleReport().Summary())
}
