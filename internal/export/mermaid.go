// Package export renders a bounded subgraph as a Mermaid diagram
// description. Output for the same subgraph is byte-identical across runs:
// everything is sorted, and truncation is by documented priority.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zheng/aurora/internal/graph"
)

// Options configure diagram generation.
type Options struct {
	// MaxNodes caps the diagram size; a subgraph exceeding the cap keeps the
	// highest-priority nodes and appends a single "+N more" marker.
	// 0 means no cap. Default 40.
	MaxNodes int
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{MaxNodes: 40}
}

// Subgraph is the input to rendering: a node and edge subset, typically the
// impact analyzer's output plus the root nodes.
type Subgraph struct {
	Nodes []*graph.Node
	Edges []graph.Edge
	// Highlight marks node ids drawn with emphasis (the root set).
	Highlight map[string]bool
	// Rank orders nodes for truncation, lower first (roots, then by
	// criticality). Nodes without a rank sort last.
	Rank map[string]int
}

// Exporter renders subgraphs as Mermaid flowcharts.
type Exporter struct {
	opts Options
}

// NewExporter creates an exporter with the given options.
func NewExporter(opts Options) *Exporter {
	if opts.MaxNodes < 0 {
		opts.MaxNodes = 0
	}
	return &Exporter{opts: opts}
}

// Render produces the Mermaid document. Node order is by qualified name;
// edge order is by source qualified name, then kind, then target qualified
// name. Truncation keeps nodes by priority rank, then qualified name, and
// the policy is stated in an output comment.
func (e *Exporter) Render(sg Subgraph) string {
	nodes := make([]*graph.Node, len(sg.Nodes))
	copy(nodes, sg.Nodes)

	truncated := 0
	if e.opts.MaxNodes > 0 && len(nodes) > e.opts.MaxNodes {
		sort.Slice(nodes, func(i, j int) bool {
			ri, rj := e.rank(sg, nodes[i].ID), e.rank(sg, nodes[j].ID)
			if ri != rj {
				return ri < rj
			}
			return nodes[i].QualifiedName < nodes[j].QualifiedName
		})
		truncated = len(nodes) - e.opts.MaxNodes
		nodes = nodes[:e.opts.MaxNodes]
	}

	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].QualifiedName < nodes[j].QualifiedName
	})

	kept := make(map[string]*graph.Node, len(nodes))
	for _, n := range nodes {
		kept[n.ID] = n
	}

	edges := make([]graph.Edge, 0, len(sg.Edges))
	for _, ed := range sg.Edges {
		if kept[ed.SourceID] != nil && kept[ed.TargetID] != nil {
			edges = append(edges, ed)
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if a, b := kept[edges[i].SourceID].QualifiedName, kept[edges[j].SourceID].QualifiedName; a != b {
			return a < b
		}
		if edges[i].Kind != edges[j].Kind {
			return edges[i].Kind < edges[j].Kind
		}
		return kept[edges[i].TargetID].QualifiedName < kept[edges[j].TargetID].QualifiedName
	})

	ids := safeIDs(nodes)

	var sb strings.Builder
	sb.WriteString("graph TD;\n")
	if truncated > 0 {
		fmt.Fprintf(&sb, "%%%% showing %d of %d nodes; kept by criticality, then qualified name\n",
			len(nodes), len(nodes)+truncated)
	}
	for _, n := range nodes {
		label := escapeLabel(n.QualifiedName)
		if sg.Highlight[n.ID] {
			fmt.Fprintf(&sb, "  %s[\"`%s`\"];\n", ids[n.ID], label)
			fmt.Fprintf(&sb, "  style %s fill:#0b5394,stroke:#fff,stroke-width:2px,color:#fff;\n", ids[n.ID])
		} else {
			fmt.Fprintf(&sb, "  %s[\"%s\"];\n", ids[n.ID], label)
		}
	}
	if truncated > 0 {
		fmt.Fprintf(&sb, "  aurora_truncated[\"+%d more\"];\n", truncated)
	}
	for _, ed := range edges {
		fmt.Fprintf(&sb, "  %s -->|%s| %s;\n", ids[ed.SourceID], ed.Kind, ids[ed.TargetID])
	}
	return sb.String()
}

func (e *Exporter) rank(sg Subgraph, id string) int {
	if r, ok := sg.Rank[id]; ok {
		return r
	}
	return int(^uint(0) >> 1) // unranked nodes truncate first
}

// safeIDs sanitizes qualified names into Mermaid identifiers, disambiguating
// collisions with the stable node id.
func safeIDs(nodes []*graph.Node) map[string]string {
	used := make(map[string]string, len(nodes)) // safe id -> node id
	out := make(map[string]string, len(nodes))
	for _, n := range nodes {
		safe := sanitize(n.QualifiedName)
		if owner, taken := used[safe]; taken && owner != n.ID {
			safe = safe + "_" + n.ID[:8]
		}
		used[safe] = n.ID
		out[n.ID] = safe
	}
	return out
}

func sanitize(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

func escapeLabel(label string) string {
	label = strings.ReplaceAll(label, "\"", "#quot;")
	return strings.ReplaceAll(label, "`", "'")
}
