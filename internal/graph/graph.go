package graph

import (
	"sort"
)

// Graph is the immutable result of one build: all nodes, all edges, plus
// forward and reverse adjacency indexes. It is constructed wholesale by a
// Builder (or loaded from a snapshot) and never mutated afterwards, so
// concurrent readers need no locking.
type Graph struct {
	nodes map[string]*Node
	edges []Edge
	out   map[string][]Edge // keyed by source id
	in    map[string][]Edge // keyed by target id
}

// New assembles a Graph from a node list and an edge list and builds both
// adjacency indexes. Nodes and edges are stored in deterministic order:
// nodes by qualified name then kind, edges by source qualified name, kind,
// target qualified name.
func New(nodes []*Node, edges []Edge) *Graph {
	g := &Graph{
		nodes: make(map[string]*Node, len(nodes)),
		out:   make(map[string][]Edge),
		in:    make(map[string][]Edge),
	}
	for _, n := range nodes {
		g.nodes[n.ID] = n
	}
	g.edges = make([]Edge, len(edges))
	copy(g.edges, edges)
	g.sortEdges(g.edges)
	for _, e := range g.edges {
		g.out[e.SourceID] = append(g.out[e.SourceID], e)
		g.in[e.TargetID] = append(g.in[e.TargetID], e)
	}
	return g
}

func (g *Graph) sortEdges(edges []Edge) {
	key := func(id string) string {
		if n, ok := g.nodes[id]; ok {
			return n.QualifiedName
		}
		return id
	}
	sort.Slice(edges, func(i, j int) bool {
		if a, b := key(edges[i].SourceID), key(edges[j].SourceID); a != b {
			return a < b
		}
		if edges[i].Kind != edges[j].Kind {
			return edges[i].Kind < edges[j].Kind
		}
		return key(edges[i].TargetID) < key(edges[j].TargetID)
	})
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes sorted by qualified name then kind.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].QualifiedName != nodes[j].QualifiedName {
			return nodes[i].QualifiedName < nodes[j].QualifiedName
		}
		return nodes[i].Kind < nodes[j].Kind
	})
	return nodes
}

// Edges returns all edges in deterministic order.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, len(g.edges))
	copy(edges, g.edges)
	return edges
}

// Out returns the edges originating at the given node ("who does X depend on").
func (g *Graph) Out(id string) []Edge {
	return g.out[id]
}

// In returns the edges pointing at the given node ("who depends on X").
func (g *Graph) In(id string) []Edge {
	return g.in[id]
}

// FanIn returns the count of distinct nodes with a dependency edge
// (calls or imports) pointing at the given node.
func (g *Graph) FanIn(id string) int {
	seen := make(map[string]struct{})
	for _, e := range g.in[id] {
		if e.Kind.Dependency() {
			seen[e.SourceID] = struct{}{}
		}
	}
	return len(seen)
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// FindByName returns all nodes whose qualified name or short name equals
// the given name. Results are sorted by qualified name.
func (g *Graph) FindByName(name string) []*Node {
	var matches []*Node
	for _, n := range g.nodes {
		if n.QualifiedName == name || n.Name == name {
			matches = append(matches, n)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].QualifiedName < matches[j].QualifiedName
	})
	return matches
}
