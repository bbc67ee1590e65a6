package graph

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNoValidSource is returned by Build when zero files across the entire
// input set parsed successfully.
var ErrNoValidSource = errors.New("no source file parsed successfully")

// StubPolicy decides what happens to a mention that resolves to nothing.
type StubPolicy string

const (
	// StubPolicyStub keeps the edge, pointing it at a synthetic external
	// node, preserving traceability of unresolved references.
	StubPolicyStub StubPolicy = "stub"
	// StubPolicyDrop discards the edge entirely.
	StubPolicyDrop StubPolicy = "drop"
)

// Builder merges per-file parse results into a single Graph, resolving raw
// mentions into concrete edges. Resolution requires the complete set of
// known qualified names, so all files must be added before Build is called.
// A Builder is single-use and not safe for concurrent use; resolution order
// is deterministic and must stay sequential.
type Builder struct {
	policy  StubPolicy
	results []*FileResult
	diags   Diagnostics
}

// NewBuilder creates a Builder with the given unresolved-mention policy.
func NewBuilder(policy StubPolicy) *Builder {
	if policy != StubPolicyDrop {
		policy = StubPolicyStub
	}
	return &Builder{policy: policy}
}

// AddFile records the parse result of one file.
func (b *Builder) AddFile(r *FileResult) {
	b.results = append(b.results, r)
}

// AddParseError records a file that failed to parse. The file contributes
// nothing to the graph; the error is surfaced in the build diagnostics.
func (b *Builder) AddParseError(file, message string) {
	b.diags.ParseErrors = append(b.diags.ParseErrors, ParseError{File: file, Message: message})
}

// Build produces the final Graph together with the aggregated diagnostics.
// It fails only when not a single file parsed successfully.
func (b *Builder) Build() (*Graph, *Diagnostics, error) {
	if len(b.results) == 0 {
		return nil, &b.diags, fmt.Errorf("%w: %d files failed to parse", ErrNoValidSource, len(b.diags.ParseErrors))
	}

	// Deterministic merge order regardless of parse scheduling.
	sort.Slice(b.results, func(i, j int) bool { return b.results[i].Path < b.results[j].Path })

	nodes, byQualified := b.mergeEntities()

	var edges []Edge
	edges = append(edges, b.definesEdges(nodes, byQualified)...)

	stubs := make(map[string]*Node)
	for _, r := range b.results {
		for _, m := range r.Mentions {
			if e, ok := b.resolveMention(m, byQualified, stubs); ok {
				edges = append(edges, e)
			}
		}
	}

	all := make([]*Node, 0, len(nodes)+len(stubs))
	all = append(all, nodes...)
	for _, s := range stubs {
		all = append(all, s)
	}

	return New(all, dedupeEdges(edges)), &b.diags, nil
}

// mergeEntities collapses entities sharing identical qualified name and kind
// across files into a single node. The first occurrence in path order wins
// for location metadata; ids are derived from qualified name, so the merge
// is deterministic.
func (b *Builder) mergeEntities() ([]*Node, map[string][]*Node) {
	var nodes []*Node
	seen := make(map[string]*Node)
	byQualified := make(map[string][]*Node)
	for _, r := range b.results {
		for _, ent := range r.Entities {
			id := NodeID(ent.QualifiedName, ent.Kind)
			if _, ok := seen[id]; ok {
				continue
			}
			n := &Node{
				ID:            id,
				Kind:          ent.Kind,
				Name:          ent.Name,
				QualifiedName: ent.QualifiedName,
				File:          ent.File,
				LineStart:     ent.LineStart,
				LineEnd:       ent.LineEnd,
			}
			seen[id] = n
			nodes = append(nodes, n)
			byQualified[ent.QualifiedName] = append(byQualified[ent.QualifiedName], n)
		}
	}
	return nodes, byQualified
}

// definesEdges synthesizes containment edges from entity nesting: a module
// defines its top-level classes and functions, a class defines its methods.
func (b *Builder) definesEdges(nodes []*Node, byQualified map[string][]*Node) []Edge {
	parents := make(map[string]string) // entity qualified name -> parent qualified name
	for _, r := range b.results {
		for _, ent := range r.Entities {
			if ent.Parent != "" {
				parents[ent.QualifiedName] = ent.Parent
			}
		}
	}
	var edges []Edge
	for _, n := range nodes {
		parentName, ok := parents[n.QualifiedName]
		if !ok {
			continue
		}
		parent := pickByKind(byQualified[parentName], NodeKindClass, NodeKindModule)
		if parent == nil || parent.ID == n.ID {
			continue
		}
		edges = append(edges, Edge{SourceID: parent.ID, TargetID: n.ID, Kind: EdgeKindDefines})
	}
	return edges
}

// resolveMention applies the resolution priority order: exact qualified-name
// match, then same-module match, then unique dotted-suffix match. Ambiguous
// suffix matches are never guessed; they are treated as unresolved.
func (b *Builder) resolveMention(m Mention, byQualified map[string][]*Node, stubs map[string]*Node) (Edge, bool) {
	source := pickByKind(byQualified[m.Source], NodeKindFunction, NodeKindClass, NodeKindModule)
	if source == nil {
		return Edge{}, false
	}
	prefs := kindPreference(m.Kind)

	// 1. Exact qualified-name match.
	if target := pickByKind(byQualified[m.Target], prefs...); target != nil {
		return Edge{SourceID: source.ID, TargetID: target.ID, Kind: m.Kind}, true
	}

	// 2. Match within the mentioning file's module scope.
	if m.Module != "" {
		scoped := m.Module + "." + m.Target
		if target := pickByKind(byQualified[scoped], prefs...); target != nil {
			return Edge{SourceID: source.ID, TargetID: target.ID, Kind: m.Kind}, true
		}
	}

	// 3. Heuristic suffix match, only when unique.
	suffix := "." + m.Target
	var matches []*Node
	for qname, candidates := range byQualified {
		if strings.HasSuffix(qname, suffix) {
			if target := pickByKind(candidates, prefs...); target != nil {
				matches = append(matches, target)
			}
		}
	}
	if len(matches) == 1 {
		return Edge{SourceID: source.ID, TargetID: matches[0].ID, Kind: m.Kind}, true
	}

	// 4. Unresolved: stub or drop, per policy.
	reason := "no matching entity"
	if len(matches) > 1 {
		reason = fmt.Sprintf("ambiguous suffix match (%d candidates)", len(matches))
	}
	b.diags.Unresolved = append(b.diags.Unresolved, UnresolvedReference{
		Source: m.Source,
		Target: m.Target,
		Kind:   m.Kind,
		Reason: reason,
	})
	if b.policy == StubPolicyDrop {
		return Edge{}, false
	}
	stub, ok := stubs[m.Target]
	if !ok {
		stub = &Node{
			ID:            NodeID(m.Target, NodeKindExternal),
			Kind:          NodeKindExternal,
			Name:          lastSegment(m.Target),
			QualifiedName: m.Target,
		}
		stubs[m.Target] = stub
	}
	return Edge{SourceID: source.ID, TargetID: stub.ID, Kind: m.Kind}, true
}

// kindPreference orders candidate kinds when entities of different kinds
// share a qualified name: imports favor modules, inheritance favors classes,
// calls favor functions.
func kindPreference(kind EdgeKind) []NodeKind {
	switch kind {
	case EdgeKindImports:
		return []NodeKind{NodeKindModule, NodeKindClass, NodeKindFunction}
	case EdgeKindInherits:
		return []NodeKind{NodeKindClass, NodeKindFunction, NodeKindModule}
	default:
		return []NodeKind{NodeKindFunction, NodeKindClass, NodeKindModule}
	}
}

// pickByKind returns the candidate whose kind appears earliest in the
// preference list, falling back to the first candidate.
func pickByKind(candidates []*Node, prefs ...NodeKind) *Node {
	if len(candidates) == 0 {
		return nil
	}
	for _, k := range prefs {
		for _, c := range candidates {
			if c.Kind == k {
				return c
			}
		}
	}
	return candidates[0]
}

func dedupeEdges(edges []Edge) []Edge {
	seen := make(map[Edge]struct{}, len(edges))
	out := edges[:0]
	for _, e := range edges {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}

func lastSegment(name string) string {
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name[idx+1:]
	}
	return name
}
