package graph

// EdgeKind represents the type of relationship between nodes
type EdgeKind string

const (
	EdgeKindImports  EdgeKind = "imports"
	EdgeKindCalls    EdgeKind = "calls"
	EdgeKindDefines  EdgeKind = "defines"
	EdgeKindInherits EdgeKind = "inherits"
)

// Edge represents a directed relationship between two nodes
type Edge struct {
	SourceID string   `json:"source"`
	TargetID string   `json:"target"`
	Kind     EdgeKind `json:"kind"`
}

// Dependency reports whether impact traversal follows edges of this kind.
func (k EdgeKind) Dependency() bool {
	return k == EdgeKindCalls || k == EdgeKindImports
}
