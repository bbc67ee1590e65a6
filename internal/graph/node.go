package graph

import (
	"crypto/sha256"
	"encoding/hex"
)

// NodeKind represents the type of a code entity
type NodeKind string

const (
	NodeKindModule   NodeKind = "module"
	NodeKindClass    NodeKind = "class"
	NodeKindFunction NodeKind = "function"

	// NodeKindExternal marks a synthetic stub standing in for a name that
	// could not be resolved to any entity in the analyzed file set.
	NodeKindExternal NodeKind = "external"
)

// Node represents a code entity in the dependency graph
type Node struct {
	ID            string   `json:"id"`
	Kind          NodeKind `json:"kind"`
	Name          string   `json:"name"`           // short name (last dotted segment)
	QualifiedName string   `json:"qualified_name"` // dotted path, unique within the analyzed set
	File          string   `json:"file"`           // source file path, empty for external stubs
	LineStart     int      `json:"line_start"`
	LineEnd       int      `json:"line_end"`
}

// NodeID derives the stable identifier for an entity. It is a pure function
// of qualified name and kind, so re-parsing unchanged code yields identical
// ids across builds.
func NodeID(qualifiedName string, kind NodeKind) string {
	sum := sha256.Sum256([]byte(string(kind) + ":" + qualifiedName))
	return hex.EncodeToString(sum[:])[:16]
}

// External reports whether the node is an unresolved stub.
func (n *Node) External() bool {
	return n.Kind == NodeKindExternal
}
