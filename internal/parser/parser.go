// Package parser turns source files into entities and unresolved relation
// mentions. Each supported language implements the Parser capability behind
// a uniform interface so that graph construction never needs to know which
// language a file was written in.
package parser

import (
	"context"
	"errors"
	"path"
	"sort"
	"strings"

	"github.com/zheng/aurora/internal/graph"
)

// ErrSyntax is returned when a file is malformed beyond recovery. The caller
// records it as a per-file diagnostic and continues with the remaining files.
var ErrSyntax = errors.New("syntax error")

// Parser extracts entities and raw relation mentions from one source file.
// Implementations must be safe for concurrent use: Parse is called from a
// worker pool with no shared mutable state.
type Parser interface {
	Parse(ctx context.Context, filePath string, content []byte) (*graph.FileResult, error)
	Language() string
	Extensions() []string
}

// Registry maps file extensions to language parsers.
type Registry struct {
	byExt map[string]Parser
}

// NewRegistry builds a registry from the given parsers. Later parsers win
// on extension conflicts.
func NewRegistry(parsers ...Parser) *Registry {
	r := &Registry{byExt: make(map[string]Parser)}
	for _, p := range parsers {
		for _, ext := range p.Extensions() {
			r.byExt[ext] = p
		}
	}
	return r
}

// DefaultRegistry returns a registry with all built-in language parsers.
func DefaultRegistry() *Registry {
	return NewRegistry(NewPythonParser(), NewGoParser())
}

// ForFile returns the parser responsible for the given file path.
func (r *Registry) ForFile(filePath string) (Parser, bool) {
	p, ok := r.byExt[strings.ToLower(path.Ext(filePath))]
	return p, ok
}

// Extensions returns every extension some registered parser claims, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// ModulePath converts a relative file path into the dotted qualified name of
// its module entity: "pkg/mod.py" becomes "pkg.mod", "pkg/__init__.py"
// becomes "pkg".
func ModulePath(filePath string) string {
	p := strings.ReplaceAll(filePath, "\\", "/")
	p = strings.TrimPrefix(p, "./")
	if ext := path.Ext(p); ext != "" {
		p = strings.TrimSuffix(p, ext)
	}
	p = strings.TrimSuffix(p, "/__init__")
	return strings.ReplaceAll(p, "/", ".")
}
