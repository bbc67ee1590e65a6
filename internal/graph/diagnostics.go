package graph

import "fmt"

// ParseError records a file that failed to parse. It is non-fatal: the file
// contributes zero entities and the build continues with the remaining files.
type ParseError struct {
	File    string `json:"file"`
	Message string `json:"message"`
}

func (e ParseError) String() string {
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

// UnresolvedReference records a mention that could not be matched to any
// known entity, either because nothing matched or because a suffix match
// was ambiguous.
type UnresolvedReference struct {
	Source string   `json:"source"` // qualified name of the mentioning entity
	Target string   `json:"target"`
	Kind   EdgeKind `json:"kind"`
	Reason string   `json:"reason"`
}

func (u UnresolvedReference) String() string {
	return fmt.Sprintf("%s -> %s (%s): %s", u.Source, u.Target, u.Kind, u.Reason)
}

// Diagnostics aggregates the non-fatal problems of one build. A build always
// returns either a usable graph plus diagnostics, or a single fatal error.
type Diagnostics struct {
	ParseErrors []ParseError          `json:"parse_errors,omitempty"`
	Unresolved  []UnresolvedReference `json:"unresolved,omitempty"`
}

// Empty reports whether the build produced no diagnostics at all.
func (d *Diagnostics) Empty() bool {
	return len(d.ParseErrors) == 0 && len(d.Unresolved) == 0
}

// Summary returns a one-line count of the recorded diagnostics.
func (d *Diagnostics) Summary() string {
	return fmt.Sprintf("%d parse errors, %d unresolved references",
		len(d.ParseErrors), len(d.Unresolved))
}
