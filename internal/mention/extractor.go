// Package mention extracts the entity identifiers a conversation talks
// about, for use as the impact analyzer's root set. Matching is purely
// textual against qualified and short names; this is the conversational
// collaborator boundary, nothing flows back the other way.
package mention

import (
	"regexp"
	"sort"
	"strings"

	"github.com/zheng/aurora/internal/graph"
)

var wordRe = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_.]*`)

// Extract returns the ids of graph nodes mentioned in the text, sorted by
// qualified name. A node matches when its qualified name appears as a
// substring, or its short name appears as a standalone word. External stubs
// are never extracted as roots.
func Extract(g *graph.Graph, text string) []string {
	words := make(map[string]bool)
	for _, w := range wordRe.FindAllString(text, -1) {
		words[w] = true
		// Attribute chains also mention their trailing segments.
		for {
			idx := strings.Index(w, ".")
			if idx < 0 {
				break
			}
			w = w[idx+1:]
			words[w] = true
		}
	}

	var matched []*graph.Node
	for _, n := range g.Nodes() {
		if n.External() {
			continue
		}
		if strings.Contains(text, n.QualifiedName) || words[n.Name] {
			matched = append(matched, n)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].QualifiedName < matched[j].QualifiedName
	})
	ids := make([]string, len(matched))
	for i, n := range matched {
		ids[i] = n.ID
	}
	return ids
}
