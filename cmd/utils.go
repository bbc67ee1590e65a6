package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/zheng/aurora/internal/graph"
	"github.com/zheng/aurora/internal/mention"
	"github.com/zheng/aurora/internal/storage"
)

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func loadGraph() (*graph.Graph, error) {
	g, err := storage.LoadGraph(cfg.Paths.Graph)
	if err != nil {
		return nil, fmt.Errorf("load graph snapshot %s (run `aurora analyze` first): %w", cfg.Paths.Graph, err)
	}
	return g, nil
}

// resolveRoots turns entity names from the command line into node ids.
// Ambiguous names fail loudly with the candidate list instead of guessing.
func resolveRoots(g *graph.Graph, names []string) ([]string, error) {
	var ids []string
	for _, name := range names {
		matches := g.FindByName(name)
		if len(matches) == 0 {
			return nil, fmt.Errorf("entity not found: %s", name)
		}
		if len(matches) > 1 {
			var qnames []string
			for _, m := range matches {
				qnames = append(qnames, m.QualifiedName)
			}
			return nil, fmt.Errorf("ambiguous entity name %s, found %d matches: %s",
				name, len(matches), strings.Join(qnames, ", "))
		}
		ids = append(ids, matches[0].ID)
	}
	return ids, nil
}

// conversationRoots extracts the root set from a stored conversation's text.
func conversationRoots(g *graph.Graph, conversationID string) ([]string, error) {
	h, err := storage.OpenHistory(cfg.Paths.History)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	items, err := h.Load(conversationID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("conversation not found: %s", conversationID)
	}
	var sb strings.Builder
	for _, it := range items {
		sb.WriteString(it.Query)
		sb.WriteString(it.Response)
	}
	return mention.Extract(g, sb.String()), nil
}
