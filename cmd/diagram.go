package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zheng/aurora/internal/export"
	"github.com/zheng/aurora/internal/graph"
	"github.com/zheng/aurora/internal/impact"
)

func diagramCmd() *cobra.Command {
	var maxNodes int
	var outPath string
	var conversationID string

	cmd := &cobra.Command{
		Use:   "diagram [entity-name...]",
		Short: "Render a dependency diagram as Mermaid",
		Long: `Renders a subgraph as a Mermaid flowchart. With entity names or a
conversation, the subgraph is the impact of those roots; without, the
whole graph. Output is deterministic: the same subgraph always renders
byte-identically.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph()
			if err != nil {
				return err
			}

			var roots []string
			if conversationID != "" {
				roots, err = conversationRoots(g, conversationID)
			} else if len(args) > 0 {
				roots, err = resolveRoots(g, args)
			}
			if err != nil {
				return err
			}

			sg := buildSubgraph(g, roots)
			opts := export.Options{MaxNodes: cfg.Diagram.MaxNodes}
			if maxNodes > 0 {
				opts.MaxNodes = maxNodes
			}
			doc := export.NewExporter(opts).Render(sg)

			if outPath != "" {
				if err := os.WriteFile(outPath, []byte(doc), 0o644); err != nil {
					return fmt.Errorf("write diagram: %w", err)
				}
				fmt.Printf("Diagram written to %s\n", outPath)
				return nil
			}
			fmt.Print(doc)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxNodes, "cap", 0, "maximum nodes in the diagram")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the diagram to a file")
	cmd.Flags().StringVar(&conversationID, "conversation", "", "derive roots from a stored conversation")
	return cmd
}

// buildSubgraph selects the nodes and edges to draw. With roots, that is
// the impact result plus the roots themselves, ranked for truncation by
// criticality; without roots, the entire graph ranked uniformly.
func buildSubgraph(g *graph.Graph, roots []string) export.Subgraph {
	if len(roots) == 0 {
		return export.Subgraph{Nodes: g.Nodes(), Edges: g.Edges()}
	}

	rep := impact.NewAnalyzer(g, impact.Options{
		MaxDepth:       cfg.Impact.MaxDepth,
		FanInThreshold: cfg.Impact.FanInThreshold,
	}).Analyze(roots)

	sg := export.Subgraph{
		Highlight: make(map[string]bool),
		Rank:      make(map[string]int),
	}
	keep := make(map[string]bool)
	for _, n := range rep.Roots {
		sg.Nodes = append(sg.Nodes, n)
		sg.Highlight[n.ID] = true
		sg.Rank[n.ID] = -1 // roots survive truncation first
		keep[n.ID] = true
	}
	for _, e := range rep.Entries {
		sg.Nodes = append(sg.Nodes, e.Node)
		sg.Rank[e.Node.ID] = e.Criticality.Rank()
		keep[e.Node.ID] = true
	}
	for _, ed := range g.Edges() {
		if keep[ed.SourceID] && keep[ed.TargetID] {
			sg.Edges = append(sg.Edges, ed)
		}
	}
	return sg
}
