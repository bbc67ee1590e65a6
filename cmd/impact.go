package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zheng/aurora/internal/impact"
)

func impactCmd() *cobra.Command {
	var asJSON bool
	var asMarkdown bool
	var maxDepth int
	var fanInThreshold int
	var conversationID string

	cmd := &cobra.Command{
		Use:   "impact [entity-name...]",
		Short: "Show what is affected if the given entities change",
		Long: `Walks the reverse dependency edges (calls, imports) from the given
entities and classifies every affected entity as high, medium or low
criticality. Roots may be given by name, or extracted from a stored
conversation with --conversation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph()
			if err != nil {
				return err
			}

			var roots []string
			if conversationID != "" {
				roots, err = conversationRoots(g, conversationID)
			} else {
				roots, err = resolveRoots(g, args)
			}
			if err != nil {
				return err
			}

			opts := impact.Options{
				MaxDepth:       cfg.Impact.MaxDepth,
				FanInThreshold: cfg.Impact.FanInThreshold,
			}
			if maxDepth > 0 {
				opts.MaxDepth = maxDepth
			}
			if fanInThreshold > 0 {
				opts.FanInThreshold = fanInThreshold
			}

			rep := impact.NewAnalyzer(g, opts).Analyze(roots)
			switch {
			case asJSON:
				return outputJSON(rep)
			case asMarkdown:
				fmt.Print(rep.FormatMarkdown())
			default:
				fmt.Print(rep.FormatTree())
				fmt.Printf("\n%s\n", rep.Summary())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	cmd.Flags().BoolVar(&asMarkdown, "markdown", false, "output as markdown")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "traversal depth bound (0 = unbounded)")
	cmd.Flags().IntVar(&fanInThreshold, "fan-in-threshold", 0, "fan-in threshold for high criticality")
	cmd.Flags().StringVar(&conversationID, "conversation", "", "derive roots from a stored conversation")
	return cmd
}
