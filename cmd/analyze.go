package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/zheng/aurora/internal/analyzer"
	"github.com/zheng/aurora/internal/graph"
	"github.com/zheng/aurora/internal/parser"
	"github.com/zheng/aurora/internal/source"
)

func analyzeCmd() *cobra.Command {
	var stubPolicy string
	var concurrency int
	var timeoutSeconds int

	cmd := &cobra.Command{
		Use:   "analyze [project-path]",
		Short: "Build the dependency graph for a project",
		Long: `Parses every supported source file under the project path, resolves
references between entities, and persists the graph snapshot atomically.
Each run is a full rebuild; a failed run leaves the previous snapshot
intact.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectPath := "."
			if len(args) > 0 {
				projectPath = args[0]
			}
			if stubPolicy != "" {
				cfg.Build.StubPolicy = stubPolicy
			}
			if concurrency > 0 {
				cfg.Build.Concurrency = concurrency
			}
			if timeoutSeconds > 0 {
				cfg.Build.TimeoutSeconds = timeoutSeconds
			}

			pipeline, exts, err := buildPipeline(projectPath)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if cfg.Build.TimeoutSeconds > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.Build.TimeoutSeconds)*time.Second)
				defer cancel()
			}

			res, err := pipeline.Run(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("Analyzed %d files (%s): %d nodes, %d edges -> %s\n",
				res.FileCount, joinExts(exts), res.Graph.NodeCount(), res.Graph.EdgeCount(), cfg.Paths.Graph)
			printDiagnostics(res)
			return nil
		},
	}

	cmd.Flags().StringVar(&stubPolicy, "stub-policy", "", "unresolved reference policy: stub or drop")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "parse worker limit")
	cmd.Flags().IntVar(&timeoutSeconds, "timeout", 0, "build timeout in seconds")
	return cmd
}

// buildPipeline assembles the provider, the parser registry and the
// pipeline from the active configuration.
func buildPipeline(projectPath string) (*analyzer.Pipeline, []string, error) {
	registry := parser.DefaultRegistry()
	provider, err := source.NewProvider(projectPath, source.Options{
		Extensions:         registry.Extensions(),
		IgnoredDirectories: cfg.Ingestion.IgnoredDirectories,
		IgnoredFiles:       cfg.Ingestion.IgnoredFiles,
		UseGitignore:       cfg.Ingestion.UseGitignore,
	})
	if err != nil {
		return nil, nil, err
	}
	pipeline := analyzer.NewPipeline(provider, registry, analyzer.Config{
		StubPolicy:  graph.StubPolicy(cfg.Build.StubPolicy),
		Concurrency: cfg.Build.Concurrency,
		GraphPath:   cfg.Paths.Graph,
	}, nil)
	return pipeline, registry.Extensions(), nil
}

func printDiagnostics(res *analyzer.Result) {
	if res.Diagnostics.Empty() {
		return
	}
	fmt.Printf("Diagnostics: %s\n", res.Diagnostics.Summary())
	for _, pe := range res.Diagnostics.ParseErrors {
		fmt.Printf("  parse error: %s\n", pe)
	}
	if n := len(res.Diagnostics.Unresolved); n > 0 {
		shown := res.Diagnostics.Unresolved
		if len(shown) > 10 {
			shown = shown[:10]
		}
		for _, u := range shown {
			fmt.Printf("  unresolved: %s\n", u)
		}
		if n > len(shown) {
			fmt.Printf("  ... and %d more unresolved references\n", n-len(shown))
		}
	}
}

func joinExts(exts []string) string {
	globs := make([]string, len(exts))
	for i, e := range exts {
		globs[i] = "*" + e
	}
	return strings.Join(globs, " ")
}
