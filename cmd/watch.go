package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zheng/aurora/internal/analyzer"
	"github.com/zheng/aurora/internal/parser"
	"github.com/zheng/aurora/internal/watcher"
)

func watchCmd() *cobra.Command {
	var debounceMillis int

	cmd := &cobra.Command{
		Use:   "watch [project-path]",
		Short: "Watch a project and rebuild the graph on changes",
		Long: `Watches the project tree and triggers a full rebuild after changes
settle. Every rebuild starts from scratch and atomically replaces the
persisted snapshot.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectPath := "."
			if len(args) > 0 {
				projectPath = args[0]
			}

			pipeline, _, err := buildPipeline(projectPath)
			if err != nil {
				return err
			}
			rebuild := func(ctx context.Context) (*analyzer.Result, error) {
				if cfg.Build.TimeoutSeconds > 0 {
					var cancel context.CancelFunc
					ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.Build.TimeoutSeconds)*time.Second)
					defer cancel()
				}
				return pipeline.Run(ctx)
			}

			// Initial build so the watcher always refines a valid snapshot.
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			if res, err := rebuild(ctx); err != nil {
				return err
			} else {
				fmt.Printf("Initial build: %d nodes, %d edges\n",
					res.Graph.NodeCount(), res.Graph.EdgeCount())
			}

			w, err := watcher.New(projectPath, parser.DefaultRegistry().Extensions(), rebuild,
				watcher.WithDebounceDelay(time.Duration(debounceMillis)*time.Millisecond),
				watcher.WithOnRebuildStart(func() {
					fmt.Println("Change detected, rebuilding...")
				}),
				watcher.WithOnRebuildDone(func(res *analyzer.Result, err error) {
					if err != nil {
						fmt.Printf("Rebuild failed (previous snapshot kept): %v\n", err)
						return
					}
					fmt.Printf("Rebuilt: %d nodes, %d edges in %s\n",
						res.Graph.NodeCount(), res.Graph.EdgeCount(), res.Duration.Round(time.Millisecond))
				}),
			)
			if err != nil {
				return err
			}

			fmt.Printf("Watching %s (ctrl-c to stop)\n", projectPath)
			if err := w.Start(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&debounceMillis, "debounce", 500, "debounce delay in milliseconds")
	return cmd
}
