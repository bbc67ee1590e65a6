// Package cmd wires the aurora command line interface.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/zheng/aurora/internal/config"
)

var (
	cfgPath   string
	graphPath string
	verbose   bool

	cfg config.Config
)

// NewRootCommand builds the aurora root command with all subcommands
// registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "aurora",
		Short: "Aurora - static impact analysis for codebases",
		Long: `aurora parses a codebase into a dependency graph of modules, classes
and functions, and answers "what is affected if X changes" with a
criticality ranking and a renderable dependency diagram.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(cfgPath)
			if err != nil {
				return err
			}
			if graphPath != "" {
				cfg.Paths.Graph = graphPath
			}
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "aurora.yaml", "configuration file path")
	rootCmd.PersistentFlags().StringVarP(&graphPath, "graph", "g", "", "graph snapshot path (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(impactCmd())
	rootCmd.AddCommand(diagramCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(reportCmd())
	return rootCmd
}

// Execute runs the CLI.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
