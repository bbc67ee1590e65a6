package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zheng/aurora/internal/display"
	"github.com/zheng/aurora/internal/graph"
)

func listCmd() *cobra.Command {
	var kind string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entities in the graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph()
			if err != nil {
				return err
			}
			var nodes []*graph.Node
			for _, n := range g.Nodes() {
				if kind != "" && string(n.Kind) != kind {
					continue
				}
				nodes = append(nodes, n)
			}
			if asJSON {
				return outputJSON(nodes)
			}
			for _, n := range nodes {
				fmt.Printf("%-10s %-50s %s\n", n.Kind, n.QualifiedName,
					display.Location(n.File, n.LineStart))
			}
			fmt.Printf("\n%d entities\n", len(nodes))
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "", "filter by kind: module, class, function, external")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func searchCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search <pattern>",
		Short: "Search entities by name substring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph()
			if err != nil {
				return err
			}
			pattern := strings.ToLower(args[0])
			var matches []*graph.Node
			for _, n := range g.Nodes() {
				if strings.Contains(strings.ToLower(n.QualifiedName), pattern) {
					matches = append(matches, n)
				}
			}
			if asJSON {
				return outputJSON(matches)
			}
			if len(matches) == 0 {
				fmt.Println("no matches")
				return nil
			}
			for _, n := range matches {
				fmt.Printf("%-10s %-50s %s (fan-in %d)\n", n.Kind, n.QualifiedName,
					display.Location(n.File, n.LineStart), g.FanIn(n.ID))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}
