package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/dtree"
	"github.com/aretw0/dtree/internal/presentation/summary"
	"github.com/aretw0/dtree/internal/presentation/tui"
	"github.com/aretw0/dtree/pkg/graph"
	"github.com/aretw0/dtree/pkg/utility"
	"github.com/spf13/cobra"
)

func newCompareCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <tree-file>",
		Short: "Compare the recommended choice under several utilities",
		Long: `Evaluates the tree once per utility and shows, for each, the value of every
alternative at the start node and the recommended one. Use it to see how
risk attitude changes the decision.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, _ := cmd.Flags().GetString("start")
			specs, _ := cmd.Flags().GetStringArray("utility-set")
			if len(specs) == 0 {
				specs = utility.Presets()
			}

			var reports []*dtree.Report
			var g *graph.Graph
			for _, spec := range specs {
				u, err := utility.Parse(strings.TrimSpace(spec))
				if err != nil {
					return fmt.Errorf("utility %q: %w", spec, err)
				}
				report, built, err := a.analyze(args[0], start, dtree.WithUtility(u))
				if err != nil {
					return err
				}
				reports = append(reports, report)
				g = built
			}

			out := cmd.OutOrStdout()
			rendered, err := tui.RendererFor(out)(summary.Comparison(g, reports))
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(out, rendered)
			return err
		},
	}
	cmd.Flags().String("start", "", "Node whose alternatives are compared")
	cmd.Flags().StringArray("utility-set", nil, "Utility to compare; repeat the flag for several (default: every preset)")
	return cmd
}
