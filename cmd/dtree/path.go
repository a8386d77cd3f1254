package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newPathCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path <tree-file>",
		Short: "Print the optimal path through a tree",
		Long: `Walks the tree from the start node, following the best alternative at each
decision node. Chance nodes follow their first outcome; that step shows one
possible trajectory, not a choice.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, _ := cmd.Flags().GetString("start")
			ids, _ := cmd.Flags().GetBool("ids")

			report, g, err := a.analyze(args[0], start)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if ids {
				_, err := fmt.Fprintln(out, strings.Join(report.Path, " -> "))
				return err
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "STEP\tID\tTYPE\tNAME\t%s\n", report.Label)
			for i, id := range report.Path {
				n, _ := g.Node(id)
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, id, n.Kind, n.Label(), report.Formatted[id])
			}
			return tw.Flush()
		},
	}
	cmd.Flags().String("start", "", "Start node (default: document start or first node)")
	cmd.Flags().Bool("ids", false, "Print only the node ids joined by arrows")
	return cmd
}
