package main

import (
	"fmt"
	"os"

	diagram "github.com/aretw0/dtree/internal/presentation/graph"
	"github.com/spf13/cobra"
)

func newGraphCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph <tree-file>",
		Short: "Export the tree as a Mermaid diagram",
		Long: `Outputs a Mermaid flowchart (graph LR) with node values and, unless
--no-highlight is given, the optimal path highlighted. With --out the diagram
is written as a fenced Markdown file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, _ := cmd.Flags().GetString("start")
			outFile, _ := cmd.Flags().GetString("out")
			noHighlight, _ := cmd.Flags().GetBool("no-highlight")

			report, g, err := a.analyze(args[0], start)
			if err != nil {
				return err
			}

			overlay := &diagram.Overlay{Values: report.Values, Label: report.Label, Precision: report.Precision}
			if !noHighlight {
				overlay.Path = report.Path
			}
			output := diagram.GenerateMermaid(g.Nodes(), g.Edges(), overlay)

			if outFile == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), output)
				return err
			}
			if err := os.WriteFile(outFile, []byte(diagram.WrapMarkdown(output)), 0o644); err != nil {
				return fmt.Errorf("failed to write diagram: %w", err)
			}
			a.logger.Info("Diagram saved", "file", outFile)
			return nil
		},
	}
	cmd.Flags().String("start", "", "Start node for the highlighted path")
	cmd.Flags().StringP("out", "o", "", "Write a Markdown file with the diagram instead of printing it")
	cmd.Flags().Bool("no-highlight", false, "Do not highlight the optimal path")
	return cmd
}
