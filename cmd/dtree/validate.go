package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/dtree/internal/validator"
	"github.com/aretw0/dtree/pkg/domain"
	"github.com/aretw0/dtree/pkg/treefile"
	"github.com/spf13/cobra"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <tree-file>",
		Short: "Check a tree for structural problems",
		Long: `Reports chance probabilities that do not sum to 1, negative probabilities,
terminal nodes with children, empty decision or chance nodes and nodes
unreachable from the start node. Exits non-zero on findings with --strict.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, g, err := treefile.LoadGraph(args[0])
			if err != nil {
				return err
			}

			err = validator.ValidateGraph(g, doc.Start)
			if errors.Is(err, domain.ErrReference) {
				return err
			}
			out := cmd.OutOrStdout()
			if err == nil {
				fmt.Fprintln(out, "Tree is valid! ✅")
				return nil
			}

			issues := validator.Issues(err)
			for _, issue := range issues {
				fmt.Fprintf(out, "⚠️  %v\n", issue)
			}
			if a.cfg.Strict {
				return fmt.Errorf("validation failed with %d issue(s)", len(issues))
			}
			return nil
		},
	}
}
