package main

import (
	"fmt"

	"github.com/aretw0/dtree"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dtree",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dtree version %s\n", dtree.Version)
		},
	}
}
