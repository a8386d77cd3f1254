package main

import (
	"github.com/aretw0/dtree/internal/adapters/mcp"
	"github.com/spf13/cobra"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the Model Context Protocol (MCP) server",
		Long: `Starts dtree as an MCP server on Standard Input/Output.
AI agents can then evaluate trees and ask for optimal paths as tools
(evaluate_tree, optimal_path, mermaid_diagram, list_utilities).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults, err := a.defaults()
			if err != nil {
				return err
			}

			// Logs go to stderr so they never corrupt JSON-RPC on stdout.
			a.logger.Info("Starting dtree MCP server (stdio)")
			return mcp.NewServer(a.logger, defaults).ServeStdio()
		},
	}
}
