package cmd

import (
	"github.com/spf13/cobra"

	"github.com/agentic-research/wikicat/internal/mcpserver"
)

func newServeCmd(a *app) *cobra.Command {
	var withRoot bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve category graph queries as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			graphs, err := a.liveGraph(cmd.Context(), withRoot)
			if err != nil {
				return err
			}
			h := mcpserver.NewHandler(graphs, a.cfg.Traverse.MaxVisited)
			return mcpserver.Serve(mcpserver.NewServer(h, Version))
		},
	}
	cmd.Flags().BoolVar(&withRoot, "synthetic-root", false, "Add the synthetic root above the top-level categories")
	return cmd
}
