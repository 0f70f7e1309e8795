package cmd

import (
	"fmt"

	"fortio.org/log"
	"github.com/spf13/cobra"

	"github.com/agentic-research/wikicat/internal/snapshot"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <output>",
		Short: "Rewrite the snapshot as JSON (.json, .json.gz, .json.zst) or SQLite (.db, .sqlite)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Snapshot == "" {
				return fmt.Errorf("no snapshot given: pass --graph or set WIKICAT_SNAPSHOT")
			}
			snap, err := snapshot.Load(a.cfg.Snapshot)
			if err != nil {
				return fmt.Errorf("load snapshot: %w", err)
			}
			if err := snapshot.Save(args[0], snap); err != nil {
				return fmt.Errorf("export %s: %w", args[0], err)
			}
			log.Infof("exported %d pages from %s to %s", len(snap.IDToTitle), a.cfg.Snapshot, args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}
}
