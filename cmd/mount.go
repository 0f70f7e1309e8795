package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fortio.org/log"
	"github.com/spf13/cobra"

	"github.com/agentic-research/wikicat/internal/nfsmount"
)

func newMountCmd(a *app) *cobra.Command {
	var (
		listen  string
		noMount bool
	)
	cmd := &cobra.Command{
		Use:   "mount [mountpoint]",
		Short: "Serve the category tree over NFS and mount it read-only",
		Long: `Serve the category tree as a read-only NFS filesystem. Top-level
categories appear at the root, categories are directories and articles are
<title>.txt files. Send SIGHUP to reload the snapshot.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !noMount && len(args) == 0 {
				return fmt.Errorf("a mountpoint is required unless --no-mount is set")
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			graphs, err := a.liveGraph(ctx, true)
			if err != nil {
				return err
			}
			srv, err := nfsmount.NewServer(nfsmount.NewCategoryFS(graphs), listen)
			if err != nil {
				return err
			}
			defer func() { _ = srv.Close() }() // safe to ignore

			if noMount {
				fmt.Fprintf(cmd.OutOrStdout(), "NFS server listening on port %d\n", srv.Port())
			} else {
				mountPoint := args[0]
				if err := os.MkdirAll(mountPoint, 0o755); err != nil {
					return fmt.Errorf("create mountpoint: %w", err)
				}
				if err := nfsmount.Mount(srv.Port(), mountPoint); err != nil {
					return err
				}
				defer func() {
					if err := nfsmount.Unmount(mountPoint); err != nil {
						log.Warnf("unmount %s: %v", mountPoint, err)
					}
				}()
				fmt.Fprintf(cmd.OutOrStdout(), "mounted category tree at %s (Ctrl-C to unmount)\n", mountPoint)
			}

			<-ctx.Done()
			log.Infof("shutting down NFS server")
			return nil
		},
	}
	cmd.Flags().StringVar(&listen, "listen", nfsmount.DefaultListenAddr, "NFS listen address")
	cmd.Flags().BoolVar(&noMount, "no-mount", false, "Only run the NFS server; do not call mount")
	return cmd
}
