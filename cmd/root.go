package cmd

import (
	"fmt"
	"os"

	"fortio.org/log"
	"github.com/spf13/cobra"

	"github.com/agentic-research/wikicat/internal/config"
	"github.com/agentic-research/wikicat/internal/graph"
	"github.com/agentic-research/wikicat/internal/snapshot"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

// app carries the persistent flags shared by every subcommand.
type app struct {
	graphPath  string
	configPath string
	logLevel   string

	cfg *config.Config
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "wikicat",
		Short:         "Navigate Wikipedia's category graph",
		Long:          "wikicat answers parent, child, traversal, ranking and path queries over a Wikipedia category graph snapshot.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&a.graphPath, "graph", "g", "", "Path to the category graph snapshot (.json, .json.gz, .json.zst, .db)")
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to a TOML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, verbose, info, warning, error)")

	root.AddCommand(
		newPageCmd(a),
		newNeighborsCmd(a, graph.Parents),
		newNeighborsCmd(a, graph.Children),
		newTraverseCmd(a),
		newRankCmd(a),
		newTopCmd(a),
		newPathCmd(a),
		newStatsCmd(a),
		newExportCmd(a),
		newMountCmd(a),
		newServeCmd(a),
	)
	return root
}

// setup loads the config and lets flags override it.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.graphPath != "" {
		cfg.Snapshot = a.graphPath
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if cfg.LogLevel != "" {
		if err := log.SetLogLevelStr(cfg.LogLevel); err != nil {
			return fmt.Errorf("--log-level: %w", err)
		}
	}
	a.cfg = cfg
	return nil
}

// loadGraph reads the configured snapshot and indexes it.
func (a *app) loadGraph() (*graph.CategoryGraph, error) {
	if a.cfg.Snapshot == "" {
		return nil, fmt.Errorf("no snapshot given: pass --graph or set WIKICAT_SNAPSHOT")
	}
	snap, err := snapshot.Load(a.cfg.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	cg, err := graph.New(snap, a.cfg.GraphOptions()...)
	if err != nil {
		return nil, fmt.Errorf("index snapshot %s: %w", a.cfg.Snapshot, err)
	}
	st := cg.Stats()
	log.Infof("loaded %s: %d pages, %d edges", a.cfg.Snapshot, st.Pages, st.Edges)
	return cg, nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "wikicat:", err)
		os.Exit(1)
	}
}
