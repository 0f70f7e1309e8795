package cmd

import (
	"context"
	"fmt"

	"fortio.org/log"

	"github.com/agentic-research/wikicat/internal/graph"
)

// liveGraph loads the graph into a HotSwap and keeps it current: every reload
// signal re-reads the snapshot and swaps the new graph in. A failed reload
// keeps serving the previous graph.
func (a *app) liveGraph(ctx context.Context, withRoot bool) (*graph.HotSwap, error) {
	cg, err := a.buildLive(withRoot)
	if err != nil {
		return nil, err
	}
	graphs := graph.NewHotSwap(cg)

	reload, stop := notifyReload()
	go func() {
		defer stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-reload:
				next, err := a.buildLive(withRoot)
				if err != nil {
					log.Errf("reload %s: %v", a.cfg.Snapshot, err)
					continue
				}
				graphs.Swap(next)
				log.Infof("reloaded %s", a.cfg.Snapshot)
			}
		}
	}()
	return graphs, nil
}

func (a *app) buildLive(withRoot bool) (*graph.CategoryGraph, error) {
	cg, err := a.loadGraph()
	if err != nil {
		return nil, err
	}
	if !withRoot {
		return cg, nil
	}
	rooted, err := cg.WithSyntheticRoot(a.cfg.RootID)
	if err != nil {
		return nil, fmt.Errorf("synthetic root %q: %w", a.cfg.RootID, err)
	}
	return rooted, nil
}
