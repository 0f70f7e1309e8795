// Package pathfind finds category chains linking an article to a category by
// walking the parent relation breadth first.
package pathfind

import (
	"errors"
	"fmt"

	"github.com/agentic-research/wikicat/internal/graph"
	"github.com/agentic-research/wikicat/internal/page"
)

var (
	ErrBrokenChain = errors.New("broken backlink chain")
	ErrNoPath      = errors.New("no path")
)

// Backlinks maps each discovered page id to the id of the page it was
// discovered from. A nil Backlinks means the target was never reached.
type Backlinks map[string]string

// BFSWithBacklinks searches from source toward target over non-hidden parents.
// The first discovery of a page wins, so the chain extracted from the result
// is a shortest one in edge count. The search stops when target is dequeued;
// the map may hold entries for other branches explored up to that point.
func BFSWithBacklinks(cg *graph.CategoryGraph, source, target page.Page) (Backlinks, error) {
	backlinks := Backlinks{}
	queue := []string{source.ID}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if id == target.ID {
			return backlinks, nil
		}

		parents, err := cg.ParentIDs(graph.ByID(id), false)
		if err != nil {
			return nil, fmt.Errorf("parents of %s: %w", id, err)
		}
		for _, parent := range parents {
			if _, seen := backlinks[parent]; seen {
				continue
			}
			backlinks[parent] = id
			queue = append(queue, parent)
		}
	}
	return nil, nil
}

// ExtractChain follows backlinks from target back to source and returns the
// ids target first. The source id itself is not included. Nil backlinks give
// an empty chain.
func ExtractChain(backlinks Backlinks, source, target page.Page) ([]string, error) {
	chain := []string{}
	if backlinks == nil {
		return chain, nil
	}
	for cur := target.ID; cur != source.ID; {
		if len(chain) > len(backlinks) {
			return nil, fmt.Errorf("%w: cycle reaching %s", ErrBrokenChain, cur)
		}
		chain = append(chain, cur)
		next, ok := backlinks[cur]
		if !ok {
			return nil, fmt.Errorf("%w: no backlink for %s", ErrBrokenChain, cur)
		}
		cur = next
	}
	return chain, nil
}

// ShortestPath returns the ids from target down to source, both included.
func ShortestPath(cg *graph.CategoryGraph, source, target page.Page) ([]string, error) {
	backlinks, err := BFSWithBacklinks(cg, source, target)
	if err != nil {
		return nil, err
	}
	if backlinks == nil {
		return nil, fmt.Errorf("%w: from %s to %s", ErrNoPath, source.Title, target.Title)
	}
	chain, err := ExtractChain(backlinks, source, target)
	if err != nil {
		return nil, err
	}
	return append(chain, source.ID), nil
}
