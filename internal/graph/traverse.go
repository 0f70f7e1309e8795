package graph

import (
	"fmt"

	"github.com/RoaringBitmap/roaring"
)

// TraverseOptions bounds a traversal.
type TraverseOptions struct {
	Level         int
	IncludeHidden bool
	// MaxVisited stops the traversal once this many ids were emitted.
	// 0 means no cap.
	MaxVisited int
}

// Traverse expands from the neighbors of start for opts.Level levels and
// returns the ids emitted at each level. The visited set spans the whole
// traversal: an id is emitted and expanded only the first time it is seen,
// even when it occurs several times in one frontier. The start page itself is
// not marked visited and can be emitted if reachable through a cycle.
func (cg *CategoryGraph) Traverse(start Selector, dir Direction, opts TraverseOptions) ([][]string, error) {
	if !dir.valid() {
		return nil, fmt.Errorf("%w: direction %s", ErrInvalidArgument, dir)
	}
	if opts.Level < 0 {
		return nil, fmt.Errorf("%w: level %d", ErrInvalidArgument, opts.Level)
	}
	if opts.MaxVisited < 0 {
		return nil, fmt.Errorf("%w: max visited %d", ErrInvalidArgument, opts.MaxVisited)
	}
	ord, err := cg.resolve(start, forcedNamespace(dir))
	if err != nil {
		return nil, err
	}

	visited := roaring.New()
	levels := make([][]string, 0, opts.Level)
	frontier := cg.neighbors(ord, dir, opts.IncludeHidden)
	capped := func() bool {
		return opts.MaxVisited > 0 && visited.GetCardinality() >= uint64(opts.MaxVisited)
	}

	for l := 0; l < opts.Level; l++ {
		current := []string{}
		var next []uint32
		for _, n := range frontier {
			if capped() {
				break
			}
			if !visited.CheckedAdd(n) {
				continue
			}
			current = append(current, cg.store.ID(n))
			next = append(next, cg.neighbors(n, dir, opts.IncludeHidden)...)
		}
		levels = append(levels, current)
		if capped() {
			break
		}
		frontier = next
	}
	return levels, nil
}

// TraverseFlat is Traverse with the levels concatenated.
func (cg *CategoryGraph) TraverseFlat(start Selector, dir Direction, opts TraverseOptions) ([]string, error) {
	levels, err := cg.Traverse(start, dir, opts)
	if err != nil {
		return nil, err
	}
	var flat []string
	for _, ids := range levels {
		flat = append(flat, ids...)
	}
	if flat == nil {
		flat = []string{}
	}
	return flat, nil
}
