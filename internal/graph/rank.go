package graph

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/agentic-research/wikicat/internal/page"
)

// RankMode selects the ranking key. Degree is the only mode.
type RankMode uint8

const RankByDegree RankMode = iota

// ParseRankMode accepts "degree".
func ParseRankMode(s string) (RankMode, error) {
	if s == "degree" {
		return RankByDegree, nil
	}
	return 0, fmt.Errorf("%w: rank mode %q, want degree", ErrInvalidArgument, s)
}

func (m RankMode) String() string {
	if m == RankByDegree {
		return "degree"
	}
	return fmt.Sprintf("RankMode(%d)", uint8(m))
}

// RankOptions controls RankIDs. The zero value ranks by degree, highest
// first, without truncation.
type RankOptions struct {
	Mode      RankMode
	Ascending bool
	MaxPages  int // 0 keeps every id
}

type rankedID struct {
	id     string
	degree int
}

// RankIDs sorts ids by degree using a stable sort, so ties keep their input
// order. Degrees come from DegreeCounts(false, true). Every id must be a page
// of the snapshot; ids seen only as edge endpoints fail with ErrNotFound.
func (cg *CategoryGraph) RankIDs(ids []string, opts RankOptions) ([]string, error) {
	if opts.Mode != RankByDegree {
		return nil, fmt.Errorf("%w: rank mode %s", ErrInvalidArgument, opts.Mode)
	}
	if opts.MaxPages < 0 {
		return nil, fmt.Errorf("%w: max pages %d", ErrInvalidArgument, opts.MaxPages)
	}

	counts := cg.degreeSlice(false, true)
	ranked := make([]rankedID, len(ids))
	for i, id := range ids {
		ord, err := cg.ordinalOf(id)
		if err != nil {
			return nil, err
		}
		if _, ok := cg.store.Title(ord); !ok {
			return nil, fmt.Errorf("%w: id=%s is only an edge endpoint", ErrNotFound, id)
		}
		ranked[i] = rankedID{id: id, degree: counts[ord]}
	}

	slices.SortStableFunc(ranked, func(a, b rankedID) int {
		if opts.Ascending {
			return cmp.Compare(a.degree, b.degree)
		}
		return cmp.Compare(b.degree, a.degree)
	})

	if opts.MaxPages > 0 && opts.MaxPages < len(ranked) {
		ranked = ranked[:opts.MaxPages]
	}
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.id
	}
	return out, nil
}

// RankPages ranks pages by id and re-resolves them.
func (cg *CategoryGraph) RankPages(pages []page.Page, opts RankOptions) ([]page.Page, error) {
	ids := make([]string, len(pages))
	for i, p := range pages {
		ids[i] = p.ID
	}
	ranked, err := cg.RankIDs(ids, opts)
	if err != nil {
		return nil, err
	}
	return Project(cg, ranked, AsPage)
}
