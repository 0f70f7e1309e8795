package graph

import (
	"fmt"
	"sync"

	"fortio.org/log"
)

// degreeCache holds the degree of every ordinal from the most recent
// computation. The cache is not keyed by includeHidden: a cached result is
// served for either setting until Invalidate is called.
type degreeCache struct {
	mu     sync.Mutex
	counts []int
}

func (cg *CategoryGraph) degreeSlice(includeHidden, useCache bool) []int {
	c := &cg.degrees
	c.mu.Lock()
	defer c.mu.Unlock()
	if useCache && c.counts != nil {
		return c.counts
	}
	counts := make([]int, cg.store.Len())
	var skipped int
	for i := range counts {
		ord := uint32(i)
		if includeHidden {
			counts[i] = len(cg.store.Neighbors(ord, Parents)) + len(cg.store.Neighbors(ord, Children))
			continue
		}
		for _, dir := range []Direction{Parents, Children} {
			for _, n := range cg.store.Neighbors(ord, dir) {
				if cg.store.IsHidden(n) {
					skipped++
					continue
				}
				counts[i]++
			}
		}
	}
	c.counts = counts
	log.LogVf("degree cache: %d ids (include_hidden=%v, %d hidden edges skipped)", len(counts), includeHidden, skipped)
	return counts
}

// DegreeCounts maps every page id to its parent plus child count. With
// useCache set, a previously computed result is returned as is, even if it
// was computed with a different includeHidden.
func (cg *CategoryGraph) DegreeCounts(includeHidden, useCache bool) map[string]int {
	counts := cg.degreeSlice(includeHidden, useCache)
	out := make(map[string]int, len(counts))
	for i, n := range counts {
		ord := uint32(i)
		if _, ok := cg.store.Title(ord); ok {
			out[cg.store.ID(ord)] = n
		}
	}
	return out
}

// Degree returns the cached degree of id.
func (cg *CategoryGraph) Degree(id string) (int, error) {
	ord, err := cg.ordinalOf(id)
	if err != nil {
		return 0, err
	}
	counts := cg.degreeSlice(false, true)
	if int(ord) >= len(counts) {
		return 0, fmt.Errorf("%w: degree of id=%s", ErrNotFound, id)
	}
	return counts[ord], nil
}

// Invalidate drops the degree cache.
func (cg *CategoryGraph) Invalidate() {
	cg.degrees.mu.Lock()
	cg.degrees.counts = nil
	cg.degrees.mu.Unlock()
}
