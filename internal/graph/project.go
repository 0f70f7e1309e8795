package graph

import (
	"fmt"

	"github.com/agentic-research/wikicat/internal/page"
)

// Projection converts a page id into the form a caller wants back.
type Projection[T any] func(cg *CategoryGraph, id string) (T, error)

var (
	// AsID returns ids unchanged.
	AsID Projection[string] = func(_ *CategoryGraph, id string) (string, error) {
		return id, nil
	}

	// AsTitle returns the stored title.
	AsTitle Projection[string] = func(cg *CategoryGraph, id string) (string, error) {
		if ord, ok := cg.store.Ordinal(id); ok {
			if title, ok := cg.store.Title(ord); ok {
				return title, nil
			}
		}
		return "", fmt.Errorf("%w: title of id=%s", ErrNotFound, id)
	}

	// AsPage resolves the full page.
	AsPage Projection[page.Page] = func(cg *CategoryGraph, id string) (page.Page, error) {
		return cg.PageByID(id)
	}
)

// Project applies as to every id.
func Project[T any](cg *CategoryGraph, ids []string, as Projection[T]) ([]T, error) {
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		v, err := as(cg, id)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ProjectLevels applies as to every id of a per-level traversal result.
func ProjectLevels[T any](cg *CategoryGraph, levels [][]string, as Projection[T]) ([][]T, error) {
	out := make([][]T, 0, len(levels))
	for _, ids := range levels {
		level, err := Project(cg, ids, as)
		if err != nil {
			return nil, err
		}
		out = append(out, level)
	}
	return out, nil
}

// ParentsAs is ParentIDs projected through as.
func ParentsAs[T any](cg *CategoryGraph, sel Selector, includeHidden bool, as Projection[T]) ([]T, error) {
	ids, err := cg.ParentIDs(sel, includeHidden)
	if err != nil {
		return nil, err
	}
	return Project(cg, ids, as)
}

// ChildrenAs is ChildIDs projected through as.
func ChildrenAs[T any](cg *CategoryGraph, sel Selector, includeHidden bool, as Projection[T]) ([]T, error) {
	ids, err := cg.ChildIDs(sel, includeHidden)
	if err != nil {
		return nil, err
	}
	return Project(cg, ids, as)
}
