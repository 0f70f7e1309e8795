package graph

import (
	"fmt"

	"github.com/agentic-research/wikicat/internal/page"
)

// Direction selects which adjacency relation a lookup follows.
type Direction uint8

const (
	Parents Direction = iota + 1
	Children
)

// ParseDirection accepts "parents" or "children".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "parents":
		return Parents, nil
	case "children":
		return Children, nil
	}
	return 0, fmt.Errorf("%w: direction %q, want parents or children", ErrInvalidArgument, s)
}

func (d Direction) String() string {
	switch d {
	case Parents:
		return "parents"
	case Children:
		return "children"
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

func (d Direction) valid() bool { return d == Parents || d == Children }

// Store is the ordinal-level read interface the query layer runs on.
// Ordinals are dense in [0, Len()). Neighbor slices are shared and must not
// be modified by callers.
type Store interface {
	Len() int
	Ordinal(id string) (uint32, bool)
	ID(ord uint32) string
	// Title reports false for ids that only appear as edge endpoints.
	Title(ord uint32) (string, bool)
	Namespace(ord uint32) page.Namespace
	LookupTitle(ns page.Namespace, title string) (uint32, bool)
	Neighbors(ord uint32, dir Direction) []uint32
	IsHidden(ord uint32) bool
}

func containsID(s Store, id string) bool {
	ord, ok := s.Ordinal(id)
	if !ok {
		return false
	}
	_, ok = s.Title(ord)
	return ok
}

func containsTitle(s Store, title string, ns page.Namespace, standardize bool) bool {
	if standardize {
		title = page.Standardize(title)
	}
	if ns.Valid() {
		_, ok := s.LookupTitle(ns, title)
		return ok
	}
	if _, ok := s.LookupTitle(page.Article, title); ok {
		return true
	}
	_, ok := s.LookupTitle(page.Category, title)
	return ok
}

func resolvePage(s Store, ord uint32) (page.Page, error) {
	id := s.ID(ord)
	title, ok := s.Title(ord)
	if !ok {
		return page.Page{}, fmt.Errorf("%w: page with id=%s", ErrNotFound, id)
	}
	ns := s.Namespace(ord)
	if !ns.Valid() {
		return page.Page{}, fmt.Errorf("%w: namespace of id=%s", ErrNotFound, id)
	}
	return page.Page{ID: id, Title: title, Namespace: ns}, nil
}

func pageByID(s Store, id string) (page.Page, error) {
	ord, ok := s.Ordinal(id)
	if !ok {
		return page.Page{}, fmt.Errorf("%w: page with id=%s", ErrNotFound, id)
	}
	return resolvePage(s, ord)
}

func pageByTitle(s Store, title string, ns page.Namespace, standardize bool) (page.Page, error) {
	if !ns.Valid() {
		return page.Page{}, fmt.Errorf("%w: title lookup needs a namespace", ErrInvalidArgument)
	}
	if standardize {
		title = page.Standardize(title)
	}
	ord, ok := s.LookupTitle(ns, title)
	if !ok {
		return page.Page{}, fmt.Errorf("%w: %s titled %q", ErrNotFound, ns, title)
	}
	return resolvePage(s, ord)
}

func rawNeighborIDs(s Store, id string, dir Direction) []string {
	ord, ok := s.Ordinal(id)
	if !ok {
		return []string{}
	}
	return idsOf(s, s.Neighbors(ord, dir))
}

func idsOf(s Store, ords []uint32) []string {
	out := make([]string, len(ords))
	for i, ord := range ords {
		out[i] = s.ID(ord)
	}
	return out
}
