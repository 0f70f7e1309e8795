package graph

import (
	"fmt"
	"slices"

	"github.com/agentic-research/wikicat/internal/page"
	"github.com/agentic-research/wikicat/internal/snapshot"
)

// DefaultTopLevelCategories are the children of Wikipedia's
// "Main topic classifications" category.
var DefaultTopLevelCategories = []string{
	"Academic_disciplines", "Business", "Communication", "Concepts", "Culture",
	"Economy", "Education", "Energy", "Engineering", "Entertainment", "Entities",
	"Ethics", "Food_and_drink", "Geography", "Government", "Health", "History",
	"Human_behavior", "Humanities", "Information", "Internet", "Knowledge",
	"Language", "Law", "Life", "Lists", "Mass_media", "Mathematics", "Military",
	"Nature", "People", "Philosophy", "Politics", "Religion", "Science", "Society",
	"Sports", "Technology", "Time", "Universe",
}

// CategoryGraph is the query surface over a Store. It is safe for concurrent
// readers; the degree cache has its own lock.
type CategoryGraph struct {
	store    Store
	topLevel []string
	rootID   string // empty unless this is a synthetic-root view
	degrees  degreeCache
}

// New indexes snap and wraps it in the query layer.
func New(snap *snapshot.Snapshot, opts ...Option) (*CategoryGraph, error) {
	o := newOptions(opts)
	ix, err := buildIndex(snap, o)
	if err != nil {
		return nil, err
	}
	return &CategoryGraph{store: ix, topLevel: o.topLevel}, nil
}

// FromStore wraps an existing store.
func FromStore(s Store, topLevel []string) *CategoryGraph {
	return &CategoryGraph{store: s, topLevel: append([]string(nil), topLevel...)}
}

// Store returns the store the graph reads from.
func (cg *CategoryGraph) Store() Store { return cg.store }

// SyntheticRoot returns the root id of a WithSyntheticRoot view.
func (cg *CategoryGraph) SyntheticRoot() (string, bool) { return cg.rootID, cg.rootID != "" }

// TopLevelTitles returns the configured top-level category titles.
func (cg *CategoryGraph) TopLevelTitles() []string {
	return append([]string(nil), cg.topLevel...)
}

// Selector picks the page a query starts from. Build one with ByID, ByTitle,
// ByRawTitle or ByPage.
type Selector interface {
	selector()
}

type byID struct{ id string }

type byTitle struct {
	title string
	ns    page.Namespace
	raw   bool
}

type byPage struct{ p page.Page }

func (byID) selector()    {}
func (byTitle) selector() {}
func (byPage) selector()  {}

// ByID selects a page by curid.
func ByID(id string) Selector { return byID{id: id} }

// ByTitle selects a page by title, standardizing it first. With AnyNamespace
// the article namespace is tried before the category namespace.
func ByTitle(title string, ns page.Namespace) Selector { return byTitle{title: title, ns: ns} }

// ByRawTitle is ByTitle for titles that are already standardized.
func ByRawTitle(title string, ns page.Namespace) Selector {
	return byTitle{title: title, ns: ns, raw: true}
}

// ByPage selects p by its id.
func ByPage(p page.Page) Selector { return byPage{p: p} }

// resolve maps a selector to an ordinal. A valid force namespace overrides
// the namespace of title selectors.
func (cg *CategoryGraph) resolve(sel Selector, force page.Namespace) (uint32, error) {
	switch s := sel.(type) {
	case byID:
		return cg.ordinalOf(s.id)
	case byPage:
		return cg.ordinalOf(s.p.ID)
	case byTitle:
		title := s.title
		if !s.raw {
			title = page.Standardize(title)
		}
		ns := s.ns
		if force.Valid() {
			ns = force
		}
		if ns.Valid() {
			if ord, ok := cg.store.LookupTitle(ns, title); ok {
				return ord, nil
			}
			return 0, fmt.Errorf("%w: %s titled %q", ErrNotFound, ns, title)
		}
		if ord, ok := cg.store.LookupTitle(page.Article, title); ok {
			return ord, nil
		}
		if ord, ok := cg.store.LookupTitle(page.Category, title); ok {
			return ord, nil
		}
		return 0, fmt.Errorf("%w: page titled %q", ErrNotFound, title)
	case nil:
		return 0, fmt.Errorf("%w: no selector", ErrInvalidArgument)
	}
	return 0, fmt.Errorf("%w: unsupported selector %T", ErrInvalidArgument, sel)
}

func (cg *CategoryGraph) ordinalOf(id string) (uint32, error) {
	ord, ok := cg.store.Ordinal(id)
	if !ok {
		return 0, fmt.Errorf("%w: id=%s", ErrNotFound, id)
	}
	return ord, nil
}

// Page resolves sel to a full page.
func (cg *CategoryGraph) Page(sel Selector) (page.Page, error) {
	ord, err := cg.resolve(sel, page.AnyNamespace)
	if err != nil {
		return page.Page{}, err
	}
	return resolvePage(cg.store, ord)
}

func (cg *CategoryGraph) ContainsID(id string) bool { return containsID(cg.store, id) }

func (cg *CategoryGraph) ContainsTitle(title string, ns page.Namespace, standardize bool) bool {
	return containsTitle(cg.store, title, ns, standardize)
}

func (cg *CategoryGraph) PageByID(id string) (page.Page, error) { return pageByID(cg.store, id) }

func (cg *CategoryGraph) PageByTitle(title string, ns page.Namespace, standardize bool) (page.Page, error) {
	return pageByTitle(cg.store, title, ns, standardize)
}

func (cg *CategoryGraph) RawNeighborIDs(id string, dir Direction) []string {
	return rawNeighborIDs(cg.store, id, dir)
}

// Stats summarizes the graph, including a synthetic root if present.
func (cg *CategoryGraph) Stats() Stats { return statsOf(cg.store) }

// neighbors returns the adjacency of ord, without hidden categories unless
// includeHidden is set. The result may alias store memory.
func (cg *CategoryGraph) neighbors(ord uint32, dir Direction, includeHidden bool) []uint32 {
	raw := cg.store.Neighbors(ord, dir)
	if includeHidden {
		return raw
	}
	out := make([]uint32, 0, len(raw))
	for _, n := range raw {
		if !cg.store.IsHidden(n) {
			out = append(out, n)
		}
	}
	return out
}

// ParentIDs lists the categories sel belongs to.
func (cg *CategoryGraph) ParentIDs(sel Selector, includeHidden bool) ([]string, error) {
	return cg.neighborIDs(sel, Parents, includeHidden)
}

// ChildIDs lists the members of the category sel. Title selectors always
// resolve in the category namespace.
func (cg *CategoryGraph) ChildIDs(sel Selector, includeHidden bool) ([]string, error) {
	return cg.neighborIDs(sel, Children, includeHidden)
}

func (cg *CategoryGraph) neighborIDs(sel Selector, dir Direction, includeHidden bool) ([]string, error) {
	ord, err := cg.resolve(sel, forcedNamespace(dir))
	if err != nil {
		return nil, err
	}
	return idsOf(cg.store, cg.neighbors(ord, dir, includeHidden)), nil
}

func forcedNamespace(dir Direction) page.Namespace {
	if dir == Children {
		return page.Category
	}
	return page.AnyNamespace
}

// IsChild reports whether childID is listed among the members of parentID.
// Hidden children count only when includeHidden is set.
func (cg *CategoryGraph) IsChild(parentID, childID string, includeHidden bool) bool {
	parent, ok := cg.store.Ordinal(parentID)
	if !ok {
		return false
	}
	child, ok := cg.store.Ordinal(childID)
	if !ok || (!includeHidden && cg.store.IsHidden(child)) {
		return false
	}
	return slices.Contains(cg.store.Neighbors(parent, Children), child)
}

// RemoveHiddenIDs drops hidden category ids, keeping order and duplicates.
func (cg *CategoryGraph) RemoveHiddenIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if ord, ok := cg.store.Ordinal(id); ok && cg.store.IsHidden(ord) {
			continue
		}
		out = append(out, id)
	}
	return out
}

// TopLevelCategoryIDs resolves the configured top-level titles.
func (cg *CategoryGraph) TopLevelCategoryIDs() ([]string, error) {
	ords, err := cg.topLevelOrdinals()
	if err != nil {
		return nil, err
	}
	return idsOf(cg.store, ords), nil
}

func (cg *CategoryGraph) topLevelOrdinals() ([]uint32, error) {
	ords := make([]uint32, 0, len(cg.topLevel))
	for _, title := range cg.topLevel {
		ord, ok := cg.store.LookupTitle(page.Category, page.Standardize(title))
		if !ok {
			return nil, fmt.Errorf("%w: top-level category %q", ErrNotFound, title)
		}
		ords = append(ords, ord)
	}
	return ords, nil
}

// FormatIDs joins the titles of ids with sep.
func (cg *CategoryGraph) FormatIDs(ids []string, sep string, replaceUnderscores bool) (string, error) {
	pages, err := Project(cg, ids, AsPage)
	if err != nil {
		return "", err
	}
	return page.FormatPages(pages, sep, replaceUnderscores), nil
}
