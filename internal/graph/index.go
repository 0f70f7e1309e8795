package graph

import (
	"fmt"
	"maps"
	"slices"

	"fortio.org/log"
	"github.com/RoaringBitmap/roaring"

	"github.com/agentic-research/wikicat/internal/page"
	"github.com/agentic-research/wikicat/internal/snapshot"
)

// DefaultHiddenCategoryTitle is the category whose children are hidden
// (maintenance) categories.
const DefaultHiddenCategoryTitle = "Hidden_categories"

// Index is the immutable in-memory form of a snapshot. Every id is interned to
// a dense uint32 ordinal so adjacency and id sets can live in slices and
// roaring bitmaps instead of string maps.
type Index struct {
	ordinal    map[string]uint32 // id -> ordinal
	ids        []string          // ordinal -> id
	titles     []string
	namespaces []page.Namespace
	known      *roaring.Bitmap // ordinals present in id_to_title

	articleTitles  map[string]uint32
	categoryTitles map[string]uint32

	parents  [][]uint32
	children [][]uint32
	hidden   *roaring.Bitmap
	edges    int
}

var _ Store = (*Index)(nil)

// Option configures index and graph construction.
type Option func(*options)

type options struct {
	hiddenTitle string
	topLevel    []string
}

// WithHiddenCategoryTitle overrides the title of the category whose children
// are treated as hidden.
func WithHiddenCategoryTitle(title string) Option {
	return func(o *options) { o.hiddenTitle = title }
}

// WithTopLevelCategories sets the titles returned by TopLevelCategoryIDs.
func WithTopLevelCategories(titles []string) Option {
	return func(o *options) { o.topLevel = append([]string(nil), titles...) }
}

func newOptions(opts []Option) options {
	o := options{
		hiddenTitle: DefaultHiddenCategoryTitle,
		topLevel:    DefaultTopLevelCategories,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewIndex builds an index from snap. Consistency between the two adjacency
// directions is not checked.
func NewIndex(snap *snapshot.Snapshot, opts ...Option) (*Index, error) {
	return buildIndex(snap, newOptions(opts))
}

func buildIndex(snap *snapshot.Snapshot, o options) (*Index, error) {
	if err := snap.Validate(); err != nil {
		return nil, err
	}

	ix := &Index{
		ordinal:        make(map[string]uint32, len(snap.IDToTitle)),
		known:          roaring.New(),
		articleTitles:  make(map[string]uint32),
		categoryTitles: make(map[string]uint32),
		hidden:         roaring.New(),
	}

	for _, id := range snap.SortedIDs() {
		ord := ix.intern(id)
		ix.titles[ord] = snap.IDToTitle[id]
		ix.known.Add(ord)
	}
	for _, id := range edgeOnlyIDs(snap) {
		ix.intern(id)
	}

	for id, tok := range snap.IDToNamespace {
		ns, err := page.ParseNamespace(tok)
		if err != nil {
			return nil, fmt.Errorf("%w: id_to_namespace[%q]: %w", ErrMalformedGraph, id, err)
		}
		ix.namespaces[ix.intern(id)] = ns
	}

	var seen [2]bool
	for tok, titles := range snap.TitleToID {
		ns, err := page.ParseNamespace(tok)
		if err != nil {
			return nil, fmt.Errorf("%w: title_to_id: %w", ErrMalformedGraph, err)
		}
		slot := 0
		if ns == page.Category {
			slot = 1
		}
		if seen[slot] {
			return nil, fmt.Errorf("%w: title_to_id lists namespace %s twice", ErrMalformedGraph, ns)
		}
		seen[slot] = true
		m := ix.titleMap(ns)
		for title, id := range titles {
			m[title] = ix.intern(id)
		}
	}
	if !seen[0] || !seen[1] {
		return nil, fmt.Errorf("%w: title_to_id needs both namespaces", ErrMalformedGraph)
	}

	for id, list := range snap.ChildrenToParents {
		ord := ix.intern(id)
		ix.parents[ord] = ix.internAll(list)
		ix.edges += len(list)
	}
	for id, list := range snap.ParentsToChildren {
		ord := ix.intern(id)
		ix.children[ord] = ix.internAll(list)
	}

	hid, ok := ix.categoryTitles[o.hiddenTitle]
	if !ok {
		return nil, fmt.Errorf("%w: no category titled %q", ErrMalformedGraph, o.hiddenTitle)
	}
	ix.hidden.AddMany(ix.children[hid])

	log.LogVf("graph index: %d ids interned, %d pages, %d edges, %d hidden categories",
		len(ix.ids), ix.known.GetCardinality(), ix.edges, ix.hidden.GetCardinality())
	return ix, nil
}

// edgeOnlyIDs returns, in lexical order, the ids named anywhere in snap
// except id_to_title. Interning them in this order keeps the ordinal layout
// independent of map iteration.
func edgeOnlyIDs(snap *snapshot.Snapshot) []string {
	extra := make(map[string]struct{})
	add := func(id string) {
		if _, ok := snap.IDToTitle[id]; !ok {
			extra[id] = struct{}{}
		}
	}
	for id := range snap.IDToNamespace {
		add(id)
	}
	for _, titles := range snap.TitleToID {
		for _, id := range titles {
			add(id)
		}
	}
	for _, adj := range []map[string][]string{snap.ChildrenToParents, snap.ParentsToChildren} {
		for id, list := range adj {
			add(id)
			for _, other := range list {
				add(other)
			}
		}
	}
	return slices.Sorted(maps.Keys(extra))
}

func (ix *Index) intern(id string) uint32 {
	if ord, ok := ix.ordinal[id]; ok {
		return ord
	}
	ord := uint32(len(ix.ids))
	ix.ordinal[id] = ord
	ix.ids = append(ix.ids, id)
	ix.titles = append(ix.titles, "")
	ix.namespaces = append(ix.namespaces, page.AnyNamespace)
	ix.parents = append(ix.parents, nil)
	ix.children = append(ix.children, nil)
	return ord
}

func (ix *Index) internAll(ids []string) []uint32 {
	if len(ids) == 0 {
		return nil
	}
	ords := make([]uint32, len(ids))
	for i, id := range ids {
		ords[i] = ix.intern(id)
	}
	return ords
}

func (ix *Index) titleMap(ns page.Namespace) map[string]uint32 {
	if ns == page.Category {
		return ix.categoryTitles
	}
	return ix.articleTitles
}

// Len returns the number of interned ids, including ids that only appear as
// edge endpoints.
func (ix *Index) Len() int { return len(ix.ids) }

func (ix *Index) Ordinal(id string) (uint32, bool) {
	ord, ok := ix.ordinal[id]
	return ord, ok
}

func (ix *Index) ID(ord uint32) string { return ix.ids[ord] }

func (ix *Index) Title(ord uint32) (string, bool) {
	if !ix.known.Contains(ord) {
		return "", false
	}
	return ix.titles[ord], true
}

func (ix *Index) Namespace(ord uint32) page.Namespace {
	if int(ord) >= len(ix.namespaces) {
		return page.AnyNamespace
	}
	return ix.namespaces[ord]
}

func (ix *Index) LookupTitle(ns page.Namespace, title string) (uint32, bool) {
	var ord uint32
	var ok bool
	switch ns {
	case page.Article:
		ord, ok = ix.articleTitles[title]
	case page.Category:
		ord, ok = ix.categoryTitles[title]
	}
	return ord, ok
}

func (ix *Index) Neighbors(ord uint32, dir Direction) []uint32 {
	if int(ord) >= len(ix.ids) {
		return nil
	}
	switch dir {
	case Parents:
		return ix.parents[ord]
	case Children:
		return ix.children[ord]
	}
	return nil
}

func (ix *Index) IsHidden(ord uint32) bool { return ix.hidden.Contains(ord) }

// ContainsID reports whether id has a title in the snapshot.
func (ix *Index) ContainsID(id string) bool { return containsID(ix, id) }

// ContainsTitle reports whether title exists in ns. AnyNamespace checks both
// namespaces.
func (ix *Index) ContainsTitle(title string, ns page.Namespace, standardize bool) bool {
	return containsTitle(ix, title, ns, standardize)
}

// PageByID resolves id to a page.
func (ix *Index) PageByID(id string) (page.Page, error) { return pageByID(ix, id) }

// PageByTitle resolves a title in a concrete namespace.
func (ix *Index) PageByTitle(title string, ns page.Namespace, standardize bool) (page.Page, error) {
	return pageByTitle(ix, title, ns, standardize)
}

// RawNeighborIDs returns the unfiltered adjacency of id. An id with no entry
// has no edges.
func (ix *Index) RawNeighborIDs(id string, dir Direction) []string {
	return rawNeighborIDs(ix, id, dir)
}

// HiddenIDs returns the ids of hidden categories in ordinal order.
func (ix *Index) HiddenIDs() []string {
	return idsOf(ix, ix.hidden.ToArray())
}

// Stats summarizes the index.
func (ix *Index) Stats() Stats { return statsOf(ix) }
