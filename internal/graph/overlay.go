package graph

import (
	"fmt"

	"github.com/agentic-research/wikicat/internal/page"
)

// rootOverlay decorates a base store with one extra category whose children
// are the top-level categories. The base store is not modified.
type rootOverlay struct {
	base     Store
	rootOrd  uint32
	rootID   string
	children []uint32
}

var _ Store = (*rootOverlay)(nil)

func (o *rootOverlay) Len() int { return o.base.Len() + 1 }

func (o *rootOverlay) Ordinal(id string) (uint32, bool) {
	if id == o.rootID {
		return o.rootOrd, true
	}
	return o.base.Ordinal(id)
}

func (o *rootOverlay) ID(ord uint32) string {
	if ord == o.rootOrd {
		return o.rootID
	}
	return o.base.ID(ord)
}

func (o *rootOverlay) Title(ord uint32) (string, bool) {
	if ord == o.rootOrd {
		return o.rootID, true
	}
	return o.base.Title(ord)
}

func (o *rootOverlay) Namespace(ord uint32) page.Namespace {
	if ord == o.rootOrd {
		return page.Category
	}
	return o.base.Namespace(ord)
}

func (o *rootOverlay) LookupTitle(ns page.Namespace, title string) (uint32, bool) {
	if ns == page.Category && title == o.rootID {
		return o.rootOrd, true
	}
	return o.base.LookupTitle(ns, title)
}

func (o *rootOverlay) Neighbors(ord uint32, dir Direction) []uint32 {
	if ord == o.rootOrd {
		if dir == Children {
			return o.children
		}
		return nil
	}
	return o.base.Neighbors(ord, dir)
}

func (o *rootOverlay) IsHidden(ord uint32) bool {
	if ord == o.rootOrd {
		return false
	}
	return o.base.IsHidden(ord)
}

// WithSyntheticRoot returns a view of cg with an extra category rootID,
// titled rootID, whose children are the top-level categories and which has
// no parents. The top-level categories keep their own parents. The view has
// its own degree cache. rootID must not collide with an existing id or
// category title.
func (cg *CategoryGraph) WithSyntheticRoot(rootID string) (*CategoryGraph, error) {
	if rootID == "" {
		return nil, fmt.Errorf("%w: empty root id", ErrInvalidArgument)
	}
	if _, ok := cg.store.Ordinal(rootID); ok {
		return nil, fmt.Errorf("%w: root id %q already exists", ErrInvalidArgument, rootID)
	}
	if _, ok := cg.store.LookupTitle(page.Category, rootID); ok {
		return nil, fmt.Errorf("%w: category titled %q already exists", ErrInvalidArgument, rootID)
	}
	children, err := cg.topLevelOrdinals()
	if err != nil {
		return nil, err
	}
	return &CategoryGraph{
		store: &rootOverlay{
			base:     cg.store,
			rootOrd:  uint32(cg.store.Len()),
			rootID:   rootID,
			children: children,
		},
		topLevel: cg.topLevel,
		rootID:   rootID,
	}, nil
}
