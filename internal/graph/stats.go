package graph

import "github.com/agentic-research/wikicat/internal/page"

// Stats counts the pages and edges visible through a Store.
type Stats struct {
	Pages      int
	Articles   int
	Categories int
	Hidden     int
	Edges      int
}

// Map returns the counts keyed by their snake_case names, for JSON output.
func (s Stats) Map() map[string]any {
	return map[string]any{
		"pages":             s.Pages,
		"articles":          s.Articles,
		"categories":        s.Categories,
		"hidden_categories": s.Hidden,
		"edges":             s.Edges,
	}
}

func statsOf(s Store) Stats {
	var st Stats
	for i := 0; i < s.Len(); i++ {
		ord := uint32(i)
		st.Edges += len(s.Neighbors(ord, Parents))
		if s.IsHidden(ord) {
			st.Hidden++
		}
		if _, ok := s.Title(ord); !ok {
			continue
		}
		st.Pages++
		switch s.Namespace(ord) {
		case page.Article:
			st.Articles++
		case page.Category:
			st.Categories++
		}
	}
	return st
}
