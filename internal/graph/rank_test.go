package graph_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/wikicat/internal/graph"
	"github.com/agentic-research/wikicat/internal/page"
	"github.com/agentic-research/wikicat/internal/testutil"
)

func TestDegreeCounts(t *testing.T) {
	cg := newGraph(t)
	want := map[string]int{
		testutil.HiddenCategoriesID: 0,
		testutil.ShortDescriptionID: 2,
		testutil.ComputerID:         2,
		testutil.ConsumerElecID:     2,
		testutil.ComputersID:        2,
		testutil.ComputingID:        1,
		testutil.TechnologyID:       2,
		testutil.IslandID:           0,
		testutil.IsolatedCategoryID: 0,
		testutil.MontrealArticleID:  1,
		testutil.MontrealCategoryID: 2,
	}
	assert.Equal(t, want, cg.DegreeCounts(false, false))
}

func TestDegreeCounts_StaleAcrossHiddenSetting(t *testing.T) {
	cg := newGraph(t)

	assert.Equal(t, 3, cg.DegreeCounts(true, false)[testutil.ComputerID])
	// A cached result is served even though it was computed with hidden
	// categories included.
	assert.Equal(t, 3, cg.DegreeCounts(false, true)[testutil.ComputerID])
	assert.Equal(t, 2, cg.DegreeCounts(false, false)[testutil.ComputerID])
	assert.Equal(t, 2, cg.DegreeCounts(true, true)[testutil.ComputerID])

	cg.Invalidate()
	assert.Equal(t, 3, cg.DegreeCounts(true, true)[testutil.ComputerID])
}

func TestDegree(t *testing.T) {
	cg := newGraph(t)

	d, err := cg.Degree(testutil.TechnologyID)
	require.NoError(t, err)
	assert.Equal(t, 2, d)

	_, err = cg.Degree("999")
	assert.ErrorIs(t, err, graph.ErrNotFound)
}

func TestRankIDs(t *testing.T) {
	cg := newGraph(t)
	ids := []string{testutil.ComputingID, testutil.ComputersID, testutil.ComputerID, testutil.IslandID}

	desc, err := cg.RankIDs(ids, graph.RankOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{testutil.ComputersID, testutil.ComputerID, testutil.ComputingID, testutil.IslandID}, desc)

	asc, err := cg.RankIDs(ids, graph.RankOptions{Ascending: true})
	require.NoError(t, err)
	assert.Equal(t, []string{testutil.IslandID, testutil.ComputingID, testutil.ComputersID, testutil.ComputerID}, asc)

	top, err := cg.RankIDs(ids, graph.RankOptions{MaxPages: 2})
	require.NoError(t, err)
	assert.Equal(t, desc[:2], top)

	all, err := cg.RankIDs(ids, graph.RankOptions{MaxPages: 10})
	require.NoError(t, err)
	assert.Equal(t, desc, all)
}

func TestRankIDs_StableTies(t *testing.T) {
	cg := newGraph(t)
	// Every id here has degree 2.
	ids := []string{testutil.MontrealCategoryID, testutil.ComputerID, testutil.TechnologyID, testutil.ConsumerElecID}

	desc, err := cg.RankIDs(ids, graph.RankOptions{})
	require.NoError(t, err)
	assert.Equal(t, ids, desc)

	asc, err := cg.RankIDs(desc, graph.RankOptions{Ascending: true})
	require.NoError(t, err)
	assert.Equal(t, ids, asc)
}

func TestRankIDs_ReverseWithoutTies(t *testing.T) {
	cg := newGraph(t)
	ids := []string{testutil.IslandID, testutil.ComputersID, testutil.ComputingID}

	desc, err := cg.RankIDs(ids, graph.RankOptions{})
	require.NoError(t, err)
	asc, err := cg.RankIDs(desc, graph.RankOptions{Ascending: true})
	require.NoError(t, err)

	reversed := slices.Clone(desc)
	slices.Reverse(reversed)
	assert.Equal(t, reversed, asc)
}

func TestRankIDs_Errors(t *testing.T) {
	cg := newGraph(t)

	_, err := cg.RankIDs([]string{testutil.ComputerID}, graph.RankOptions{Mode: graph.RankMode(7)})
	assert.ErrorIs(t, err, graph.ErrInvalidArgument)

	_, err = cg.RankIDs([]string{testutil.ComputerID}, graph.RankOptions{MaxPages: -1})
	assert.ErrorIs(t, err, graph.ErrInvalidArgument)

	_, err = cg.RankIDs([]string{"999"}, graph.RankOptions{})
	assert.ErrorIs(t, err, graph.ErrNotFound)

	snap := testutil.ComputerSnapshot()
	snap.ChildrenToParents["404"] = []string{testutil.ComputingID}
	withDangling, err := graph.New(snap, graph.WithTopLevelCategories(testutil.TopLevel))
	require.NoError(t, err)
	_, err = withDangling.RankIDs([]string{testutil.ComputerID, "404"}, graph.RankOptions{})
	assert.ErrorIs(t, err, graph.ErrNotFound)

	_, err = graph.ParseRankMode("pagerank")
	assert.ErrorIs(t, err, graph.ErrInvalidArgument)
	mode, err := graph.ParseRankMode("degree")
	require.NoError(t, err)
	assert.Equal(t, graph.RankByDegree, mode)
}

func TestRankPages(t *testing.T) {
	cg := newGraph(t)
	in := []page.Page{
		{ID: testutil.IslandID},
		{ID: testutil.TechnologyID},
	}

	ranked, err := cg.RankPages(in, graph.RankOptions{})
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, page.Page{ID: testutil.TechnologyID, Title: "Technology", Namespace: page.Category}, ranked[0])
	assert.Equal(t, "Island", ranked[1].Title)
}
