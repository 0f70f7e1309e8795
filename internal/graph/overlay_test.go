package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/wikicat/internal/graph"
	"github.com/agentic-research/wikicat/internal/page"
	"github.com/agentic-research/wikicat/internal/testutil"
)

const rootID = "((ROOT))"

func TestWithSyntheticRoot(t *testing.T) {
	base := newGraph(t)
	view, err := base.WithSyntheticRoot(rootID)
	require.NoError(t, err)

	top, err := base.TopLevelCategoryIDs()
	require.NoError(t, err)

	children, err := view.ChildIDs(graph.ByID(rootID), false)
	require.NoError(t, err)
	assert.Equal(t, top, children)

	children, err = view.ChildIDs(graph.ByTitle(rootID, page.AnyNamespace), false)
	require.NoError(t, err)
	assert.Equal(t, top, children)

	parents, err := view.ParentIDs(graph.ByID(rootID), true)
	require.NoError(t, err)
	assert.Empty(t, parents)

	p, err := view.PageByID(rootID)
	require.NoError(t, err)
	assert.Equal(t, page.Page{ID: rootID, Title: rootID, Namespace: page.Category}, p)
	assert.True(t, view.ContainsTitle(rootID, page.Category, false))

	id, ok := view.SyntheticRoot()
	assert.True(t, ok)
	assert.Equal(t, rootID, id)
}

func TestWithSyntheticRoot_BaseUnchanged(t *testing.T) {
	base := newGraph(t)
	view, err := base.WithSyntheticRoot(rootID)
	require.NoError(t, err)

	assert.False(t, base.ContainsID(rootID))
	assert.True(t, view.ContainsID(rootID))
	_, ok := base.SyntheticRoot()
	assert.False(t, ok)

	// Top-level categories keep their own parents.
	parents, err := view.ParentIDs(graph.ByID(testutil.ComputingID), true)
	require.NoError(t, err)
	assert.Empty(t, parents)

	assert.Equal(t, base.Stats().Pages+1, view.Stats().Pages)
	assert.Equal(t, base.Stats().Categories+1, view.Stats().Categories)
	assert.Equal(t, base.Stats().Edges, view.Stats().Edges)
}

func TestWithSyntheticRoot_OwnDegreeCache(t *testing.T) {
	base := newGraph(t)
	assert.NotContains(t, base.DegreeCounts(false, true), rootID)

	view, err := base.WithSyntheticRoot(rootID)
	require.NoError(t, err)
	assert.Equal(t, 2, view.DegreeCounts(false, true)[rootID])

	d, err := view.Degree(rootID)
	require.NoError(t, err)
	assert.Equal(t, 2, d)
}

func TestWithSyntheticRoot_Traverse(t *testing.T) {
	view, err := newGraph(t).WithSyntheticRoot(rootID)
	require.NoError(t, err)

	levels, err := view.Traverse(graph.ByID(rootID), graph.Children, graph.TraverseOptions{Level: 2})
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{testutil.ComputingID, testutil.TechnologyID},
		{testutil.ComputersID, testutil.ConsumerElecID, testutil.MontrealCategoryID},
	}, levels)
}

func TestWithSyntheticRoot_Collisions(t *testing.T) {
	base := newGraph(t)

	_, err := base.WithSyntheticRoot(testutil.ComputerID)
	assert.ErrorIs(t, err, graph.ErrInvalidArgument)

	_, err = base.WithSyntheticRoot("Computing")
	assert.ErrorIs(t, err, graph.ErrInvalidArgument)

	_, err = base.WithSyntheticRoot("")
	assert.ErrorIs(t, err, graph.ErrInvalidArgument)

	view, err := base.WithSyntheticRoot(rootID)
	require.NoError(t, err)
	_, err = view.WithSyntheticRoot(rootID)
	assert.ErrorIs(t, err, graph.ErrInvalidArgument)
}

func TestWithSyntheticRoot_MissingTopLevel(t *testing.T) {
	cg, err := graph.New(testutil.ComputerSnapshot(), graph.WithTopLevelCategories([]string{"Arts"}))
	require.NoError(t, err)
	_, err = cg.WithSyntheticRoot(rootID)
	assert.ErrorIs(t, err, graph.ErrNotFound)
}

func TestWithSyntheticRoot_Nested(t *testing.T) {
	view, err := newGraph(t).WithSyntheticRoot(rootID)
	require.NoError(t, err)
	outer, err := view.WithSyntheticRoot("((OUTER))")
	require.NoError(t, err)

	assert.True(t, outer.ContainsID(rootID))
	children, err := outer.ChildIDs(graph.ByID("((OUTER))"), false)
	require.NoError(t, err)
	assert.Equal(t, []string{testutil.ComputingID, testutil.TechnologyID}, children)
}
