package mcpserver

import (
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/wikicat/internal/graph"
	"github.com/agentic-research/wikicat/internal/testutil"
)

func newTestHandler(t *testing.T, maxVisited int) *Handler {
	t.Helper()
	cg, err := graph.New(testutil.ComputerSnapshot(), graph.WithTopLevelCategories(testutil.TopLevel))
	require.NoError(t, err)
	return NewHandler(graph.NewHotSwap(cg), maxVisited)
}

// newCallToolRequest builds a CallToolRequest with the given arguments.
func newCallToolRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

type toolFunc func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

func call(t *testing.T, fn toolFunc, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	result, err := fn(context.Background(), newCallToolRequest(args))
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return text.Text
}

func assertText(t *testing.T, fn toolFunc, args map[string]any, want string) {
	t.Helper()
	result := call(t, fn, args)
	require.False(t, result.IsError, resultText(t, result))
	assert.Equal(t, want, resultText(t, result))
}

// assertIsToolError checks that a CallToolResult is an error containing the given substring.
func assertIsToolError(t *testing.T, fn toolFunc, args map[string]any, substr string) {
	t.Helper()
	result := call(t, fn, args)
	require.True(t, result.IsError, "expected tool error result")
	assert.Contains(t, resultText(t, result), substr)
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		tool         mcp.Tool
		wantName     string
		wantRequired []string
	}{
		{pageTool(), "wikicat_page", nil},
		{parentsTool(), "wikicat_parents", nil},
		{childrenTool(), "wikicat_children", nil},
		{traverseTool(), "wikicat_traverse", []string{"direction"}},
		{rankTool(), "wikicat_rank", []string{"ids"}},
		{topLevelTool(), "wikicat_top_level", nil},
		{pathTool(), "wikicat_path", []string{"source", "target"}},
		{statsTool(), "wikicat_stats", nil},
	}
	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			assert.Equal(t, tt.wantName, tt.tool.Name)
			assert.NotEmpty(t, tt.tool.Description)
			for _, req := range tt.wantRequired {
				assert.True(t, slices.Contains(tt.tool.InputSchema.Required, req), "required %v missing %q", tt.tool.InputSchema.Required, req)
				assert.Contains(t, tt.tool.InputSchema.Properties, req)
			}
		})
	}
	assert.Contains(t, parentsTool().InputSchema.Properties, "title")
	assert.Contains(t, parentsTool().InputSchema.Properties, "include_hidden")
}

func TestNewServer(t *testing.T) {
	assert.NotNil(t, NewServer(newTestHandler(t, 0), "test"))
}

func TestPage(t *testing.T) {
	h := newTestHandler(t, 0)

	assertText(t, h.page, map[string]any{"title": "Computer"},
		"id: 10\ntitle: Computer\nnamespace: article\nurl: https://en.wikipedia.org/wiki/Computer\n")
	assertText(t, h.page, map[string]any{"title": "Montreal", "namespace": "14"},
		"id: 61\ntitle: Montreal\nnamespace: category\nurl: https://en.wikipedia.org/wiki/Category:Montreal\n")

	assertIsToolError(t, h.page, map[string]any{}, "id or title is required")
	assertIsToolError(t, h.page, map[string]any{"id": "10", "title": "Computer"}, "not both")
	assertIsToolError(t, h.page, map[string]any{"title": "Computer", "namespace": "talk"}, "invalid namespace")
	assertIsToolError(t, h.page, map[string]any{"id": "999"}, "not found")
}

func TestParents(t *testing.T) {
	h := newTestHandler(t, 0)

	assertText(t, h.parents, map[string]any{"title": "Computer"}, "Consumer_electronics\nComputers")
	assertText(t, h.parents, map[string]any{"title": "Computer", "as": "id"}, "20\n21")
	assertText(t, h.parents, map[string]any{"id": "10", "include_hidden": true, "as": "id"}, "20\n21\n2")
	assertText(t, h.parents, map[string]any{"id": "30"}, "no parents")

	assertIsToolError(t, h.parents, map[string]any{"id": "10", "as": "xml"}, "unknown output form")
}

func TestChildren(t *testing.T) {
	h := newTestHandler(t, 0)

	result := call(t, h.children, map[string]any{"title": "Montreal", "as": "page"})
	require.False(t, result.IsError)
	assert.Equal(t, `Page(id="60", title="Montreal", namespace="article")`, resultText(t, result))

	assertText(t, h.children, map[string]any{"title": "Technology"}, "Consumer_electronics\nMontreal")
	assertIsToolError(t, h.children, map[string]any{"title": "Computer"}, "not found")
}

func TestTraverse(t *testing.T) {
	h := newTestHandler(t, 0)
	computer := map[string]any{"title": "Computer", "direction": "parents", "level": float64(2)}

	assertText(t, h.traverse, computer, "level 1: Consumer_electronics; Computers\nlevel 2: Technology; Computing\n")

	result := call(t, h.traverse, map[string]any{"id": "10", "direction": "parents", "level": float64(99)})
	require.False(t, result.IsError)
	assert.Equal(t, maxLevel, strings.Count(resultText(t, result), "level "))

	assertIsToolError(t, h.traverse, map[string]any{"id": "10"}, "direction is required")
	assertIsToolError(t, h.traverse, map[string]any{"id": "10", "direction": "sideways"}, "invalid argument")
}

func TestTraverse_MaxVisited(t *testing.T) {
	h := newTestHandler(t, 3)
	assertText(t, h.traverse, map[string]any{"id": "10", "direction": "parents", "level": float64(3)},
		"level 1: Consumer_electronics; Computers\nlevel 2: Technology\n")
}

func TestRank(t *testing.T) {
	h := newTestHandler(t, 0)

	assertText(t, h.rank, map[string]any{"ids": "30, 21 10 50"}, "Computers\nComputer\nComputing\nIsland")
	assertText(t, h.rank, map[string]any{"ids": "30,21,10,50", "ascending": true, "as": "id"}, "50\n30\n21\n10")
	assertText(t, h.rank, map[string]any{"ids": "30 21 10 50", "max_pages": float64(1), "as": "id"}, "21")

	assertIsToolError(t, h.rank, map[string]any{}, "ids is required")
	assertIsToolError(t, h.rank, map[string]any{"ids": " , "}, "ids is required")
	assertIsToolError(t, h.rank, map[string]any{"ids": "999"}, "rank failed")
}

func TestTopLevel(t *testing.T) {
	h := newTestHandler(t, 0)
	assertText(t, h.topLevel, map[string]any{}, "Computing\nTechnology")
	assertText(t, h.topLevel, map[string]any{"as": "id"}, "30\n31")
}

func TestPath(t *testing.T) {
	h := newTestHandler(t, 0)

	assertText(t, h.path, map[string]any{"source": "Computer", "target": "Computing"}, "Computing > Computers > Computer")
	assertText(t, h.path, map[string]any{"source": "Computer", "target": "Isolated category"}, "no path from Computer to Isolated_category")

	assertIsToolError(t, h.path, map[string]any{"source": "Computer"}, "target is required")
	assertIsToolError(t, h.path, map[string]any{"source": "Nowhere", "target": "Computing"}, "source")
	assertIsToolError(t, h.path, map[string]any{"source": "Computer", "target": "Island"}, "target")
}

func TestStats(t *testing.T) {
	assertText(t, newTestHandler(t, 0).stats, map[string]any{},
		"pages: 11\narticles: 3\ncategories: 8\nhidden categories: 1\nedges: 8")
}
