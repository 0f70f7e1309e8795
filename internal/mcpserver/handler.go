package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fortio.org/log"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/agentic-research/wikicat/internal/graph"
	"github.com/agentic-research/wikicat/internal/page"
	"github.com/agentic-research/wikicat/internal/pathfind"
)

const maxLevel = 5

// Handler answers tool calls against the graph currently held by graphs.
type Handler struct {
	graphs     *graph.HotSwap
	maxVisited int
}

// NewHandler serves graphs. maxVisited caps traversals; 0 disables the cap.
func NewHandler(graphs *graph.HotSwap, maxVisited int) *Handler {
	return &Handler{graphs: graphs, maxVisited: maxVisited}
}

// selectorFrom reads the id/title/namespace arguments.
func selectorFrom(req mcp.CallToolRequest) (graph.Selector, error) {
	id := req.GetString("id", "")
	title := req.GetString("title", "")
	ns, err := page.ParseNamespaceHint(req.GetString("namespace", ""))
	if err != nil {
		return nil, err
	}
	switch {
	case id != "" && title != "":
		return nil, errors.New("give id or title, not both")
	case id != "":
		return graph.ByID(id), nil
	case title != "":
		return graph.ByTitle(title, ns), nil
	}
	return nil, errors.New("id or title is required")
}

// render projects ids in the form named by the "as" argument.
func render(cg *graph.CategoryGraph, req mcp.CallToolRequest, ids []string, sep string) (string, error) {
	form, err := graph.ParseOutputForm(req.GetString("as", ""))
	if err != nil {
		return "", err
	}
	return cg.Render(ids, form, sep)
}

func (h *Handler) page(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sel, err := selectorFrom(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p, err := h.graphs.Current().Page(sel)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}
	return mcp.NewToolResultText(p.Describe()), nil
}

func (h *Handler) parents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.neighbors(ctx, req, graph.Parents)
}

func (h *Handler) children(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.neighbors(ctx, req, graph.Children)
}

func (h *Handler) neighbors(_ context.Context, req mcp.CallToolRequest, dir graph.Direction) (*mcp.CallToolResult, error) {
	sel, err := selectorFrom(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cg := h.graphs.Current()
	includeHidden := req.GetBool("include_hidden", false)

	var ids []string
	if dir == graph.Children {
		ids, err = cg.ChildIDs(sel, includeHidden)
	} else {
		ids, err = cg.ParentIDs(sel, includeHidden)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", dir, err)), nil
	}
	if len(ids) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("no %s", dir)), nil
	}
	out, err := render(cg, req, ids, "\n")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (h *Handler) traverse(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dirName, err := req.RequireString("direction")
	if err != nil {
		return mcp.NewToolResultError("direction is required"), nil
	}
	dir, err := graph.ParseDirection(dirName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sel, err := selectorFrom(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cg := h.graphs.Current()
	levels, err := cg.Traverse(sel, dir, graph.TraverseOptions{
		Level:         max(1, min(req.GetInt("level", 1), maxLevel)),
		IncludeHidden: req.GetBool("include_hidden", false),
		MaxVisited:    h.maxVisited,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("traverse failed: %v", err)), nil
	}

	var b strings.Builder
	for i, ids := range levels {
		line, err := render(cg, req, ids, page.DefaultSeparator)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		fmt.Fprintf(&b, "level %d: %s\n", i+1, line)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (h *Handler) rank(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("ids")
	if err != nil {
		return mcp.NewToolResultError("ids is required"), nil
	}
	ids := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' || r == '\n' || r == '\t' })
	if len(ids) == 0 {
		return mcp.NewToolResultError("ids is required"), nil
	}

	cg := h.graphs.Current()
	ranked, err := cg.RankIDs(ids, graph.RankOptions{
		Ascending: req.GetBool("ascending", false),
		MaxPages:  req.GetInt("max_pages", 0),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("rank failed: %v", err)), nil
	}
	out, err := render(cg, req, ranked, "\n")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (h *Handler) topLevel(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cg := h.graphs.Current()
	ids, err := cg.TopLevelCategoryIDs()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("top-level categories: %v", err)), nil
	}
	out, err := render(cg, req, ids, "\n")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (h *Handler) path(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sourceTitle, err := req.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError("source is required"), nil
	}
	targetTitle, err := req.RequireString("target")
	if err != nil {
		return mcp.NewToolResultError("target is required"), nil
	}

	cg := h.graphs.Current()
	source, err := cg.Page(graph.ByTitle(sourceTitle, page.AnyNamespace))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("source: %v", err)), nil
	}
	target, err := cg.Page(graph.ByTitle(targetTitle, page.Category))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("target: %v", err)), nil
	}

	chain, err := pathfind.ShortestPath(cg, source, target)
	if errors.Is(err, pathfind.ErrNoPath) {
		return mcp.NewToolResultText(fmt.Sprintf("no path from %s to %s", source.Title, target.Title)), nil
	}
	if err != nil {
		log.Warnf("mcp: path %s -> %s: %v", source.ID, target.ID, err)
		return mcp.NewToolResultError(fmt.Sprintf("path failed: %v", err)), nil
	}
	out, err := render(cg, req, chain, " > ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (h *Handler) stats(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st := h.graphs.Current().Stats()
	return mcp.NewToolResultText(fmt.Sprintf(
		"pages: %d\narticles: %d\ncategories: %d\nhidden categories: %d\nedges: %d",
		st.Pages, st.Articles, st.Categories, st.Hidden, st.Edges)), nil
}
