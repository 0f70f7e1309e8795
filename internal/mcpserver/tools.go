// Package mcpserver exposes the category graph as read-only MCP tools over
// stdio.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const selectorHint = "Select the page with exactly one of id or title."

// NewServer registers every wikicat tool on a new MCP server.
func NewServer(h *Handler, version string) *server.MCPServer {
	s := server.NewMCPServer("wikicat", version)
	s.AddTool(pageTool(), h.page)
	s.AddTool(parentsTool(), h.parents)
	s.AddTool(childrenTool(), h.children)
	s.AddTool(traverseTool(), h.traverse)
	s.AddTool(rankTool(), h.rank)
	s.AddTool(topLevelTool(), h.topLevel)
	s.AddTool(pathTool(), h.path)
	s.AddTool(statsTool(), h.stats)
	return s
}

// Serve runs s on stdin/stdout until the client disconnects.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func selectorOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("id", mcp.Description("page curid, e.g. 5323")),
		mcp.WithString("title", mcp.Description("page title; spaces and underscores are equivalent")),
		mcp.WithString("namespace", mcp.Description("article or category (also 0 or 14); inferred when omitted")),
	}
}

func asOption() mcp.ToolOption {
	return mcp.WithString("as", mcp.Description("output form: id, title (default) or page"))
}

func hiddenOption() mcp.ToolOption {
	return mcp.WithBoolean("include_hidden", mcp.Description("include hidden maintenance categories (default false)"))
}

func pageTool() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Look up a Wikipedia page in the category graph. " +
			"Returns its id, title, namespace and URL. " + selectorHint),
	}, selectorOptions()...)
	return mcp.NewTool("wikicat_page", opts...)
}

func parentsTool() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("List the categories a page belongs to. " + selectorHint),
	}, selectorOptions()...)
	opts = append(opts, hiddenOption(), asOption())
	return mcp.NewTool("wikicat_parents", opts...)
}

func childrenTool() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("List the articles and subcategories in a category. " +
			"Titles are looked up in the category namespace. " + selectorHint),
	}, selectorOptions()...)
	opts = append(opts, hiddenOption(), asOption())
	return mcp.NewTool("wikicat_children", opts...)
}

func traverseTool() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Walk the category graph breadth first from a page and " +
			"return the pages reached at each level. Each page appears once. " + selectorHint),
		mcp.WithString("direction",
			mcp.Required(),
			mcp.Description("parents (up toward broader categories) or children (down)"),
		),
		mcp.WithNumber("level", mcp.Description("number of levels to expand (default 1, max 5)")),
	}, selectorOptions()...)
	opts = append(opts, hiddenOption(), asOption())
	return mcp.NewTool("wikicat_traverse", opts...)
}

func rankTool() mcp.Tool {
	return mcp.NewTool("wikicat_rank",
		mcp.WithDescription("Rank page ids by degree (parent plus child count), highest first."),
		mcp.WithString("ids",
			mcp.Required(),
			mcp.Description("page ids separated by spaces or commas"),
		),
		mcp.WithBoolean("ascending", mcp.Description("lowest degree first")),
		mcp.WithNumber("max_pages", mcp.Description("keep only the first n results")),
		asOption(),
	)
}

func topLevelTool() mcp.Tool {
	return mcp.NewTool("wikicat_top_level",
		mcp.WithDescription("List the top-level categories the graph is rooted at."),
		asOption(),
	)
}

func pathTool() mcp.Tool {
	return mcp.NewTool("wikicat_path",
		mcp.WithDescription("Find the shortest chain of categories linking a page to a "+
			"broader category, walking parent links. Returns the chain from the category down to the page."),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description("title of the starting page, usually an article"),
		),
		mcp.WithString("target",
			mcp.Required(),
			mcp.Description("title of the category to reach"),
		),
		asOption(),
	)
}

func statsTool() mcp.Tool {
	return mcp.NewTool("wikicat_stats",
		mcp.WithDescription("Summarize the loaded graph: page, article, category, hidden category and edge counts."),
	)
}
