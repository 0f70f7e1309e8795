package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/agentic-research/wikicat/internal/graph"
	"github.com/agentic-research/wikicat/internal/page"
	"github.com/agentic-research/wikicat/internal/pathfind"
)

// selectFlags picks a page from a positional title or --id.
type selectFlags struct {
	id        string
	namespace string
	raw       bool
}

func (f *selectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.id, "id", "", "Select the page by curid instead of title")
	cmd.Flags().StringVarP(&f.namespace, "namespace", "n", "", "Namespace of the title: article, category, 0 or 14")
	cmd.Flags().BoolVar(&f.raw, "raw", false, "Look the title up exactly as given, without standardizing")
}

func (f *selectFlags) selector(args []string) (graph.Selector, error) {
	title := strings.Join(args, " ")
	switch {
	case f.id != "" && title != "":
		return nil, errors.New("give a title or --id, not both")
	case f.id != "":
		return graph.ByID(f.id), nil
	case title == "":
		return nil, errors.New("a title or --id is required")
	}
	ns, err := page.ParseNamespaceHint(f.namespace)
	if err != nil {
		return nil, err
	}
	if f.raw {
		return graph.ByRawTitle(title, ns), nil
	}
	return graph.ByTitle(title, ns), nil
}

// outputFlags controls how ids are printed.
type outputFlags struct {
	as string
}

func (f *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.as, "as", "title", "Output form: id, title or page")
}

func (f *outputFlags) render(cg *graph.CategoryGraph, ids []string, sep string) (string, error) {
	form, err := graph.ParseOutputForm(f.as)
	if err != nil {
		return "", err
	}
	return cg.Render(ids, form, sep)
}

func newPageCmd(a *app) *cobra.Command {
	var sel selectFlags
	cmd := &cobra.Command{
		Use:   "page [title]",
		Short: "Show a page's id, title, namespace and URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := sel.selector(args)
			if err != nil {
				return err
			}
			cg, err := a.loadGraph()
			if err != nil {
				return err
			}
			p, err := cg.Page(s)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), p.Describe())
			return nil
		},
	}
	sel.register(cmd)
	return cmd
}

func newNeighborsCmd(a *app, dir graph.Direction) *cobra.Command {
	var (
		sel           selectFlags
		out           outputFlags
		includeHidden bool
	)
	cmd := &cobra.Command{
		Use:   dir.String() + " [title]",
		Short: fmt.Sprintf("List the direct %s of a page", dir),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := sel.selector(args)
			if err != nil {
				return err
			}
			cg, err := a.loadGraph()
			if err != nil {
				return err
			}
			var ids []string
			if dir == graph.Children {
				ids, err = cg.ChildIDs(s, includeHidden)
			} else {
				ids, err = cg.ParentIDs(s, includeHidden)
			}
			if err != nil {
				return err
			}
			return printLines(cmd, cg, &out, ids)
		},
	}
	sel.register(cmd)
	out.register(cmd)
	cmd.Flags().BoolVar(&includeHidden, "include-hidden", false, "Include hidden maintenance categories")
	return cmd
}

func newTraverseCmd(a *app) *cobra.Command {
	var (
		sel           selectFlags
		out           outputFlags
		direction     string
		level         int
		includeHidden bool
		flat          bool
	)
	cmd := &cobra.Command{
		Use:   "traverse [title]",
		Short: "Walk parents or children breadth-first, level by level",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := graph.ParseDirection(direction)
			if err != nil {
				return err
			}
			s, err := sel.selector(args)
			if err != nil {
				return err
			}
			cg, err := a.loadGraph()
			if err != nil {
				return err
			}
			opts := graph.TraverseOptions{
				Level:         level,
				IncludeHidden: includeHidden,
				MaxVisited:    a.cfg.Traverse.MaxVisited,
			}
			if flat {
				ids, err := cg.TraverseFlat(s, dir, opts)
				if err != nil {
					return err
				}
				return printLines(cmd, cg, &out, ids)
			}
			levels, err := cg.Traverse(s, dir, opts)
			if err != nil {
				return err
			}
			for i, ids := range levels {
				line, err := out.render(cg, ids, page.DefaultSeparator)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "level %d: %s\n", i+1, line)
			}
			return nil
		},
	}
	sel.register(cmd)
	out.register(cmd)
	cmd.Flags().StringVarP(&direction, "direction", "d", "parents", "Direction to walk: parents or children")
	cmd.Flags().IntVarP(&level, "level", "l", 1, "Number of levels to walk")
	cmd.Flags().BoolVar(&includeHidden, "include-hidden", false, "Include hidden maintenance categories")
	cmd.Flags().BoolVar(&flat, "flat", false, "Print one merged list instead of one line per level")
	return cmd
}

func newRankCmd(a *app) *cobra.Command {
	var (
		out       outputFlags
		ascending bool
		maxPages  int
	)
	cmd := &cobra.Command{
		Use:   "rank <id>...",
		Short: "Order pages by degree, highest first",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cg, err := a.loadGraph()
			if err != nil {
				return err
			}
			ranked, err := cg.RankIDs(args, graph.RankOptions{
				Mode:      graph.RankByDegree,
				Ascending: ascending,
				MaxPages:  maxPages,
			})
			if err != nil {
				return err
			}
			return printLines(cmd, cg, &out, ranked)
		},
	}
	out.register(cmd)
	cmd.Flags().BoolVar(&ascending, "ascending", false, "Lowest degree first")
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "Keep only the first N pages (0 keeps all)")
	return cmd
}

func newTopCmd(a *app) *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "top",
		Short: "List the configured top-level categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cg, err := a.loadGraph()
			if err != nil {
				return err
			}
			ids, err := cg.TopLevelCategoryIDs()
			if err != nil {
				return err
			}
			return printLines(cmd, cg, &out, ids)
		},
	}
	out.register(cmd)
	return cmd
}

func newPathCmd(a *app) *cobra.Command {
	var (
		out   outputFlags
		byID  bool
		sepBy string
	)
	cmd := &cobra.Command{
		Use:   "path <source> <target>",
		Short: "Find the shortest parent chain from a page up to a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cg, err := a.loadGraph()
			if err != nil {
				return err
			}
			srcSel, dstSel := graph.ByTitle(args[0], page.AnyNamespace), graph.ByTitle(args[1], page.Category)
			if byID {
				srcSel, dstSel = graph.ByID(args[0]), graph.ByID(args[1])
			}
			source, err := cg.Page(srcSel)
			if err != nil {
				return fmt.Errorf("source: %w", err)
			}
			target, err := cg.Page(dstSel)
			if err != nil {
				return fmt.Errorf("target: %w", err)
			}
			chain, err := pathfind.ShortestPath(cg, source, target)
			if err != nil {
				return err
			}
			line, err := out.render(cg, chain, sepBy)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
			return nil
		},
	}
	out.register(cmd)
	cmd.Flags().BoolVar(&byID, "id", false, "Treat source and target as curids")
	cmd.Flags().StringVar(&sepBy, "sep", " > ", "Separator between chain elements")
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the loaded graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cg, err := a.loadGraph()
			if err != nil {
				return err
			}
			st := cg.Stats()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), st.Map())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pages: %d\narticles: %d\ncategories: %d\nhidden categories: %d\nedges: %d\n",
				st.Pages, st.Articles, st.Categories, st.Hidden, st.Edges)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

// printLines writes one rendered id per line. Nothing is printed for an empty list.
func printLines(cmd *cobra.Command, cg *graph.CategoryGraph, out *outputFlags, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	text, err := out.render(cg, ids, "\n")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	if err := oj.Write(w, v, &ojg.Options{Sort: true, Indent: 2}); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err := fmt.Fprintln(w)
	return err
}
