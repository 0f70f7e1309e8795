// Package page models Wikipedia page identity: curid, canonical title and namespace.
package page

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultSeparator joins titles in FormatPages.
const DefaultSeparator = "; "

const wikiBaseURL = "https://en.wikipedia.org"

// Page is a node of the category graph.
// Construct with New to get a standardized title; a struct literal keeps the title as given.
type Page struct {
	ID        string
	Title     string
	Namespace Namespace
}

// New returns a page whose title has been standardized.
func New(id, title string, ns Namespace) Page {
	return Page{ID: id, Title: Standardize(title), Namespace: ns}
}

func (p Page) IsCategory() bool { return p.Namespace == Category }
func (p Page) IsArticle() bool  { return p.Namespace == Article }

// URL returns the Wikipedia URL of the page. The curid form is stable across
// renames; the title form is human-readable.
func (p Page) URL(useCurid bool) string {
	if useCurid {
		return wikiBaseURL + "/?curid=" + p.ID
	}
	if p.IsCategory() {
		return wikiBaseURL + "/wiki/Category:" + p.Title
	}
	return wikiBaseURL + "/wiki/" + p.Title
}

func (p Page) String() string {
	return fmt.Sprintf("Page(id=%q, title=%q, namespace=%q)", p.ID, p.Title, p.Namespace)
}

// Describe renders p as "key: value" lines, one per field plus the URL.
func (p Page) Describe() string {
	return fmt.Sprintf("id: %s\ntitle: %s\nnamespace: %s\nurl: %s\n", p.ID, p.Title, p.Namespace, p.URL(false))
}

// Standardize replaces spaces with underscores and applies Unicode NFC.
// Every externally supplied title must go through it before a title lookup.
func Standardize(title string) string {
	return StandardizeForm(title, norm.NFC)
}

// StandardizeForm is Standardize with an explicit normalization form.
func StandardizeForm(title string, form norm.Form) string {
	return form.String(strings.ReplaceAll(title, " ", "_"))
}

// FormatPages joins page titles with sep, optionally rendering underscores as spaces.
func FormatPages(pages []Page, sep string, replaceUnderscores bool) string {
	titles := make([]string, len(pages))
	for i, p := range pages {
		titles[i] = p.Title
		if replaceUnderscores {
			titles[i] = strings.ReplaceAll(p.Title, "_", " ")
		}
	}
	return strings.Join(titles, sep)
}
