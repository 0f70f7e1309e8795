package graph

import (
	"fmt"
	"strings"
)

// OutputForm selects how ids are projected for display.
type OutputForm int

const (
	FormTitle OutputForm = iota
	FormID
	FormPage
)

// ParseOutputForm accepts "id", "title" and "page". The empty string is FormTitle.
func ParseOutputForm(s string) (OutputForm, error) {
	switch s {
	case "", "title":
		return FormTitle, nil
	case "id":
		return FormID, nil
	case "page":
		return FormPage, nil
	}
	return FormTitle, fmt.Errorf("%w: unknown output form %q, want id, title or page", ErrInvalidArgument, s)
}

func (f OutputForm) String() string {
	switch f {
	case FormID:
		return "id"
	case FormPage:
		return "page"
	}
	return "title"
}

// Render projects ids into form and joins them with sep.
func (cg *CategoryGraph) Render(ids []string, form OutputForm, sep string) (string, error) {
	var parts []string
	switch form {
	case FormID:
		parts = ids
	case FormTitle:
		titles, err := Project(cg, ids, AsTitle)
		if err != nil {
			return "", err
		}
		parts = titles
	case FormPage:
		pages, err := Project(cg, ids, AsPage)
		if err != nil {
			return "", err
		}
		parts = make([]string, len(pages))
		for i, p := range pages {
			parts[i] = p.String()
		}
	default:
		return "", fmt.Errorf("%w: output form %d", ErrInvalidArgument, form)
	}
	return strings.Join(parts, sep), nil
}
