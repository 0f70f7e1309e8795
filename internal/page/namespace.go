package page

import (
	"errors"
	"fmt"
)

var ErrInvalidNamespace = errors.New("invalid namespace")

// Namespace classifies a page as an article or a category.
// The zero value means "unspecified" and is only meaningful as a lookup hint.
type Namespace uint8

const (
	AnyNamespace Namespace = iota
	Article
	Category
)

// Raw Wikipedia namespace codes.
const (
	ArticleCode  = "0"
	CategoryCode = "14"
)

// ParseNamespace accepts both surface forms found in snapshots:
// "article"/"category" and the raw codes "0"/"14".
func ParseNamespace(token string) (Namespace, error) {
	switch token {
	case "article", ArticleCode:
		return Article, nil
	case "category", CategoryCode:
		return Category, nil
	}
	return AnyNamespace, fmt.Errorf("%w: %q (must be one of article, category, 0, 14)", ErrInvalidNamespace, token)
}

// String returns the human-readable token.
func (n Namespace) String() string {
	switch n {
	case Article:
		return "article"
	case Category:
		return "category"
	}
	return "any"
}

// Code returns the raw Wikipedia namespace code.
func (n Namespace) Code() string {
	switch n {
	case Article:
		return ArticleCode
	case Category:
		return CategoryCode
	}
	return ""
}

// Valid reports whether n names a concrete namespace.
func (n Namespace) Valid() bool {
	return n == Article || n == Category
}

// ParseNamespaceHint is ParseNamespace for optional selector input: an empty
// token or "any" yields AnyNamespace.
func ParseNamespaceHint(token string) (Namespace, error) {
	if token == "" || token == "any" {
		return AnyNamespace, nil
	}
	return ParseNamespace(token)
}
