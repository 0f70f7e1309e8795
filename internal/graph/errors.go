package graph

import (
	"errors"

	"github.com/agentic-research/wikicat/internal/snapshot"
)

var (
	// ErrMalformedGraph is returned when a snapshot lacks required structure.
	// It is the same sentinel as snapshot.ErrMalformed.
	ErrMalformedGraph = snapshot.ErrMalformed

	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
)
