// Package snapshot reads and writes the serialized category graph produced by the
// dump pipeline. A snapshot is loaded whole; the graph index is built from it once.
package snapshot

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"
)

var ErrMalformed = errors.New("malformed graph snapshot")

// Top-level snapshot keys.
const (
	KeyIDToTitle         = "id_to_title"
	KeyIDToNamespace     = "id_to_namespace"
	KeyTitleToID         = "title_to_id"
	KeyChildrenToParents = "children_to_parents"
	KeyParentsToChildren = "parents_to_children"
)

var requiredKeys = []string{
	KeyIDToTitle,
	KeyIDToNamespace,
	KeyTitleToID,
	KeyChildrenToParents,
	KeyParentsToChildren,
}

// Snapshot is the decoded form of the serialized graph. Ids are strings even
// though they originate as integer curids. Namespace tokens are kept as found
// ("article"/"category" or "0"/"14"); the graph index normalizes them.
type Snapshot struct {
	IDToTitle         map[string]string
	IDToNamespace     map[string]string
	TitleToID         map[string]map[string]string // namespace token -> title -> id
	ChildrenToParents map[string][]string
	ParentsToChildren map[string][]string
}

// Decode parses a JSON snapshot. Adjacency values may be whitespace-separated
// strings or lists of ids; both encodings appear in published snapshots.
func Decode(r io.Reader) (*Snapshot, error) {
	data, err := oj.Load(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	root, ok := data.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top level is %T, want object", ErrMalformed, data)
	}
	for _, key := range requiredKeys {
		if _, ok := root[key]; !ok {
			return nil, fmt.Errorf("%w: missing key %q", ErrMalformed, key)
		}
	}

	snap := &Snapshot{}
	if snap.IDToTitle, err = decodeStringMap(root, KeyIDToTitle); err != nil {
		return nil, err
	}
	if snap.IDToNamespace, err = decodeStringMap(root, KeyIDToNamespace); err != nil {
		return nil, err
	}
	if snap.TitleToID, err = decodeTitleToID(root[KeyTitleToID]); err != nil {
		return nil, err
	}
	if snap.ChildrenToParents, err = decodeAdjacency(root, KeyChildrenToParents); err != nil {
		return nil, err
	}
	if snap.ParentsToChildren, err = decodeAdjacency(root, KeyParentsToChildren); err != nil {
		return nil, err
	}
	return snap, nil
}

// Encode writes snap as JSON with keys sorted and adjacency as id lists.
func Encode(w io.Writer, snap *Snapshot) error {
	titleToID := make(map[string]any, len(snap.TitleToID))
	for ns, titles := range snap.TitleToID {
		titleToID[ns] = stringsToAny(titles)
	}
	doc := map[string]any{
		KeyIDToTitle:         stringsToAny(snap.IDToTitle),
		KeyIDToNamespace:     stringsToAny(snap.IDToNamespace),
		KeyTitleToID:         titleToID,
		KeyChildrenToParents: adjacencyToAny(snap.ChildrenToParents),
		KeyParentsToChildren: adjacencyToAny(snap.ParentsToChildren),
	}
	if err := oj.Write(w, doc, &ojg.Options{Sort: true}); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// Validate checks that every required mapping is present.
func (s *Snapshot) Validate() error {
	switch {
	case s == nil:
		return fmt.Errorf("%w: nil snapshot", ErrMalformed)
	case s.IDToTitle == nil:
		return fmt.Errorf("%w: missing key %q", ErrMalformed, KeyIDToTitle)
	case s.IDToNamespace == nil:
		return fmt.Errorf("%w: missing key %q", ErrMalformed, KeyIDToNamespace)
	case s.TitleToID == nil:
		return fmt.Errorf("%w: missing key %q", ErrMalformed, KeyTitleToID)
	case s.ChildrenToParents == nil:
		return fmt.Errorf("%w: missing key %q", ErrMalformed, KeyChildrenToParents)
	case s.ParentsToChildren == nil:
		return fmt.Errorf("%w: missing key %q", ErrMalformed, KeyParentsToChildren)
	}
	return nil
}

func decodeStringMap(root map[string]any, key string) (map[string]string, error) {
	obj, ok := root[key].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q is %T, want object", ErrMalformed, key, root[key])
	}
	out := make(map[string]string, len(obj))
	for k, v := range obj {
		s, ok := scalarString(v)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%q] is %T, want string", ErrMalformed, key, k, v)
		}
		out[k] = s
	}
	return out, nil
}

func decodeTitleToID(v any) (map[string]map[string]string, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q is %T, want object", ErrMalformed, KeyTitleToID, v)
	}
	if len(obj) != 2 {
		return nil, fmt.Errorf("%w: %q has %d namespaces, want 2", ErrMalformed, KeyTitleToID, len(obj))
	}
	out := make(map[string]map[string]string, 2)
	for ns := range obj {
		titles, err := decodeStringMap(obj, ns)
		if err != nil {
			return nil, err
		}
		out[ns] = titles
	}
	return out, nil
}

func decodeAdjacency(root map[string]any, key string) (map[string][]string, error) {
	obj, ok := root[key].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q is %T, want object", ErrMalformed, key, root[key])
	}
	out := make(map[string][]string, len(obj))
	for id, v := range obj {
		switch ids := v.(type) {
		case string:
			out[id] = strings.Fields(ids)
		case []any:
			list := make([]string, 0, len(ids))
			for _, e := range ids {
				s, ok := scalarString(e)
				if !ok {
					return nil, fmt.Errorf("%w: %s[%q] holds %T, want id", ErrMalformed, key, id, e)
				}
				list = append(list, s)
			}
			out[id] = list
		case nil:
			out[id] = []string{}
		default:
			return nil, fmt.Errorf("%w: %s[%q] is %T, want string or list", ErrMalformed, key, id, v)
		}
	}
	return out, nil
}

// scalarString renders ids and namespace codes that were serialized as numbers.
func scalarString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case int64:
		return strconv.FormatInt(x, 10), true
	case float64:
		if x == math.Trunc(x) && !math.IsInf(x, 0) {
			return strconv.FormatInt(int64(x), 10), true
		}
	}
	return "", false
}

func stringsToAny(m map[string]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func adjacencyToAny(m map[string][]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, ids := range m {
		list := make([]any, len(ids))
		for i, id := range ids {
			list[i] = id
		}
		out[k] = list
	}
	return out
}

// SortedIDs returns the keys of IDToTitle in lexical order.
func (s *Snapshot) SortedIDs() []string {
	ids := make([]string, 0, len(s.IDToTitle))
	for id := range s.IDToTitle {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
