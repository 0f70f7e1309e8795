// Package nfsmount serves the category tree as a read-only filesystem over
// NFS. Categories are directories and articles are small text files; the
// top level holds the top-level categories.
package nfsmount

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"fortio.org/log"
	"github.com/RoaringBitmap/roaring"
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/helper/chroot"
	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"

	"github.com/agentic-research/wikicat/internal/graph"
	"github.com/agentic-research/wikicat/internal/page"
)

var errReadOnly = errors.New("read-only filesystem")

const (
	statsName     = "_stats.json"
	articleSuffix = ".txt"
	// titles may contain '/', which cannot appear in a file name
	slashReplacement = "∕"
)

// CategoryFS adapts the graph currently held by a HotSwap to
// billy.Filesystem. Each call reads the current graph, so a reload is
// visible on the next lookup.
type CategoryFS struct {
	graphs    *graph.HotSwap
	mountTime time.Time
}

// NewCategoryFS creates a filesystem view over graphs. If the current graph
// has a synthetic root, its children form the top level; otherwise the
// configured top-level categories do.
func NewCategoryFS(graphs *graph.HotSwap) *CategoryFS {
	return &CategoryFS{graphs: graphs, mountTime: time.Now()}
}

// entry is a resolved path: the root directory or a page.
type entry struct {
	root bool
	page page.Page
}

func (e entry) isDir() bool { return e.root || e.page.IsCategory() }

// --- billy.Basic ---

func (fs *CategoryFS) Create(filename string) (billy.File, error) {
	return nil, errReadOnly
}

func (fs *CategoryFS) Open(filename string) (billy.File, error) {
	return fs.OpenFile(filename, os.O_RDONLY, 0)
}

func (fs *CategoryFS) OpenFile(filename string, flag int, perm os.FileMode) (billy.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE|os.O_TRUNC|os.O_APPEND) != 0 {
		return nil, errReadOnly
	}
	filename = cleanPath(filename)
	cg := fs.graphs.Current()

	if filename == "/"+statsName {
		data, err := statsJSON(cg)
		if err != nil {
			return nil, &os.PathError{Op: "open", Path: filename, Err: err}
		}
		return newBytesFile(statsName, data), nil
	}

	e, err := fs.resolve(cg, filename)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: filename, Err: err}
	}
	if e.isDir() {
		return nil, &os.PathError{Op: "open", Path: filename, Err: fmt.Errorf("is a directory")}
	}
	return newBytesFile(entryName(e.page), articleContent(e.page)), nil
}

func (fs *CategoryFS) Stat(filename string) (os.FileInfo, error) {
	return fs.Lstat(filename)
}

func (fs *CategoryFS) Rename(oldpath, newpath string) error {
	return errReadOnly
}

func (fs *CategoryFS) Remove(filename string) error {
	return errReadOnly
}

func (fs *CategoryFS) Join(elem ...string) string {
	return filepath.Join(elem...)
}

// --- billy.TempFile ---

func (fs *CategoryFS) TempFile(dir, prefix string) (billy.File, error) {
	return nil, billy.ErrNotSupported
}

// --- billy.Dir ---

func (fs *CategoryFS) ReadDir(path string) ([]os.FileInfo, error) {
	path = cleanPath(path)
	cg := fs.graphs.Current()

	e, err := fs.resolve(cg, path)
	if err != nil {
		return nil, &os.PathError{Op: "readdir", Path: path, Err: err}
	}
	if !e.isDir() {
		return nil, &os.PathError{Op: "readdir", Path: path, Err: fmt.Errorf("not a directory")}
	}

	children, err := fs.children(cg, e)
	if err != nil {
		return nil, &os.PathError{Op: "readdir", Path: path, Err: err}
	}

	infos := make([]os.FileInfo, 0, len(children)+1)
	if e.root {
		info, err := fs.statsInfo(cg)
		if err != nil {
			return nil, &os.PathError{Op: "readdir", Path: path, Err: err}
		}
		infos = append(infos, info)
	}
	for _, child := range children {
		infos = append(infos, fs.pageInfo(child))
	}
	return infos, nil
}

func (fs *CategoryFS) MkdirAll(filename string, perm os.FileMode) error {
	return errReadOnly
}

// --- billy.Symlink ---

func (fs *CategoryFS) Lstat(filename string) (os.FileInfo, error) {
	filename = cleanPath(filename)
	cg := fs.graphs.Current()

	if filename == "/" {
		return &staticFileInfo{name: "/", mode: os.ModeDir | 0o555, modTime: fs.mountTime}, nil
	}
	if filename == "/"+statsName {
		info, err := fs.statsInfo(cg)
		if err != nil {
			return nil, &os.PathError{Op: "lstat", Path: filename, Err: err}
		}
		return info, nil
	}

	e, err := fs.resolve(cg, filename)
	if err != nil {
		return nil, &os.PathError{Op: "lstat", Path: filename, Err: err}
	}
	return fs.pageInfo(e.page), nil
}

func (fs *CategoryFS) Symlink(target, link string) error {
	return billy.ErrNotSupported
}

func (fs *CategoryFS) Readlink(link string) (string, error) {
	return "", billy.ErrNotSupported
}

// --- billy.Chroot ---

func (fs *CategoryFS) Chroot(path string) (billy.Filesystem, error) {
	return chroot.New(fs, path), nil
}

func (fs *CategoryFS) Root() string {
	return "/"
}

// --- billy.Capable ---

func (fs *CategoryFS) Capabilities() billy.Capability {
	return billy.ReadCapability | billy.SeekCapability
}

// --- internals ---

// resolve walks path one name at a time from the top level. Each name is
// turned back into candidate titles and checked for membership in its
// directory, so a lookup never lists a directory.
func (fs *CategoryFS) resolve(cg *graph.CategoryGraph, path string) (entry, error) {
	cur := entry{root: true}
	if path == "/" {
		return cur, nil
	}
	for _, name := range strings.Split(strings.TrimPrefix(path, "/"), "/") {
		if !cur.isDir() {
			return entry{}, os.ErrNotExist
		}
		child, ok := fs.lookupChild(cg, cur, name)
		if !ok {
			return entry{}, os.ErrNotExist
		}
		cur = entry{page: child}
	}
	return cur, nil
}

type nameCandidate struct {
	title string
	ns    page.Namespace
}

// nameCandidates inverts entryName: a ".txt" name may be an article, any
// name may be a category, and "∕" may stand for "/".
func nameCandidates(name string) []nameCandidate {
	var out []nameCandidate
	add := func(title string, ns page.Namespace) {
		out = append(out, nameCandidate{title: title, ns: ns})
		if restored := strings.ReplaceAll(title, slashReplacement, "/"); restored != title {
			out = append(out, nameCandidate{title: restored, ns: ns})
		}
	}
	if title, ok := strings.CutSuffix(name, articleSuffix); ok {
		add(title, page.Article)
	}
	add(name, page.Category)
	return out
}

func (fs *CategoryFS) lookupChild(cg *graph.CategoryGraph, dir entry, name string) (page.Page, bool) {
	for _, c := range nameCandidates(name) {
		p, err := cg.PageByTitle(c.title, c.ns, false)
		if err != nil || entryName(p) != name {
			continue
		}
		if fs.isMember(cg, dir, p.ID) {
			return p, true
		}
	}
	return page.Page{}, false
}

// isMember matches what children lists for dir.
func (fs *CategoryFS) isMember(cg *graph.CategoryGraph, dir entry, id string) bool {
	if !dir.root {
		return cg.IsChild(dir.page.ID, id, false)
	}
	if rootID, ok := cg.SyntheticRoot(); ok {
		return cg.IsChild(rootID, id, false)
	}
	ids, err := cg.TopLevelCategoryIDs()
	return err == nil && slices.Contains(ids, id)
}

// children lists the visible members of a directory. Hidden categories, ids
// without a title and repeated ids are left out.
func (fs *CategoryFS) children(cg *graph.CategoryGraph, e entry) ([]page.Page, error) {
	var ids []string
	var err error
	switch {
	case !e.root:
		ids, err = cg.ChildIDs(graph.ByID(e.page.ID), false)
	default:
		if rootID, ok := cg.SyntheticRoot(); ok {
			ids, err = cg.ChildIDs(graph.ByID(rootID), false)
		} else {
			ids, err = cg.TopLevelCategoryIDs()
		}
	}
	if err != nil {
		return nil, err
	}

	seen := roaring.New()
	pages := make([]page.Page, 0, len(ids))
	for _, id := range ids {
		if ord, ok := cg.Store().Ordinal(id); ok && !seen.CheckedAdd(ord) {
			continue
		}
		p, err := cg.PageByID(id)
		if err != nil {
			log.LogVf("nfs: skipping child %s: %v", id, err)
			continue
		}
		pages = append(pages, p)
	}
	return pages, nil
}

func (fs *CategoryFS) pageInfo(p page.Page) os.FileInfo {
	if p.IsCategory() {
		return &staticFileInfo{name: entryName(p), mode: os.ModeDir | 0o555, modTime: fs.mountTime}
	}
	return &staticFileInfo{
		name:    entryName(p),
		size:    int64(len(articleContent(p))),
		mode:    0o444,
		modTime: fs.mountTime,
	}
}

func (fs *CategoryFS) statsInfo(cg *graph.CategoryGraph) (os.FileInfo, error) {
	data, err := statsJSON(cg)
	if err != nil {
		return nil, err
	}
	return &staticFileInfo{name: statsName, size: int64(len(data)), mode: 0o444, modTime: fs.mountTime}, nil
}

// entryName is the file name of p inside its parent directory.
func entryName(p page.Page) string {
	name := strings.ReplaceAll(p.Title, "/", slashReplacement)
	if p.IsArticle() {
		name += articleSuffix
	}
	return name
}

func articleContent(p page.Page) []byte { return []byte(p.Describe()) }

func statsJSON(cg *graph.CategoryGraph) ([]byte, error) {
	var buf bytes.Buffer
	if err := oj.Write(&buf, cg.Stats().Map(), &ojg.Options{Sort: true, Indent: 2}); err != nil {
		return nil, fmt.Errorf("encode stats: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// cleanPath normalizes a billy path to a clean absolute path.
func cleanPath(path string) string {
	path = filepath.Clean("/" + path)
	if path == "." {
		return "/"
	}
	return path
}

// staticFileInfo implements os.FileInfo with static values.
type staticFileInfo struct {
	name    string
	size    int64
	mode    os.FileMode
	modTime time.Time
}

func (fi *staticFileInfo) Name() string       { return fi.name }
func (fi *staticFileInfo) Size() int64        { return fi.size }
func (fi *staticFileInfo) Mode() os.FileMode  { return fi.mode }
func (fi *staticFileInfo) ModTime() time.Time { return fi.modTime }
func (fi *staticFileInfo) IsDir() bool        { return fi.mode.IsDir() }
func (fi *staticFileInfo) Sys() interface{}   { return nil }

var (
	_ billy.Filesystem = (*CategoryFS)(nil)
	_ billy.Capable    = (*CategoryFS)(nil)
	_ billy.File       = (*bytesFile)(nil)
)
