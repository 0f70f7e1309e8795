package nfsmount

import (
	"fmt"
	"io"
	"net"
	"os"
	"testing"

	"github.com/go-git/go-billy/v5/util"
	"github.com/ohler55/ojg/oj"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/wikicat/internal/graph"
	"github.com/agentic-research/wikicat/internal/testutil"
)

func newTestFS(t *testing.T) *CategoryFS {
	t.Helper()
	cg, err := graph.New(testutil.ComputerSnapshot(), graph.WithTopLevelCategories(testutil.TopLevel))
	require.NoError(t, err)
	view, err := cg.WithSyntheticRoot("((ROOT))")
	require.NoError(t, err)
	return NewCategoryFS(graph.NewHotSwap(view))
}

func names(t *testing.T, fs *CategoryFS, path string) []string {
	t.Helper()
	entries, err := fs.ReadDir(path)
	require.NoError(t, err)
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name()
	}
	return out
}

func TestStatRoot(t *testing.T) {
	info, err := newTestFS(t).Stat("/")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, "/", info.Name())
}

func TestReadDirRoot(t *testing.T) {
	assert.Equal(t, []string{"_stats.json", "Computing", "Technology"}, names(t, newTestFS(t), "/"))
}

func TestReadDirRoot_WithoutSyntheticRoot(t *testing.T) {
	cg, err := graph.New(testutil.ComputerSnapshot(), graph.WithTopLevelCategories([]string{"Technology"}))
	require.NoError(t, err)
	fs := NewCategoryFS(graph.NewHotSwap(cg))
	assert.Equal(t, []string{"_stats.json", "Technology"}, names(t, fs, "/"))
}

func TestReadDirCategory(t *testing.T) {
	fs := newTestFS(t)
	assert.Equal(t, []string{"Consumer_electronics", "Montreal"}, names(t, fs, "/Technology"))
	assert.Equal(t, []string{"Computer.txt"}, names(t, fs, "/Technology/Consumer_electronics"))
	assert.Equal(t, []string{"Montreal.txt"}, names(t, fs, "/Technology/Montreal"))
	assert.Equal(t, []string{"Computer.txt"}, names(t, fs, "Computing/Computers"))
}

func TestStatEntries(t *testing.T) {
	fs := newTestFS(t)

	info, err := fs.Stat("/Computing/Computers")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, "Computers", info.Name())

	info, err = fs.Stat("/Computing/Computers/Computer.txt")
	require.NoError(t, err)
	assert.False(t, info.IsDir())
	assert.Equal(t, os.FileMode(0o444), info.Mode())
	assert.Positive(t, info.Size())
}

func TestStatNotFound(t *testing.T) {
	fs := newTestFS(t)

	_, err := fs.Stat("/nonexistent")
	assert.True(t, os.IsNotExist(err))

	_, err = fs.Stat("/Computing/Computers/Computer.txt/deeper")
	assert.True(t, os.IsNotExist(err))

	// Articles need the .txt suffix.
	_, err = fs.Stat("/Computing/Computers/Computer")
	assert.True(t, os.IsNotExist(err))
}

func TestHiddenCategoriesNotListed(t *testing.T) {
	cg, err := graph.New(testutil.ComputerSnapshot(), graph.WithTopLevelCategories([]string{"Hidden_categories"}))
	require.NoError(t, err)
	fs := NewCategoryFS(graph.NewHotSwap(cg))

	assert.Empty(t, names(t, fs, "/Hidden_categories"))
	_, err = fs.Stat("/Hidden_categories/Articles_with_short_description")
	assert.True(t, os.IsNotExist(err))
}

func TestOpenArticle(t *testing.T) {
	fs := newTestFS(t)

	data, err := util.ReadFile(fs, "/Technology/Consumer_electronics/Computer.txt")
	require.NoError(t, err)
	assert.Equal(t, "id: 10\ntitle: Computer\nnamespace: article\nurl: https://en.wikipedia.org/wiki/Computer\n", string(data))

	info, err := fs.Stat("/Technology/Consumer_electronics/Computer.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), info.Size())
}

func TestOpenStats(t *testing.T) {
	fs := newTestFS(t)

	data, err := util.ReadFile(fs, "/_stats.json")
	require.NoError(t, err)
	doc, err := oj.Parse(data)
	require.NoError(t, err)
	stats, ok := doc.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, int64(12), stats["pages"])
	assert.Equal(t, int64(1), stats["hidden_categories"])

	info, err := fs.Stat("/_stats.json")
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), info.Size())
}

func TestReadAtAndSeek(t *testing.T) {
	f, err := newTestFS(t).Open("/Computing/Computers/Computer.txt")
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	buf := make([]byte, 6)
	n, err := f.ReadAt(buf, 4)
	require.NoError(t, err)
	assert.Equal(t, "10\ntit", string(buf[:n]))

	pos, err := f.Seek(-4, io.SeekEnd)
	require.NoError(t, err)
	assert.Positive(t, pos)
	rest, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "ter\n", string(rest))
}

func TestOpenDirectoryFails(t *testing.T) {
	_, err := newTestFS(t).Open("/Computing")
	assert.Error(t, err)
}

func TestReadDirOnFileFails(t *testing.T) {
	_, err := newTestFS(t).ReadDir("/Computing/Computers/Computer.txt")
	assert.Error(t, err)
}

func TestReadOnly(t *testing.T) {
	fs := newTestFS(t)

	_, err := fs.Create("newfile.txt")
	assert.Equal(t, errReadOnly, err)

	_, err = fs.OpenFile("/Computing/Computers/Computer.txt", os.O_RDWR, 0)
	assert.Equal(t, errReadOnly, err)

	assert.Equal(t, errReadOnly, fs.MkdirAll("/newdir", 0o755))
	assert.Equal(t, errReadOnly, fs.Remove("/Computing"))
	assert.Equal(t, errReadOnly, fs.Rename("/Computing", "/renamed"))

	f, err := fs.Open("/_stats.json")
	require.NoError(t, err)
	_, err = f.Write([]byte("x"))
	assert.Equal(t, errReadOnly, err)
}

func TestCapabilities(t *testing.T) {
	caps := newTestFS(t).Capabilities()
	assert.NotZero(t, caps&2) // ReadCapability (1 << 1)
	assert.NotZero(t, caps&8) // SeekCapability (1 << 3)
	assert.Zero(t, caps&1)    // WriteCapability (1 << 0) should NOT be set
}

func TestChroot(t *testing.T) {
	sub, err := newTestFS(t).Chroot("/Technology")
	require.NoError(t, err)

	entries, err := sub.ReadDir("/")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestSwapIsVisible(t *testing.T) {
	cg, err := graph.New(testutil.ComputerSnapshot(), graph.WithTopLevelCategories([]string{"Technology"}))
	require.NoError(t, err)
	graphs := graph.NewHotSwap(cg)
	fs := NewCategoryFS(graphs)
	assert.Equal(t, []string{"_stats.json", "Technology"}, names(t, fs, "/"))

	next, err := graph.New(testutil.ChainSnapshot(), graph.WithTopLevelCategories([]string{"C2"}))
	require.NoError(t, err)
	graphs.Swap(next)
	assert.Equal(t, []string{"_stats.json", "C2"}, names(t, fs, "/"))
	assert.Equal(t, []string{"A.txt"}, names(t, fs, "/C2/C1"))
}

func TestEntryNameReplacesSlash(t *testing.T) {
	snap := testutil.ChainSnapshot()
	snap.IDToTitle["C1"] = "AC/DC"
	snap.TitleToID["category"]["AC/DC"] = "C1"
	delete(snap.TitleToID["category"], "C1")
	cg, err := graph.New(snap, graph.WithTopLevelCategories([]string{"C2"}))
	require.NoError(t, err)
	fs := NewCategoryFS(graph.NewHotSwap(cg))

	assert.Equal(t, []string{"AC∕DC"}, names(t, fs, "/C2"))
	assert.Equal(t, []string{"A.txt"}, names(t, fs, "/C2/AC∕DC"))
}

func TestStatRequiresMembership(t *testing.T) {
	fs := newTestFS(t)

	// Both pages exist, but neither is a member of the directory named.
	_, err := fs.Stat("/Technology/Computer.txt")
	assert.True(t, os.IsNotExist(err))
	_, err = fs.Stat("/Computing/Montreal")
	assert.True(t, os.IsNotExist(err))

	// A category that is not top level is not visible at the root.
	_, err = fs.Stat("/Computers")
	assert.True(t, os.IsNotExist(err))
}

func TestStatCategoryWithArticleSuffix(t *testing.T) {
	snap := testutil.ChainSnapshot()
	snap.IDToTitle["C1"] = "Notes.txt"
	snap.TitleToID["category"]["Notes.txt"] = "C1"
	delete(snap.TitleToID["category"], "C1")
	cg, err := graph.New(snap, graph.WithTopLevelCategories([]string{"C2"}))
	require.NoError(t, err)
	fs := NewCategoryFS(graph.NewHotSwap(cg))

	info, err := fs.Stat("/C2/Notes.txt")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, []string{"A.txt"}, names(t, fs, "/C2/Notes.txt"))
}

func TestStatWideDirectory(t *testing.T) {
	snap := testutil.ChainSnapshot()
	const members = 5000
	for i := range members {
		id := fmt.Sprintf("a%d", i)
		snap.IDToTitle[id] = "Article_" + id
		snap.IDToNamespace[id] = "article"
		snap.TitleToID["article"]["Article_"+id] = id
		snap.ChildrenToParents[id] = []string{"C2"}
		snap.ParentsToChildren["C2"] = append(snap.ParentsToChildren["C2"], id)
	}
	cg, err := graph.New(snap, graph.WithTopLevelCategories([]string{"C2"}))
	require.NoError(t, err)
	fs := NewCategoryFS(graph.NewHotSwap(cg))

	for i := range members {
		_, err := fs.Stat(fmt.Sprintf("/C2/Article_a%d.txt", i))
		require.NoError(t, err)
	}
	assert.Len(t, names(t, fs, "/C2"), members+1)
}

func TestMountCommand(t *testing.T) {
	cmd, err := mountCommand("linux", 2049, "/mnt/wiki")
	require.NoError(t, err)
	assert.Contains(t, cmd.Args, "port=2049,mountport=2049,vers=3,tcp,local_lock=all,nolock,ro")
	assert.Equal(t, "/mnt/wiki", cmd.Args[len(cmd.Args)-1])

	_, err = mountCommand("plan9", 2049, "/mnt/wiki")
	assert.Error(t, err)
}

func TestNFSServerStarts(t *testing.T) {
	srv, err := NewServer(newTestFS(t), "localhost:0")
	require.NoError(t, err)
	defer func() { _ = srv.Close() }()

	assert.True(t, srv.Port() > 0, "server should be on a valid port")

	conn, err := net.Dial("tcp", fmt.Sprintf("localhost:%d", srv.Port()))
	require.NoError(t, err)
	_ = conn.Close()
}
