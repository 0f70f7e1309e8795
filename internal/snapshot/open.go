package snapshot

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Open reads and decodes the snapshot at name in fsys. Gzip and zstd
// compressed snapshots are detected by their magic bytes. The file is closed
// before Open returns.
func Open(fsys billy.Filesystem, name string) (*Snapshot, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open snapshot %s: %w", name, err)
	}
	defer func() { _ = f.Close() }() // read-only, safe to ignore

	r, closeFn, err := decompress(bufio.NewReaderSize(f, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("open snapshot %s: %w", name, err)
	}
	defer closeFn()

	snap, err := Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return snap, nil
}

// Load reads a snapshot from the local filesystem. Paths ending in .db,
// .sqlite or .sqlite3 are read as SQLite exports; everything else as JSON.
func Load(path string) (*Snapshot, error) {
	if IsSQLitePath(path) {
		return ReadSQLite(path)
	}
	return Open(osfs.New(filepath.Dir(path)), filepath.Base(path))
}

// IsSQLitePath reports whether path names a SQLite export.
func IsSQLitePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

func decompress(br *bufio.Reader) (io.Reader, func(), error) {
	magic, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		return nil, nil, err
	}
	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("gzip: %w", err)
		}
		return zr, func() { _ = zr.Close() }, nil
	case bytes.HasPrefix(magic, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd: %w", err)
		}
		return zr, zr.Close, nil
	}
	return br, func() {}, nil
}
