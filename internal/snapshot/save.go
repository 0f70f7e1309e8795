package snapshot

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Create encodes snap into name in fsys, compressing by extension:
// ".gz" writes gzip, ".zst" writes zstd, anything else plain JSON.
func Create(fsys billy.Filesystem, name string, snap *Snapshot) (err error) {
	if err := snap.Validate(); err != nil {
		return err
	}
	f, err := fsys.Create(name)
	if err != nil {
		return fmt.Errorf("create snapshot %s: %w", name, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close snapshot %s: %w", name, cerr)
		}
	}()

	bw := bufio.NewWriterSize(f, 1<<20)
	w, finish, err := compress(bw, name)
	if err != nil {
		return fmt.Errorf("create snapshot %s: %w", name, err)
	}
	if err := Encode(w, snap); err != nil {
		return err
	}
	if err := finish(); err != nil {
		return fmt.Errorf("compress %s: %w", name, err)
	}
	return bw.Flush()
}

// Save writes snap to path on the local filesystem. SQLite paths (see
// IsSQLitePath) go through WriteSQLite; the rest through Create.
func Save(path string, snap *Snapshot) error {
	if IsSQLitePath(path) {
		return WriteSQLite(path, snap)
	}
	return Create(osfs.New(filepath.Dir(path)), filepath.Base(path), snap)
}

func compress(w io.Writer, name string) (io.Writer, func() error, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz":
		zw := gzip.NewWriter(w)
		return zw, zw.Close, nil
	case ".zst":
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd: %w", err)
		}
		return zw, zw.Close, nil
	}
	return w, func() error { return nil }, nil
}
