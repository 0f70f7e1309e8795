package nfsmount

import (
	"bytes"
)

// bytesFile is a read-only billy.File over content rendered when the file
// was opened. Reads and seeks come from the embedded bytes.Reader.
type bytesFile struct {
	*bytes.Reader
	name string
}

func newBytesFile(name string, data []byte) *bytesFile {
	return &bytesFile{Reader: bytes.NewReader(data), name: name}
}

func (f *bytesFile) Name() string              { return f.name }
func (f *bytesFile) Write([]byte) (int, error) { return 0, errReadOnly }
func (f *bytesFile) Truncate(int64) error      { return errReadOnly }
func (f *bytesFile) Lock() error               { return nil }
func (f *bytesFile) Unlock() error             { return nil }
func (f *bytesFile) Close() error              { return nil }
