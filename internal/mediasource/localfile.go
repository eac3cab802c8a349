package mediasource

import (
	"bytes"
	"fmt"
	"os"
)

// LocalFile is a MediaSource backed by the file's full contents in memory:
// simple, always seekable, length always known.
type LocalFile struct {
	path   string
	reader *bytes.Reader
}

// OpenLocalFile reads path fully into memory and wraps it as a MediaSource.
func OpenLocalFile(path string) (*LocalFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mediasource: open local file %s: %w", path, err)
	}
	return &LocalFile{
		path:   path,
		reader: bytes.NewReader(data),
	}, nil
}

func (f *LocalFile) Read(p []byte) (int, error) { return f.reader.Read(p) }

func (f *LocalFile) Seek(offset int64, whence int) (int64, error) {
	return f.reader.Seek(offset, whence)
}

func (f *LocalFile) Close() error { return nil }

func (f *LocalFile) Seekable() bool { return true }

func (f *LocalFile) Len() (int64, bool) { return f.reader.Size(), true }

func (f *LocalFile) LocalPath() (string, bool) { return f.path, true }
