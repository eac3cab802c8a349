package mediasource

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.bin")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestLocalFileReadSeekLen(t *testing.T) {
	data := []byte("the quick brown fox")
	path := writeTempFile(t, data)

	f, err := OpenLocalFile(path)
	if err != nil {
		t.Fatalf("OpenLocalFile: %v", err)
	}
	defer f.Close()

	if size, known := f.Len(); !known || size != int64(len(data)) {
		t.Fatalf("Len() = %d, %v; want %d, true", size, known, len(data))
	}
	if !f.Seekable() {
		t.Error("LocalFile should report Seekable() == true")
	}
	if p, ok := f.LocalPath(); !ok || p != path {
		t.Errorf("LocalPath() = %q, %v; want %q, true", p, ok, path)
	}

	got := make([]byte, len(data))
	if _, err := io.ReadFull(f, got); err != nil {
		t.Fatalf("ReadFull: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("read back %q, want %q", got, data)
	}

	if _, err := f.Seek(4, io.SeekStart); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	rest := make([]byte, len(data)-4)
	if _, err := io.ReadFull(f, rest); err != nil {
		t.Fatalf("ReadFull after seek: %v", err)
	}
	if string(rest) != "quick brown fox" {
		t.Errorf("read after seek = %q", rest)
	}
}

func TestNewRoutesByURLScheme(t *testing.T) {
	path := writeTempFile(t, []byte("data"))

	ms, err := New(path)
	if err != nil {
		t.Fatalf("New(local path): %v", err)
	}
	if _, ok := ms.(*LocalFile); !ok {
		t.Errorf("New(%q) returned %T, want *LocalFile", path, ms)
	}

	ms, err = New("https://example.invalid/stream.mp3")
	if err != nil {
		t.Fatalf("New(https url): %v", err)
	}
	if _, ok := ms.(*ProgressiveHttpStream); !ok {
		t.Errorf("New(https url) returned %T, want *ProgressiveHttpStream", ms)
	}
}

func TestSpoolToTempFilePassesThroughLocalPath(t *testing.T) {
	path := writeTempFile(t, []byte("data"))
	f, err := OpenLocalFile(path)
	if err != nil {
		t.Fatalf("OpenLocalFile: %v", err)
	}
	defer f.Close()

	spooled, cleanup, err := SpoolToTempFile(f, "test-*.bin")
	defer cleanup()
	if err != nil {
		t.Fatalf("SpoolToTempFile: %v", err)
	}
	if spooled != path {
		t.Errorf("SpoolToTempFile on a LocalFile should return its own path; got %q want %q", spooled, path)
	}
}
