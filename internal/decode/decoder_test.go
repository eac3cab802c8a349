package decode

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mixcore/mixcore/internal/mediasource"
)

func TestNewDecoderUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.xyz")
	if err := os.WriteFile(path, []byte("not audio"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	ms, err := mediasource.OpenLocalFile(path)
	if err != nil {
		t.Fatalf("OpenLocalFile: %v", err)
	}
	defer ms.Close()

	if _, _, err := NewDecoder(ms, ""); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestNewDecoderHintOverridesPathExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.mp3")
	if err := os.WriteFile(path, []byte("not a real mp3"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	ms, err := mediasource.OpenLocalFile(path)
	if err != nil {
		t.Fatalf("OpenLocalFile: %v", err)
	}
	defer ms.Close()

	// An invalid hint should fail during format dispatch, not silently fall
	// back to sniffing the path's real .mp3 extension.
	if _, _, err := NewDecoder(ms, ".bogus"); err == nil {
		t.Error("expected error for unsupported hint extension")
	}
}
