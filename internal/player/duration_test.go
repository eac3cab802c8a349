package player

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mixcore/mixcore/internal/mediasource"
)

func TestEstimateDurationFromByteRate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.pcm")
	// 1 second of 44100Hz, stereo, 16-bit PCM.
	data := make([]byte, 44100*2*2)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	ms, err := mediasource.OpenLocalFile(path)
	if err != nil {
		t.Fatalf("OpenLocalFile: %v", err)
	}
	defer ms.Close()

	got, ok := estimateDuration(ms, 44100, 2, 16)
	if !ok {
		t.Fatal("expected a duration estimate")
	}
	if got < 0.99 || got > 1.01 {
		t.Errorf("duration = %v, want close to 1.0", got)
	}
}

func TestEstimateDurationUnknownRate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.pcm")
	if err := os.WriteFile(path, make([]byte, 100), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	ms, err := mediasource.OpenLocalFile(path)
	if err != nil {
		t.Fatalf("OpenLocalFile: %v", err)
	}
	defer ms.Close()

	if _, ok := estimateDuration(ms, 0, 2, 16); ok {
		t.Error("expected no estimate for a zero sample rate")
	}
}
