package player

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	gowav "github.com/youpy/go-wav"
)

func writeTestWav(t *testing.T, path string, frames int, sampleRate int) {
	t.Helper()
	var buf bytes.Buffer
	writer := gowav.NewWriter(&buf, uint32(frames), 1, uint32(sampleRate), 16)
	samples := make([]gowav.Sample, frames)
	for i := range samples {
		samples[i].Values[0] = i % 100
	}
	if _, err := writer.WriteSamples(samples); err != nil {
		t.Fatalf("WriteSamples: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write wav fixture: %v", err)
	}
}

func TestPreparePreloadDecodesPrimingFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")
	writeTestWav(t, path, 8000, 8000)

	pre, err := preparePreload(path)
	if err != nil {
		t.Fatalf("preparePreload: %v", err)
	}
	defer func() {
		pre.dec.Close()
		pre.ms.Close()
		pre.cleanup()
	}()

	if pre.url != path {
		t.Errorf("url = %q, want %q", pre.url, path)
	}
	if pre.prime == nil || pre.prime.SamplesCount == 0 {
		t.Fatal("expected a non-empty priming frame")
	}
	if pre.prime.Format.SampleRate != 8000 {
		t.Errorf("SampleRate = %d, want 8000", pre.prime.Format.SampleRate)
	}
}

func TestExtOf(t *testing.T) {
	cases := map[string]string{
		"song.mp3":              "mp3",
		"/a/b/track.flac":       "flac",
		"https://x.test/a.wav":  "wav",
		"noextension":           "",
	}
	for in, want := range cases {
		if got := extOf(in); got != want {
			t.Errorf("extOf(%q) = %q, want %q", in, got, want)
		}
	}
}
