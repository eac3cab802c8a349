package analysis

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	gowav "github.com/youpy/go-wav"
)

func writeSineWav(t *testing.T, path string, seconds float64, sampleRate int, freq float64) {
	t.Helper()

	n := int(float64(sampleRate) * seconds)
	var buf bytes.Buffer
	writer := gowav.NewWriter(&buf, uint32(n), 1, uint32(sampleRate), 16)

	samples := make([]gowav.Sample, n)
	for i := range samples {
		tSec := float64(i) / float64(sampleRate)
		v := int(8000.0 * math.Sin(2*math.Pi*freq*tSec))
		samples[i].Values[0] = v
	}
	if _, err := writer.WriteSamples(samples); err != nil {
		t.Fatalf("WriteSamples: %v", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write wav fixture: %v", err)
	}
}

func TestAnalyzeShortTrackProducesAnalysis(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.wav")
	writeSineWav(t, path, 5.0, 8000, 220.0)

	maxTime := 30.0
	analyzer := NewTrackAnalyzer(path, &maxTime, false)

	result, err := analyzer.Analyze(context.Background())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result == nil {
		t.Fatal("expected a non-nil analysis")
	}
	if result.Version != AnalysisVersion {
		t.Errorf("Version = %d, want %d", result.Version, AnalysisVersion)
	}
	if result.Duration < 4.5 || result.Duration > 5.5 {
		t.Errorf("Duration = %v, want close to 5.0", result.Duration)
	}
	if len(result.EnergyProfile) == 0 {
		t.Error("expected a non-empty energy profile")
	}
}

func TestAnalyzeMissingFileReturnsNilNotError(t *testing.T) {
	maxTime := 30.0
	analyzer := NewTrackAnalyzer("/nonexistent/path/to/track.mp3", &maxTime, false)

	result, err := analyzer.Analyze(context.Background())
	if err != nil {
		t.Fatalf("expected no error for a missing file, got %v", err)
	}
	if result != nil {
		t.Error("expected nil analysis for a missing file")
	}
}
