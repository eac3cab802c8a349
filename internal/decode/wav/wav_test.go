package wav

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	gowav "github.com/youpy/go-wav"

	"github.com/mixcore/mixcore/internal/mediasource"
)

func writeTestWav(t *testing.T, samples []int) string {
	t.Helper()

	const numChannels = 1
	const sampleRate = 8000
	const bitsPerSample = 16

	var buf bytes.Buffer
	writer := gowav.NewWriter(&buf, uint32(len(samples)), numChannels, sampleRate, bitsPerSample)

	wavSamples := make([]gowav.Sample, len(samples))
	for i, v := range samples {
		wavSamples[i].Values[0] = v
	}
	if _, err := writer.WriteSamples(wavSamples); err != nil {
		t.Fatalf("WriteSamples: %v", err)
	}

	path := filepath.Join(t.TempDir(), "test.wav")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write wav fixture: %v", err)
	}
	return path
}

func TestOpenAndDecodeSamples(t *testing.T) {
	samples := []int{100, -100, 200, -200, 300}
	path := writeTestWav(t, samples)

	ms, err := mediasource.OpenLocalFile(path)
	if err != nil {
		t.Fatalf("OpenLocalFile: %v", err)
	}
	defer ms.Close()

	d := NewDecoder()
	if err := d.Open(ms); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()

	rate, channels, bps := d.GetFormat()
	if rate != 8000 || channels != 1 || bps != 16 {
		t.Errorf("GetFormat() = %d, %d, %d; want 8000, 1, 16", rate, channels, bps)
	}

	audio := make([]byte, len(samples)*2)
	n, err := d.DecodeSamples(len(samples), audio)
	if err != nil {
		t.Fatalf("DecodeSamples: %v", err)
	}
	if n != len(samples) {
		t.Fatalf("decoded %d samples, want %d", n, len(samples))
	}

	for i, want := range samples {
		got := int16(uint16(audio[i*2]) | uint16(audio[i*2+1])<<8)
		if int(got) != want {
			t.Errorf("sample %d = %d, want %d", i, got, want)
		}
	}
}

func TestDecodeSamplesWithoutOpen(t *testing.T) {
	d := NewDecoder()
	buf := make([]byte, 16)
	if _, err := d.DecodeSamples(8, buf); err == nil {
		t.Error("expected error decoding before Open")
	}
}
