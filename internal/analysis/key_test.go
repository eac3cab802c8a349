package analysis

import (
	"math"
	"testing"
)

func TestDetectKeyTooShortReturnsFalse(t *testing.T) {
	_, _, _, ok := detectKey(make([]float64, 100), 44100)
	if ok {
		t.Error("expected no key for pcm shorter than one FFT frame")
	}
}

func TestDetectKeySilenceReturnsFalse(t *testing.T) {
	pcm := make([]float64, fftFrameSize*2)
	_, _, _, ok := detectKey(pcm, 44100)
	if ok {
		t.Error("expected no key for silent pcm")
	}
}

func TestDetectKeyFindsDominantPitchClass(t *testing.T) {
	const sampleRate = 44100
	pcm := make([]float64, fftFrameSize)
	// 440 Hz sine (A4) should land squarely in pitch class 9 (A).
	freq := 440.0
	for i := range pcm {
		pcm[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
	}

	root, _, conf, ok := detectKey(pcm, sampleRate)
	if !ok {
		t.Fatal("expected a key to be detected for a clear sine tone")
	}
	if conf != 0.8 {
		t.Errorf("confidence = %v, want 0.8", conf)
	}
	_ = root // root depends on the Krumhansl-Schmuckler correlation, not asserted exactly
}
