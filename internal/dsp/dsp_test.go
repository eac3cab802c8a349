package dsp

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestBiquadSettlesToDCGain(t *testing.T) {
	// RLB: b=[1,-2,1], a=[1,-1.99004745483398,0.99007225036621] — a pure
	// high-pass shape, so a constant input should settle toward zero.
	f := NewBS1770RLBFilter()
	var y float64
	for i := 0; i < 20000; i++ {
		y = f.Process(1.0)
	}
	if math.Abs(y) > 0.05 {
		t.Errorf("RLB filter DC response = %v, want near 0", y)
	}
}

func TestLowPassFilterAttenuatesHighFrequency(t *testing.T) {
	const sampleRate = 48000
	lpf := NewLowPassFilter(sampleRate, 150)

	// Feed a high-frequency square wave; the low-pass should suppress most
	// of its energy relative to the input amplitude.
	var outSumSq, inSumSq float64
	for i := 0; i < sampleRate; i++ {
		x := 1.0
		if i%2 == 0 {
			x = -1.0
		}
		y := lpf.Process(x)
		outSumSq += y * y
		inSumSq += x * x
	}
	if outSumSq >= inSumSq {
		t.Errorf("expected low-pass to reduce energy of a Nyquist-rate square wave: out=%v in=%v", outSumSq, inSumSq)
	}
}

func TestEnvelopeAccumulatorRMS(t *testing.T) {
	e := NewEnvelopeAccumulator(4)

	for i := 0; i < 3; i++ {
		if _, ready := e.Add(2.0); ready {
			t.Fatalf("window should not be ready before %d samples", e.WindowSamples())
		}
	}

	rms, ready := e.Add(2.0)
	if !ready {
		t.Fatal("expected window to be ready on the 4th sample")
	}
	if !almostEqual(rms, 2.0, 1e-9) {
		t.Errorf("RMS of constant 2.0 signal = %v, want 2.0", rms)
	}
}

func TestEnvelopeWindowSamplesAt50Hz(t *testing.T) {
	got := EnvelopeWindowSamples(44100, 20)
	want := 882 // 44100 * 0.02
	if got != want {
		t.Errorf("EnvelopeWindowSamples(44100, 20ms) = %d, want %d", got, want)
	}
}

func TestLoudnessMeterSilenceHitsFloor(t *testing.T) {
	m := NewLoudnessMeter(2)
	for i := 0; i < 10000; i++ {
		m.AddFrame([]float64{0, 0})
	}
	if m.LUFS() != lufsFloor {
		t.Errorf("LUFS of silence = %v, want %v", m.LUFS(), lufsFloor)
	}
}

func TestLoudnessMeterNoSamplesHitsFloor(t *testing.T) {
	m := NewLoudnessMeter(1)
	if m.LUFS() != lufsFloor {
		t.Errorf("LUFS with no samples = %v, want %v", m.LUFS(), lufsFloor)
	}
}

func TestVocalBandFilterCascades(t *testing.T) {
	f := NewVocalBandFilter(44100)
	// Just exercise the cascade; a DC input should settle near zero since
	// the high-pass stage removes it.
	var y float64
	for i := 0; i < 10000; i++ {
		y = f.Process(1.0)
	}
	if math.Abs(y) > 0.1 {
		t.Errorf("vocal band filter DC response = %v, want near 0", y)
	}
}
