package dsp

import "math"

// LowPassFilter is a first-order RC low-pass filter.
type LowPassFilter struct {
	alpha float64
	prev  float64
}

// NewLowPassFilter builds a first-order low-pass with the given cutoff.
func NewLowPassFilter(sampleRate int, cutoffHz float64) *LowPassFilter {
	return &LowPassFilter{alpha: lpfAlpha(sampleRate, cutoffHz)}
}

// Process filters one sample.
func (f *LowPassFilter) Process(x float64) float64 {
	f.prev += f.alpha * (x - f.prev)
	return f.prev
}

// HighPassFilter is a first-order RC high-pass filter.
type HighPassFilter struct {
	alpha  float64
	prevX  float64
	prevY  float64
}

// NewHighPassFilter builds a first-order high-pass with the given cutoff.
func NewHighPassFilter(sampleRate int, cutoffHz float64) *HighPassFilter {
	return &HighPassFilter{alpha: hpfAlpha(sampleRate, cutoffHz)}
}

// Process filters one sample.
func (f *HighPassFilter) Process(x float64) float64 {
	y := f.alpha * (f.prevY + x - f.prevX)
	f.prevX = x
	f.prevY = y
	return y
}

// lpfAlpha and hpfAlpha compute the smoothing coefficient for a first-order
// RC filter at the given sample rate and cutoff frequency. The two differ:
// a low-pass weights toward the new sample as dt/(rc+dt), a high-pass
// weights toward the retained history as rc/(rc+dt).
func lpfAlpha(sampleRate int, cutoffHz float64) float64 {
	dt, rc := rcConstants(sampleRate, cutoffHz)
	return dt / (rc + dt)
}

func hpfAlpha(sampleRate int, cutoffHz float64) float64 {
	dt, rc := rcConstants(sampleRate, cutoffHz)
	return rc / (rc + dt)
}

func rcConstants(sampleRate int, cutoffHz float64) (dt, rc float64) {
	dt = 1.0 / float64(sampleRate)
	rc = 1.0 / (2 * math.Pi * cutoffHz)
	return dt, rc
}

// VocalBandFilter isolates the 200 Hz–3 kHz band a vocal presence ratio is
// measured against: a high-pass at 200 Hz cascaded with a low-pass at 3 kHz.
type VocalBandFilter struct {
	hpf *HighPassFilter
	lpf *LowPassFilter
}

// NewVocalBandFilter builds the HPF(200Hz) → LPF(3kHz) cascade.
func NewVocalBandFilter(sampleRate int) *VocalBandFilter {
	return &VocalBandFilter{
		hpf: NewHighPassFilter(sampleRate, 200),
		lpf: NewLowPassFilter(sampleRate, 3000),
	}
}

// Process filters one sample through the cascade.
func (f *VocalBandFilter) Process(x float64) float64 {
	return f.lpf.Process(f.hpf.Process(x))
}
