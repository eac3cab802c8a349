// Package dsp provides the small signal-processing primitives the track
// analyzer needs: biquad filters for loudness measurement and band-pass
// envelope extraction, plus running accumulators.
package dsp

// Biquad is a direct-form-II transposed second-order IIR filter, normalized
// so a0 = 1.
type Biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
	z1, z2     float64
}

// NewBiquad constructs a filter from its normalized coefficients.
func NewBiquad(b0, b1, b2, a1, a2 float64) *Biquad {
	return &Biquad{b0: b0, b1: b1, b2: b2, a1: a1, a2: a2}
}

// Process filters one sample and updates the filter's state.
func (f *Biquad) Process(x float64) float64 {
	y := f.b0*x + f.z1
	f.z1 = f.b1*x - f.a1*y + f.z2
	f.z2 = f.b2*x - f.a2*y
	return y
}

// Reset clears filter state without changing its coefficients.
func (f *Biquad) Reset() {
	f.z1 = 0
	f.z2 = 0
}

// NewBS1770PreFilter returns the ITU-R BS.1770-4 high-shelf pre-filter.
func NewBS1770PreFilter() *Biquad {
	return NewBiquad(
		1.53512485958697, -2.69169618940638, 1.19839281085285,
		-1.69065929318241, 0.73248077421585,
	)
}

// NewBS1770RLBFilter returns the ITU-R BS.1770-4 RLB (revised low-frequency
// B-weighting) high-pass filter.
func NewBS1770RLBFilter() *Biquad {
	return NewBiquad(
		1.0, -2.0, 1.0,
		-1.99004745483398, 0.99007225036621,
	)
}
