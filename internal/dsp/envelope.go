package dsp

import "math"

// EnvelopeAccumulator computes short-time RMS over a fixed-size window,
// emitting one value each time the window fills and then resetting.
type EnvelopeAccumulator struct {
	window   int
	sumSq    float64
	count    int
}

// NewEnvelopeAccumulator builds an accumulator with the given window size
// in samples.
func NewEnvelopeAccumulator(window int) *EnvelopeAccumulator {
	return &EnvelopeAccumulator{window: window}
}

// Add feeds one sample into the running sum of squares. It returns the RMS
// of the just-completed window and true when the window fills; otherwise
// it returns 0, false.
func (e *EnvelopeAccumulator) Add(x float64) (float64, bool) {
	e.sumSq += x * x
	e.count++

	if e.count < e.window {
		return 0, false
	}

	rms := math.Sqrt(e.sumSq / float64(e.count))
	e.sumSq = 0
	e.count = 0
	return rms, true
}

// WindowSamples returns the window size in samples.
func (e *EnvelopeAccumulator) WindowSamples() int { return e.window }

// EnvelopeWindowSamples returns the sample count for a fixed-rate window,
// e.g. sampleRate×20ms for a 50 Hz envelope frame.
func EnvelopeWindowSamples(sampleRate int, windowMillis float64) int {
	return int(float64(sampleRate) * windowMillis / 1000.0)
}
