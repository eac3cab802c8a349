package dsp

import "math"

// channelFilter is the per-channel BS.1770 filter cascade: the high-shelf
// pre-filter feeding the RLB high-pass.
type channelFilter struct {
	pre *Biquad
	rlb *Biquad
}

// LoudnessMeter accumulates mean square energy across all channels and
// samples it is fed, per ITU-R BS.1770-4, and reports integrated LUFS.
type LoudnessMeter struct {
	channels []*channelFilter
	sumSq    float64
	count    int64
}

// NewLoudnessMeter builds a meter with one filter cascade per channel.
func NewLoudnessMeter(numChannels int) *LoudnessMeter {
	channels := make([]*channelFilter, numChannels)
	for i := range channels {
		channels[i] = &channelFilter{
			pre: NewBS1770PreFilter(),
			rlb: NewBS1770RLBFilter(),
		}
	}
	return &LoudnessMeter{channels: channels}
}

// AddFrame feeds one interleaved frame (one sample per channel) into the
// meter. len(samples) must equal the channel count passed to NewLoudnessMeter.
// The frame counter advances once per call regardless of channel count, so
// mean square energy is averaged per frame, not per individual sample.
func (m *LoudnessMeter) AddFrame(samples []float64) {
	for i, x := range samples {
		if i >= len(m.channels) {
			break
		}
		y := m.channels[i].rlb.Process(m.channels[i].pre.Process(x))
		m.sumSq += y * y
	}
	m.count++
}

// lufsFloor is returned when there is no signal to measure, matching the
// -70 dB silence floor used elsewhere in the analyzer.
const lufsFloor = -70.0

// LUFS returns the integrated loudness in loudness units full-scale,
// floored at -70 when no signal has been accumulated.
func (m *LoudnessMeter) LUFS() float64 {
	if m.count == 0 {
		return lufsFloor
	}
	meanSq := m.sumSq / float64(m.count)
	if meanSq <= 0 {
		return lufsFloor
	}
	return -0.691 + 10*math.Log10(meanSq)
}
