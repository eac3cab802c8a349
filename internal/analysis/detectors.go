package analysis

import "math"

const silenceThreshDB = -48.0

// detectSilence returns fade-in/fade-out positions in seconds. Fade-in is
// the first head envelope index above the silence threshold; fade-out is
// the last index above threshold in the tail (offset by the tail's start
// time), or in the head if there is no tail.
func detectSilence(head, tail []float32, duration, rate float64, dbThresh float32) (fadeIn, fadeOut float64) {
	thresh := float32(math.Pow(10, float64(dbThresh)/20))

	fadeIn = 0
	for i, x := range head {
		if x > thresh {
			fadeIn = float64(i) / rate
			break
		}
	}

	if len(tail) == 0 {
		fadeOut = duration
		for i := len(head) - 1; i >= 0; i-- {
			if head[i] > thresh {
				fadeOut = float64(i) / rate
				break
			}
		}
		return fadeIn, fadeOut
	}

	tailDur := float64(len(tail)) / rate
	tailStart := math.Max(duration-tailDur, 0)
	fadeOut = duration
	for i := len(tail) - 1; i >= 0; i-- {
		if tail[i] > thresh {
			fadeOut = tailStart + float64(i+1)/rate
			break
		}
	}
	return fadeIn, fadeOut
}

// detectDrop scans the head envelope for the sharpest jump from a 4s
// backward average to a 2s forward average, reporting its time if the
// ratio exceeds 1.5.
func detectDrop(envelope []float32, rate float64) (pos float64, ok bool) {
	windowLen := int(2.0 * rate)
	if len(envelope) < windowLen*2 {
		return 0, false
	}

	prevLen := int(rate * 4.0)
	maxRatio := float32(0)
	bestIdx := 0

	for i := prevLen; i < len(envelope)-windowLen; i++ {
		var prevSum, nextSum float32
		for _, v := range envelope[i-prevLen : i] {
			prevSum += v
		}
		for _, v := range envelope[i : i+windowLen] {
			nextSum += v
		}
		prevAvg := prevSum / float32(prevLen)
		nextAvg := nextSum / float32(windowLen)

		if prevAvg > 0.001 {
			ratio := nextAvg / prevAvg
			if ratio > maxRatio {
				maxRatio = ratio
				bestIdx = i
			}
		}
	}

	if maxRatio > 1.5 {
		return float64(bestIdx) / rate, true
	}
	return 0, false
}

// calculateOutroEnergy measures the RMS, in dBFS, of the last ~10s of
// active (non-silent) tail signal; it floors at -70 dB.
func calculateOutroEnergy(tail []float32, rate float64) (float64, bool) {
	if len(tail) == 0 {
		return 0, false
	}

	_, localOut := detectSilence(tail, nil, float64(len(tail))/rate, rate, silenceThreshDB)
	endIdx := int(localOut * rate)
	startIdx := endIdx - 500 // last 10s at 50Hz
	if startIdx < 0 {
		startIdx = 0
	}
	if endIdx <= startIdx {
		return 0, false
	}

	slice := tail[startIdx:endIdx]
	var sumSq float32
	for _, v := range slice {
		sumSq += v * v
	}
	meanSq := sumSq / float32(len(slice))
	if meanSq > 0 {
		return math.Max(10*math.Log10(float64(meanSq)), -70), true
	}
	return -70, true
}

// isVocal is the presence threshold: high enough vocal-band ratio and
// enough broadband energy to not be silence.
func isVocal(ratio, env float32) bool {
	return ratio > 0.4 && env > 0.02
}

// detectVocals finds the first vocal-in index in the head, the last
// vocal-out index within the active tail (or head), and a "last chance to
// cut in" time 5s before vocal-out.
func detectVocals(headEnv, headRatio, tailEnv, tailRatio []float32, duration, rate, fadeIn, fadeOut float64) (vocalIn, vocalOut, vocalLastIn *float64) {
	start := int(fadeIn * rate)
	for i := start; i < len(headEnv) && i < len(headRatio); i++ {
		if i < 0 {
			continue
		}
		if isVocal(headRatio[i], headEnv[i]) {
			vocalIn = f64ptr(float64(i) / rate)
			break
		}
	}

	scanEnv, scanRatio, baseTime := headEnv, headRatio, 0.0
	if len(tailEnv) > 0 {
		scanEnv, scanRatio = tailEnv, tailRatio
		baseTime = math.Max(duration-float64(len(tailEnv))/rate, 0)
	}

	endLimitIdx := int(math.Round((fadeOut - baseTime) * rate))
	limit := len(scanEnv)
	if endLimitIdx < limit {
		limit = endLimitIdx
	}
	if limit < 0 {
		limit = 0
	}

	for i := limit - 1; i >= 0; i-- {
		if i >= len(scanRatio) {
			continue
		}
		if isVocal(scanRatio[i], scanEnv[i]) {
			vocalOut = f64ptr(baseTime + float64(i)/rate)
			break
		}
	}

	if vocalOut != nil {
		vocalLastIn = f64ptr(math.Max(*vocalOut-5.0, fadeIn))
	}

	return vocalIn, vocalOut, vocalLastIn
}

// snapTime snaps a time to the nearest beat-grid multiple (grid beats per
// unit) anchored at firstBeat, per the track's BPM, never earlier than
// firstBeat.
func snapTime(t, bpm, firstBeat, grid float64) float64 {
	if bpm <= 0 {
		return t
	}
	secPerBeat := 60.0 / bpm
	gridSec := secPerBeat * grid
	if gridSec <= 0 {
		return t
	}
	units := (t - firstBeat) / gridSec
	snapped := firstBeat + math.Round(units)*gridSec
	if snapped < firstBeat {
		return firstBeat
	}
	return snapped
}

// calculateSmartCutOut snaps the search bound min(vocalOut+40, fadeOut) to
// the nearest 4-beat grid line, which may land after that bound (the result
// is clamped to duration only); when confidence is low it just returns the
// search bound unsnapped.
func calculateSmartCutOut(bpm, firstBeat, conf, vocalOut *float64, fadeOut, duration float64) *float64 {
	searchEnd := fadeOut
	if vocalOut != nil {
		searchEnd = math.Min(*vocalOut+40.0, fadeOut)
	}

	if bpm != nil && firstBeat != nil {
		c := 0.0
		if conf != nil {
			c = *conf
		}
		if c > 0.4 {
			snapped := snapTime(searchEnd, *bpm, *firstBeat, 4.0)
			if vocalOut != nil && snapped < *vocalOut+2.0 {
				return f64ptr(math.Min(snapTime(*vocalOut+4.0, *bpm, *firstBeat, 4.0), duration))
			}
			return f64ptr(math.Min(snapped, duration))
		}
	}
	return f64ptr(searchEnd)
}

// calculateSmartCutIn walks back 32/16/8 bars from the anchor (vocal-in,
// drop, or fade-in) looking for the first offset that stays after fade-in.
func calculateSmartCutIn(bpm, firstBeat, conf, anchor *float64, fadeIn float64) *float64 {
	a := fadeIn
	if anchor != nil {
		a = *anchor
	}

	if bpm != nil && firstBeat != nil {
		c := 0.0
		if conf != nil {
			c = *conf
		}
		if c > 0.4 {
			secBar := 240.0 / *bpm
			for _, bars := range []float64{32, 16, 8} {
				t := a - bars*secBar
				if t > fadeIn {
					return f64ptr(snapTime(t, *bpm, *firstBeat, 4.0))
				}
			}
		}
	}
	return f64ptr(fadeIn)
}

// fillEnergyProfile resamples an envelope to a fixed-rate energy profile,
// keeping the max value observed at each profile slot.
func fillEnergyProfile(profile []float64, envelope []float32, startTime, envRate, profileRate float64) {
	for i, v := range envelope {
		t := startTime + float64(i)/envRate
		idx := int(t * profileRate)
		if idx >= 0 && idx < len(profile) {
			if float64(v) > profile[idx] {
				profile[idx] = float64(v)
			}
		}
	}
}

const (
	bpmMinLag = 15 // ~200 BPM at 50Hz
	bpmMaxLag = 55 // ~55 BPM at 50Hz
)

// detectBPM runs a half-wave-rectified flux onset detector over the head
// envelope and autocorrelates it across the lag range corresponding to
// 55-200 BPM at the 50Hz envelope rate; confidence is fixed at 0.8 whenever
// a lag is found. Correlation sums are not normalized by overlap length, so
// on long envelopes they are biased toward shorter lags.
func detectBPM(env []float32, rate float64) (bpm, conf, firstBeat *float64) {
	if len(env) < 100 {
		return nil, nil, nil
	}

	flux := make([]float32, len(env)-1)
	for i := 1; i < len(env); i++ {
		d := env[i] - env[i-1]
		if d < 0 {
			d = 0
		}
		flux[i-1] = d
	}
	if len(flux) < 110 {
		return nil, nil, nil
	}

	var bestCorr float32
	bestLag := 0
	for lag := bpmMinLag; lag < bpmMaxLag; lag++ {
		var sum float32
		for i := 0; i < len(flux)-lag; i++ {
			sum += flux[i] * flux[i+lag]
		}
		if sum > bestCorr {
			bestCorr = sum
			bestLag = lag
		}
	}

	if bestCorr <= 0.001 {
		return nil, nil, nil
	}

	b := 60.0 / (float64(bestLag) / rate)

	bestPhase := 0
	var bestEnergy float32 = -1
	for phase := 0; phase < bestLag; phase++ {
		var e float32
		for idx := phase; idx < len(flux); idx += bestLag {
			e += flux[idx]
		}
		if e > bestEnergy {
			bestEnergy = e
			bestPhase = phase
		}
	}

	return f64ptr(b), f64ptr(0.8), f64ptr(float64(bestPhase) / rate)
}
