package analysis

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
)

const (
	fftFrameSize = 4096
	fftStep      = 1024
	keyMinFreq   = 80.0
	keyMaxFreq   = 5000.0
	hammingAlpha = 0.54
	hammingBeta  = 0.46
)

// Krumhansl-Schmuckler major/minor key profiles.
var majorProfile = [12]float64{6.35, 2.23, 3.48, 2.33, 4.38, 4.09, 2.52, 5.19, 2.39, 3.66, 2.29, 2.88}
var minorProfile = [12]float64{6.33, 2.68, 3.52, 5.38, 2.60, 3.53, 2.54, 4.75, 3.98, 2.69, 3.34, 3.17}

// detectKey estimates the musical key of a down-mixed PCM buffer via FFT
// chroma correlation. Chunking follows the original: frames are taken in
// non-overlapping fftFrameSize chunks, but only every fftStep-th chunk
// index is analyzed — for typical analysis-window lengths this means only
// the very first chunk (index 0) is ever processed. Preserved as-is; see
// the BPM/key design notes.
func detectKey(pcm []float64, sampleRate int) (root, mode int, confidence float64, ok bool) {
	if len(pcm) < fftFrameSize {
		return 0, 0, 0, false
	}

	window := make([]float64, fftFrameSize)
	for i := range window {
		window[i] = hammingAlpha - hammingBeta*math.Cos(2*math.Pi*float64(i)/float64(fftFrameSize-1))
	}

	var chroma [12]float64

	for chunkIndex := 0; ; chunkIndex += fftStep {
		start := chunkIndex * fftFrameSize
		end := start + fftFrameSize
		if end > len(pcm) {
			break
		}
		chunk := pcm[start:end]

		buf := make([]complex128, fftFrameSize)
		for i, s := range chunk {
			buf[i] = complex(s*window[i], 0)
		}
		spectrum := fft.FFT(buf)

		for i := 1; i < fftFrameSize/2; i++ {
			hz := float64(i) * float64(sampleRate) / float64(fftFrameSize)
			if hz < keyMinFreq || hz > keyMaxFreq {
				continue
			}
			midi := 69.0 + 12.0*math.Log(hz/440.0)/math.Ln2
			pc := int(math.Round(midi)) % 12
			if pc < 0 {
				pc += 12
			}
			mag := real(spectrum[i])*real(spectrum[i]) + imag(spectrum[i])*imag(spectrum[i])
			chroma[pc] += mag
		}
	}

	var sumSq float64
	for _, v := range chroma {
		sumSq += v * v
	}
	if sumSq == 0 {
		return 0, 0, 0, false
	}
	norm := math.Sqrt(sumSq)
	for i := range chroma {
		chroma[i] /= norm
	}

	bestScore := -1.0
	bestRoot := 0
	bestMode := 0

	for r := 0; r < 12; r++ {
		var sMaj, sMin float64
		for i := 0; i < 12; i++ {
			idx := (i + 12 - r) % 12
			sMaj += chroma[i] * majorProfile[idx]
			sMin += chroma[i] * minorProfile[idx]
		}
		if sMaj > bestScore {
			bestScore = sMaj
			bestRoot = r
			bestMode = 0
		}
		if sMin > bestScore {
			bestScore = sMin
			bestRoot = r
			bestMode = 1
		}
	}

	if bestScore > 0 {
		return bestRoot, bestMode, 0.8, true
	}
	return 0, 0, 0, false
}
