package analysis

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/mixcore/mixcore/internal/decode"
	"github.com/mixcore/mixcore/internal/decode/wav"
	"github.com/mixcore/mixcore/internal/dsp"
	"github.com/mixcore/mixcore/internal/mediasource"
)

const (
	windowSizeMillis  = 20.0
	lowBandFreq       = 150.0
	decodeChunkFrames = 1024
	maxChannelsTaken  = 8
)

// TrackAnalyzer drives decode over a bounded head segment (and optionally
// a tail segment reached by seek) of one track, accumulating the envelopes
// and loudness measurement that finalizeAnalysis turns into an
// AudioAnalysis record.
type TrackAnalyzer struct {
	path           string
	maxAnalyzeTime float64
	includeTail    bool
}

// NewTrackAnalyzer builds an analyzer for path. maxTime is clamped to
// [5, 300] seconds and defaults to 60 when nil.
func NewTrackAnalyzer(path string, maxTime *float64, includeTail bool) *TrackAnalyzer {
	t := 60.0
	if maxTime != nil {
		t = *maxTime
	}
	if t < 5 {
		t = 5
	}
	if t > 300 {
		t = 300
	}
	return &TrackAnalyzer{path: path, maxAnalyzeTime: t, includeTail: includeTail}
}

// analysisState carries the mutable accumulators across head/tail segments.
type analysisState struct {
	sampleRate int
	channels   int

	head AnalysisSegment
	tail AnalysisSegment

	headPCM       []float64
	keyMaxSamples int

	loudness *dsp.LoudnessMeter
	duration float64
}

// Analyze opens the track, decodes its head (and tail, if requested and
// the track is long enough and seekable), and returns the finalized
// analysis. It returns (nil, nil) — not an error — when the track cannot be
// opened, probed or decoded, mirroring a player that silently declines to
// analyze rather than surfacing it as a user-facing error. Once the head
// segment decodes, a record is always returned; detectors that found
// nothing leave their fields nil.
func (t *TrackAnalyzer) Analyze(ctx context.Context) (*AudioAnalysis, error) {
	ms, err := mediasource.New(t.path)
	if err != nil {
		return nil, nil
	}
	defer ms.Close()

	dec, cleanup, err := decode.NewDecoder(ms, "")
	if err != nil {
		return nil, nil
	}
	defer cleanup()
	defer dec.Close()

	rate, channels, _ := dec.GetFormat()
	if channels > maxChannelsTaken {
		channels = maxChannelsTaken
	}
	if rate <= 0 || channels <= 0 {
		return nil, nil
	}

	windowSize := rate * int(windowSizeMillis) / 1000
	if windowSize == 0 {
		return nil, nil
	}

	st := &analysisState{
		sampleRate:    rate,
		channels:      channels,
		loudness:      dsp.NewLoudnessMeter(channels),
		keyMaxSamples: int(float64(rate) * math.Min(t.maxAnalyzeTime, 30.0)),
	}

	if err := t.processSegment(ctx, dec, st, true); err != nil {
		return nil, nil
	}

	if t.includeTail {
		if total, ok := estimateDuration(ms, dec); ok && total > t.maxAnalyzeTime*2 {
			seekTarget := total - t.maxAnalyzeTime
			if tailMS, tailDec, tailCleanup, err := reopenAt(t.path, seekTarget, rate, channels); err == nil {
				st.duration = seekTarget
				_ = t.processSegment(ctx, tailDec, st, false)
				tailDec.Close()
				tailCleanup()
				tailMS.Close()
			}
		}
	}

	return t.finalizeAnalysis(st), nil
}

// processSegment decodes dec in decodeChunkFrames-sized chunks, feeding
// each down-mixed sample through the loudness meter, the three envelope
// accumulators, and (for the head, up to keyMaxSamples) the down-mixed PCM
// buffer retained for key detection. Duration is tracked locally from the
// decoded sample count rather than container timestamps, since the
// Decoder interface exposes no time base.
func (t *TrackAnalyzer) processSegment(ctx context.Context, dec decode.Decoder, st *analysisState, isHead bool) error {
	_, channels, bitsPerSample := dec.GetFormat()
	if channels > maxChannelsTaken {
		channels = maxChannelsTaken
	}
	bytesPerSample := bitsPerSample / 8
	if bytesPerSample == 0 {
		return fmt.Errorf("analysis: unsupported bits per sample %d", bitsPerSample)
	}

	segment := &st.head
	if !isHead {
		segment = &st.tail
	}

	accEnv := dsp.NewEnvelopeAccumulator(st.sampleRate * int(windowSizeMillis) / 1000)
	accLow := dsp.NewEnvelopeAccumulator(st.sampleRate * int(windowSizeMillis) / 1000)
	accVocal := dsp.NewEnvelopeAccumulator(st.sampleRate * int(windowSizeMillis) / 1000)
	vocalFilter := dsp.NewVocalBandFilter(st.sampleRate)
	lowFilter := dsp.NewLowPassFilter(st.sampleRate, lowBandFreq)

	buf := make([]byte, decodeChunkFrames*channels*bytesPerSample)
	frameValues := make([]float64, channels)

	startDuration := st.duration
	framesDecoded := 0

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := dec.DecodeSamples(decodeChunkFrames, buf)
		if n > 0 {
			for i := 0; i < n; i++ {
				var sum float64
				for c := 0; c < channels; c++ {
					off := (i*channels + c) * bytesPerSample
					v := decodeSample(buf[off:off+bytesPerSample], bitsPerSample)
					frameValues[c] = v
					sum += v
				}

				st.loudness.AddFrame(frameValues)

				val := sum / float64(channels)
				vocal := vocalFilter.Process(val)
				low := lowFilter.Process(val)

				if isHead && len(st.headPCM) < st.keyMaxSamples {
					st.headPCM = append(st.headPCM, val)
				}

				if rms, ready := accEnv.Add(val); ready {
					segment.Envelope = append(segment.Envelope, float32(rms))
				}
				if rmsLow, ready := accLow.Add(low); ready {
					segment.LowEnvelope = append(segment.LowEnvelope, float32(rmsLow))
				}
				if rmsVocal, ready := accVocal.Add(vocal); ready {
					base := float32(1.0)
					if len(segment.Envelope) > 0 {
						base = segment.Envelope[len(segment.Envelope)-1]
					}
					ratio := float32(0)
					if base > 0.0001 {
						ratio = float32(rmsVocal) / base
					}
					segment.VocalRatio = append(segment.VocalRatio, ratio)
				}

				framesDecoded++
				st.duration = startDuration + float64(framesDecoded)/float64(st.sampleRate)
			}
		}

		if isHead && st.duration > t.maxAnalyzeTime {
			return nil
		}
		if err != nil {
			return nil
		}
		if n == 0 {
			return nil
		}
	}
}

// decodeSample reads one little-endian signed PCM sample and normalizes it
// to [-1, 1].
func decodeSample(b []byte, bitsPerSample int) float64 {
	switch bitsPerSample {
	case 8:
		return (float64(b[0]) - 128) / 128
	case 16:
		v := int16(binary.LittleEndian.Uint16(b))
		return float64(v) / 32768
	case 24:
		v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
		if v&0x800000 != 0 {
			v |= ^0xFFFFFF
		}
		return float64(v) / 8388608
	case 32:
		v := int32(binary.LittleEndian.Uint32(b))
		return float64(v) / 2147483648
	default:
		return 0
	}
}

// estimateDuration reports the track's total duration in seconds if it can
// be inferred from the MediaSource's byte length and the decoder's PCM
// format; this is exact only for uncompressed PCM (WAV) and is skipped for
// compressed codecs, matching the "missing time base disables tail
// analysis" behavior.
func estimateDuration(ms mediasource.MediaSource, dec decode.Decoder) (float64, bool) {
	if _, isWAV := dec.(*wav.Decoder); !isWAV {
		return 0, false
	}
	size, known := ms.Len()
	if !known {
		return 0, false
	}
	rate, channels, bits := dec.GetFormat()
	bytesPerSec := rate * channels * (bits / 8)
	if bytesPerSec == 0 {
		return 0, false
	}
	return float64(size) / float64(bytesPerSec), true
}

// reopenAt opens a fresh MediaSource/decoder pair over path and seeks it
// to approximately seekTarget seconds in, using the linear byte-to-time
// mapping valid for uncompressed PCM. Only the MediaSource is seeked:
// decoders that open the file by path (mp3, flac) still start decoding
// from the beginning of the file.
func reopenAt(path string, seekTarget float64, rate, channels int) (mediasource.MediaSource, decode.Decoder, func(), error) {
	ms, err := mediasource.New(path)
	if err != nil {
		return nil, nil, nil, err
	}

	dec, cleanup, err := decode.NewDecoder(ms, "")
	if err != nil {
		ms.Close()
		return nil, nil, nil, err
	}

	_, _, bits := dec.GetFormat()
	bytesPerSec := rate * channels * (bits / 8)
	if bytesPerSec > 0 && ms.Seekable() {
		offset := int64(seekTarget * float64(bytesPerSec))
		_, _ = ms.Seek(offset, 0)
	}

	return ms, dec, cleanup, nil
}
