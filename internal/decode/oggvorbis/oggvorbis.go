// Package oggvorbis wraps jfreymuth/oggvorbis, a pure-Go Vorbis decoder, to
// decode Ogg/Vorbis audio. Like wav, it reads directly from a
// mediasource.MediaSource and supports true progressive streaming.
package oggvorbis

import (
	"fmt"

	"github.com/jfreymuth/oggvorbis"

	"github.com/mixcore/mixcore/internal/mediasource"
)

// outputBitsPerSample is the PCM width this decoder emits; oggvorbis
// decodes to float32 internally and this wrapper quantizes to 16-bit
// signed PCM so the rest of the pipeline only ever handles integer PCM.
const outputBitsPerSample = 16

// Decoder wraps oggvorbis.Reader and quantizes its float32 output to
// 16-bit signed PCM.
type Decoder struct {
	reader   *oggvorbis.Reader
	rate     int
	channels int
	scratch  []float32
}

// NewDecoder creates a new, unopened Ogg/Vorbis decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Open reads the Vorbis headers from ms.
func (d *Decoder) Open(ms mediasource.MediaSource) error {
	reader, err := oggvorbis.NewReader(ms)
	if err != nil {
		return fmt.Errorf("oggvorbis: open: %w", err)
	}

	d.reader = reader
	d.rate = reader.SampleRate()
	d.channels = reader.Channels()

	return nil
}

// GetFormat returns the sample rate, channel count, and bits per sample.
func (d *Decoder) GetFormat() (rate, channels, bitsPerSample int) {
	return d.rate, d.channels, outputBitsPerSample
}

// DecodeSamples decodes up to `samples` frames into audio as 16-bit signed
// little-endian PCM.
func (d *Decoder) DecodeSamples(samples int, audio []byte) (int, error) {
	if d.reader == nil {
		return 0, fmt.Errorf("oggvorbis: decoder not initialized")
	}

	need := samples * d.channels
	if cap(d.scratch) < need {
		d.scratch = make([]float32, need)
	}
	buf := d.scratch[:need]

	n, err := d.reader.Read(buf)
	if n == 0 {
		return 0, err
	}

	decodedFrames := n / d.channels
	for i := 0; i < n; i++ {
		offset := i * 2
		if offset+2 > len(audio) {
			decodedFrames = i / d.channels
			break
		}
		sample := quantize(buf[i])
		audio[offset] = byte(sample)
		audio[offset+1] = byte(sample >> 8)
	}

	if err != nil {
		return decodedFrames, err
	}
	return decodedFrames, nil
}

// quantize clamps a float32 sample in [-1, 1] to a 16-bit signed integer.
func quantize(s float32) int16 {
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	return int16(s * 32767)
}

// Close is a no-op: the decoder reads through the caller-owned MediaSource,
// which the caller is responsible for closing.
func (d *Decoder) Close() error { return nil }
