// Package wav wraps go-wav for WAV/PCM decoding. Unlike mp3 and flac, the
// underlying library reads from a plain io.Reader, so this decoder reads
// directly from a mediasource.MediaSource without ever needing a
// filesystem path — it supports true progressive streaming.
package wav

import (
	"fmt"

	"github.com/youpy/go-wav"

	"github.com/mixcore/mixcore/internal/mediasource"
)

// Decoder wraps go-wav for decoding WAV audio.
type Decoder struct {
	reader   *wav.Reader
	rate     int
	channels int
	bps      int
}

// NewDecoder creates a new, unopened WAV decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Open reads the WAV header from ms and validates it is uncompressed PCM.
func (d *Decoder) Open(ms mediasource.MediaSource) error {
	reader := wav.NewReader(ms)
	format, err := reader.Format()
	if err != nil {
		return fmt.Errorf("wav: read format: %w", err)
	}

	if format.AudioFormat != wav.AudioFormatPCM {
		return fmt.Errorf("wav: unsupported format %d (only PCM supported)", format.AudioFormat)
	}

	d.reader = reader
	d.rate = int(format.SampleRate)
	d.channels = int(format.NumChannels)
	d.bps = int(format.BitsPerSample)

	return nil
}

// GetFormat returns the sample rate, channel count, and bits per sample.
func (d *Decoder) GetFormat() (rate, channels, bitsPerSample int) {
	return d.rate, d.channels, d.bps
}

// DecodeSamples decodes up to `samples` frames into audio. go-wav reads one
// sample (one frame across all channels) at a time, so this loops.
func (d *Decoder) DecodeSamples(samples int, audio []byte) (int, error) {
	if d.reader == nil {
		return 0, fmt.Errorf("wav: decoder not initialized")
	}

	bytesPerSample := d.bps / 8
	decoded := 0

	for decoded < samples {
		frames, err := d.reader.ReadSamples(1)
		if err != nil {
			return decoded, err
		}
		if len(frames) == 0 {
			return decoded, nil
		}

		for ch := 0; ch < d.channels; ch++ {
			if ch >= len(frames[0].Values) {
				break
			}

			value := frames[0].Values[ch]
			offset := (decoded*d.channels + ch) * bytesPerSample
			if offset+bytesPerSample > len(audio) {
				return decoded, nil
			}

			switch d.bps {
			case 8:
				audio[offset] = byte(value)
			case 16:
				audio[offset] = byte(value)
				audio[offset+1] = byte(value >> 8)
			case 24:
				audio[offset] = byte(value)
				audio[offset+1] = byte(value >> 8)
				audio[offset+2] = byte(value >> 16)
			case 32:
				audio[offset] = byte(value)
				audio[offset+1] = byte(value >> 8)
				audio[offset+2] = byte(value >> 16)
				audio[offset+3] = byte(value >> 24)
			default:
				return decoded, fmt.Errorf("wav: unsupported bits per sample: %d", d.bps)
			}
		}

		decoded++
	}

	return decoded, nil
}

// Close is a no-op: the decoder reads through the caller-owned MediaSource,
// which the caller is responsible for closing.
func (d *Decoder) Close() error { return nil }
