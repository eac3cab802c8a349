// Package flac wraps go-flac for FLAC decoding.
package flac

import (
	"fmt"

	goflac "github.com/drgolem/go-flac/flac"
)

// Decoder wraps the go-flac frame decoder.
type Decoder struct {
	decoder  *goflac.FlacDecoder
	rate     int
	channels int
	bps      int
}

// NewDecoder creates a new, unopened FLAC decoder. Output is 16-bit PCM.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// GetFormat returns the sample rate, channel count, and bits per sample.
func (d *Decoder) GetFormat() (int, int, int) {
	return d.rate, d.channels, d.bps
}

// DecodeSamples decodes up to `samples` frames into audio.
func (d *Decoder) DecodeSamples(samples int, audio []byte) (int, error) {
	if d.decoder == nil {
		return 0, fmt.Errorf("flac: decoder not initialized")
	}
	return d.decoder.DecodeSamples(samples, audio)
}

// Open opens a local FLAC file path; like mpg123, go-flac is a cgo binding
// with no io.Reader entry point, so non-local sources must be spooled to a
// temp file by the caller first.
func (d *Decoder) Open(fileName string) error {
	decoder, err := goflac.NewFlacFrameDecoder(16)
	if err != nil {
		return fmt.Errorf("flac: create decoder: %w", err)
	}

	if err := decoder.Open(fileName); err != nil {
		decoder.Delete()
		return fmt.Errorf("flac: open %s: %w", fileName, err)
	}

	rate, channels, bps := decoder.GetFormat()

	d.decoder = decoder
	d.rate = rate
	d.channels = channels
	d.bps = bps

	return nil
}

// Close releases the underlying decoder handle.
func (d *Decoder) Close() error {
	if d.decoder != nil {
		d.decoder.Close()
		d.decoder.Delete()
		d.decoder = nil
	}
	return nil
}
