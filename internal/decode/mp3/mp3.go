// Package mp3 wraps mpg123 for MP3 decoding.
package mp3

import (
	"fmt"

	"github.com/drgolem/go-mpg123/mpg123"
)

// Decoder wraps the mpg123.Decoder to provide MP3 decoding capabilities.
type Decoder struct {
	decoder  *mpg123.Decoder
	rate     int
	channels int
	encoding int
}

// NewDecoder creates a new, unopened MP3 decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// GetFormat returns the sample rate, channel count, and bits per sample.
// mpg123.NewDecoder("") leaves output format negotiation to the library
// default, which is signed 16-bit; the raw encoding constant isn't a bit
// width so it isn't surfaced here.
func (d *Decoder) GetFormat() (int, int, int) {
	return d.rate, d.channels, 16
}

// DecodeSamples decodes up to `samples` frames into audio.
func (d *Decoder) DecodeSamples(samples int, audio []byte) (int, error) {
	if d.decoder == nil {
		return 0, fmt.Errorf("mp3: decoder not initialized")
	}
	return d.decoder.DecodeSamples(samples, audio)
}

// Open opens a local MP3 file path; mpg123 is a cgo binding and has no
// io.Reader entry point, so the caller is responsible for spooling
// non-local sources to a temp file first.
func (d *Decoder) Open(fileName string) error {
	decoder, err := mpg123.NewDecoder("")
	if err != nil {
		return fmt.Errorf("mp3: create decoder: %w", err)
	}

	if err := decoder.Open(fileName); err != nil {
		decoder.Delete()
		return fmt.Errorf("mp3: open %s: %w", fileName, err)
	}

	rate, channels, encoding := decoder.GetFormat()

	d.decoder = decoder
	d.rate = rate
	d.channels = channels
	d.encoding = encoding

	return nil
}

// Close releases the underlying mpg123 handle.
func (d *Decoder) Close() error {
	if d.decoder != nil {
		d.decoder.Close()
		d.decoder.Delete()
		d.decoder = nil
	}
	return nil
}
