// Package decode dispatches a MediaSource to a format-specific decoder and
// exposes a single interface the decode goroutine drives regardless of
// codec.
package decode

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mixcore/mixcore/internal/decode/flac"
	"github.com/mixcore/mixcore/internal/decode/mp3"
	"github.com/mixcore/mixcore/internal/decode/oggvorbis"
	"github.com/mixcore/mixcore/internal/decode/wav"
	"github.com/mixcore/mixcore/internal/mediasource"
)

// Decoder produces interleaved PCM from a MediaSource, one chunk at a time.
type Decoder interface {
	// GetFormat reports the sample rate, channel count, and bits per
	// sample once decoding has started.
	GetFormat() (rate, channels, bitsPerSample int)

	// DecodeSamples decodes up to `samples` frames (not bytes) into audio,
	// which must be at least samples*channels*(bitsPerSample/8) bytes. It
	// returns the number of samples actually decoded; a short count paired
	// with a nil error means end of stream.
	DecodeSamples(samples int, audio []byte) (int, error)

	Close() error
}

// NewDecoder opens a decoder for ms, selecting the codec from hintExt (a
// file extension such as ".mp3", with or without the leading dot) or, if
// hintExt is empty, from ms.LocalPath()'s extension. It returns the
// decoder and a cleanup func that must be called after Close (it removes
// any temp file spooled for a path-requiring codec on a non-seekable
// source).
func NewDecoder(ms mediasource.MediaSource, hintExt string) (Decoder, func(), error) {
	ext := strings.ToLower(strings.TrimPrefix(hintExt, "."))
	if ext == "" {
		if path, ok := ms.LocalPath(); ok {
			ext = strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		}
	}

	switch ext {
	case "mp3":
		path, cleanup, err := mediasource.SpoolToTempFile(ms, "mixcore-mp3-*.mp3")
		if err != nil {
			return nil, nil, fmt.Errorf("decode: spool for mp3: %w", err)
		}
		d := mp3.NewDecoder()
		if err := d.Open(path); err != nil {
			cleanup()
			return nil, nil, err
		}
		return d, cleanup, nil

	case "flac":
		path, cleanup, err := mediasource.SpoolToTempFile(ms, "mixcore-flac-*.flac")
		if err != nil {
			return nil, nil, fmt.Errorf("decode: spool for flac: %w", err)
		}
		d := flac.NewDecoder()
		if err := d.Open(path); err != nil {
			cleanup()
			return nil, nil, err
		}
		return d, cleanup, nil

	case "wav":
		d := wav.NewDecoder()
		if err := d.Open(ms); err != nil {
			return nil, nil, err
		}
		return d, func() {}, nil

	case "ogg", "oga":
		d := oggvorbis.NewDecoder()
		if err := d.Open(ms); err != nil {
			return nil, nil, err
		}
		return d, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("decode: unsupported format %q", ext)
	}
}
