// Package mediasource defines the abstract byte source the decode thread
// reads from: a local file loaded fully into memory, or a progressively
// downloaded HTTP stream backed by an append-only buffer.
package mediasource

import (
	"io"
	"strings"
)

// MediaSource is a seekable byte stream with an optional known length.
// Seek follows io.Seeker semantics (io.SeekStart/Current/End).
type MediaSource interface {
	io.ReadSeeker
	io.Closer

	// Seekable reports whether Seek can be relied on to reposition the
	// stream arbitrarily. Both concrete variants are seekable; the method
	// exists so a decoder can choose a strategy without type-asserting.
	Seekable() bool

	// Len reports the total byte length if known.
	Len() (size int64, known bool)

	// LocalPath returns the backing filesystem path and true if this
	// source already lives on disk (LocalFile).
	// Decoders whose underlying C library requires a path rather than a
	// Go io.Reader use this; decoders built on a pure-Go reader (WAV,
	// Ogg/Vorbis) ignore it and read through the MediaSource directly.
	LocalPath() (path string, ok bool)
}

// New routes a URL or filesystem path to the appropriate MediaSource
// variant: http(s):// URLs get a ProgressiveHttpStream, anything else is
// treated as a local path.
func New(urlOrPath string) (MediaSource, error) {
	if isHTTPURL(urlOrPath) {
		return OpenProgressiveHttpStream(urlOrPath)
	}
	return OpenLocalFile(urlOrPath)
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
