package player

import (
	"strings"

	"github.com/mixcore/mixcore/internal/decode"
	"github.com/mixcore/mixcore/internal/frame"
	"github.com/mixcore/mixcore/internal/mediasource"
)

// preloadPrimeFrames is the number of sample-frames decoded ahead of time
// into the stashed priming chunk so Play can start emitting audio before
// the decode thread's first real decode call returns.
const preloadPrimeFrames = 4096

// preloaded holds a demuxable stream prepared ahead of a Play command, plus
// one already-decoded priming Frame so playback can start immediately on a
// cache hit.
type preloaded struct {
	url     string
	ms      mediasource.MediaSource
	dec     decode.Decoder
	cleanup func()
	prime   *frame.Frame
}

// preparePreload opens ms/decoder for url and decodes one priming frame.
// Runs on the detached preload goroutine; errors are returned to the caller
// to log, nothing is stashed on failure.
func preparePreload(url string) (*preloaded, error) {
	ms, err := mediasource.New(url)
	if err != nil {
		return nil, err
	}

	dec, cleanup, err := decode.NewDecoder(ms, extOf(url))
	if err != nil {
		ms.Close()
		return nil, err
	}

	rate, channels, bits := dec.GetFormat()
	bytesPerSample := bits / 8
	buf := make([]byte, preloadPrimeFrames*channels*bytesPerSample)
	n, _ := dec.DecodeSamples(preloadPrimeFrames, buf)

	prime := &frame.Frame{
		Format: frame.Format{
			SampleRate:    uint32(rate),
			Channels:      uint8(channels),
			BitsPerSample: uint8(bits),
		},
		SamplesCount: uint16(n),
		Audio:        buf[:n*channels*bytesPerSample],
	}

	return &preloaded{url: url, ms: ms, dec: dec, cleanup: cleanup, prime: prime}, nil
}

func extOf(url string) string {
	if i := strings.LastIndexByte(url, '.'); i >= 0 {
		return url[i+1:]
	}
	return ""
}
