package player

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/mixcore/mixcore/internal/decode"
	"github.com/mixcore/mixcore/internal/mediasource"
	"github.com/mixcore/mixcore/internal/ringbuf"

	"github.com/drgolem/go-portaudio/portaudio"
)

const (
	decodeChunkFrames = 4096
	ringFullSleep     = 500 * time.Microsecond
	flushWaitSleep    = 5 * time.Millisecond
	drainTimeout      = 10 * time.Second

	// ringBufferBytes sizes the ring to roughly 2 seconds of stereo audio
	// at the highest sample rate/bit depth this player will ever open a
	// stream at (192kHz, 32-bit, stereo); ringbuf.New rounds up to a power
	// of 2 regardless.
	ringBufferBytes = 192000 * 2 * 4 * 2
)

// session is the state of one Play invocation, owned entirely by its
// decode goroutine except for the fields shared with the realtime callback
// (ring, status, playing, flushRequested, volumeBits), which are lock-free
// or try-lock guarded.
type session struct {
	url string

	ms      mediasource.MediaSource
	dec     decode.Decoder
	cleanup func()

	ring           *ringbuf.RingBuffer
	stream         *portaudio.PaStream
	status         *status
	playing        *atomic.Bool
	decodeStop     *atomic.Bool
	flushRequested *atomic.Bool
	volumeBits     *atomic.Uint32
	bus            *EventBus

	deviceIndex int

	rate, channels, bits int
	framesDecoded        uint64
}

// run drives the decode thread end to end: probe, initialize the hardware
// stream, decode loop, drain, teardown. Grounded on the teacher's
// internal/fileplayer producer goroutine, generalized with seek/flush and
// a command-observed stop flag instead of a single completion channel.
func (s *session) run() {
	defer s.teardown()

	rate, channels, bits := s.dec.GetFormat()
	s.rate, s.channels, s.bits = rate, channels, bits
	bytesPerSample := bits / 8
	outBytesPerFrame := 2 * bytesPerSample

	duration, _ := estimateDuration(s.ms, rate, channels, bits)
	s.status.setFormat(uint32(rate), duration)

	if err := s.openStream(bytesPerSample, outBytesPerFrame); err != nil {
		slog.Warn("player: failed to open hardware stream", "url", s.url, "error", err)
		return
	}
	s.status.setTransitioning(false)
	s.status.setPlaying(true)
	s.playing.Store(true)

	decChunk := make([]byte, decodeChunkFrames*channels*bytesPerSample)
	outChunk := make([]byte, decodeChunkFrames*2*bytesPerSample)

	for {
		if s.decodeStop.Load() {
			break
		}

		if target, ok := s.status.takeSeek(); ok {
			if err := s.seekTo(target); err != nil {
				slog.Warn("player: seek failed", "url", s.url, "error", err)
				break
			}
			continue
		}

		n, err := s.dec.DecodeSamples(decodeChunkFrames, decChunk)
		if n == 0 {
			if err != nil {
				slog.Debug("player: decode finished", "url", s.url, "error", err)
			}
			break
		}
		s.framesDecoded += uint64(n)

		frameBytes := expandToStereo(decChunk, n, channels, bytesPerSample, outChunk)
		if !s.pushToRing(outChunk[:frameBytes]) {
			break
		}
	}

	s.drain()
}

// pushToRing retries Write until it succeeds or decodeStop is observed.
func (s *session) pushToRing(data []byte) bool {
	for {
		if _, err := s.ring.Write(data); err == nil {
			return true
		}
		if s.decodeStop.Load() {
			return false
		}
		time.Sleep(ringFullSleep)
	}
}

// seekTo implements the seek protocol of §4.2: raise the flush flag so the
// callback drains stale PCM, then reposition. The Decoder interface exposes
// no random-access primitive, so repositioning is done by reopening the
// stream and decoding-and-discarding up to the target sample count; this is
// exact for every codec at the cost of decode time proportional to the
// target offset, a deliberate trade against the byte-rate estimate the
// analyzer uses (there only for a duration guess, never for repositioning).
func (s *session) seekTo(targetSecs float32) error {
	s.flushRequested.Store(true)

	s.dec.Close()
	if s.cleanup != nil {
		s.cleanup()
	}
	s.ms.Close()

	ms, err := mediasource.New(s.url)
	if err != nil {
		return err
	}
	dec, cleanup, err := decode.NewDecoder(ms, extOf(s.url))
	if err != nil {
		ms.Close()
		return err
	}
	s.ms, s.dec, s.cleanup = ms, dec, cleanup

	targetFrames := uint64(float64(targetSecs) * float64(s.rate))
	bytesPerSample := s.bits / 8
	discard := make([]byte, decodeChunkFrames*s.channels*bytesPerSample)
	var decoded uint64
	for decoded < targetFrames {
		want := decodeChunkFrames
		if remaining := targetFrames - decoded; remaining < uint64(want) {
			want = int(remaining)
		}
		n, err := s.dec.DecodeSamples(want, discard)
		if n == 0 {
			break // seek target past EOF; stop where the stream ends
		}
		decoded += uint64(n)
		if err != nil {
			break
		}
	}
	s.framesDecoded = decoded

	for s.flushRequested.Load() {
		time.Sleep(flushWaitSleep)
		if s.decodeStop.Load() {
			break
		}
	}
	s.status.setPosition(decoded)
	return nil
}

// drain waits for the ring buffer to empty (or a timeout) before declaring
// playback over and publishing the ended event.
func (s *session) drain() {
	deadline := time.Now().Add(drainTimeout)
	for s.ring.AvailableRead() > 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	s.playing.Store(false)
	s.status.setPlaying(false)
	if !s.decodeStop.Load() {
		s.bus.Publish("audioplayer://ended")
	}
}

func (s *session) openStream(bytesPerSample, outBytesPerFrame int) error {
	var sampleFormat portaudio.PaSampleFormat
	switch bytesPerSample * 8 {
	case 16:
		sampleFormat = portaudio.SampleFmtInt16
	case 24:
		sampleFormat = portaudio.SampleFmtInt24
	case 32:
		sampleFormat = portaudio.SampleFmtInt32
	default:
		sampleFormat = portaudio.SampleFmtInt16
	}

	s.stream = &portaudio.PaStream{
		OutputParameters: &portaudio.PaStreamParameters{
			DeviceIndex:  s.deviceIndex,
			ChannelCount: 2,
			SampleFormat: sampleFormat,
		},
		SampleRate: float64(s.rate),
	}

	cs := &callbackState{
		ring:           s.ring,
		status:         s.status,
		playing:        s.playing,
		flushRequested: s.flushRequested,
		volumeBits:     s.volumeBits,
		bitsPerSample:  bytesPerSample * 8,
		bytesPerFrame:  outBytesPerFrame,
	}

	if err := s.stream.OpenCallback(512, cs.audioCallback); err != nil {
		return err
	}
	return s.stream.StartStream()
}

func (s *session) teardown() {
	if s.stream != nil {
		s.stream.StopStream()
		s.stream.CloseCallback()
		s.stream = nil
	}
	if s.dec != nil {
		s.dec.Close()
	}
	if s.cleanup != nil {
		s.cleanup()
	}
	if s.ms != nil {
		s.ms.Close()
	}
}

// expandToStereo writes n frames of channels-interleaved PCM at
// bytesPerSample into out as stereo: mono is duplicated to both channels,
// more than two channels are truncated to the first two. Returns the
// number of bytes written to out.
func expandToStereo(in []byte, n, channels, bytesPerSample int, out []byte) int {
	frameIn := channels * bytesPerSample
	frameOut := 2 * bytesPerSample

	switch channels {
	case 2:
		copy(out[:n*frameOut], in[:n*frameIn])
	case 1:
		for i := 0; i < n; i++ {
			src := in[i*frameIn : i*frameIn+bytesPerSample]
			dst := out[i*frameOut : i*frameOut+2*bytesPerSample]
			copy(dst[:bytesPerSample], src)
			copy(dst[bytesPerSample:], src)
		}
	default:
		for i := 0; i < n; i++ {
			src := in[i*frameIn : i*frameIn+2*bytesPerSample]
			dst := out[i*frameOut : i*frameOut+2*bytesPerSample]
			copy(dst, src)
		}
	}
	return n * frameOut
}
