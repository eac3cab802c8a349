package player

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/mixcore/mixcore/internal/ringbuf"

	"github.com/drgolem/go-portaudio/portaudio"
)

// callbackState is the set of fields the realtime audio callback touches.
// Every field here is either atomic or a lock-free structure (RingBuffer);
// the callback must never allocate and must never block on a contended
// mutex for longer than a try-lock (see status.advancePosition).
type callbackState struct {
	ring           *ringbuf.RingBuffer
	status         *status
	playing        *atomic.Bool
	flushRequested *atomic.Bool
	volumeBits     *atomic.Uint32
	bitsPerSample  int
	bytesPerFrame  int // stereo: 2 * (bitsPerSample/8)
}

// audioCallback returns a portaudio.StreamCallbackFunc bound to cs. It pops
// bytesPerFrame-sized frames from the ring buffer into output, substituting
// silence on underrun, and advances the position counter only for frames
// that carried real PCM (never during silence, pause, or flush).
func (cs *callbackState) audioCallback(
	input, output []byte,
	frameCount uint,
	timeInfo *portaudio.StreamCallbackTimeInfo,
	statusFlags portaudio.StreamCallbackFlags,
) portaudio.StreamCallbackResult {
	bytesNeeded := int(frameCount) * cs.bytesPerFrame

	if !cs.playing.Load() {
		clear(output[:bytesNeeded])
		return portaudio.Continue
	}

	if cs.flushRequested.Load() {
		cs.ring.Drain()
		clear(output[:bytesNeeded])
		cs.flushRequested.Store(false)
		return portaudio.Continue
	}

	n, _ := cs.ring.Read(output[:bytesNeeded])
	if n < bytesNeeded {
		clear(output[n:bytesNeeded])
	}

	vol := float32frombits(cs.volumeBits.Load())
	if vol != 1.0 && n > 0 {
		applyVolume(output[:n], vol, cs.bitsPerSample)
	}

	framesWritten := uint64(n / cs.bytesPerFrame)
	if framesWritten > 0 {
		cs.status.advancePosition(framesWritten)
	}

	return portaudio.Continue
}

// applyVolume scales each sample in buf (stereo-interleaved PCM at
// bitsPerSample) by vol in place. Used only by the realtime callback on the
// bytes it is about to hand to the hardware, never on the decode thread's
// side of the ring buffer.
func applyVolume(buf []byte, vol float32, bitsPerSample int) {
	switch bitsPerSample {
	case 16:
		for i := 0; i+2 <= len(buf); i += 2 {
			s := int16(binary.LittleEndian.Uint16(buf[i : i+2]))
			binary.LittleEndian.PutUint16(buf[i:i+2], uint16(int16(float32(s)*vol)))
		}
	case 24:
		for i := 0; i+3 <= len(buf); i += 3 {
			s := int32(buf[i]) | int32(buf[i+1])<<8 | int32(int8(buf[i+2]))<<16
			scaled := int32(float32(s) * vol)
			buf[i] = byte(scaled)
			buf[i+1] = byte(scaled >> 8)
			buf[i+2] = byte(scaled >> 16)
		}
	case 32:
		for i := 0; i+4 <= len(buf); i += 4 {
			s := int32(binary.LittleEndian.Uint32(buf[i : i+4]))
			binary.LittleEndian.PutUint32(buf[i:i+4], uint32(int32(float32(s)*vol)))
		}
	}
}
