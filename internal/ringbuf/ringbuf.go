// Package ringbuf implements a lock-free single-producer/single-consumer
// byte ring buffer used to carry raw PCM between the decode goroutine and
// the realtime audio callback.
package ringbuf

import (
	"errors"
	"sync/atomic"
)

// Sentinel errors shared by every ring buffer consumer in the player.
var (
	ErrInsufficientSpace = errors.New("ringbuf: insufficient space for write")
	ErrInsufficientData  = errors.New("ringbuf: insufficient data for read")
)

// RingBuffer is a lock-free SPSC byte queue. Write must only be called by
// the producer (decode) goroutine; Read and Drain must only be called by
// the consumer (audio callback).
type RingBuffer struct {
	buffer   []byte
	size     uint64 // power of 2
	mask     uint64
	writePos atomic.Uint64
	readPos  atomic.Uint64
}

// New creates a ring buffer with capacity rounded up to the next power of 2.
func New(size uint64) *RingBuffer {
	size = nextPowerOf2(size)
	return &RingBuffer{
		buffer: make([]byte, size),
		size:   size,
		mask:   size - 1,
	}
}

// Write writes all of data or fails with ErrInsufficientSpace without
// writing anything.
func (rb *RingBuffer) Write(data []byte) (int, error) {
	dataLen := uint64(len(data))
	if dataLen == 0 {
		return 0, nil
	}

	if dataLen > rb.AvailableWrite() {
		return 0, ErrInsufficientSpace
	}

	writePos := rb.writePos.Load()
	start := writePos & rb.mask
	end := (writePos + dataLen) & rb.mask

	if end > start {
		copy(rb.buffer[start:end], data)
	} else {
		firstChunk := rb.size - start
		copy(rb.buffer[start:], data[:firstChunk])
		copy(rb.buffer[:end], data[firstChunk:])
	}

	rb.writePos.Store(writePos + dataLen)
	return int(dataLen), nil
}

// Read reads up to len(data) bytes, returning what is available. It
// returns ErrInsufficientData (analogous to io.EOF) only when the buffer
// is currently empty.
func (rb *RingBuffer) Read(data []byte) (int, error) {
	dataLen := uint64(len(data))
	if dataLen == 0 {
		return 0, nil
	}

	available := rb.AvailableRead()
	if available == 0 {
		return 0, ErrInsufficientData
	}

	toRead := min(dataLen, available)
	readPos := rb.readPos.Load()
	start := readPos & rb.mask
	end := (readPos + toRead) & rb.mask

	if end > start {
		copy(data[:toRead], rb.buffer[start:end])
	} else {
		firstChunk := rb.size - start
		copy(data[:firstChunk], rb.buffer[start:])
		copy(data[firstChunk:toRead], rb.buffer[:end])
	}

	rb.readPos.Store(readPos + toRead)
	return int(toRead), nil
}

// AvailableWrite returns free capacity in bytes.
func (rb *RingBuffer) AvailableWrite() uint64 {
	return rb.size - (rb.writePos.Load() - rb.readPos.Load())
}

// AvailableRead returns occupied capacity in bytes.
func (rb *RingBuffer) AvailableRead() uint64 {
	return rb.writePos.Load() - rb.readPos.Load()
}

// Size returns the total buffer capacity.
func (rb *RingBuffer) Size() uint64 {
	return rb.size
}

// Drain discards all currently occupied bytes atomically and reports how
// many were discarded. Used by the audio callback to implement the
// flush-on-seek protocol of the decode thread (§4.3): the callback observes
// the flush flag, drains whatever PCM is still queued from before the seek,
// and only then resumes normal consumption.
func (rb *RingBuffer) Drain() uint64 {
	writePos := rb.writePos.Load()
	readPos := rb.readPos.Load()
	rb.readPos.Store(writePos)
	return writePos - readPos
}

func nextPowerOf2(n uint64) uint64 {
	if n == 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	n++
	return n
}
