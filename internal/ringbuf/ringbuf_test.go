package ringbuf

import (
	"errors"
	"testing"
)

func TestNewRoundsToPowerOf2(t *testing.T) {
	rb := New(100)
	if rb.Size() != 128 {
		t.Errorf("expected size 128, got %d", rb.Size())
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	rb := New(16)
	data := []byte{1, 2, 3, 4}

	n, err := rb.Write(data)
	if err != nil || n != 4 {
		t.Fatalf("Write failed: n=%d err=%v", n, err)
	}

	out := make([]byte, 4)
	n, err = rb.Read(out)
	if err != nil || n != 4 {
		t.Fatalf("Read failed: n=%d err=%v", n, err)
	}
	for i := range data {
		if out[i] != data[i] {
			t.Errorf("byte %d mismatch: want %d got %d", i, data[i], out[i])
		}
	}
}

func TestWriteInsufficientSpace(t *testing.T) {
	rb := New(4)
	_, err := rb.Write(make([]byte, 8))
	if !errors.Is(err, ErrInsufficientSpace) {
		t.Errorf("expected ErrInsufficientSpace, got %v", err)
	}
}

func TestReadInsufficientData(t *testing.T) {
	rb := New(4)
	_, err := rb.Read(make([]byte, 4))
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func TestWrapAround(t *testing.T) {
	rb := New(8)
	rb.Write([]byte{1, 2, 3, 4, 5, 6})
	out := make([]byte, 4)
	rb.Read(out)

	rb.Write([]byte{7, 8, 9, 10})

	remaining := make([]byte, 6)
	n, err := rb.Read(remaining)
	if err != nil || n != 6 {
		t.Fatalf("wraparound read failed: n=%d err=%v", n, err)
	}
	want := []byte{5, 6, 7, 8, 9, 10}
	for i := range want {
		if remaining[i] != want[i] {
			t.Errorf("byte %d: want %d got %d", i, want[i], remaining[i])
		}
	}
}

func TestDrainReportsOccupancyAndEmpties(t *testing.T) {
	rb := New(16)
	rb.Write([]byte{1, 2, 3, 4, 5})

	discarded := rb.Drain()
	if discarded != 5 {
		t.Errorf("expected 5 discarded bytes, got %d", discarded)
	}
	if rb.AvailableRead() != 0 {
		t.Errorf("expected empty buffer after Drain, got %d available", rb.AvailableRead())
	}
	if rb.AvailableWrite() != rb.Size() {
		t.Errorf("expected full write capacity after Drain, got %d", rb.AvailableWrite())
	}
}

