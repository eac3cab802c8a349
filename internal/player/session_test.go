package player

import (
	"encoding/binary"
	"testing"
)

func TestExpandToStereoPassesThroughStereo(t *testing.T) {
	in := []byte{1, 0, 2, 0, 3, 0, 4, 0} // two stereo frames, 16-bit
	out := make([]byte, len(in))
	n := expandToStereo(in, 2, 2, 2, out)
	if n != len(in) {
		t.Fatalf("n = %d, want %d", n, len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("out[%d] = %d, want %d", i, out[i], in[i])
		}
	}
}

func TestExpandToStereoDuplicatesMono(t *testing.T) {
	in := []byte{10, 0, 20, 0} // two mono frames, 16-bit
	out := make([]byte, 8)
	n := expandToStereo(in, 2, 1, 2, out)
	if n != 8 {
		t.Fatalf("n = %d, want 8", n)
	}
	want := []byte{10, 0, 10, 0, 20, 0, 20, 0}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("out = %v, want %v", out, want)
		}
	}
}

func TestExpandToStereoTruncatesMultichannel(t *testing.T) {
	// One frame of 4-channel 16-bit audio; only first two channels kept.
	in := []byte{1, 0, 2, 0, 3, 0, 4, 0}
	out := make([]byte, 4)
	n := expandToStereo(in, 1, 4, 2, out)
	if n != 4 {
		t.Fatalf("n = %d, want 4", n)
	}
	want := []byte{1, 0, 2, 0}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("out = %v, want %v", out, want)
		}
	}
}

func TestApplyVolume16BitScales(t *testing.T) {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, uint16(int16(1000)))
	applyVolume(buf, 0.5, 16)
	got := int16(binary.LittleEndian.Uint16(buf))
	if got != 500 {
		t.Errorf("scaled sample = %d, want 500", got)
	}
}

func TestApplyVolumeZeroSilences(t *testing.T) {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(int32(12345)))
	applyVolume(buf, 0, 32)
	got := int32(binary.LittleEndian.Uint32(buf))
	if got != 0 {
		t.Errorf("scaled sample = %d, want 0", got)
	}
}
