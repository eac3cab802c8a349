package oggvorbis

import "testing"

func TestQuantizeClampsToRange(t *testing.T) {
	cases := []struct {
		in   float32
		want int16
	}{
		{0, 0},
		{1, 32767},
		{-1, -32767},
		{2, 32767},
		{-2, -32767},
	}
	for _, c := range cases {
		if got := quantize(c.in); got != c.want {
			t.Errorf("quantize(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestDecodeSamplesWithoutOpen(t *testing.T) {
	d := NewDecoder()
	buf := make([]byte, 16)
	if _, err := d.DecodeSamples(4, buf); err == nil {
		t.Error("expected error decoding before Open")
	}
}

func TestGetFormatBeforeOpen(t *testing.T) {
	d := NewDecoder()
	rate, channels, bits := d.GetFormat()
	if rate != 0 || channels != 0 || bits != outputBitsPerSample {
		t.Errorf("GetFormat() before Open = %d, %d, %d; want 0, 0, %d", rate, channels, bits, outputBitsPerSample)
	}
}
