package flac

import "testing"

func TestNewDecoderZeroValues(t *testing.T) {
	d := NewDecoder()
	rate, channels, bps := d.GetFormat()
	if rate != 0 || channels != 0 || bps != 0 {
		t.Errorf("GetFormat() before Open = %d, %d, %d; want all zero", rate, channels, bps)
	}
}

func TestDecodeSamplesWithoutOpen(t *testing.T) {
	d := NewDecoder()
	buf := make([]byte, 1024)
	if _, err := d.DecodeSamples(len(buf), buf); err == nil {
		t.Error("expected error decoding before Open")
	}
}

func TestCloseWithoutOpenIsSafe(t *testing.T) {
	d := NewDecoder()
	if err := d.Close(); err != nil {
		t.Errorf("Close on unopened decoder: %v", err)
	}
}
