package player

import "testing"

func TestStatusResetAndSnapshot(t *testing.T) {
	s := newStatus()
	s.setPlaying(true)
	s.setFormat(44100, 180)
	s.reset()

	got := s.snapshot()
	if got.IsPlaying {
		t.Error("expected IsPlaying false after reset")
	}
	if !got.IsTransitioning {
		t.Error("expected IsTransitioning true after reset")
	}
	if got.SampleRate != 0 || got.DurationSecs != 0 {
		t.Errorf("expected format cleared, got %+v", got)
	}
}

func TestStatusRequestSeekSetsOptimisticPosition(t *testing.T) {
	s := newStatus()
	s.setFormat(48000, 120)

	s.requestSeek(2.0)
	got := s.snapshot()
	if got.PositionSamples != 96000 {
		t.Errorf("PositionSamples = %d, want 96000", got.PositionSamples)
	}

	target, ok := s.takeSeek()
	if !ok || target != 2.0 {
		t.Errorf("takeSeek = %v, %v; want 2.0, true", target, ok)
	}

	if _, ok := s.takeSeek(); ok {
		t.Error("expected second takeSeek to report no pending seek")
	}
}

func TestStatusAdvancePosition(t *testing.T) {
	s := newStatus()
	s.advancePosition(100)
	s.advancePosition(50)

	got := s.snapshot()
	if got.PositionSamples != 150 {
		t.Errorf("PositionSamples = %d, want 150", got.PositionSamples)
	}
}

func TestStatusAdvancePositionDropsOnContention(t *testing.T) {
	s := newStatus()
	s.mu.Lock()
	s.advancePosition(100) // try-lock fails, must not deadlock or block
	s.mu.Unlock()

	got := s.snapshot()
	if got.PositionSamples != 0 {
		t.Errorf("PositionSamples = %d, want 0 (update dropped under contention)", got.PositionSamples)
	}
}

func TestPlaybackStatusPositionSeconds(t *testing.T) {
	ps := PlaybackStatus{SampleRate: 44100, PositionSamples: 44100 * 3}
	if got := ps.PositionSeconds(); got != 3.0 {
		t.Errorf("PositionSeconds = %v, want 3.0", got)
	}

	zero := PlaybackStatus{}
	if got := zero.PositionSeconds(); got != 0 {
		t.Errorf("PositionSeconds with zero sample rate = %v, want 0", got)
	}
}
