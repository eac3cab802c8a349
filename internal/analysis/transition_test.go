package analysis

import "testing"

func buildAnalysis(bpm float64, camelot string, duration float64) *AudioAnalysis {
	return &AudioAnalysis{
		Duration:     duration,
		BPM:          f64ptr(bpm),
		CamelotKey:   &camelot,
		FadeOutPos:   duration - 2,
		CutOutPos:    f64ptr(duration - 40),
		FirstBeatPos: f64ptr(0.2),
		VocalInPos:   f64ptr(35.0),
		MixCenterPos: duration - 20,
	}
}

func TestSuggestTransitionPicksCompatibleStrategy(t *testing.T) {
	cur := buildAnalysis(128, "8A", 300)
	next := buildAnalysis(128, "9A", 200)

	proposal := SuggestTransition(cur, next)
	if proposal == nil {
		t.Fatal("expected a transition proposal")
	}
	if !proposal.BPMCompatible {
		t.Error("expected BPM-compatible tracks to be flagged compatible")
	}
	if !proposal.KeyCompatible {
		t.Error("expected adjacent Camelot codes to be flagged compatible")
	}
	if proposal.Duration <= 0 {
		t.Errorf("expected positive duration, got %v", proposal.Duration)
	}
}

func TestSuggestTransitionFallsBackWhenIncompatible(t *testing.T) {
	cur := buildAnalysis(90, "8A", 300)
	next := buildAnalysis(175, "3B", 200)

	proposal := SuggestTransition(cur, next)
	if proposal == nil {
		t.Fatal("expected a fallback proposal even when incompatible")
	}
	if proposal.MixType != "Echo Out" {
		t.Errorf("expected Echo Out fallback, got %q", proposal.MixType)
	}
}

func TestSuggestLongMixComputesPlaybackRate(t *testing.T) {
	cur := buildAnalysis(128, "8A", 300)
	next := buildAnalysis(64, "8A", 200)

	result := SuggestLongMix(cur, next)
	if result.PlaybackRate != 2.0 {
		t.Errorf("playback rate = %v, want 2.0 (128/64)", result.PlaybackRate)
	}
	if len(result.AutomationCurrent) != 3 || len(result.AutomationNext) != 3 {
		t.Error("expected 3-point automation curves")
	}
	if result.AutomationCurrent[0].Volume != 1.0 || result.AutomationCurrent[2].Volume != 0.0 {
		t.Error("current track automation should fade from full volume to zero")
	}
	if result.AutomationNext[0].Volume != 0.0 || result.AutomationNext[2].Volume != 1.0 {
		t.Error("next track automation should fade in from zero to full volume")
	}
}
