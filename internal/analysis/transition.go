package analysis

import (
	"fmt"
	"strconv"
)

// mixStrategy is one entry in the fixed ladder of transition styles tried
// in order from most to least demanding.
type mixStrategy struct {
	name   string
	filter string
	bars   float64
	reqBPM bool
	reqKey bool
}

var strategies = []mixStrategy{
	{"Harmonic Deep Blend", "Eq Swap (Bass/Mid)", 32, true, true},
	{"Long Filter Blend", "Bass Swap / LPF", 32, true, false},
	{"Standard Blend", "Eq Mixing", 16, true, true},
	{"Filter Blend", "Bass Cut Out", 16, true, false},
	{"Short Blend", "Wash Out / Echo", 8, false, false},
	{"Quick Blend", "Quick Fade", 4, true, false},
}

// SuggestTransition takes the analyses of both tracks and proposes a short
// mix: the first strategy in the ladder both tracks qualify for and that
// fits in the available run-out of the current track and intro of the
// next, or one of two fallbacks (Aggressive Bass Swap, then Echo Out). It
// returns nil only when either analysis is nil.
func SuggestTransition(cur, next *AudioAnalysis) *TransitionProposal {
	if cur == nil || next == nil {
		return nil
	}
	bpmA := valueOr(cur.BPM, 128.0)
	bpmB := valueOr(next.BPM, 128.0)
	bpmCompatible := abs(bpmA-bpmB)/bpmA < 0.06
	keyCompatible := isCamelotCompatible(cur.CamelotKey, next.CamelotKey)

	curOut := valueOr(cur.CutOutPos, cur.FadeOutPos)
	nextIn := valueOr(next.FirstBeatPos, 0.0)
	nextIntroLen := valueOr(next.VocalInPos, 30.0) - nextIn

	secPerBar := 240.0 / bpmA

	for _, s := range strategies {
		if s.reqBPM && !bpmCompatible {
			continue
		}
		if s.reqKey && !keyCompatible {
			continue
		}

		dur := s.bars * secPerBar
		if nextIntroLen < dur {
			continue
		}

		start := curOut - dur
		if start < cur.MixCenterPos-30.0 {
			continue
		}

		return &TransitionProposal{
			Duration:           dur,
			CurrentTrackMixOut: start,
			NextTrackMixIn:     nextIn,
			MixType:            fmt.Sprintf("%s (%g Bars)", s.name, s.bars),
			FilterStrategy:     s.filter,
			CompatibilityScore: 0.9,
			KeyCompatible:      keyCompatible,
			BPMCompatible:      bpmCompatible,
		}
	}

	if bpmCompatible {
		dur := 16.0 * secPerBar
		if cur.Duration-curOut > dur {
			return &TransitionProposal{
				Duration:           dur,
				CurrentTrackMixOut: curOut - dur,
				NextTrackMixIn:     nextIn,
				MixType:            "Aggressive Bass Swap",
				FilterStrategy:     "Bass Swap",
				CompatibilityScore: 0.7,
				KeyCompatible:      keyCompatible,
				BPMCompatible:      bpmCompatible,
			}
		}
	}

	return &TransitionProposal{
		Duration:           secPerBar * 4.0,
		CurrentTrackMixOut: curOut,
		NextTrackMixIn:     nextIn,
		MixType:            "Echo Out",
		FilterStrategy:     "Echo Freeze",
		CompatibilityScore: 0.5,
		KeyCompatible:      keyCompatible,
		BPMCompatible:      bpmCompatible,
	}
}

// SuggestLongMix proposes a 32-bar blend with a playback-rate adjustment
// on the next track and a bass-swap automation curve for both.
func SuggestLongMix(cur, next *AudioAnalysis) *AdvancedTransition {
	if cur == nil || next == nil {
		return nil
	}
	bpmA := valueOr(cur.BPM, 128.0)
	bpmB := valueOr(next.BPM, 128.0)
	playbackRate := bpmA / bpmB

	const targetBars = 32.0
	secPerBar := 240.0 / bpmA
	duration := targetBars * secPerBar

	curEnd := cur.Duration - 5.0
	nextStart := 32.0 * 240.0 / bpmB
	if next.DropPos != nil {
		nextStart = *next.DropPos
	} else if next.VocalInPos != nil {
		nextStart = *next.VocalInPos
	}

	autoCur, autoNext := generateBassSwapAutomation(duration)

	return &AdvancedTransition{
		StartTimeCurrent:    max0(curEnd - duration),
		StartTimeNext:       max0(nextStart - duration/playbackRate),
		Duration:            duration,
		PitchShiftSemitones: 0,
		PlaybackRate:        playbackRate,
		AutomationCurrent:   autoCur,
		AutomationNext:      autoNext,
		Strategy:            "Long Bass Swap",
	}
}

// generateBassSwapAutomation builds mirrored three-point volume/low-cut
// curves: the outgoing track fades out as its bass is cut, the incoming
// track fades in as its bass is restored.
func generateBassSwapAutomation(dur float64) (cur, next []AutomationPoint) {
	mid := dur / 2.0

	cur = []AutomationPoint{
		{TimeOffset: 0, Volume: 1.0, LowCut: 0.0},
		{TimeOffset: mid, Volume: 0.9, LowCut: 0.8},
		{TimeOffset: dur, Volume: 0.0, LowCut: 1.0},
	}
	next = []AutomationPoint{
		{TimeOffset: 0, Volume: 0.0, LowCut: 1.0},
		{TimeOffset: mid, Volume: 0.9, LowCut: 0.8},
		{TimeOffset: dur, Volume: 1.0, LowCut: 0.0},
	}
	return cur, next
}

var camelotMajor = [12]int{12, 7, 2, 9, 4, 11, 6, 1, 8, 3, 10, 5}
var camelotMinor = [12]int{9, 4, 11, 6, 1, 8, 3, 10, 5, 12, 7, 2}

// getCamelotKey formats a (root, mode) pair as Camelot wheel notation:
// mode 0 is major (letter "B"), mode 1 is minor (letter "A").
func getCamelotKey(root, mode int) (string, bool) {
	if root < 0 || root > 11 {
		return "", false
	}
	num := camelotMajor[root]
	letter := "B"
	if mode != 0 {
		num = camelotMinor[root]
		letter = "A"
	}
	return fmt.Sprintf("%d%s", num, letter), true
}

// isCamelotCompatible reports whether two Camelot codes are mixable:
// identical, or adjacent on the wheel (difference of 1, wrapping at 12)
// with the same major/minor letter.
func isCamelotCompatible(a, b *string) bool {
	if a == nil || b == nil {
		return false
	}
	if *a == *b {
		return true
	}

	na, ma, ok := parseCamelot(*a)
	if !ok {
		return false
	}
	nb, mb, ok := parseCamelot(*b)
	if !ok {
		return false
	}

	diff := na - nb
	if diff < 0 {
		diff = -diff
	}
	return (diff == 1 || diff == 11) && ma == mb
}

func parseCamelot(k string) (num int, letter byte, ok bool) {
	if len(k) < 2 {
		return 0, 0, false
	}
	letter = k[len(k)-1]
	n, err := strconv.Atoi(k[:len(k)-1])
	if err != nil {
		return 0, 0, false
	}
	return n, letter, true
}

func valueOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func max0(x float64) float64 {
	if x < 0 {
		return 0
	}
	return x
}
