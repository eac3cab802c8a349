// Package analysis implements offline track analysis (tempo, key, loudness,
// structural landmarks) and the transition planner that composes two
// analyzed tracks into a mix proposal.
package analysis

// AnalysisVersion is embedded in every AudioAnalysis so downstream caches
// can invalidate when the detector logic changes.
const AnalysisVersion = 13

// envelopeRate is the fixed frame rate (Hz) the three parallel envelopes
// are sampled at: one value per 20ms window.
const envelopeRate = 50.0

// AnalysisSegment holds the three parallel envelopes computed over one
// contiguous span of decoded audio (the head, or the optional tail).
type AnalysisSegment struct {
	Envelope    []float32
	LowEnvelope []float32
	VocalRatio  []float32
}

// AudioAnalysis is the frozen output of analyzing one track.
type AudioAnalysis struct {
	Duration float64

	BPM           *float64
	BPMConfidence *float64
	FirstBeatPos  *float64

	FadeInPos  float64
	FadeOutPos float64

	Loudness *float64 // LUFS
	DropPos  *float64

	Version       int
	AnalyzeWindow float64

	CutInPos     *float64
	CutOutPos    *float64
	MixCenterPos float64
	MixStartPos  float64
	MixEndPos    float64

	EnergyProfile []float64

	VocalInPos     *float64
	VocalOutPos    *float64
	VocalLastInPos *float64

	OutroEnergyLevel *float64

	KeyRoot       *int
	KeyMode       *int
	KeyConfidence *float64
	CamelotKey    *string
}

// TransitionProposal is a short-mix recommendation between two tracks.
type TransitionProposal struct {
	Duration            float64
	CurrentTrackMixOut  float64
	NextTrackMixIn      float64
	MixType             string
	FilterStrategy      string
	CompatibilityScore  float64
	KeyCompatible       bool
	BPMCompatible       bool
}

// AutomationPoint is one keyframe of a volume/filter automation curve.
type AutomationPoint struct {
	TimeOffset float64
	Volume     float64
	LowCut     float64
	HighCut    float64
}

// AdvancedTransition is a long-mix recommendation with per-track automation.
type AdvancedTransition struct {
	StartTimeCurrent   float64
	StartTimeNext      float64
	Duration           float64
	PitchShiftSemitones int
	PlaybackRate       float64
	AutomationCurrent  []AutomationPoint
	AutomationNext     []AutomationPoint
	Strategy           string
}

func f64ptr(v float64) *float64 { return &v }
func intptr(v int) *int         { return &v }
