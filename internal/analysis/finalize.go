package analysis

import "math"

const profileRate = 10.0

// finalizeAnalysis runs every independent detector over the accumulated
// envelopes and assembles the frozen AudioAnalysis record.
func (t *TrackAnalyzer) finalizeAnalysis(st *analysisState) *AudioAnalysis {
	fadeIn, fadeOut := detectSilence(st.head.Envelope, st.tail.Envelope, st.duration, envelopeRate, silenceThreshDB)
	bpm, bpmConf, firstBeat := detectBPM(st.head.Envelope, envelopeRate)

	var keyRoot, keyMode *int
	var keyConf *float64
	var camelot *string
	if root, mode, conf, ok := detectKey(st.headPCM, st.sampleRate); ok {
		keyRoot = intptr(root)
		keyMode = intptr(mode)
		keyConf = f64ptr(conf)
		if code, ok := getCamelotKey(root, mode); ok {
			camelot = &code
		}
	}

	var dropPos *float64
	if pos, ok := detectDrop(st.head.Envelope, envelopeRate); ok {
		dropPos = f64ptr(pos)
	}

	vocalIn, vocalOut, vocalLastIn := detectVocals(
		st.head.Envelope, st.head.VocalRatio,
		st.tail.Envelope, st.tail.VocalRatio,
		st.duration, envelopeRate, fadeIn, fadeOut,
	)

	cutOut := calculateSmartCutOut(bpm, firstBeat, bpmConf, vocalOut, fadeOut, st.duration)

	cutInAnchor := vocalIn
	if cutInAnchor == nil {
		cutInAnchor = dropPos
	}
	cutIn := calculateSmartCutIn(bpm, firstBeat, bpmConf, cutInAnchor, fadeIn)

	mixCenter := st.duration - 10.0
	if mixCenter < 0 {
		mixCenter = 0
	}
	if cutOut != nil {
		mixCenter = *cutOut
	}
	if mixCenter > st.duration {
		mixCenter = st.duration
	}

	mixDuration := 20.0
	if bpm != nil {
		mixDuration = 240.0 / *bpm * 8.0
		if mixDuration < 15 {
			mixDuration = 15
		}
		if mixDuration > 30 {
			mixDuration = 30
		}
	}
	mixStart := mixCenter - mixDuration/2.0
	if mixStart < 0 {
		mixStart = 0
	}
	mixEnd := mixCenter + mixDuration/2.0
	if mixEnd > st.duration {
		mixEnd = st.duration
	}

	profileLen := int(math.Ceil(st.duration * profileRate))
	if profileLen < 1 {
		profileLen = 1
	}
	energyProfile := make([]float64, profileLen)
	fillEnergyProfile(energyProfile, st.head.Envelope, 0, envelopeRate, profileRate)
	if len(st.tail.Envelope) > 0 {
		tailStart := st.duration - float64(len(st.tail.Envelope))/envelopeRate
		if tailStart < 0 {
			tailStart = 0
		}
		fillEnergyProfile(energyProfile, st.tail.Envelope, tailStart, envelopeRate, profileRate)
	}

	var outroEnergy *float64
	if v, ok := calculateOutroEnergy(st.tail.Envelope, envelopeRate); ok {
		outroEnergy = f64ptr(v)
	}

	loudness := f64ptr(st.loudness.LUFS())

	finalFadeOut := st.duration
	if t.includeTail {
		finalFadeOut = fadeOut
	}

	var finalCutOut *float64
	if t.includeTail {
		finalCutOut = cutOut
	}

	var finalVocalOut, finalVocalLastIn *float64
	if t.includeTail {
		finalVocalOut = vocalOut
		finalVocalLastIn = vocalLastIn
	}

	return &AudioAnalysis{
		Duration:         st.duration,
		BPM:              bpm,
		BPMConfidence:    bpmConf,
		FirstBeatPos:     firstBeat,
		FadeInPos:        fadeIn,
		FadeOutPos:       finalFadeOut,
		Loudness:         loudness,
		DropPos:          dropPos,
		Version:          AnalysisVersion,
		AnalyzeWindow:    t.maxAnalyzeTime,
		CutInPos:         cutIn,
		CutOutPos:        finalCutOut,
		MixCenterPos:     mixCenter,
		MixStartPos:      mixStart,
		MixEndPos:        mixEnd,
		EnergyProfile:    energyProfile,
		VocalInPos:       vocalIn,
		VocalOutPos:      finalVocalOut,
		VocalLastInPos:   finalVocalLastIn,
		OutroEnergyLevel: outroEnergy,
		KeyRoot:          keyRoot,
		KeyMode:          keyMode,
		KeyConfidence:    keyConf,
		CamelotKey:       camelot,
	}
}
