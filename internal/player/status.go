package player

import "sync"

// status is the mutex-guarded shared state read by external pollers and
// written by the decode thread and the realtime callback. The callback
// only ever touches positionSamples, and does so via advancePosition's
// try-lock so a contended status reader never stalls the audio thread;
// the next callback invocation reconciles the dropped update.
type status struct {
	mu sync.Mutex

	isPlaying       bool
	isTransitioning bool
	durationSecs    float32
	sampleRate      uint32
	positionSamples uint64
	seekTo          *float32
	metadata        *TrackMetadata
}

func newStatus() *status {
	return &status{}
}

// reset clears all fields and marks the status as transitioning, called at
// the start of every Play.
func (s *status) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isPlaying = false
	s.isTransitioning = true
	s.durationSecs = 0
	s.sampleRate = 0
	s.positionSamples = 0
	s.seekTo = nil
	s.metadata = nil
}

func (s *status) snapshot() PlaybackStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return PlaybackStatus{
		IsPlaying:       s.isPlaying,
		IsTransitioning: s.isTransitioning,
		DurationSecs:    s.durationSecs,
		SampleRate:      s.sampleRate,
		PositionSamples: s.positionSamples,
		Metadata:        s.metadata,
	}
}

func (s *status) setPlaying(v bool) {
	s.mu.Lock()
	s.isPlaying = v
	s.mu.Unlock()
}

func (s *status) setTransitioning(v bool) {
	s.mu.Lock()
	s.isTransitioning = v
	s.mu.Unlock()
}

func (s *status) setFormat(sampleRate uint32, durationSecs float32) {
	s.mu.Lock()
	s.sampleRate = sampleRate
	s.durationSecs = durationSecs
	s.mu.Unlock()
}

func (s *status) setMetadata(m *TrackMetadata) {
	s.mu.Lock()
	s.metadata = m
	s.mu.Unlock()
}

// requestSeek records the pending seek target and optimistically advances
// positionSamples so callers polling the status observe the new position
// immediately; the decode thread reconciles it against the real decoded
// offset once the seek completes.
func (s *status) requestSeek(t float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seekCopy := t
	s.seekTo = &seekCopy
	if s.sampleRate > 0 {
		s.positionSamples = uint64(t * float32(s.sampleRate))
	}
}

// takeSeek consumes the pending seek target, if any. Called by the decode
// thread, never the realtime callback.
func (s *status) takeSeek() (float32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seekTo == nil {
		return 0, false
	}
	t := *s.seekTo
	s.seekTo = nil
	return t, true
}

// setPosition overwrites positionSamples with an authoritative value, used
// by the decode thread after reconciling a seek. Not on the realtime path.
func (s *status) setPosition(samples uint64) {
	s.mu.Lock()
	s.positionSamples = samples
	s.mu.Unlock()
}

// advancePosition adds frames to positionSamples using a try-lock so the
// realtime callback never blocks on a contended status mutex; on
// contention the update is silently dropped and the next callback
// invocation catches up.
func (s *status) advancePosition(frames uint64) {
	if !s.mu.TryLock() {
		return
	}
	s.positionSamples += frames
	s.mu.Unlock()
}
