// Package player implements the playback supervisor: a command-driven
// session manager that owns the hardware audio stream, the decode thread,
// and the realtime callback feeding it, generalizing the teacher's
// internal/fileplayer single-file player into a queue-driven session that
// supports preload, pause/resume, seek and volume.
package player

import "time"

// CommandType enumerates the operations accepted by the Supervisor's
// command queue. Commands are processed strictly in order by the
// supervisor goroutine.
type CommandType int

const (
	CmdPlay CommandType = iota
	CmdPreload
	CmdPause
	CmdResume
	CmdStop
	CmdSetVolume
	CmdSeek
)

// Command is the single serialized message type accepted by the
// Supervisor's queue. Only the fields relevant to Type are populated.
type Command struct {
	Type   CommandType
	URL    string
	Volume float32
	SeekTo float32
}

// TrackMetadata holds the tags a decoder/container exposes, when available.
type TrackMetadata struct {
	Title    string
	Artist   string
	Album    string
	Duration float32
}

// PlaybackStatus is a point-in-time snapshot of the player's shared status,
// safe to copy and hand to callers.
type PlaybackStatus struct {
	IsPlaying       bool
	IsTransitioning bool
	DurationSecs    float32
	SampleRate      uint32
	PositionSamples uint64
	Metadata        *TrackMetadata
}

// PositionSeconds derives the current playback position from
// PositionSamples and SampleRate, returning 0 if the rate is unknown.
func (s PlaybackStatus) PositionSeconds() float32 {
	if s.SampleRate == 0 {
		return 0
	}
	return float32(s.PositionSamples) / float32(s.SampleRate)
}

// Event is published on the event bus. Topic "audioplayer://ended" carries
// no payload.
type Event struct {
	Topic string
	At    time.Time
}
