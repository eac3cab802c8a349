// Package frame defines the unit of decoded PCM passed from the preload
// slot into a fresh decode session.
package frame

// Format describes the PCM layout carried by a Frame.
type Format struct {
	SampleRate    uint32 // Hz, max 384,000
	Channels      uint8  // max 10
	BitsPerSample uint8  // max 64
}

// Frame is one decoded chunk of interleaved PCM plus the format it was
// decoded at. Only the preload path builds one, for its priming chunk;
// the player expands that chunk to stereo and writes it to the new
// session's ring buffer, which otherwise carries raw PCM bytes.
type Frame struct {
	Format       Format
	SamplesCount uint16 // max 65,535
	Audio        []byte
}
