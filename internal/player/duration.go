package player

import "github.com/mixcore/mixcore/internal/mediasource"

// estimateDuration derives a best-effort duration from total byte length
// and the PCM byte rate. Exact for uncompressed WAV, approximate for
// compressed codecs whose encoded size doesn't scale linearly with time;
// returns false when the source has no known length (a live progressive
// stream still downloading).
func estimateDuration(ms mediasource.MediaSource, rate, channels, bits int) (float32, bool) {
	size, known := ms.Len()
	if !known || rate <= 0 {
		return 0, false
	}
	byteRate := rate * channels * (bits / 8)
	if byteRate <= 0 {
		return 0, false
	}
	return float32(size) / float32(byteRate), true
}
