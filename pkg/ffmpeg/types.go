package ffmpeg

// Fixed output format for every intermediate and final audio artifact:
// 16-bit PCM WAV, 44.1 kHz, stereo.
const (
	SampleRate = 44100
	Channels   = 2
	AudioCodec = "pcm_s16le"
)

// MediaMetadata represents metadata extracted from a media file
type MediaMetadata struct {
	Duration   float64 `json:"duration"`    // Duration in seconds
	SampleRate int     `json:"sample_rate"` // Audio sample rate in Hz
	Channels   int     `json:"channels"`    // Number of audio channels
	Format     string  `json:"format"`      // Container format
	AudioCodec string  `json:"audio_codec"` // Audio codec
	VideoCodec string  `json:"video_codec"` // Video codec, empty for audio-only files
	Size       int64   `json:"size"`        // File size in bytes
}

// HasVideo returns true if the file carries a video stream
func (m *MediaMetadata) HasVideo() bool {
	return m.VideoCodec != ""
}
