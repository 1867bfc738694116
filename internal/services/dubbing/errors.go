package dubbing

import "errors"

var (
	// ErrNoSourceVideo indicates the timeline has no source video to dub
	ErrNoSourceVideo = errors.New("timeline has no source video")

	// ErrNoSpeakerSample indicates a preview was requested before the
	// speaker's voice sample was extracted
	ErrNoSpeakerSample = errors.New("speaker has no extracted voice sample; run generate first")

	// ErrNoTranslatedText indicates a segment has nothing to synthesize
	ErrNoTranslatedText = errors.New("segment has no translated text")

	// ErrSegmentDropped indicates the segment is excluded from dubbing
	ErrSegmentDropped = errors.New("segment is marked as dropped")
)
