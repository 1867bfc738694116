package speakers

import "errors"

var (
	// ErrSpeakerNotFound is returned when a speaker id is not on the timeline
	ErrSpeakerNotFound = errors.New("speaker not found")

	// ErrEmptyDisplayName is returned when a display name is patched to empty
	ErrEmptyDisplayName = errors.New("display name cannot be empty")
)
