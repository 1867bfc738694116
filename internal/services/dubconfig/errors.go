package dubconfig

import "errors"

var (
	// ErrVolumeOutOfRange is returned when a track volume is outside [0, 1]
	ErrVolumeOutOfRange = errors.New("volume must be between 0 and 1")

	// ErrEmptyLanguage is returned when the target language is patched to empty
	ErrEmptyLanguage = errors.New("target language cannot be empty")
)
