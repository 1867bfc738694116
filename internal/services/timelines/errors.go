package timelines

import "errors"

var (
	// ErrTimelineNotFound is returned when a timeline is not found
	ErrTimelineNotFound = errors.New("timeline not found")

	// ErrSegmentNotFound is returned when a segment is not found on a timeline
	ErrSegmentNotFound = errors.New("segment not found")

	// ErrInvalidSegmentState is returned for an unknown review state
	ErrInvalidSegmentState = errors.New("invalid segment state")

	// ErrInvalidTrim is returned for negative trim values
	ErrInvalidTrim = errors.New("trim values must be non-negative")

	// ErrInvalidSplitIndex is returned when a split index is not strictly
	// interior to its text
	ErrInvalidSplitIndex = errors.New("split index must be strictly inside the text")

	// ErrInvalidTimeRange is returned when a segment would end before it starts
	ErrInvalidTimeRange = errors.New("segment start must be before its end")

	// ErrDuplicateSegmentID is returned when segment ids collide within a timeline
	ErrDuplicateSegmentID = errors.New("duplicate segment id")

	// ErrNoSegments is returned when a timeline is created without segments
	ErrNoSegments = errors.New("timeline must have at least one segment")
)
