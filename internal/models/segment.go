package models

import (
	"time"

	"gorm.io/gorm"
)

// SegmentState represents the review decision for a segment
type SegmentState string

const (
	SegmentStateKeep      SegmentState = "keep"
	SegmentStateDrop      SegmentState = "drop"
	SegmentStateUndecided SegmentState = "undecided"
)

// IsValid returns true if the state is one of the known review states
func (s SegmentState) IsValid() bool {
	switch s {
	case SegmentStateKeep, SegmentStateDrop, SegmentStateUndecided:
		return true
	}
	return false
}

// Segment represents one transcript utterance on a timeline.
// SegmentID is unique within a timeline but not required to be
// contiguous after a split. Chronological order follows Start, not
// SegmentID.
type Segment struct {
	ID             uint         `gorm:"primarykey" json:"-"`
	TimelineID     uint         `gorm:"index:idx_segments_timeline_segment,unique" json:"-"`
	SegmentID      int          `gorm:"index:idx_segments_timeline_segment,unique" json:"id"`
	Start          float64      `json:"start"`
	End            float64      `json:"end"`
	SourceText     string       `gorm:"type:text" json:"source_text"`
	TranslatedText string       `gorm:"type:text" json:"translated_text"`
	Speaker        string       `json:"speaker,omitempty"`
	State          SegmentState `gorm:"default:'undecided'" json:"state"`
	TrimStart      float64      `json:"trim_start"`
	TrimEnd        float64      `json:"trim_end"`
	DubbedPath     string       `json:"dubbed_path,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// EffectiveStart returns the segment start with the leading trim applied
func (s *Segment) EffectiveStart() float64 {
	return s.Start + s.TrimStart
}

// EffectiveEnd returns the segment end with the trailing trim applied
func (s *Segment) EffectiveEnd() float64 {
	return s.End - s.TrimEnd
}

// EffectiveDuration returns the trimmed duration, clamped at zero
func (s *Segment) EffectiveDuration() float64 {
	d := s.EffectiveEnd() - s.EffectiveStart()
	if d < 0 {
		return 0
	}
	return d
}

// IsDropped returns true if the segment is excluded from dubbing
func (s *Segment) IsDropped() bool {
	return s.State == SegmentStateDrop
}

// BeforeSave keeps undecided as the fallback state for segments created
// without an explicit review decision.
func (s *Segment) BeforeSave(tx *gorm.DB) error {
	if s.State == "" {
		s.State = SegmentStateUndecided
	}
	return nil
}

// TableName specifies the table name for GORM
func (Segment) TableName() string {
	return "segments"
}
