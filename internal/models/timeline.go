package models

import (
	"time"

	"gorm.io/gorm"
)

// Timeline owns the ordered segments of one source video plus its
// review and output state. Segments are mutated exclusively through
// the timelines service.
type Timeline struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	Title           string         `json:"title"`
	SourceVideoPath string         `json:"source_video_path"`
	SourceLanguage  string         `json:"source_language"`
	SourceDuration  float64        `json:"source_duration"`
	ReviewDone      bool           `json:"review_done"`
	MixedAudioPath  string         `json:"mixed_audio_path,omitempty"`
	OutputVideoPath string         `json:"output_video_path,omitempty"`
	Segments        []Segment      `gorm:"foreignKey:TimelineID" json:"segments,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// ReviewSummary holds the derived review counters for a timeline.
// Always computed from the segments, never stored.
type ReviewSummary struct {
	TotalCount     int     `json:"total_count"`
	KeepCount      int     `json:"keep_count"`
	DropCount      int     `json:"drop_count"`
	UndecidedCount int     `json:"undecided_count"`
	ReviewProgress float64 `json:"review_progress"`
}

// Review computes the review counters from the loaded segments
func (t *Timeline) Review() ReviewSummary {
	summary := ReviewSummary{TotalCount: len(t.Segments)}
	for i := range t.Segments {
		switch t.Segments[i].State {
		case SegmentStateKeep:
			summary.KeepCount++
		case SegmentStateDrop:
			summary.DropCount++
		default:
			summary.UndecidedCount++
		}
	}
	if summary.TotalCount > 0 {
		decided := summary.KeepCount + summary.DropCount
		summary.ReviewProgress = float64(decided) / float64(summary.TotalCount) * 100
	}
	return summary
}

// ActiveSegments returns the segments that participate in dubbing
// (everything not marked drop), in timeline order.
func (t *Timeline) ActiveSegments() []Segment {
	active := make([]Segment, 0, len(t.Segments))
	for i := range t.Segments {
		if !t.Segments[i].IsDropped() {
			active = append(active, t.Segments[i])
		}
	}
	return active
}

// Speakers returns the distinct non-empty speaker ids in timeline order
// of first appearance.
func (t *Timeline) Speakers() []string {
	seen := make(map[string]bool)
	var speakers []string
	for i := range t.Segments {
		sp := t.Segments[i].Speaker
		if sp == "" || seen[sp] {
			continue
		}
		seen[sp] = true
		speakers = append(speakers, sp)
	}
	return speakers
}

// TableName specifies the table name for GORM
func (Timeline) TableName() string {
	return "timelines"
}
