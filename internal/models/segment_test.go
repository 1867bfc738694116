package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegmentEffectiveTimes(t *testing.T) {
	tests := []struct {
		name         string
		segment      Segment
		wantStart    float64
		wantEnd      float64
		wantDuration float64
	}{
		{
			name:         "no trims",
			segment:      Segment{Start: 10, End: 14},
			wantStart:    10,
			wantEnd:      14,
			wantDuration: 4,
		},
		{
			name:         "both trims applied",
			segment:      Segment{Start: 10, End: 14, TrimStart: 0.5, TrimEnd: 1},
			wantStart:    10.5,
			wantEnd:      13,
			wantDuration: 2.5,
		},
		{
			name:         "trims crossing clamp duration to zero",
			segment:      Segment{Start: 10, End: 12, TrimStart: 1.5, TrimEnd: 1.5},
			wantStart:    11.5,
			wantEnd:      10.5,
			wantDuration: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.wantStart, tt.segment.EffectiveStart(), 1e-9)
			assert.InDelta(t, tt.wantEnd, tt.segment.EffectiveEnd(), 1e-9)
			assert.InDelta(t, tt.wantDuration, tt.segment.EffectiveDuration(), 1e-9)
		})
	}
}

func TestSegmentStateIsValid(t *testing.T) {
	assert.True(t, SegmentStateKeep.IsValid())
	assert.True(t, SegmentStateDrop.IsValid())
	assert.True(t, SegmentStateUndecided.IsValid())
	assert.False(t, SegmentState("deleted").IsValid())
	assert.False(t, SegmentState("").IsValid())
}

func TestTimelineReview(t *testing.T) {
	timeline := Timeline{Segments: []Segment{
		{SegmentID: 1, State: SegmentStateKeep},
		{SegmentID: 2, State: SegmentStateDrop},
		{SegmentID: 3, State: SegmentStateUndecided},
		{SegmentID: 4, State: SegmentStateKeep},
	}}

	summary := timeline.Review()
	assert.Equal(t, 4, summary.TotalCount)
	assert.Equal(t, 2, summary.KeepCount)
	assert.Equal(t, 1, summary.DropCount)
	assert.Equal(t, 1, summary.UndecidedCount)
	assert.InDelta(t, 75.0, summary.ReviewProgress, 1e-9)
}

func TestTimelineReviewEmpty(t *testing.T) {
	summary := (&Timeline{}).Review()
	assert.Equal(t, 0, summary.TotalCount)
	assert.Zero(t, summary.ReviewProgress)
}

func TestTimelineActiveSegments(t *testing.T) {
	timeline := Timeline{Segments: []Segment{
		{SegmentID: 1, State: SegmentStateKeep},
		{SegmentID: 2, State: SegmentStateDrop},
		{SegmentID: 3, State: SegmentStateUndecided},
	}}

	active := timeline.ActiveSegments()
	assert.Len(t, active, 2)
	assert.Equal(t, 1, active[0].SegmentID)
	assert.Equal(t, 3, active[1].SegmentID)
}

func TestTimelineSpeakers(t *testing.T) {
	timeline := Timeline{Segments: []Segment{
		{SegmentID: 1, Speaker: "spk2"},
		{SegmentID: 2, Speaker: "spk1"},
		{SegmentID: 3, Speaker: ""},
		{SegmentID: 4, Speaker: "spk2"},
	}}

	assert.Equal(t, []string{"spk2", "spk1"}, timeline.Speakers())
}

func TestDubbingStageTransitions(t *testing.T) {
	for _, stage := range []DubbingStage{DubbingSeparating, DubbingExtractingSamples, DubbingSynthesizing, DubbingMixing} {
		assert.True(t, stage.InProgress(), "%s should be in progress", stage)
		assert.False(t, stage.Terminal())
	}
	for _, stage := range []DubbingStage{DubbingPending, DubbingCompleted, DubbingFailed} {
		assert.False(t, stage.InProgress(), "%s should not be in progress", stage)
	}
	assert.True(t, DubbingCompleted.Terminal())
	assert.True(t, DubbingFailed.Terminal())
	assert.False(t, DubbingPending.Terminal())
}

func TestJobGetPayloadUint(t *testing.T) {
	job := Job{Payload: JobPayload{
		"timeline_id": float64(42),
		"negative":    float64(-1),
		"text":        "nope",
	}}

	id, ok := job.GetPayloadUint("timeline_id")
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)

	_, ok = job.GetPayloadUint("negative")
	assert.False(t, ok)

	_, ok = job.GetPayloadUint("text")
	assert.False(t, ok)

	_, ok = job.GetPayloadUint("missing")
	assert.False(t, ok)
}

func TestSpeakerVoiceHasSample(t *testing.T) {
	assert.False(t, (&SpeakerVoice{}).HasSample())
	assert.True(t, (&SpeakerVoice{SamplePath: "/samples/spk1.wav"}).HasSample())
}
