package dubbing

import (
	"context"
	"fmt"

	"github.com/voxlate/dubber-api/internal/assembler"
	"github.com/voxlate/dubber-api/internal/models"
	"github.com/voxlate/dubber-api/internal/services/timelines"
)

// PreviewSegment synthesizes a single clip for auditioning. Unlike a
// full run it never extracts samples itself: the speaker's sample must
// already exist from a previous generate.
func (o *orchestrator) PreviewSegment(ctx context.Context, timelineID uint, segmentID int, textOverride string) (*PreviewResult, error) {
	timeline, err := o.deps.Timelines.GetTimeline(ctx, timelineID)
	if err != nil {
		return nil, err
	}

	var segment *models.Segment
	for i := range timeline.Segments {
		if timeline.Segments[i].SegmentID == segmentID {
			segment = &timeline.Segments[i]
			break
		}
	}
	if segment == nil {
		return nil, timelines.ErrSegmentNotFound
	}
	if segment.IsDropped() {
		return nil, ErrSegmentDropped
	}

	text := textOverride
	if text == "" {
		text = segment.TranslatedText
	}
	if text == "" {
		return nil, ErrNoTranslatedText
	}

	if segment.Speaker == "" {
		return nil, ErrNoSpeakerSample
	}
	voice, err := o.deps.Speakers.GetSpeaker(ctx, timeline, segment.Speaker)
	if err != nil {
		return nil, err
	}
	if !voice.HasSample() {
		return nil, ErrNoSpeakerSample
	}

	config, err := o.deps.Configs.GetConfig(ctx, timelineID)
	if err != nil {
		return nil, err
	}

	if err := o.deps.Artifacts.EnsureTimelineDirs(timelineID); err != nil {
		return nil, err
	}
	outPath := o.deps.Artifacts.PreviewClipPath(timelineID)

	result, err := o.deps.Cloner.SynthesizeSegment(ctx, text, voice.SamplePath, segment.EffectiveDuration(), outPath, config.TargetLanguage)
	if err != nil {
		return nil, fmt.Errorf("preview synthesis: %w", err)
	}

	duration := result.Duration
	if duration == 0 {
		// Engines that stream to disk may omit the duration; probe the
		// clip instead
		if probed, err := assembler.ClipDuration(result.Path); err == nil {
			duration = probed
		}
	}

	return &PreviewResult{
		SegmentID: segmentID,
		ClipPath:  result.Path,
		Duration:  duration,
	}, nil
}
