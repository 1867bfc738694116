package timelines

import (
	"context"
	"fmt"
	"log"

	"github.com/voxlate/dubber-api/internal/models"
)

// service implements Service
type service struct {
	repo Repository
}

// NewService creates a new timeline service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// CreateTimeline validates and persists a new timeline with its segments.
// Segment ids are assigned sequentially when the caller left them zero.
func (s *service) CreateTimeline(ctx context.Context, timeline *models.Timeline) error {
	if len(timeline.Segments) == 0 {
		return ErrNoSegments
	}

	seen := make(map[int]bool, len(timeline.Segments))
	maxEnd := 0.0
	for i := range timeline.Segments {
		seg := &timeline.Segments[i]
		if seg.SegmentID == 0 {
			seg.SegmentID = i + 1
		}
		if seg.Start >= seg.End {
			return fmt.Errorf("%w: segment %d has [%f, %f]", ErrInvalidTimeRange, seg.SegmentID, seg.Start, seg.End)
		}
		if seen[seg.SegmentID] {
			return fmt.Errorf("%w: %d", ErrDuplicateSegmentID, seg.SegmentID)
		}
		seen[seg.SegmentID] = true
		if seg.State == "" {
			seg.State = models.SegmentStateUndecided
		}
		if seg.End > maxEnd {
			maxEnd = seg.End
		}
	}
	if timeline.SourceDuration == 0 {
		timeline.SourceDuration = maxEnd
	}

	if err := s.repo.Create(ctx, timeline); err != nil {
		return fmt.Errorf("creating timeline: %w", err)
	}

	log.Printf("[DEBUG] Created timeline %d with %d segments", timeline.ID, len(timeline.Segments))
	return nil
}

// GetTimeline retrieves a timeline with its segments in chronological order
func (s *service) GetTimeline(ctx context.Context, id uint) (*models.Timeline, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateSegment applies only the fields set in the patch. A missing
// segment is a not-found error, never a silent no-op.
func (s *service) UpdateSegment(ctx context.Context, timelineID uint, segmentID int, patch SegmentPatch) (*models.Segment, error) {
	if patch.State != nil && !patch.State.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSegmentState, *patch.State)
	}
	if (patch.TrimStart != nil && *patch.TrimStart < 0) || (patch.TrimEnd != nil && *patch.TrimEnd < 0) {
		return nil, ErrInvalidTrim
	}

	// Existence check up front so an empty patch still reports not-found
	if _, err := s.repo.GetSegment(ctx, timelineID, segmentID); err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if patch.State != nil {
		fields["state"] = *patch.State
	}
	if patch.TrimStart != nil {
		fields["trim_start"] = *patch.TrimStart
	}
	if patch.TrimEnd != nil {
		fields["trim_end"] = *patch.TrimEnd
	}
	if patch.SourceText != nil {
		fields["source_text"] = *patch.SourceText
	}
	if patch.TranslatedText != nil {
		fields["translated_text"] = *patch.TranslatedText
	}

	if len(fields) > 0 {
		if err := s.repo.UpdateSegmentFields(ctx, timelineID, segmentID, fields); err != nil {
			return nil, err
		}
		if err := s.repo.Touch(ctx, timelineID); err != nil {
			return nil, err
		}
	}

	return s.repo.GetSegment(ctx, timelineID, segmentID)
}

// BatchUpdateSegments sets state on every segment whose id is in the
// set and returns the count updated. Zero matches is reported as a zero
// count, not an error; the caller decides how to surface it.
func (s *service) BatchUpdateSegments(ctx context.Context, timelineID uint, segmentIDs []int, state models.SegmentState) (int64, error) {
	if !state.IsValid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSegmentState, state)
	}
	updated, err := s.repo.UpdateStateByIDs(ctx, timelineID, segmentIDs, state)
	if err != nil {
		return 0, fmt.Errorf("batch updating segments: %w", err)
	}
	if updated > 0 {
		if err := s.repo.Touch(ctx, timelineID); err != nil {
			return updated, err
		}
	}
	log.Printf("[DEBUG] Timeline %d: batch set %d segment(s) to %s", timelineID, updated, state)
	return updated, nil
}

// DropSegmentsBefore marks every segment ending at or before the cutoff
// as dropped. Selection only; the timeline is never truncated.
func (s *service) DropSegmentsBefore(ctx context.Context, timelineID uint, cutoff float64) (int64, error) {
	updated, err := s.repo.UpdateStateWhereEndAtOrBefore(ctx, timelineID, cutoff, models.SegmentStateDrop)
	if err != nil {
		return 0, fmt.Errorf("dropping segments before %f: %w", cutoff, err)
	}
	if updated > 0 {
		if err := s.repo.Touch(ctx, timelineID); err != nil {
			return updated, err
		}
	}
	return updated, nil
}

// DropSegmentsAfter marks every segment starting at or after the cutoff
// as dropped
func (s *service) DropSegmentsAfter(ctx context.Context, timelineID uint, cutoff float64) (int64, error) {
	updated, err := s.repo.UpdateStateWhereStartAtOrAfter(ctx, timelineID, cutoff, models.SegmentStateDrop)
	if err != nil {
		return 0, fmt.Errorf("dropping segments after %f: %w", cutoff, err)
	}
	if updated > 0 {
		if err := s.repo.Touch(ctx, timelineID); err != nil {
			return updated, err
		}
	}
	return updated, nil
}

// SplitSegment splits one segment in two at a character position of the
// source text. The time boundary follows the source-text proportion;
// the translated text is sliced at its own index, which is deliberately
// independent of the timing ratio. Children take fresh ids above the
// timeline's current maximum and inherit the parent's speaker and
// review state.
func (s *service) SplitSegment(ctx context.Context, timelineID uint, segmentID, sourceSplitIndex, translatedSplitIndex int) ([]models.Segment, error) {
	parent, err := s.repo.GetSegment(ctx, timelineID, segmentID)
	if err != nil {
		return nil, err
	}

	sourceRunes := []rune(parent.SourceText)
	translatedRunes := []rune(parent.TranslatedText)
	if sourceSplitIndex <= 0 || sourceSplitIndex >= len(sourceRunes) {
		return nil, fmt.Errorf("%w: source index %d of %d", ErrInvalidSplitIndex, sourceSplitIndex, len(sourceRunes))
	}
	if translatedSplitIndex <= 0 || translatedSplitIndex >= len(translatedRunes) {
		return nil, fmt.Errorf("%w: translated index %d of %d", ErrInvalidSplitIndex, translatedSplitIndex, len(translatedRunes))
	}

	ratio := float64(sourceSplitIndex) / float64(len(sourceRunes))
	splitTime := parent.Start + ratio*(parent.End-parent.Start)

	maxID, err := s.repo.MaxSegmentID(ctx, timelineID)
	if err != nil {
		return nil, fmt.Errorf("finding max segment id: %w", err)
	}

	children := []models.Segment{
		{
			SegmentID:      maxID + 1,
			Start:          parent.Start,
			End:            splitTime,
			SourceText:     string(sourceRunes[:sourceSplitIndex]),
			TranslatedText: string(translatedRunes[:translatedSplitIndex]),
			Speaker:        parent.Speaker,
			State:          parent.State,
		},
		{
			SegmentID:      maxID + 2,
			Start:          splitTime,
			End:            parent.End,
			SourceText:     string(sourceRunes[sourceSplitIndex:]),
			TranslatedText: string(translatedRunes[translatedSplitIndex:]),
			Speaker:        parent.Speaker,
			State:          parent.State,
		},
	}

	if err := s.repo.ReplaceSegment(ctx, timelineID, segmentID, children); err != nil {
		return nil, err
	}
	if err := s.repo.Touch(ctx, timelineID); err != nil {
		return nil, err
	}

	log.Printf("[DEBUG] Timeline %d: split segment %d at %.3fs into %d and %d",
		timelineID, segmentID, splitTime, children[0].SegmentID, children[1].SegmentID)
	return children, nil
}

// SetSegmentDubbedPath records the synthesized clip for one segment
func (s *service) SetSegmentDubbedPath(ctx context.Context, timelineID uint, segmentID int, dubbedPath string) error {
	return s.repo.UpdateSegmentFields(ctx, timelineID, segmentID, map[string]interface{}{
		"dubbed_path": dubbedPath,
	})
}

// ClearDubbedPaths resets every synthesized clip reference before a
// fresh pipeline run
func (s *service) ClearDubbedPaths(ctx context.Context, timelineID uint) error {
	return s.repo.ClearDubbedPaths(ctx, timelineID)
}

// SetOutputPaths records the timeline's mixed audio and final video
func (s *service) SetOutputPaths(ctx context.Context, timelineID uint, mixedAudioPath, outputVideoPath string) error {
	return s.repo.UpdateOutputPaths(ctx, timelineID, mixedAudioPath, outputVideoPath)
}
