package timelines

import (
	"context"

	"github.com/voxlate/dubber-api/internal/models"
)

// SegmentPatch carries the partial-update fields for one segment. Only
// non-nil fields are applied.
type SegmentPatch struct {
	State          *models.SegmentState
	TrimStart      *float64
	TrimEnd        *float64
	SourceText     *string
	TranslatedText *string
}

// Empty returns true when no field is set
func (p SegmentPatch) Empty() bool {
	return p.State == nil && p.TrimStart == nil && p.TrimEnd == nil &&
		p.SourceText == nil && p.TranslatedText == nil
}

// Service defines the business logic interface for timeline operations
type Service interface {
	// Timeline lifecycle
	CreateTimeline(ctx context.Context, timeline *models.Timeline) error
	GetTimeline(ctx context.Context, id uint) (*models.Timeline, error)

	// Segment review operations
	UpdateSegment(ctx context.Context, timelineID uint, segmentID int, patch SegmentPatch) (*models.Segment, error)
	BatchUpdateSegments(ctx context.Context, timelineID uint, segmentIDs []int, state models.SegmentState) (int64, error)
	DropSegmentsBefore(ctx context.Context, timelineID uint, cutoff float64) (int64, error)
	DropSegmentsAfter(ctx context.Context, timelineID uint, cutoff float64) (int64, error)
	SplitSegment(ctx context.Context, timelineID uint, segmentID, sourceSplitIndex, translatedSplitIndex int) ([]models.Segment, error)

	// Pipeline bookkeeping
	SetSegmentDubbedPath(ctx context.Context, timelineID uint, segmentID int, dubbedPath string) error
	ClearDubbedPaths(ctx context.Context, timelineID uint) error
	SetOutputPaths(ctx context.Context, timelineID uint, mixedAudioPath, outputVideoPath string) error
}

// Repository defines the interface for timeline persistence
type Repository interface {
	Create(ctx context.Context, timeline *models.Timeline) error
	GetByID(ctx context.Context, id uint) (*models.Timeline, error)
	Touch(ctx context.Context, timelineID uint) error
	UpdateOutputPaths(ctx context.Context, timelineID uint, mixedAudioPath, outputVideoPath string) error

	GetSegment(ctx context.Context, timelineID uint, segmentID int) (*models.Segment, error)
	UpdateSegmentFields(ctx context.Context, timelineID uint, segmentID int, fields map[string]interface{}) error
	UpdateStateByIDs(ctx context.Context, timelineID uint, segmentIDs []int, state models.SegmentState) (int64, error)
	UpdateStateWhereEndAtOrBefore(ctx context.Context, timelineID uint, cutoff float64, state models.SegmentState) (int64, error)
	UpdateStateWhereStartAtOrAfter(ctx context.Context, timelineID uint, cutoff float64, state models.SegmentState) (int64, error)
	MaxSegmentID(ctx context.Context, timelineID uint) (int, error)
	ReplaceSegment(ctx context.Context, timelineID uint, segmentID int, children []models.Segment) error
	ClearDubbedPaths(ctx context.Context, timelineID uint) error
}
