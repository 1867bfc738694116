package timelines

import (
	"context"
	"errors"
	"fmt"

	"github.com/voxlate/dubber-api/internal/models"
	"gorm.io/gorm"
)

// repository implements Repository on top of GORM
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new timeline repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create saves a timeline with its segments
func (r *repository) Create(ctx context.Context, timeline *models.Timeline) error {
	return r.db.WithContext(ctx).Create(timeline).Error
}

// GetByID retrieves a timeline with segments in chronological order.
// Segment order follows start time, not segment id: split children keep
// their parent's position this way.
func (r *repository) GetByID(ctx context.Context, id uint) (*models.Timeline, error) {
	var timeline models.Timeline
	err := r.db.WithContext(ctx).
		Preload("Segments", func(db *gorm.DB) *gorm.DB {
			return db.Order("`start` ASC, segment_id ASC")
		}).
		First(&timeline, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimelineNotFound
		}
		return nil, fmt.Errorf("getting timeline: %w", err)
	}
	return &timeline, nil
}

// Touch bumps the timeline's updated_at
func (r *repository) Touch(ctx context.Context, timelineID uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Timeline{}).
		Where("id = ?", timelineID).
		Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTimelineNotFound
	}
	return nil
}

// UpdateOutputPaths records the mixed audio and final video artifacts
func (r *repository) UpdateOutputPaths(ctx context.Context, timelineID uint, mixedAudioPath, outputVideoPath string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Timeline{}).
		Where("id = ?", timelineID).
		Updates(map[string]interface{}{
			"mixed_audio_path":  mixedAudioPath,
			"output_video_path": outputVideoPath,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTimelineNotFound
	}
	return nil
}

// GetSegment retrieves one segment by its timeline-scoped id
func (r *repository) GetSegment(ctx context.Context, timelineID uint, segmentID int) (*models.Segment, error) {
	var segment models.Segment
	err := r.db.WithContext(ctx).
		Where("timeline_id = ? AND segment_id = ?", timelineID, segmentID).
		First(&segment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSegmentNotFound
		}
		return nil, fmt.Errorf("getting segment: %w", err)
	}
	return &segment, nil
}

// UpdateSegmentFields applies a partial update to one segment
func (r *repository) UpdateSegmentFields(ctx context.Context, timelineID uint, segmentID int, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&models.Segment{}).
		Where("timeline_id = ? AND segment_id = ?", timelineID, segmentID).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSegmentNotFound
	}
	return nil
}

// UpdateStateByIDs sets the review state on every matching segment and
// returns how many rows changed
func (r *repository) UpdateStateByIDs(ctx context.Context, timelineID uint, segmentIDs []int, state models.SegmentState) (int64, error) {
	if len(segmentIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&models.Segment{}).
		Where("timeline_id = ? AND segment_id IN ?", timelineID, segmentIDs).
		Update("state", state)
	return result.RowsAffected, result.Error
}

// UpdateStateWhereEndAtOrBefore selects segments with end <= cutoff
func (r *repository) UpdateStateWhereEndAtOrBefore(ctx context.Context, timelineID uint, cutoff float64, state models.SegmentState) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Segment{}).
		Where("timeline_id = ? AND `end` <= ?", timelineID, cutoff).
		Update("state", state)
	return result.RowsAffected, result.Error
}

// UpdateStateWhereStartAtOrAfter selects segments with start >= cutoff
func (r *repository) UpdateStateWhereStartAtOrAfter(ctx context.Context, timelineID uint, cutoff float64, state models.SegmentState) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Segment{}).
		Where("timeline_id = ? AND `start` >= ?", timelineID, cutoff).
		Update("state", state)
	return result.RowsAffected, result.Error
}

// MaxSegmentID returns the highest segment id on a timeline
func (r *repository) MaxSegmentID(ctx context.Context, timelineID uint) (int, error) {
	var maxID int
	err := r.db.WithContext(ctx).
		Model(&models.Segment{}).
		Where("timeline_id = ?", timelineID).
		Select("COALESCE(MAX(segment_id), 0)").
		Scan(&maxID).Error
	return maxID, err
}

// ReplaceSegment removes the parent segment and inserts its children in
// a single transaction so a failed split cannot lose the parent.
func (r *repository) ReplaceSegment(ctx context.Context, timelineID uint, segmentID int, children []models.Segment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.
			Where("timeline_id = ? AND segment_id = ?", timelineID, segmentID).
			Delete(&models.Segment{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrSegmentNotFound
		}
		for i := range children {
			children[i].TimelineID = timelineID
			if err := tx.Create(&children[i]).Error; err != nil {
				return fmt.Errorf("inserting split child: %w", err)
			}
		}
		return nil
	})
}

// ClearDubbedPaths drops every synthesized clip reference on a timeline
func (r *repository) ClearDubbedPaths(ctx context.Context, timelineID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Segment{}).
		Where("timeline_id = ?", timelineID).
		Update("dubbed_path", "").Error
}
