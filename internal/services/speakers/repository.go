package speakers

import (
	"context"
	"fmt"

	"github.com/voxlate/dubber-api/internal/models"
	"gorm.io/gorm"
)

// repository implements Repository
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new speaker registry repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// GetOrCreate returns the registry entry for a speaker, creating it
// with the given display name on first access
func (r *repository) GetOrCreate(ctx context.Context, timelineID uint, speakerID, displayName string) (*models.SpeakerVoice, error) {
	var voice models.SpeakerVoice
	err := r.db.WithContext(ctx).
		Where(models.SpeakerVoice{TimelineID: timelineID, SpeakerID: speakerID}).
		Attrs(models.SpeakerVoice{DisplayName: displayName, Enabled: true}).
		FirstOrCreate(&voice).Error
	if err != nil {
		return nil, fmt.Errorf("getting speaker voice: %w", err)
	}
	return &voice, nil
}

// Update persists a modified registry entry
func (r *repository) Update(ctx context.Context, voice *models.SpeakerVoice) error {
	return r.db.WithContext(ctx).Save(voice).Error
}

// SetSamplePath records an extracted voice sample for a speaker
func (r *repository) SetSamplePath(ctx context.Context, timelineID uint, speakerID, samplePath string) error {
	result := r.db.WithContext(ctx).
		Model(&models.SpeakerVoice{}).
		Where("timeline_id = ? AND speaker_id = ?", timelineID, speakerID).
		Update("sample_path", samplePath)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSpeakerNotFound
	}
	return nil
}
