package dubconfig

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

// NewRepository creates a new config repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// GetOrCreate returns the stored config for a timeline, creating the
// default row on first read
func (r *repository) GetOrCreate(ctx context.Context, timelineID uint) (*models.DubbingConfig, error) {
	var config models.DubbingConfig
	err := r.db.WithContext(ctx).
		Where(models.DubbingConfig{TimelineID: timelineID}).
		Attrs(*models.NewDefaultDubbingConfig(timelineID)).
		FirstOrCreate(&config).Error
	if err != nil {
		return nil, fmt.Errorf("getting dubbing config: %w", err)
	}
	return &config, nil
}

// Update persists a modified config
func (r *repository) Update(ctx context.Context, config *models.DubbingConfig) error {
	return r.db.WithContext(ctx).Save(config).Error
}
