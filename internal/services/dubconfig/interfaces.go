package dubconfig

import (
	"context"

	"github.com/voxlate/dubber-api/internal/models"
)

// ConfigPatch carries the partial-update fields for a timeline's mixing
// configuration. Only non-nil fields are applied.
type ConfigPatch struct {
	TargetLanguage *string
	BgmVolume      *float64
	SfxVolume      *float64
	VocalVolume    *float64
	KeepBgm        *bool
	KeepSfx        *bool
}

// Service defines the business logic interface for dubbing configs.
// Reads have get-or-default semantics: a timeline with no stored config
// yields the defaults, never a not-found error.
type Service interface {
	GetConfig(ctx context.Context, timelineID uint) (*models.DubbingConfig, error)
	UpdateConfig(ctx context.Context, timelineID uint, patch ConfigPatch) (*models.DubbingConfig, error)
}

// Repository defines the interface for config persistence
type Repository interface {
	GetOrCreate(ctx context.Context, timelineID uint) (*models.DubbingConfig, error)
	Update(ctx context.Context, config *models.DubbingConfig) error
}
