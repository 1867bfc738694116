package dubconfig

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

// NewService creates a new dubbing config service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// GetConfig returns the timeline's mixing config, defaults on first read
func (s *service) GetConfig(ctx context.Context, timelineID uint) (*models.DubbingConfig, error) {
	return s.repo.GetOrCreate(ctx, timelineID)
}

// UpdateConfig validates and applies a partial patch. Validation runs
// before any mutation: a single bad field rejects the whole patch.
func (s *service) UpdateConfig(ctx context.Context, timelineID uint, patch ConfigPatch) (*models.DubbingConfig, error) {
	for name, v := range map[string]*float64{
		"bgm_volume":   patch.BgmVolume,
		"sfx_volume":   patch.SfxVolume,
		"vocal_volume": patch.VocalVolume,
	} {
		if v != nil && (*v < 0 || *v > 1) {
			return nil, fmt.Errorf("%w: %s=%g", ErrVolumeOutOfRange, name, *v)
		}
	}
	if patch.TargetLanguage != nil && *patch.TargetLanguage == "" {
		return nil, ErrEmptyLanguage
	}

	config, err := s.repo.GetOrCreate(ctx, timelineID)
	if err != nil {
		return nil, err
	}

	if patch.TargetLanguage != nil {
		config.TargetLanguage = *patch.TargetLanguage
	}
	if patch.BgmVolume != nil {
		config.BgmVolume = *patch.BgmVolume
	}
	if patch.SfxVolume != nil {
		config.SfxVolume = *patch.SfxVolume
	}
	if patch.VocalVolume != nil {
		config.VocalVolume = *patch.VocalVolume
	}
	if patch.KeepBgm != nil {
		config.KeepBgm = *patch.KeepBgm
	}
	if patch.KeepSfx != nil {
		config.KeepSfx = *patch.KeepSfx
	}

	if err := s.repo.Update(ctx, config); err != nil {
		return nil, fmt.Errorf("updating dubbing config: %w", err)
	}

	log.Printf("[DEBUG] Updated dubbing config for timeline %d (lang=%s bgm=%.2f sfx=%.2f vocal=%.2f)",
		timelineID, config.TargetLanguage, config.BgmVolume, config.SfxVolume, config.VocalVolume)
	return config, nil
}
