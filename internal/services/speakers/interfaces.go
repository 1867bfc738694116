package speakers

import (
	"context"

	"github.com/voxlate/dubber-api/internal/models"
)

// SpeakerPatch carries the partial-update fields for one registry
// entry. Only non-nil fields are applied.
type SpeakerPatch struct {
	DisplayName *string
	Enabled     *bool
}

// Service defines the business logic interface for the voice registry.
// Speakers are discovered from a timeline's segments; an unseen speaker
// is synthesized with a default display name before being returned, and
// discovery is idempotent across calls.
type Service interface {
	ListSpeakers(ctx context.Context, timeline *models.Timeline) ([]models.SpeakerVoice, error)
	GetSpeaker(ctx context.Context, timeline *models.Timeline, speakerID string) (*models.SpeakerVoice, error)
	UpdateSpeaker(ctx context.Context, timeline *models.Timeline, speakerID string, patch SpeakerPatch) (*models.SpeakerVoice, error)
	SetSamplePath(ctx context.Context, timelineID uint, speakerID, samplePath string) error
}

// Repository defines the interface for registry persistence
type Repository interface {
	GetOrCreate(ctx context.Context, timelineID uint, speakerID, displayName string) (*models.SpeakerVoice, error)
	Update(ctx context.Context, voice *models.SpeakerVoice) error
	SetSamplePath(ctx context.Context, timelineID uint, speakerID, samplePath string) error
}
