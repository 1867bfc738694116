package speakers

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

// NewService creates a new speaker registry service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// ListSpeakers scans the timeline's segments for distinct speakers and
// returns their registry entries in order of first appearance, creating
// missing entries with a "Speaker {id}" display name. Repeated calls
// return the same entries.
func (s *service) ListSpeakers(ctx context.Context, timeline *models.Timeline) ([]models.SpeakerVoice, error) {
	ids := timeline.Speakers()
	voices := make([]models.SpeakerVoice, 0, len(ids))
	for _, id := range ids {
		voice, err := s.repo.GetOrCreate(ctx, timeline.ID, id, defaultDisplayName(id))
		if err != nil {
			return nil, err
		}
		voices = append(voices, *voice)
	}
	return voices, nil
}

// GetSpeaker returns the registry entry for one speaker. Ids that never
// appear on the timeline are a not-found error.
func (s *service) GetSpeaker(ctx context.Context, timeline *models.Timeline, speakerID string) (*models.SpeakerVoice, error) {
	if !speakerOnTimeline(timeline, speakerID) {
		return nil, fmt.Errorf("%w: %q", ErrSpeakerNotFound, speakerID)
	}
	return s.repo.GetOrCreate(ctx, timeline.ID, speakerID, defaultDisplayName(speakerID))
}

// UpdateSpeaker applies only the fields set in the patch
func (s *service) UpdateSpeaker(ctx context.Context, timeline *models.Timeline, speakerID string, patch SpeakerPatch) (*models.SpeakerVoice, error) {
	if patch.DisplayName != nil && *patch.DisplayName == "" {
		return nil, ErrEmptyDisplayName
	}

	voice, err := s.GetSpeaker(ctx, timeline, speakerID)
	if err != nil {
		return nil, err
	}

	if patch.DisplayName != nil {
		voice.DisplayName = *patch.DisplayName
	}
	if patch.Enabled != nil {
		voice.Enabled = *patch.Enabled
	}

	if err := s.repo.Update(ctx, voice); err != nil {
		return nil, fmt.Errorf("updating speaker: %w", err)
	}

	log.Printf("[DEBUG] Updated speaker %q on timeline %d (enabled=%t)", speakerID, timeline.ID, voice.Enabled)
	return voice, nil
}

// SetSamplePath records an extracted voice sample for a speaker
func (s *service) SetSamplePath(ctx context.Context, timelineID uint, speakerID, samplePath string) error {
	return s.repo.SetSamplePath(ctx, timelineID, speakerID, samplePath)
}

func defaultDisplayName(speakerID string) string {
	return fmt.Sprintf("Speaker %s", speakerID)
}

func speakerOnTimeline(timeline *models.Timeline, speakerID string) bool {
	for _, id := range timeline.Speakers() {
		if id == speakerID {
			return true
		}
	}
	return false
}
