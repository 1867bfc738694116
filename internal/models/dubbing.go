package models

import (
	"time"
)

// Default mixing volumes applied when a timeline's config is first read
const (
	DefaultBgmVolume   = 0.3
	DefaultSfxVolume   = 0.5
	DefaultVocalVolume = 1.0
)

// DubbingConfig holds the per-timeline mixing configuration. A config
// row is created lazily with defaults the first time it is read.
type DubbingConfig struct {
	ID             uint      `gorm:"primarykey" json:"-"`
	TimelineID     uint      `gorm:"uniqueIndex" json:"timeline_id"`
	TargetLanguage string    `gorm:"default:'en'" json:"target_language"`
	BgmVolume      float64   `json:"bgm_volume"`
	SfxVolume      float64   `json:"sfx_volume"`
	VocalVolume    float64   `json:"vocal_volume"`
	KeepBgm        bool      `json:"keep_bgm"`
	KeepSfx        bool      `json:"keep_sfx"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewDefaultDubbingConfig returns the default config for a timeline
func NewDefaultDubbingConfig(timelineID uint) *DubbingConfig {
	return &DubbingConfig{
		TimelineID:     timelineID,
		TargetLanguage: "en",
		BgmVolume:      DefaultBgmVolume,
		SfxVolume:      DefaultSfxVolume,
		VocalVolume:    DefaultVocalVolume,
		KeepBgm:        true,
		KeepSfx:        true,
	}
}

// TableName specifies the table name for GORM
func (DubbingConfig) TableName() string {
	return "dubbing_configs"
}

// SpeakerVoice is the registry entry for one speaker observed on a
// timeline: its display name, extracted voice sample, and whether the
// speaker participates in synthesis.
type SpeakerVoice struct {
	ID          uint      `gorm:"primarykey" json:"-"`
	TimelineID  uint      `gorm:"index:idx_speaker_voices_timeline_speaker,unique" json:"timeline_id"`
	SpeakerID   string    `gorm:"index:idx_speaker_voices_timeline_speaker,unique" json:"speaker_id"`
	DisplayName string    `json:"display_name"`
	SamplePath  string    `json:"sample_path,omitempty"`
	Enabled     bool      `gorm:"default:true" json:"enabled"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasSample returns true if a voice sample has been extracted
func (s *SpeakerVoice) HasSample() bool {
	return s.SamplePath != ""
}

// TableName specifies the table name for GORM
func (SpeakerVoice) TableName() string {
	return "speaker_voices"
}
