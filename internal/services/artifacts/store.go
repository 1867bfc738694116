// Package artifacts manages the on-disk working area of a timeline:
// the source video, extracted audio, separated stems, speaker samples,
// synthesized clips and the final outputs. Paths are deterministic per
// timeline so a re-triggered pipeline run overwrites its own files.
package artifacts

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store resolves and manages artifact paths for timelines
type Store interface {
	EnsureTimelineDirs(timelineID uint) error
	SourceVideoPath(timelineID uint, ext string) string
	SourceAudioPath(timelineID uint) string
	SeparationDir(timelineID uint) string
	SamplesDir(timelineID uint) string
	ClipsDir(timelineID uint) string
	ClipPath(timelineID uint, segmentID int) string
	PreviewClipPath(timelineID uint) string
	VocalTrackPath(timelineID uint) string
	MixedTrackPath(timelineID uint) string
	DubbedVideoPath(timelineID uint, ext string) string
	SaveUpload(ctx context.Context, timelineID uint, filename string, data io.Reader) (string, error)
	RemoveTimeline(timelineID uint) error
}

type filesystemStore struct {
	basePath string
}

// NewFilesystemStore creates an artifact store rooted at basePath
func NewFilesystemStore(basePath string) (Store, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &filesystemStore{basePath: basePath}, nil
}

func (s *filesystemStore) timelineDir(timelineID uint) string {
	return filepath.Join(s.basePath, fmt.Sprintf("timeline-%d", timelineID))
}

// EnsureTimelineDirs creates the working-area layout for a timeline
func (s *filesystemStore) EnsureTimelineDirs(timelineID uint) error {
	subdirs := []string{"source", "separation", "samples", "clips", "output"}
	for _, subdir := range subdirs {
		path := filepath.Join(s.timelineDir(timelineID), subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("failed to create subdirectory %s: %w", subdir, err)
		}
	}
	return nil
}

func (s *filesystemStore) SourceVideoPath(timelineID uint, ext string) string {
	if ext == "" {
		ext = ".mp4"
	}
	return filepath.Join(s.timelineDir(timelineID), "source", "video"+ext)
}

func (s *filesystemStore) SourceAudioPath(timelineID uint) string {
	return filepath.Join(s.timelineDir(timelineID), "source", "audio.wav")
}

func (s *filesystemStore) SeparationDir(timelineID uint) string {
	return filepath.Join(s.timelineDir(timelineID), "separation")
}

func (s *filesystemStore) SamplesDir(timelineID uint) string {
	return filepath.Join(s.timelineDir(timelineID), "samples")
}

func (s *filesystemStore) ClipsDir(timelineID uint) string {
	return filepath.Join(s.timelineDir(timelineID), "clips")
}

func (s *filesystemStore) ClipPath(timelineID uint, segmentID int) string {
	return filepath.Join(s.ClipsDir(timelineID), fmt.Sprintf("segment-%d.wav", segmentID))
}

// PreviewClipPath returns a fresh path on every call so concurrent
// previews never clobber each other
func (s *filesystemStore) PreviewClipPath(timelineID uint) string {
	return filepath.Join(s.ClipsDir(timelineID), fmt.Sprintf("preview-%s.wav", uuid.NewString()))
}

func (s *filesystemStore) VocalTrackPath(timelineID uint) string {
	return filepath.Join(s.timelineDir(timelineID), "output", "vocals-dubbed.wav")
}

func (s *filesystemStore) MixedTrackPath(timelineID uint) string {
	return filepath.Join(s.timelineDir(timelineID), "output", "mixed.wav")
}

func (s *filesystemStore) DubbedVideoPath(timelineID uint, ext string) string {
	if ext == "" {
		ext = ".mp4"
	}
	return filepath.Join(s.timelineDir(timelineID), "output", "dubbed"+ext)
}

// SaveUpload stores an uploaded source file in the timeline's source dir
func (s *filesystemStore) SaveUpload(ctx context.Context, timelineID uint, filename string, data io.Reader) (string, error) {
	if err := s.EnsureTimelineDirs(timelineID); err != nil {
		return "", err
	}

	ext := filepath.Ext(filename)
	fullPath := s.SourceVideoPath(timelineID, ext)

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, data); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return fullPath, nil
}

// RemoveTimeline deletes a timeline's entire working area
func (s *filesystemStore) RemoveTimeline(timelineID uint) error {
	if err := os.RemoveAll(s.timelineDir(timelineID)); err != nil {
		return fmt.Errorf("failed to remove timeline artifacts: %w", err)
	}
	return nil
}
