package dubbing

import (
	"context"

	"github.com/voxlate/dubber-api/internal/assembler"
	"github.com/voxlate/dubber-api/internal/models"
)

// AudioExtractor is the subprocess surface the pipeline needs from the
// ffmpeg wrapper
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, videoPath, outPath string) error
	MediaDuration(ctx context.Context, filePath string) (float64, error)
}

// TrackBuilder renders the assembler's plans. Satisfied by
// assembler.Assembler; narrowed here so the orchestrator can be tested
// without spawning processes.
type TrackBuilder interface {
	BuildVocalTrack(ctx context.Context, plan assembler.VocalTrackPlan, outPath string) error
	MixTracks(ctx context.Context, plan assembler.MixPlan, outPath string) error
	RemuxVideo(ctx context.Context, videoPath, audioPath, outPath string) error
}

// PreviewResult is the outcome of a single-segment audition
type PreviewResult struct {
	SegmentID int     `json:"segment_id"`
	ClipPath  string  `json:"clip_path"`
	Duration  float64 `json:"duration"`
}

// Orchestrator sequences the dubbing pipeline for one timeline at a
// time: separation, sample extraction, synthesis, assembly, remux.
type Orchestrator interface {
	// TryBegin claims a fresh pipeline run. Returns the current status
	// and false when a run is already in flight; the caller responds
	// "already in progress" instead of enqueueing work.
	TryBegin(ctx context.Context, timelineID uint) (models.DubbingStatus, bool, error)

	// Run executes the full pipeline. The run must have been claimed
	// with TryBegin first.
	Run(ctx context.Context, timelineID uint) error

	// TryBeginSeparation claims a standalone separation run
	TryBeginSeparation(ctx context.Context, timelineID uint) (bool, error)

	// RunSeparation executes separation only
	RunSeparation(ctx context.Context, timelineID uint) error

	// PreviewSegment synthesizes one clip for auditioning. The
	// segment's speaker must already have an extracted sample.
	PreviewSegment(ctx context.Context, timelineID uint, segmentID int, textOverride string) (*PreviewResult, error)
}
