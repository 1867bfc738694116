// Package assembler builds the dubbed audio tracks: synthesized clips
// are delayed to their timeline positions and summed into a vocal
// track, tracks are gain-scaled and mixed, and the mix is remuxed into
// the source video. All ffmpeg argument construction is pure and
// separated from process execution so the arithmetic can be tested
// without ffmpeg installed.
package assembler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-audio/wav"
)

// Assembler renders track plans through ffmpeg
type Assembler struct {
	ffmpegPath string
	runner     CommandRunner
}

// New creates an Assembler. An empty ffmpegPath resolves through PATH,
// a nil runner defaults to ExecRunner.
func New(ffmpegPath string, runner CommandRunner) *Assembler {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Assembler{ffmpegPath: ffmpegPath, runner: runner}
}

// BuildVocalTrack renders the plan's clips onto a single WAV of exactly
// plan.TotalDuration seconds
func (a *Assembler) BuildVocalTrack(ctx context.Context, plan VocalTrackPlan, outPath string) error {
	if plan.TotalDuration <= 0 {
		return fmt.Errorf("vocal track duration must be positive, got %f", plan.TotalDuration)
	}
	for _, clip := range plan.Clips {
		if _, err := os.Stat(clip.Path); err != nil {
			return fmt.Errorf("clip for segment %d missing: %w", clip.SegmentID, err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := a.runner.Run(ctx, a.ffmpegPath, plan.Args(outPath)...); err != nil {
		return fmt.Errorf("building vocal track: %w", err)
	}
	return nil
}

// MixTracks sums the plan's gain-scaled tracks into a single WAV of
// exactly plan.TotalDuration seconds
func (a *Assembler) MixTracks(ctx context.Context, plan MixPlan, outPath string) error {
	if len(plan.Tracks) == 0 {
		return fmt.Errorf("mix requires at least one track")
	}
	if plan.TotalDuration <= 0 {
		return fmt.Errorf("mix duration must be positive, got %f", plan.TotalDuration)
	}
	for _, track := range plan.Tracks {
		if _, err := os.Stat(track.Path); err != nil {
			return fmt.Errorf("%s track missing: %w", track.Name, err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := a.runner.Run(ctx, a.ffmpegPath, plan.Args(outPath)...); err != nil {
		return fmt.Errorf("mixing tracks: %w", err)
	}
	return nil
}

// RemuxVideo replaces the video's audio with the mixed track. The video
// stream is copied without re-encoding.
func (a *Assembler) RemuxVideo(ctx context.Context, videoPath, audioPath, outPath string) error {
	if _, err := os.Stat(videoPath); err != nil {
		return fmt.Errorf("source video missing: %w", err)
	}
	if _, err := os.Stat(audioPath); err != nil {
		return fmt.Errorf("mixed audio missing: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := a.runner.Run(ctx, a.ffmpegPath, RemuxArgs(videoPath, audioPath, outPath)...); err != nil {
		return fmt.Errorf("remuxing video: %w", err)
	}
	return nil
}

// ClipDuration reads a WAV file's duration in seconds
func ClipDuration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening clip: %w", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return 0, fmt.Errorf("not a valid WAV file: %s", path)
	}
	duration, err := decoder.Duration()
	if err != nil {
		return 0, fmt.Errorf("reading clip duration: %w", err)
	}
	return duration.Seconds(), nil
}
