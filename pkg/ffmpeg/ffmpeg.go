package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// FFmpeg wraps ffmpeg and ffprobe functionality
type FFmpeg struct {
	ffmpegPath  string
	ffprobePath string
	timeout     time.Duration
}

// New creates a new FFmpeg instance
func New(ffmpegPath, ffprobePath string, timeout time.Duration) *FFmpeg {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &FFmpeg{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		timeout:     timeout,
	}
}

// ValidateBinaries checks if ffmpeg and ffprobe are available
func (f *FFmpeg) ValidateBinaries() error {
	if _, err := exec.LookPath(f.ffmpegPath); err != nil {
		return fmt.Errorf("%w: %s", ErrFFmpegNotFound, f.ffmpegPath)
	}
	if _, err := exec.LookPath(f.ffprobePath); err != nil {
		return fmt.Errorf("%w: %s", ErrFFprobeNotFound, f.ffprobePath)
	}
	return nil
}

// ExtractAudioArgs builds the argument list for extracting a video's
// audio track into the fixed WAV format. Exposed so the arithmetic is
// testable without running ffmpeg.
func ExtractAudioArgs(videoPath, outPath string) []string {
	return []string{
		"-i", videoPath,
		"-vn", // Drop the video stream
		"-ar", fmt.Sprintf("%d", SampleRate),
		"-ac", fmt.Sprintf("%d", Channels),
		"-c:a", AudioCodec,
		"-f", "wav",
		"-y",
		outPath,
	}
}

// ExtractAudio extracts the audio track of a video into a WAV file
func (f *FFmpeg) ExtractAudio(ctx context.Context, videoPath, outPath string) error {
	if _, err := os.Stat(videoPath); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidMediaFile, videoPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return f.run(ctx, "audio_extraction", videoPath, ExtractAudioArgs(videoPath, outPath))
}

// run executes ffmpeg with the given args, capturing stderr for the error
func (f *FFmpeg) run(ctx context.Context, operation, file string, args []string) error {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, f.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return NewProcessingError(operation, file, err, stderr.String())
	}
	return nil
}
