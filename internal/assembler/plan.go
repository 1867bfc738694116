package assembler

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Output format shared by every track the assembler produces
const (
	sampleRate = 44100
	channels   = 2
	audioCodec = "pcm_s16le"
)

// Clip is one synthesized segment placed on the absolute timeline at
// its segment's original start (trims never move placement).
type Clip struct {
	SegmentID int
	Start     float64
	Path      string
}

// VocalTrackPlan describes the construction of the dubbed vocal track:
// each clip is independently delayed to its start offset and all
// delayed clips are summed onto one stream of exactly TotalDuration.
// Clips are not trimmed to the next segment's onset; a clip that runs
// long overlaps the following clip and the two are summed.
type VocalTrackPlan struct {
	Clips         []Clip
	TotalDuration float64
}

// DelayMillis returns a clip's placement offset in whole milliseconds
func (c Clip) DelayMillis() int {
	return int(math.Round(c.Start * 1000))
}

// FilterGraph builds the filter_complex expression for the plan.
// Returns the empty string when there are no clips (pure silence needs
// no filter; see SilenceArgs).
func (p VocalTrackPlan) FilterGraph() string {
	if len(p.Clips) == 0 {
		return ""
	}

	var graph strings.Builder
	labels := make([]string, len(p.Clips))
	for i, clip := range p.Clips {
		delay := clip.DelayMillis()
		labels[i] = fmt.Sprintf("[c%d]", i)
		// adelay wants one value per channel
		fmt.Fprintf(&graph, "[%d:a]adelay=%d|%d%s;", i, delay, delay, labels[i])
	}

	if len(p.Clips) == 1 {
		fmt.Fprintf(&graph, "%sapad=whole_dur=%s,atrim=0:%s[out]",
			labels[0], formatSeconds(p.TotalDuration), formatSeconds(p.TotalDuration))
		return graph.String()
	}

	graph.WriteString(strings.Join(labels, ""))
	fmt.Fprintf(&graph, "amix=inputs=%d:duration=longest:dropout_transition=0:normalize=0,apad=whole_dur=%s,atrim=0:%s[out]",
		len(p.Clips), formatSeconds(p.TotalDuration), formatSeconds(p.TotalDuration))
	return graph.String()
}

// Args builds the full ffmpeg argument list for the plan
func (p VocalTrackPlan) Args(outPath string) []string {
	if len(p.Clips) == 0 {
		return SilenceArgs(p.TotalDuration, outPath)
	}

	args := make([]string, 0, 2*len(p.Clips)+12)
	for _, clip := range p.Clips {
		args = append(args, "-i", clip.Path)
	}
	args = append(args,
		"-filter_complex", p.FilterGraph(),
		"-map", "[out]",
	)
	return append(args, outputFormatArgs(outPath)...)
}

// SilenceArgs builds the argument list for a pure-silence track of the
// given duration
func SilenceArgs(duration float64, outPath string) []string {
	args := []string{
		"-f", "lavfi",
		"-i", fmt.Sprintf("anullsrc=channel_layout=stereo:sample_rate=%d", sampleRate),
		"-t", formatSeconds(duration),
	}
	return append(args, outputFormatArgs(outPath)...)
}

// TrackInput is one gain-scaled stream entering the final mix
type TrackInput struct {
	Name   string // vocals, bgm or sfx; used only for logging
	Path   string
	Volume float64
}

// MixPlan describes the final mix: every track is independently scaled
// by its volume, the scaled streams are summed with a longest-wins
// duration policy, and the result is hard-truncated to TotalDuration.
type MixPlan struct {
	Tracks        []TrackInput
	TotalDuration float64
}

// FilterGraph builds the filter_complex expression for the mix
func (p MixPlan) FilterGraph() string {
	var graph strings.Builder
	labels := make([]string, len(p.Tracks))
	for i, track := range p.Tracks {
		labels[i] = fmt.Sprintf("[t%d]", i)
		fmt.Fprintf(&graph, "[%d:a]volume=%s%s;", i, formatVolume(track.Volume), labels[i])
	}

	graph.WriteString(strings.Join(labels, ""))
	if len(p.Tracks) > 1 {
		fmt.Fprintf(&graph, "amix=inputs=%d:duration=longest:dropout_transition=0:normalize=0,", len(p.Tracks))
	}
	fmt.Fprintf(&graph, "apad=whole_dur=%s,atrim=0:%s[out]",
		formatSeconds(p.TotalDuration), formatSeconds(p.TotalDuration))
	return graph.String()
}

// Args builds the full ffmpeg argument list for the mix
func (p MixPlan) Args(outPath string) []string {
	args := make([]string, 0, 2*len(p.Tracks)+12)
	for _, track := range p.Tracks {
		args = append(args, "-i", track.Path)
	}
	args = append(args,
		"-filter_complex", p.FilterGraph(),
		"-map", "[out]",
	)
	return append(args, outputFormatArgs(outPath)...)
}

// RemuxArgs builds the argument list for replacing a video's audio with
// the mixed track. The video stream is copied bit-exact; -shortest
// clamps the output to the shorter of the two streams.
func RemuxArgs(videoPath, audioPath, outPath string) []string {
	return []string{
		"-i", videoPath,
		"-i", audioPath,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", "192k",
		"-shortest",
		"-movflags", "+faststart",
		"-y",
		outPath,
	}
}

func outputFormatArgs(outPath string) []string {
	return []string{
		"-ar", strconv.Itoa(sampleRate),
		"-ac", strconv.Itoa(channels),
		"-c:a", audioCodec,
		"-f", "wav",
		"-y",
		outPath,
	}
}

func formatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', 3, 64)
}

func formatVolume(volume float64) string {
	return strconv.FormatFloat(volume, 'f', -1, 64)
}
