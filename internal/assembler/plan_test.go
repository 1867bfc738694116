package assembler

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingRunner captures invocations instead of executing them
type recordingRunner struct {
	calls [][]string
	err   error
}

func (r *recordingRunner) Run(_ context.Context, name string, args ...string) error {
	call := append([]string{name}, args...)
	r.calls = append(r.calls, call)
	return r.err
}

func TestClipDelayMillis(t *testing.T) {
	tests := []struct {
		name  string
		start float64
		want  int
	}{
		{"zero start", 0, 0},
		{"whole seconds", 3, 3000},
		{"sub-second", 1.25, 1250},
		{"rounds to nearest ms", 0.0004, 0},
		{"rounds up", 0.0006, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clip := Clip{Start: tt.start}
			assert.Equal(t, tt.want, clip.DelayMillis())
		})
	}
}

func TestVocalTrackPlanArgs_NoClips(t *testing.T) {
	plan := VocalTrackPlan{TotalDuration: 12.5}
	args := plan.Args("/tmp/vocals.wav")

	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "anullsrc=channel_layout=stereo:sample_rate=44100")
	assert.Contains(t, joined, "-t 12.500")
	assert.Contains(t, joined, "-c:a pcm_s16le")
	assert.Equal(t, "/tmp/vocals.wav", args[len(args)-1])
	assert.NotContains(t, joined, "-filter_complex")
}

func TestVocalTrackPlanArgs_SingleClip(t *testing.T) {
	plan := VocalTrackPlan{
		Clips:         []Clip{{SegmentID: 1, Start: 2.5, Path: "/clips/1.wav"}},
		TotalDuration: 10,
	}
	args := plan.Args("/tmp/vocals.wav")

	graph := plan.FilterGraph()
	assert.Contains(t, graph, "[0:a]adelay=2500|2500[c0]")
	assert.Contains(t, graph, "apad=whole_dur=10.000,atrim=0:10.000[out]")
	assert.NotContains(t, graph, "amix")

	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "-i /clips/1.wav")
	assert.Contains(t, joined, "-map [out]")
	assert.Contains(t, joined, "-ar 44100 -ac 2")
}

func TestVocalTrackPlanFilterGraph_OverlappingClips(t *testing.T) {
	// A long first clip overlaps the second; both are summed rather
	// than the first being cut at the second's onset.
	plan := VocalTrackPlan{
		Clips: []Clip{
			{SegmentID: 1, Start: 0, Path: "/clips/1.wav"},
			{SegmentID: 2, Start: 1.5, Path: "/clips/2.wav"},
			{SegmentID: 3, Start: 4, Path: "/clips/3.wav"},
		},
		TotalDuration: 20,
	}

	graph := plan.FilterGraph()
	assert.Contains(t, graph, "[0:a]adelay=0|0[c0]")
	assert.Contains(t, graph, "[1:a]adelay=1500|1500[c1]")
	assert.Contains(t, graph, "[2:a]adelay=4000|4000[c2]")
	assert.Contains(t, graph, "[c0][c1][c2]amix=inputs=3:duration=longest:dropout_transition=0:normalize=0")
	assert.Contains(t, graph, "apad=whole_dur=20.000,atrim=0:20.000[out]")
}

func TestMixPlanFilterGraph(t *testing.T) {
	plan := MixPlan{
		Tracks: []TrackInput{
			{Name: "vocals", Path: "/t/vocals.wav", Volume: 1.0},
			{Name: "bgm", Path: "/t/bgm.wav", Volume: 0.3},
			{Name: "sfx", Path: "/t/sfx.wav", Volume: 0.5},
		},
		TotalDuration: 60,
	}

	graph := plan.FilterGraph()
	assert.Contains(t, graph, "[0:a]volume=1[t0]")
	assert.Contains(t, graph, "[1:a]volume=0.3[t1]")
	assert.Contains(t, graph, "[2:a]volume=0.5[t2]")
	assert.Contains(t, graph, "amix=inputs=3:duration=longest:dropout_transition=0:normalize=0")
	assert.Contains(t, graph, "atrim=0:60.000[out]")
}

func TestMixPlanFilterGraph_SingleTrack(t *testing.T) {
	plan := MixPlan{
		Tracks:        []TrackInput{{Name: "vocals", Path: "/t/vocals.wav", Volume: 0.8}},
		TotalDuration: 30,
	}

	graph := plan.FilterGraph()
	assert.Contains(t, graph, "[0:a]volume=0.8[t0]")
	assert.NotContains(t, graph, "amix")
	assert.Contains(t, graph, "apad=whole_dur=30.000,atrim=0:30.000[out]")
}

func TestRemuxArgs(t *testing.T) {
	args := RemuxArgs("/v/source.mp4", "/t/mixed.wav", "/v/dubbed.mp4")

	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "-map 0:v:0 -map 1:a:0")
	assert.Contains(t, joined, "-c:v copy")
	assert.Contains(t, joined, "-shortest")
	assert.Equal(t, "/v/dubbed.mp4", args[len(args)-1])
}

func TestBuildVocalTrack_MissingClip(t *testing.T) {
	runner := &recordingRunner{}
	asm := New("", runner)

	plan := VocalTrackPlan{
		Clips:         []Clip{{SegmentID: 7, Start: 0, Path: "/does/not/exist.wav"}},
		TotalDuration: 5,
	}
	err := asm.BuildVocalTrack(context.Background(), plan, filepath.Join(t.TempDir(), "vocals.wav"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "segment 7")
	assert.Empty(t, runner.calls)
}

func TestBuildVocalTrack_SilenceInvokesRunner(t *testing.T) {
	runner := &recordingRunner{}
	asm := New("ffmpeg", runner)

	outPath := filepath.Join(t.TempDir(), "vocals.wav")
	err := asm.BuildVocalTrack(context.Background(), VocalTrackPlan{TotalDuration: 8}, outPath)
	require.NoError(t, err)
	require.Len(t, runner.calls, 1)
	assert.Equal(t, "ffmpeg", runner.calls[0][0])
	assert.Contains(t, strings.Join(runner.calls[0], " "), "anullsrc")
}

func TestMixTracks_RequiresTracks(t *testing.T) {
	asm := New("", &recordingRunner{})
	err := asm.MixTracks(context.Background(), MixPlan{TotalDuration: 5}, "/tmp/out.wav")
	assert.Error(t, err)
}

func TestMixTracks_InvokesRunner(t *testing.T) {
	dir := t.TempDir()
	vocals := filepath.Join(dir, "vocals.wav")
	bgm := filepath.Join(dir, "bgm.wav")
	require.NoError(t, os.WriteFile(vocals, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(bgm, []byte("x"), 0644))

	runner := &recordingRunner{}
	asm := New("", runner)
	plan := MixPlan{
		Tracks: []TrackInput{
			{Name: "vocals", Path: vocals, Volume: 1.0},
			{Name: "bgm", Path: bgm, Volume: 0.3},
		},
		TotalDuration: 15,
	}
	err := asm.MixTracks(context.Background(), plan, filepath.Join(dir, "mixed.wav"))
	require.NoError(t, err)
	require.Len(t, runner.calls, 1)
	assert.Contains(t, strings.Join(runner.calls[0], " "), "volume=0.3")
}
