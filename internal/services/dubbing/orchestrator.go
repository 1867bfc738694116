// Package dubbing contains the pipeline orchestrator: the state
// machine that turns a reviewed timeline into a dubbed audio track and
// video. Stages run strictly in order; a failure at any stage marks
// the run failed and recovery is always a caller re-trigger.
package dubbing

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/voxlate/dubber-api/internal/assembler"
	"github.com/voxlate/dubber-api/internal/models"
	"github.com/voxlate/dubber-api/internal/services/artifacts"
	"github.com/voxlate/dubber-api/internal/services/dubconfig"
	"github.com/voxlate/dubber-api/internal/services/separation"
	"github.com/voxlate/dubber-api/internal/services/speakers"
	"github.com/voxlate/dubber-api/internal/services/status"
	"github.com/voxlate/dubber-api/internal/services/timelines"
	"github.com/voxlate/dubber-api/internal/services/voiceclone"
	"github.com/voxlate/dubber-api/pkg/download"
)

// Deps bundles the orchestrator's collaborators
type Deps struct {
	Timelines  timelines.Service
	Speakers   speakers.Service
	Configs    dubconfig.Service
	Statuses   status.Store
	Separator  separation.Separator
	Cloner     voiceclone.Cloner
	Extractor  AudioExtractor
	Builder    TrackBuilder
	Artifacts  artifacts.Store
	Downloader *download.Downloader
}

type orchestrator struct {
	deps Deps
}

// NewOrchestrator creates the pipeline orchestrator
func NewOrchestrator(deps Deps) Orchestrator {
	if deps.Downloader == nil {
		deps.Downloader = download.NewDownloader(download.DefaultOptions())
	}
	return &orchestrator{deps: deps}
}

// TryBegin claims a fresh run. The claim and the in-progress check are
// one atomic store operation, so two near-simultaneous triggers cannot
// both start a pipeline.
func (o *orchestrator) TryBegin(ctx context.Context, timelineID uint) (models.DubbingStatus, bool, error) {
	timeline, err := o.deps.Timelines.GetTimeline(ctx, timelineID)
	if err != nil {
		return models.DubbingStatus{}, false, err
	}

	total := len(timeline.ActiveSegments())
	st, started := o.deps.Statuses.TryStartDubbing(timelineID, total)
	return st, started, nil
}

// Run executes the pipeline stages for a claimed run
func (o *orchestrator) Run(ctx context.Context, timelineID uint) error {
	timeline, err := o.deps.Timelines.GetTimeline(ctx, timelineID)
	if err != nil {
		return o.failDubbing(timelineID, err)
	}

	config, err := o.deps.Configs.GetConfig(ctx, timelineID)
	if err != nil {
		return o.failDubbing(timelineID, fmt.Errorf("loading dubbing config: %w", err))
	}

	if err := o.deps.Artifacts.EnsureTimelineDirs(timelineID); err != nil {
		return o.failDubbing(timelineID, err)
	}

	// A re-triggered run starts from a clean slate of clips
	if err := o.deps.Timelines.ClearDubbedPaths(ctx, timelineID); err != nil {
		return o.failDubbing(timelineID, fmt.Errorf("resetting dubbed paths: %w", err))
	}

	// Stage 1: separation
	stems, err := o.ensureSeparation(ctx, timeline)
	if err != nil {
		return o.failDubbing(timelineID, fmt.Errorf("separation: %w", err))
	}
	o.setStage(timelineID, models.DubbingExtractingSamples, 10, "Extracting speaker voice samples")

	// Stage 2: sample extraction. Segment data is re-read each stage;
	// a stale in-memory copy must never drive speaker or segment
	// decisions.
	timeline, err = o.deps.Timelines.GetTimeline(ctx, timelineID)
	if err != nil {
		return o.failDubbing(timelineID, err)
	}
	samples, err := o.extractSamples(ctx, timeline, stems.Vocals)
	if err != nil {
		return o.failDubbing(timelineID, fmt.Errorf("sample extraction: %w", err))
	}
	o.setStage(timelineID, models.DubbingSynthesizing, 30, "Synthesizing translated speech")

	// Stage 3: synthesis
	timeline, err = o.deps.Timelines.GetTimeline(ctx, timelineID)
	if err != nil {
		return o.failDubbing(timelineID, err)
	}
	clips, err := o.synthesize(ctx, timeline, samples, config.TargetLanguage)
	if err != nil {
		return o.failDubbing(timelineID, fmt.Errorf("synthesis: %w", err))
	}
	o.deps.Statuses.UpdateDubbing(timelineID, func(st *models.DubbingStatus) {
		st.Progress = 70
		st.DubbedSegmentCount = len(clips)
		st.TotalSegmentCount = len(timeline.ActiveSegments())
	})

	// Stage 4: assembly and mix
	o.setStage(timelineID, models.DubbingMixing, 90, "Mixing audio tracks")
	timeline, err = o.deps.Timelines.GetTimeline(ctx, timelineID)
	if err != nil {
		return o.failDubbing(timelineID, err)
	}
	mixedPath, videoPath, err := o.assemble(ctx, timeline, config, stems, clips)
	if err != nil {
		return o.failDubbing(timelineID, fmt.Errorf("mixing: %w", err))
	}

	// Finalize
	if err := o.deps.Timelines.SetOutputPaths(ctx, timelineID, mixedPath, videoPath); err != nil {
		return o.failDubbing(timelineID, fmt.Errorf("recording output paths: %w", err))
	}
	o.deps.Statuses.UpdateDubbing(timelineID, func(st *models.DubbingStatus) {
		st.Status = models.DubbingCompleted
		st.Progress = 100
		st.CurrentStep = "Completed"
	})
	log.Printf("[DEBUG] Dubbing pipeline completed for timeline %d (%d/%d segments dubbed)",
		timelineID, len(clips), len(timeline.ActiveSegments()))
	return nil
}

// TryBeginSeparation claims a standalone separation run
func (o *orchestrator) TryBeginSeparation(ctx context.Context, timelineID uint) (bool, error) {
	if _, err := o.deps.Timelines.GetTimeline(ctx, timelineID); err != nil {
		return false, err
	}
	return o.deps.Statuses.TryStartSeparation(timelineID), nil
}

// RunSeparation executes separation only
func (o *orchestrator) RunSeparation(ctx context.Context, timelineID uint) error {
	timeline, err := o.deps.Timelines.GetTimeline(ctx, timelineID)
	if err != nil {
		o.deps.Statuses.SetSeparation(timelineID, models.SeparationStatus{
			Status: models.SeparationFailed,
			Error:  err.Error(),
		})
		return err
	}
	if err := o.deps.Artifacts.EnsureTimelineDirs(timelineID); err != nil {
		o.deps.Statuses.SetSeparation(timelineID, models.SeparationStatus{
			Status: models.SeparationFailed,
			Error:  err.Error(),
		})
		return err
	}
	_, err = o.doSeparation(ctx, timeline)
	return err
}

// ensureSeparation reuses a completed separation and runs one otherwise
func (o *orchestrator) ensureSeparation(ctx context.Context, timeline *models.Timeline) (*separation.StemPaths, error) {
	if st, ok := o.deps.Statuses.GetSeparation(timeline.ID); ok && st.Status == models.SeparationCompleted {
		return &separation.StemPaths{Vocals: st.VocalsPath, Bgm: st.BgmPath, Sfx: st.SfxPath}, nil
	}
	o.deps.Statuses.SetSeparation(timeline.ID, models.SeparationStatus{Status: models.SeparationProcessing})
	return o.doSeparation(ctx, timeline)
}

// doSeparation extracts the source audio and calls the separation
// engine, recording the outcome on the shared status record
func (o *orchestrator) doSeparation(ctx context.Context, timeline *models.Timeline) (*separation.StemPaths, error) {
	fail := func(err error) (*separation.StemPaths, error) {
		log.Printf("[ERROR] Separation failed for timeline %d: %v", timeline.ID, err)
		o.deps.Statuses.SetSeparation(timeline.ID, models.SeparationStatus{
			Status: models.SeparationFailed,
			Error:  err.Error(),
		})
		return nil, err
	}

	videoPath, err := o.localSourceVideo(ctx, timeline)
	if err != nil {
		return fail(err)
	}

	audioPath := o.deps.Artifacts.SourceAudioPath(timeline.ID)
	if err := o.deps.Extractor.ExtractAudio(ctx, videoPath, audioPath); err != nil {
		return fail(fmt.Errorf("extracting source audio: %w", err))
	}

	stems, err := o.deps.Separator.Separate(ctx, audioPath, o.deps.Artifacts.SeparationDir(timeline.ID))
	if err != nil {
		return fail(err)
	}

	o.deps.Statuses.SetSeparation(timeline.ID, models.SeparationStatus{
		Status:     models.SeparationCompleted,
		VocalsPath: stems.Vocals,
		BgmPath:    stems.Bgm,
		SfxPath:    stems.Sfx,
	})
	return stems, nil
}

// extractSamples builds the speaker → sample map for synthesis. A
// speaker that yields no sample is skipped, not an error.
func (o *orchestrator) extractSamples(ctx context.Context, timeline *models.Timeline, vocalsPath string) (map[string]string, error) {
	voices, err := o.deps.Speakers.ListSpeakers(ctx, timeline)
	if err != nil {
		return nil, err
	}

	samples := make(map[string]string)
	for _, voice := range voices {
		if !voice.Enabled {
			continue
		}
		ranges := speakerRanges(timeline, voice.SpeakerID)
		if len(ranges) == 0 {
			continue
		}

		samplePath, err := o.deps.Cloner.ExtractSpeakerSample(ctx, vocalsPath, voice.SpeakerID, ranges, o.deps.Artifacts.SamplesDir(timeline.ID))
		if err != nil {
			log.Printf("[ERROR] Sample extraction failed for speaker %s on timeline %d: %v", voice.SpeakerID, timeline.ID, err)
			continue
		}
		if samplePath == "" {
			log.Printf("[DEBUG] Speaker %s on timeline %d yielded no usable sample", voice.SpeakerID, timeline.ID)
			continue
		}

		if err := o.deps.Speakers.SetSamplePath(ctx, timeline.ID, voice.SpeakerID, samplePath); err != nil {
			return nil, err
		}
		samples[voice.SpeakerID] = samplePath
	}
	return samples, nil
}

// speakerRanges collects the effective spans where a speaker talks,
// restricted to non-dropped segments
func speakerRanges(timeline *models.Timeline, speakerID string) []voiceclone.TimeRange {
	var ranges []voiceclone.TimeRange
	for i := range timeline.Segments {
		seg := &timeline.Segments[i]
		if seg.Speaker != speakerID || seg.IsDropped() || seg.EffectiveDuration() <= 0 {
			continue
		}
		ranges = append(ranges, voiceclone.TimeRange{Start: seg.EffectiveStart(), End: seg.EffectiveEnd()})
	}
	return ranges
}

// synthesize batch-dubs every eligible segment and records the clip
// paths on the timeline. Segments whose speaker has no sample, or that
// fail individually, are left without a clip.
func (o *orchestrator) synthesize(ctx context.Context, timeline *models.Timeline, samples map[string]string, language string) ([]assembler.Clip, error) {
	byID := make(map[int]*models.Segment)
	var inputs []voiceclone.SegmentInput
	for i := range timeline.Segments {
		seg := &timeline.Segments[i]
		if seg.IsDropped() || seg.TranslatedText == "" {
			continue
		}
		if _, ok := samples[seg.Speaker]; !ok {
			continue
		}
		byID[seg.SegmentID] = seg
		inputs = append(inputs, voiceclone.SegmentInput{
			SegmentID: seg.SegmentID,
			Text:      seg.TranslatedText,
			Speaker:   seg.Speaker,
			Start:     seg.EffectiveStart(),
			End:       seg.EffectiveEnd(),
		})
	}
	if len(inputs) == 0 {
		return nil, nil
	}

	results, err := o.deps.Cloner.DubSegments(ctx, inputs, samples, o.deps.Artifacts.ClipsDir(timeline.ID), language)
	if err != nil {
		return nil, err
	}

	var clips []assembler.Clip
	for _, result := range results {
		if result.DubbedPath == "" {
			if result.Error != "" {
				log.Printf("[DEBUG] Segment %d on timeline %d not synthesized: %s", result.SegmentID, timeline.ID, result.Error)
			}
			continue
		}
		seg, ok := byID[result.SegmentID]
		if !ok {
			continue
		}
		if err := o.deps.Timelines.SetSegmentDubbedPath(ctx, timeline.ID, result.SegmentID, result.DubbedPath); err != nil {
			return nil, err
		}
		// Clips are placed at the original segment start; trims affect
		// synthesis ranges, never timeline placement
		clips = append(clips, assembler.Clip{
			SegmentID: result.SegmentID,
			Start:     seg.Start,
			Path:      result.DubbedPath,
		})
	}
	return clips, nil
}

// assemble builds the vocal track, mixes it with the kept stems and
// remuxes into the source video
func (o *orchestrator) assemble(ctx context.Context, timeline *models.Timeline, config *models.DubbingConfig, stems *separation.StemPaths, clips []assembler.Clip) (mixedPath, videoPath string, err error) {
	totalDuration := timeline.SourceDuration
	if totalDuration <= 0 {
		totalDuration, err = o.deps.Extractor.MediaDuration(ctx, o.deps.Artifacts.SourceAudioPath(timeline.ID))
		if err != nil {
			return "", "", fmt.Errorf("determining source duration: %w", err)
		}
	}

	vocalPath := o.deps.Artifacts.VocalTrackPath(timeline.ID)
	vocalPlan := assembler.VocalTrackPlan{Clips: clips, TotalDuration: totalDuration}
	if err := o.deps.Builder.BuildVocalTrack(ctx, vocalPlan, vocalPath); err != nil {
		return "", "", err
	}

	tracks := []assembler.TrackInput{{Name: "vocals", Path: vocalPath, Volume: config.VocalVolume}}
	if config.KeepBgm && stems.Bgm != "" {
		tracks = append(tracks, assembler.TrackInput{Name: "bgm", Path: stems.Bgm, Volume: config.BgmVolume})
	}
	if config.KeepSfx && stems.Sfx != "" {
		tracks = append(tracks, assembler.TrackInput{Name: "sfx", Path: stems.Sfx, Volume: config.SfxVolume})
	}

	mixedPath = o.deps.Artifacts.MixedTrackPath(timeline.ID)
	mixPlan := assembler.MixPlan{Tracks: tracks, TotalDuration: totalDuration}
	if err := o.deps.Builder.MixTracks(ctx, mixPlan, mixedPath); err != nil {
		return "", "", err
	}

	if timeline.SourceVideoPath == "" {
		return mixedPath, "", nil
	}
	sourceVideo, err := o.localSourceVideo(ctx, timeline)
	if err != nil {
		return "", "", err
	}
	videoPath = o.deps.Artifacts.DubbedVideoPath(timeline.ID, filepath.Ext(sourceVideo))
	if err := o.deps.Builder.RemuxVideo(ctx, sourceVideo, mixedPath, videoPath); err != nil {
		return "", "", err
	}
	return mixedPath, videoPath, nil
}

// localSourceVideo resolves the timeline's source video to a local
// file. A remote URL is staged into the artifact area on first use and
// reused by later stages and runs.
func (o *orchestrator) localSourceVideo(ctx context.Context, timeline *models.Timeline) (string, error) {
	src := timeline.SourceVideoPath
	if src == "" {
		return "", ErrNoSourceVideo
	}
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		return src, nil
	}

	staged := o.deps.Artifacts.SourceVideoPath(timeline.ID, download.VideoExt(src))
	if _, err := os.Stat(staged); err == nil {
		return staged, nil
	}

	result, err := o.deps.Downloader.DownloadToTemp(ctx, src, timeline.ID)
	if err != nil {
		return "", fmt.Errorf("staging source video: %w", err)
	}
	defer func() { _ = download.CleanupTempFile(result.FilePath) }()

	file, err := os.Open(result.FilePath)
	if err != nil {
		return "", err
	}
	defer file.Close()
	return o.deps.Artifacts.SaveUpload(ctx, timeline.ID, filepath.Base(result.FilePath), file)
}

// setStage advances the status record to a new stage and checkpoint
func (o *orchestrator) setStage(timelineID uint, stage models.DubbingStage, progress int, step string) {
	o.deps.Statuses.UpdateDubbing(timelineID, func(st *models.DubbingStatus) {
		st.Status = stage
		st.Progress = progress
		st.CurrentStep = step
	})
}

// failDubbing records a stage failure on the status record. The error
// is returned unchanged so the job layer can record it too.
func (o *orchestrator) failDubbing(timelineID uint, err error) error {
	log.Printf("[ERROR] Dubbing pipeline failed for timeline %d: %v", timelineID, err)
	o.deps.Statuses.UpdateDubbing(timelineID, func(st *models.DubbingStatus) {
		st.Status = models.DubbingFailed
		st.CurrentStep = "Failed"
		st.Error = err.Error()
	})
	return err
}
