package dubbing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voxlate/dubber-api/api/types"
	"github.com/voxlate/dubber-api/internal/database"
	"github.com/voxlate/dubber-api/internal/models"
	"github.com/voxlate/dubber-api/internal/services/artifacts"
	"github.com/voxlate/dubber-api/internal/services/dubbing"
	"github.com/voxlate/dubber-api/internal/services/dubconfig"
	"github.com/voxlate/dubber-api/internal/services/jobs"
	"github.com/voxlate/dubber-api/internal/services/speakers"
	"github.com/voxlate/dubber-api/internal/services/status"
	"github.com/voxlate/dubber-api/internal/services/timelines"
)

// fakeOrchestrator lets handler tests script trigger outcomes without a
// real pipeline behind them
type fakeOrchestrator struct {
	beginStatus models.DubbingStatus
	beginOK     bool
	beginErr    error
	sepOK       bool
	sepErr      error
	preview     *dubbing.PreviewResult
	previewErr  error
	previewText string
}

func (f *fakeOrchestrator) TryBegin(ctx context.Context, timelineID uint) (models.DubbingStatus, bool, error) {
	return f.beginStatus, f.beginOK, f.beginErr
}

func (f *fakeOrchestrator) Run(ctx context.Context, timelineID uint) error { return nil }

func (f *fakeOrchestrator) TryBeginSeparation(ctx context.Context, timelineID uint) (bool, error) {
	return f.sepOK, f.sepErr
}

func (f *fakeOrchestrator) RunSeparation(ctx context.Context, timelineID uint) error { return nil }

func (f *fakeOrchestrator) PreviewSegment(ctx context.Context, timelineID uint, segmentID int, textOverride string) (*dubbing.PreviewResult, error) {
	f.previewText = textOverride
	return f.preview, f.previewErr
}

// failingJobService errors on enqueue so trigger handlers exercise
// their rollback path. The other Service methods are never reached.
type failingJobService struct {
	jobs.Service
}

func (f *failingJobService) EnqueueUniqueJob(ctx context.Context, jobType models.JobType, payload models.JobPayload, uniqueKey string) (*models.Job, error) {
	return nil, errors.New("insert failed")
}

type testStack struct {
	router *gin.Engine
	deps   *types.Dependencies
	orch   *fakeOrchestrator
}

func setupStack(t *testing.T) *testStack {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Initialize(":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.AutoMigrate(&models.Timeline{}, &models.Segment{}, &models.DubbingConfig{}, &models.SpeakerVoice{}, &models.Job{}))

	store, err := artifacts.NewFilesystemStore(t.TempDir())
	require.NoError(t, err)

	orch := &fakeOrchestrator{beginOK: true, sepOK: true}
	deps := &types.Dependencies{
		DB:              db,
		TimelineService: timelines.NewService(timelines.NewRepository(db.DB)),
		ConfigService:   dubconfig.NewService(dubconfig.NewRepository(db.DB)),
		SpeakerService:  speakers.NewService(speakers.NewRepository(db.DB)),
		JobService:      jobs.NewService(jobs.NewRepository(db.DB)),
		StatusStore:     status.NewStore(),
		Orchestrator:    orch,
		Artifacts:       store,
	}

	router := gin.New()
	RegisterRoutes(router.Group("/api/v1/timelines"), deps)
	return &testStack{router: router, deps: deps, orch: orch}
}

func (s *testStack) seedTimeline(t *testing.T) uint {
	t.Helper()
	timeline := &models.Timeline{
		Title: "test",
		Segments: []models.Segment{
			{SegmentID: 1, Start: 0, End: 4, Speaker: "spk1", TranslatedText: "hola"},
			{SegmentID: 2, Start: 4, End: 8, Speaker: "spk2", TranslatedText: "mundo"},
		},
	}
	require.NoError(t, s.deps.TimelineService.CreateTimeline(context.Background(), timeline))
	return timeline.ID
}

func (s *testStack) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func dubbingPath(id uint, suffix string) string {
	return fmt.Sprintf("/api/v1/timelines/%d/dubbing%s", id, suffix)
}

func TestGenerateEndpoint(t *testing.T) {
	stack := setupStack(t)
	id := stack.seedTimeline(t)

	w := stack.do(t, http.MethodPost, dubbingPath(id, "/generate"), nil)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	var response types.TriggerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, types.StatusQueued, response.Status)
	require.NotZero(t, response.JobID)

	job, err := stack.deps.JobService.GetJob(context.Background(), response.JobID)
	require.NoError(t, err)
	assert.Equal(t, models.JobTypeDubbingGeneration, job.Type)
	payloadID, ok := job.GetPayloadUint("timeline_id")
	assert.True(t, ok)
	assert.Equal(t, id, payloadID)

	// A second trigger reuses the pending job instead of stacking one
	w = stack.do(t, http.MethodPost, dubbingPath(id, "/generate"), nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	var second types.TriggerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.Equal(t, response.JobID, second.JobID)
}

func TestGenerateConflict(t *testing.T) {
	stack := setupStack(t)
	id := stack.seedTimeline(t)
	stack.orch.beginOK = false
	stack.orch.beginStatus = models.DubbingStatus{Status: models.DubbingSynthesizing, Progress: 30}

	w := stack.do(t, http.MethodPost, dubbingPath(id, "/generate"), nil)
	require.Equal(t, http.StatusConflict, w.Code)

	var response struct {
		Status  string               `json:"status"`
		Error   string               `json:"error"`
		Dubbing models.DubbingStatus `json:"dubbing"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, types.StatusError, response.Status)
	assert.Equal(t, models.DubbingSynthesizing, response.Dubbing.Status)
	assert.Equal(t, 30, response.Dubbing.Progress)
}

func TestGenerateEnqueueFailureReleasesClaim(t *testing.T) {
	stack := setupStack(t)
	id := stack.seedTimeline(t)
	stack.deps.JobService = &failingJobService{}

	w := stack.do(t, http.MethodPost, dubbingPath(id, "/generate"), nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	// The claim must not survive the failed enqueue, or the timeline
	// would report an in-flight run with no job behind it and reject
	// every later trigger
	st, ok := stack.deps.StatusStore.GetDubbing(id)
	require.True(t, ok)
	assert.Equal(t, models.DubbingFailed, st.Status)
	assert.NotEmpty(t, st.Error)

	_, started := stack.deps.StatusStore.TryStartDubbing(id, 2)
	assert.True(t, started, "a fresh trigger is accepted after the rollback")
}

func TestSeparateEnqueueFailureReleasesClaim(t *testing.T) {
	stack := setupStack(t)
	id := stack.seedTimeline(t)
	stack.deps.JobService = &failingJobService{}

	w := stack.do(t, http.MethodPost, dubbingPath(id, "/separate"), nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	st, ok := stack.deps.StatusStore.GetSeparation(id)
	require.True(t, ok)
	assert.Equal(t, models.SeparationFailed, st.Status)

	assert.True(t, stack.deps.StatusStore.TryStartSeparation(id))
}

func TestGenerateUnknownTimeline(t *testing.T) {
	stack := setupStack(t)
	stack.orch.beginErr = timelines.ErrTimelineNotFound

	w := stack.do(t, http.MethodPost, dubbingPath(999, "/generate"), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSeparateEndpoint(t *testing.T) {
	stack := setupStack(t)
	id := stack.seedTimeline(t)

	w := stack.do(t, http.MethodPost, dubbingPath(id, "/separate"), nil)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	var response types.TriggerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotZero(t, response.JobID)

	job, err := stack.deps.JobService.GetJob(context.Background(), response.JobID)
	require.NoError(t, err)
	assert.Equal(t, models.JobTypeAudioSeparation, job.Type)

	stack.orch.sepOK = false
	w = stack.do(t, http.MethodPost, dubbingPath(id, "/separate"), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestStatusEndpoints(t *testing.T) {
	stack := setupStack(t)
	id := stack.seedTimeline(t)

	// No run yet: both report pending
	w := stack.do(t, http.MethodGet, dubbingPath(id, "/status"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var dubSt models.DubbingStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dubSt))
	assert.Equal(t, models.DubbingPending, dubSt.Status)

	w = stack.do(t, http.MethodGet, dubbingPath(id, "/separation"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var sepSt models.SeparationStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sepSt))
	assert.Equal(t, models.SeparationPending, sepSt.Status)

	// A worker's updates are visible on the next poll
	stack.deps.StatusStore.SetDubbing(id, models.DubbingStatus{
		Status: models.DubbingMixing, Progress: 90, CurrentStep: "Mixing audio tracks",
	})
	w = stack.do(t, http.MethodGet, dubbingPath(id, "/status"), nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dubSt))
	assert.Equal(t, models.DubbingMixing, dubSt.Status)
	assert.Equal(t, 90, dubSt.Progress)
}

func TestConfigEndpoints(t *testing.T) {
	stack := setupStack(t)
	id := stack.seedTimeline(t)

	w := stack.do(t, http.MethodGet, dubbingPath(id, "/config"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var config models.DubbingConfig
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &config))
	assert.Equal(t, "en", config.TargetLanguage)
	assert.InDelta(t, 0.3, config.BgmVolume, 1e-9)

	w = stack.do(t, http.MethodPatch, dubbingPath(id, "/config"), gin.H{
		"target_language": "fr",
		"vocal_volume":    0.9,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &config))
	assert.Equal(t, "fr", config.TargetLanguage)
	assert.InDelta(t, 0.9, config.VocalVolume, 1e-9)

	w = stack.do(t, http.MethodPatch, dubbingPath(id, "/config"), gin.H{"bgm_volume": 1.5})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = stack.do(t, http.MethodGet, dubbingPath(999, "/config"), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSpeakerEndpoints(t *testing.T) {
	stack := setupStack(t)
	id := stack.seedTimeline(t)

	w := stack.do(t, http.MethodGet, dubbingPath(id, "/speakers"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listing struct {
		Speakers []models.SpeakerVoice `json:"speakers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	require.Len(t, listing.Speakers, 2)
	assert.Equal(t, "Speaker spk1", listing.Speakers[0].DisplayName)

	w = stack.do(t, http.MethodPatch, dubbingPath(id, "/speakers/spk1"), gin.H{
		"display_name": "Host",
		"enabled":      false,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var voice models.SpeakerVoice
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &voice))
	assert.Equal(t, "Host", voice.DisplayName)
	assert.False(t, voice.Enabled)

	w = stack.do(t, http.MethodPatch, dubbingPath(id, "/speakers/nobody"), gin.H{"enabled": true})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = stack.do(t, http.MethodPatch, dubbingPath(id, "/speakers/spk1"), gin.H{"display_name": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPreviewEndpoint(t *testing.T) {
	stack := setupStack(t)
	id := stack.seedTimeline(t)
	stack.orch.preview = &dubbing.PreviewResult{SegmentID: 1, ClipPath: "/clips/preview.wav", Duration: 2.5}

	w := stack.do(t, http.MethodPost, dubbingPath(id, "/preview/1"), gin.H{"text": "Alternate line"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result dubbing.PreviewResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 1, result.SegmentID)
	assert.InDelta(t, 2.5, result.Duration, 1e-9)
	assert.Equal(t, "Alternate line", stack.orch.previewText)

	// Body is optional
	w = stack.do(t, http.MethodPost, dubbingPath(id, "/preview/1"), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	stack.orch.previewErr = dubbing.ErrNoSpeakerSample
	w = stack.do(t, http.MethodPost, dubbingPath(id, "/preview/1"), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	stack.orch.previewErr = timelines.ErrSegmentNotFound
	w = stack.do(t, http.MethodPost, dubbingPath(id, "/preview/42"), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	stack.orch.previewErr = dubbing.ErrSegmentDropped
	w = stack.do(t, http.MethodPost, dubbingPath(id, "/preview/2"), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMediaEndpoints(t *testing.T) {
	stack := setupStack(t)
	id := stack.seedTimeline(t)

	// Nothing rendered yet
	w := stack.do(t, http.MethodGet, dubbingPath(id, "/video"), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = stack.do(t, http.MethodGet, dubbingPath(id, "/audio/mixed"), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = stack.do(t, http.MethodGet, dubbingPath(id, "/audio/vocal"), nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "stems require a completed separation")

	w = stack.do(t, http.MethodGet, dubbingPath(id, "/audio/dubbed"), nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "dubbed track requires a completed run")

	w = stack.do(t, http.MethodGet, dubbingPath(id, "/audio/drums"), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// A completed separation serves the vocal stem under both spellings
	vocals := filepath.Join(t.TempDir(), "vocals.wav")
	require.NoError(t, os.WriteFile(vocals, []byte("RIFF"), 0644))
	stack.deps.StatusStore.SetSeparation(id, models.SeparationStatus{
		Status:     models.SeparationCompleted,
		VocalsPath: vocals,
	})
	w = stack.do(t, http.MethodGet, dubbingPath(id, "/audio/vocals"), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = stack.do(t, http.MethodGet, dubbingPath(id, "/audio/vocal"), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
