package timelines

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voxlate/dubber-api/api/types"
	"github.com/voxlate/dubber-api/internal/database"
	"github.com/voxlate/dubber-api/internal/models"
	"github.com/voxlate/dubber-api/internal/services/timelines"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Initialize(":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.AutoMigrate(&models.Timeline{}, &models.Segment{}))

	deps := &types.Dependencies{
		DB:              db,
		TimelineService: timelines.NewService(timelines.NewRepository(db.DB)),
	}

	router := gin.New()
	RegisterRoutes(router.Group("/api/v1/timelines"), deps)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
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
	router.ServeHTTP(w, req)
	return w
}

func createTestTimeline(t *testing.T, router *gin.Engine) uint {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/v1/timelines", gin.H{
		"title":           "episode 1",
		"source_language": "ja",
		"segments": []gin.H{
			{"start": 0, "end": 5, "source_text": "hello world", "translated_text": "hola mundo", "speaker": "spk1"},
			{"start": 5, "end": 10, "source_text": "more text", "translated_text": "mas texto", "speaker": "spk2"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Timeline
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotZero(t, created.ID)
	return created.ID
}

func TestCreateEndpoint(t *testing.T) {
	router := setupRouter(t)

	t.Run("valid timeline", func(t *testing.T) {
		id := createTestTimeline(t, router)
		assert.NotZero(t, id)
	})

	t.Run("missing segments", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/timelines", gin.H{"title": "empty"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("empty segment list", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/timelines", gin.H{
			"title": "empty", "segments": []gin.H{},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid time range", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/timelines", gin.H{
			"segments": []gin.H{{"start": 5, "end": 5, "source_text": "x"}},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestImportEndpoint(t *testing.T) {
	router := setupRouter(t)

	vtt := "WEBVTT\n\n00:00:01.000 --> 00:00:04.000\n<v Alice>Hello there\n\n00:00:05.000 --> 00:00:08.500\nSecond cue\n"
	w := doJSON(t, router, http.MethodPost, "/api/v1/timelines/import", gin.H{
		"title":    "imported",
		"filename": "episode.vtt",
		"content":  vtt,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Timeline
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Len(t, created.Segments, 2)
	assert.InDelta(t, 1.0, created.Segments[0].Start, 1e-9)
	assert.InDelta(t, 8.5, created.Segments[1].End, 1e-9)
	assert.Equal(t, "Alice", created.Segments[0].Speaker)

	t.Run("unparsable content", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/timelines/import", gin.H{
			"filename": "episode.srt",
			"content":  "not a subtitle file",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing content", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/timelines/import", gin.H{"title": "x"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetEndpoint(t *testing.T) {
	router := setupRouter(t)
	id := createTestTimeline(t, router)

	w := doJSON(t, router, http.MethodGet, timelinePath(id, ""), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Timeline models.Timeline      `json:"timeline"`
		Review   models.ReviewSummary `json:"review"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response.Timeline.Segments, 2)
	assert.Equal(t, 2, response.Review.TotalCount)
	assert.Equal(t, 2, response.Review.UndecidedCount)

	w = doJSON(t, router, http.MethodGet, "/api/v1/timelines/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/timelines/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateSegmentEndpoint(t *testing.T) {
	router := setupRouter(t)
	id := createTestTimeline(t, router)

	w := doJSON(t, router, http.MethodPatch, timelinePath(id, "/segments/1"), gin.H{
		"state":      "keep",
		"trim_start": 0.25,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var segment models.Segment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &segment))
	assert.Equal(t, models.SegmentStateKeep, segment.State)
	assert.InDelta(t, 0.25, segment.TrimStart, 1e-9)

	t.Run("invalid state", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPatch, timelinePath(id, "/segments/1"), gin.H{"state": "bogus"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown segment", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPatch, timelinePath(id, "/segments/42"), gin.H{"state": "keep"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBatchAndDropEndpoints(t *testing.T) {
	router := setupRouter(t)
	id := createTestTimeline(t, router)

	w := doJSON(t, router, http.MethodPost, timelinePath(id, "/segments/batch"), gin.H{
		"segment_ids": []int{1, 2},
		"state":       "keep",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var batch types.BatchUpdateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &batch))
	assert.Equal(t, int64(2), batch.UpdatedCount)

	w = doJSON(t, router, http.MethodPost, timelinePath(id, "/segments/drop-after"), gin.H{"cutoff": 5})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &batch))
	assert.Equal(t, int64(1), batch.UpdatedCount, "only the second segment starts at or after 5s")

	w = doJSON(t, router, http.MethodPost, timelinePath(id, "/segments/drop-before"), gin.H{"cutoff": 5})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &batch))
	assert.Equal(t, int64(1), batch.UpdatedCount)

	t.Run("no matching segments", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, timelinePath(id, "/segments/batch"), gin.H{
			"segment_ids": []int{99},
			"state":       "keep",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown timeline", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/timelines/999/segments/batch", gin.H{
			"segment_ids": []int{1},
			"state":       "keep",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSplitSegmentEndpoint(t *testing.T) {
	router := setupRouter(t)
	id := createTestTimeline(t, router)

	w := doJSON(t, router, http.MethodPost, timelinePath(id, "/segments/1/split"), gin.H{
		"source_split_index":     6,
		"translated_split_index": 5,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response struct {
		Segments []models.Segment `json:"segments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Segments, 2)
	assert.Equal(t, "hello ", response.Segments[0].SourceText)
	assert.Equal(t, "world", response.Segments[1].SourceText)

	t.Run("out of range index", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, timelinePath(id, "/segments/2/split"), gin.H{
			"source_split_index":     100,
			"translated_split_index": 2,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func timelinePath(id uint, suffix string) string {
	return "/api/v1/timelines/" + strconv.FormatUint(uint64(id), 10) + suffix
}
