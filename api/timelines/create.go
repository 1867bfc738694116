package timelines

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/voxlate/dubber-api/api/types"
	"github.com/voxlate/dubber-api/internal/models"
	"github.com/voxlate/dubber-api/internal/services/timelines"
	"github.com/voxlate/dubber-api/pkg/transcript"
)

// Create creates a new timeline from an explicit segment list
// @Summary      Create timeline
// @Description  Create a timeline from a list of transcript segments
// @Tags         timelines
// @Accept       json
// @Produce      json
// @Param        timeline body types.CreateTimelineRequest true "Timeline data"
// @Success      201 {object} models.Timeline "Created timeline"
// @Failure      400 {object} types.ErrorResponse "Invalid request"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/timelines [post]
func Create(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.CreateTimelineRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		timeline := &models.Timeline{
			Title:           req.Title,
			SourceVideoPath: req.SourceVideoPath,
			SourceLanguage:  req.SourceLanguage,
			SourceDuration:  req.SourceDuration,
		}
		for _, seg := range req.Segments {
			segment := models.Segment{
				Start:          seg.Start,
				End:            seg.End,
				SourceText:     seg.SourceText,
				TranslatedText: seg.TranslatedText,
				Speaker:        seg.Speaker,
				State:          models.SegmentState(seg.State),
			}
			if seg.ID != nil {
				segment.SegmentID = *seg.ID
			}
			timeline.Segments = append(timeline.Segments, segment)
		}

		if err := deps.TimelineService.CreateTimeline(c.Request.Context(), timeline); err != nil {
			switch {
			case errors.Is(err, timelines.ErrNoSegments),
				errors.Is(err, timelines.ErrInvalidTimeRange),
				errors.Is(err, timelines.ErrDuplicateSegmentID),
				errors.Is(err, timelines.ErrInvalidSegmentState):
				types.SendBadRequest(c, err.Error())
			default:
				types.SendInternalError(c, "Failed to create timeline")
			}
			return
		}

		types.SendCreated(c, timeline)
	}
}

// importRequest wraps a raw transcript for timeline import
type importRequest struct {
	Title           string `json:"title"`
	SourceVideoPath string `json:"source_video_path"`
	SourceLanguage  string `json:"source_language"`
	Filename        string `json:"filename"`
	Format          string `json:"format"`
	Content         string `json:"content" binding:"required"`
}

// Import creates a timeline from a VTT, SRT or JSON transcript
// @Summary      Import timeline from transcript
// @Description  Parse a subtitle/transcript file and create a timeline from its cues
// @Tags         timelines
// @Accept       json
// @Produce      json
// @Param        transcript body importRequest true "Transcript content"
// @Success      201 {object} models.Timeline "Created timeline"
// @Failure      400 {object} types.ErrorResponse "Invalid or unparsable transcript"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/timelines/import [post]
func Import(deps *types.Dependencies) gin.HandlerFunc {
	parser := transcript.NewParser()

	return func(c *gin.Context) {
		var req importRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		format := transcript.Format(req.Format)
		if format == "" {
			format = transcript.DetectFormat(req.Filename, req.Content)
		}

		parsed, err := parser.Parse(req.Content, format)
		if err != nil {
			types.SendBadRequest(c, "Failed to parse transcript: "+err.Error())
			return
		}
		if len(parsed.Cues) == 0 {
			types.SendBadRequest(c, "Transcript contains no cues")
			return
		}

		timeline := &models.Timeline{
			Title:           req.Title,
			SourceVideoPath: req.SourceVideoPath,
			SourceLanguage:  req.SourceLanguage,
		}
		for _, cue := range parsed.Cues {
			timeline.Segments = append(timeline.Segments, models.Segment{
				Start:          cue.Start,
				End:            cue.End,
				SourceText:     cue.Text,
				TranslatedText: cue.TranslatedText,
				Speaker:        cue.Speaker,
			})
		}

		if err := deps.TimelineService.CreateTimeline(c.Request.Context(), timeline); err != nil {
			if errors.Is(err, timelines.ErrInvalidTimeRange) {
				types.SendBadRequest(c, err.Error())
				return
			}
			types.SendInternalError(c, "Failed to create timeline")
			return
		}

		types.SendCreated(c, timeline)
	}
}
