package dubbing

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/voxlate/dubber-api/api/types"
	"github.com/voxlate/dubber-api/internal/services/dubbing"
	"github.com/voxlate/dubber-api/internal/services/timelines"
)

// Preview synthesizes a single segment for auditioning
// @Summary      Preview segment synthesis
// @Description  Synthesize one segment's translated text with the speaker's cloned voice, without touching the assembled tracks. The speaker's voice sample must already exist from a generation run.
// @Tags         dubbing
// @Accept       json
// @Produce      json
// @Param        id path int true "Timeline ID"
// @Param        segmentId path int true "Segment ID"
// @Param        preview body types.PreviewSegmentRequest false "Optional text override"
// @Success      200 {object} dubbing.PreviewResult
// @Failure      400 {object} types.ErrorResponse "Segment dropped or has no text"
// @Failure      404 {object} types.ErrorResponse "Timeline or segment not found"
// @Failure      409 {object} types.ErrorResponse "Speaker sample not extracted yet"
// @Failure      500 {object} types.ErrorResponse "Synthesis failed"
// @Router       /api/v1/timelines/{id}/dubbing/preview/{segmentId} [post]
func Preview(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		timelineID, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}
		segmentID, ok := types.ParseIntParam(c, "segmentId")
		if !ok {
			return
		}

		// The body is optional; an empty body means preview the stored text
		var req types.PreviewSegmentRequest
		if c.Request.ContentLength > 0 && !types.BindJSONOrError(c, &req) {
			return
		}

		result, err := deps.Orchestrator.PreviewSegment(c.Request.Context(), timelineID, segmentID, req.Text)
		if err != nil {
			switch {
			case errors.Is(err, timelines.ErrTimelineNotFound):
				types.SendNotFound(c, "Timeline not found")
			case errors.Is(err, timelines.ErrSegmentNotFound):
				types.SendNotFound(c, "Segment not found")
			case errors.Is(err, dubbing.ErrNoSpeakerSample):
				types.SendConflict(c, err.Error())
			case errors.Is(err, dubbing.ErrNoTranslatedText),
				errors.Is(err, dubbing.ErrSegmentDropped):
				types.SendBadRequest(c, err.Error())
			default:
				types.SendInternalError(c, "Failed to synthesize preview")
			}
			return
		}

		types.SendSuccess(c, result)
	}
}
