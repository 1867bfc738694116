package dubbing

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/voxlate/dubber-api/api/types"
	"github.com/voxlate/dubber-api/internal/services/speakers"
)

// ListSpeakers returns a timeline's speaker voice registry
// @Summary      List speakers
// @Description  List the speakers discovered on a timeline's segments with their voice-sample and enablement state
// @Tags         dubbing
// @Produce      json
// @Param        id path int true "Timeline ID"
// @Success      200 {object} object{speakers=[]models.SpeakerVoice}
// @Failure      404 {object} types.ErrorResponse "Timeline not found"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/timelines/{id}/dubbing/speakers [get]
func ListSpeakers(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		timelineID, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}

		timeline, err := deps.TimelineService.GetTimeline(c.Request.Context(), timelineID)
		if err != nil {
			respondTimelineError(c, err)
			return
		}

		voices, err := deps.SpeakerService.ListSpeakers(c.Request.Context(), timeline)
		if err != nil {
			types.SendInternalError(c, "Failed to list speakers")
			return
		}

		c.JSON(http.StatusOK, gin.H{"speakers": voices})
	}
}

// UpdateSpeaker applies a partial update to one registry entry
// @Summary      Update speaker
// @Description  Patch a speaker's display name or enablement; disabled speakers are skipped during sample extraction
// @Tags         dubbing
// @Accept       json
// @Produce      json
// @Param        id path int true "Timeline ID"
// @Param        speakerId path string true "Speaker ID"
// @Param        patch body types.UpdateSpeakerRequest true "Fields to update"
// @Success      200 {object} models.SpeakerVoice "Updated speaker"
// @Failure      400 {object} types.ErrorResponse "Empty display name"
// @Failure      404 {object} types.ErrorResponse "Timeline or speaker not found"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/timelines/{id}/dubbing/speakers/{speakerId} [patch]
func UpdateSpeaker(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		timelineID, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}
		speakerID := c.Param("speakerId")

		var req types.UpdateSpeakerRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		timeline, err := deps.TimelineService.GetTimeline(c.Request.Context(), timelineID)
		if err != nil {
			respondTimelineError(c, err)
			return
		}

		voice, err := deps.SpeakerService.UpdateSpeaker(c.Request.Context(), timeline, speakerID, speakers.SpeakerPatch{
			DisplayName: req.DisplayName,
			Enabled:     req.Enabled,
		})
		if err != nil {
			switch {
			case errors.Is(err, speakers.ErrSpeakerNotFound):
				types.SendNotFound(c, "Speaker not found")
			case errors.Is(err, speakers.ErrEmptyDisplayName):
				types.SendBadRequest(c, err.Error())
			default:
				types.SendInternalError(c, "Failed to update speaker")
			}
			return
		}

		types.SendSuccess(c, voice)
	}
}
