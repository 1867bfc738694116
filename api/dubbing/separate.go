package dubbing

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/voxlate/dubber-api/api/types"
	"github.com/voxlate/dubber-api/internal/models"
	"github.com/voxlate/dubber-api/internal/services/timelines"
)

// Separate triggers stem separation for a timeline
// @Summary      Trigger audio separation
// @Description  Queue a background job that splits the source audio into vocal, background-music and effects stems
// @Tags         dubbing
// @Produce      json
// @Param        id path int true "Timeline ID"
// @Success      202 {object} types.TriggerResponse "Separation queued"
// @Failure      404 {object} types.ErrorResponse "Timeline not found"
// @Failure      409 {object} types.ErrorResponse "Separation already in progress"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/timelines/{id}/dubbing/separate [post]
func Separate(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		timelineID, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}

		started, err := deps.Orchestrator.TryBeginSeparation(c.Request.Context(), timelineID)
		if err != nil {
			if errors.Is(err, timelines.ErrTimelineNotFound) {
				types.SendNotFound(c, "Timeline not found")
				return
			}
			types.SendInternalError(c, "Failed to start separation")
			return
		}
		if !started {
			types.SendConflict(c, "Separation already in progress")
			return
		}

		job, err := deps.JobService.EnqueueUniqueJob(
			c.Request.Context(),
			models.JobTypeAudioSeparation,
			models.JobPayload{"timeline_id": timelineID},
			"timeline_id",
		)
		if err != nil {
			// Release the claim taken by TryBeginSeparation so the next
			// trigger is not rejected as already in progress
			deps.StatusStore.SetSeparation(timelineID, models.SeparationStatus{
				Status: models.SeparationFailed,
				Error:  "failed to enqueue separation job",
			})
			types.SendInternalError(c, "Failed to enqueue separation job")
			return
		}

		c.JSON(http.StatusAccepted, types.TriggerResponse{
			BaseResponse: types.BaseResponse{
				Status:  types.StatusQueued,
				Message: "Separation queued",
			},
			JobID: job.ID,
		})
	}
}

// GetSeparationStatus returns a timeline's separation status
// @Summary      Get separation status
// @Description  Report the current separation state; a timeline with no run this process lifetime reads as pending
// @Tags         dubbing
// @Produce      json
// @Param        id path int true "Timeline ID"
// @Success      200 {object} models.SeparationStatus
// @Router       /api/v1/timelines/{id}/dubbing/separation [get]
func GetSeparationStatus(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		timelineID, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}

		st, ok := deps.StatusStore.GetSeparation(timelineID)
		if !ok {
			st = models.SeparationStatus{Status: models.SeparationPending}
		}
		types.SendSuccess(c, st)
	}
}
