package dubbing

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/voxlate/dubber-api/api/types"
	"github.com/voxlate/dubber-api/internal/models"
	"github.com/voxlate/dubber-api/internal/services/timelines"
)

// Generate triggers a full dubbing pipeline run
// @Summary      Trigger dubbing generation
// @Description  Queue a background job that runs separation, voice-sample extraction, per-segment synthesis, mixing and remuxing. Only one run per timeline can be in flight; re-triggering while a run is active reports the current status instead of restarting it.
// @Tags         dubbing
// @Produce      json
// @Param        id path int true "Timeline ID"
// @Success      202 {object} types.TriggerResponse "Generation queued"
// @Failure      404 {object} types.ErrorResponse "Timeline not found"
// @Failure      409 {object} object{status=string,error=string,dubbing=models.DubbingStatus} "Generation already in progress"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/timelines/{id}/dubbing/generate [post]
func Generate(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		timelineID, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}

		current, started, err := deps.Orchestrator.TryBegin(c.Request.Context(), timelineID)
		if err != nil {
			if errors.Is(err, timelines.ErrTimelineNotFound) {
				types.SendNotFound(c, "Timeline not found")
				return
			}
			types.SendInternalError(c, "Failed to start dubbing")
			return
		}
		if !started {
			// Report the running pipeline's progress untouched
			c.JSON(http.StatusConflict, gin.H{
				"status":  types.StatusError,
				"error":   "Dubbing already in progress",
				"dubbing": current,
			})
			return
		}

		job, err := deps.JobService.EnqueueUniqueJob(
			c.Request.Context(),
			models.JobTypeDubbingGeneration,
			models.JobPayload{"timeline_id": timelineID},
			"timeline_id",
		)
		if err != nil {
			// Release the claim taken by TryBegin so the timeline does
			// not read as separating forever with no job behind it
			deps.StatusStore.UpdateDubbing(timelineID, func(st *models.DubbingStatus) {
				st.Status = models.DubbingFailed
				st.CurrentStep = "Failed"
				st.Error = "failed to enqueue dubbing job"
			})
			types.SendInternalError(c, "Failed to enqueue dubbing job")
			return
		}

		c.JSON(http.StatusAccepted, types.TriggerResponse{
			BaseResponse: types.BaseResponse{
				Status:  types.StatusQueued,
				Message: "Dubbing generation queued",
			},
			JobID: job.ID,
		})
	}
}

// GetStatus returns a timeline's dubbing pipeline status
// @Summary      Get dubbing status
// @Description  Report the pipeline stage, progress and segment counters; a timeline with no run this process lifetime reads as pending
// @Tags         dubbing
// @Produce      json
// @Param        id path int true "Timeline ID"
// @Success      200 {object} models.DubbingStatus
// @Router       /api/v1/timelines/{id}/dubbing/status [get]
func GetStatus(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		timelineID, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}

		st, ok := deps.StatusStore.GetDubbing(timelineID)
		if !ok {
			st = models.DubbingStatus{Status: models.DubbingPending}
		}
		types.SendSuccess(c, st)
	}
}
