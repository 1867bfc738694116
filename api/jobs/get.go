package jobs

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/voxlate/dubber-api/api/types"
	"github.com/voxlate/dubber-api/internal/services/jobs"
)

// Get returns one background job's status and result
// @Summary      Get job
// @Description  Retrieve a background job's status, progress, result and error classification
// @Tags         jobs
// @Produce      json
// @Param        id path int true "Job ID"
// @Success      200 {object} models.Job
// @Failure      404 {object} types.ErrorResponse "Job not found"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/jobs/{id} [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}

		job, err := deps.JobService.GetJob(c.Request.Context(), jobID)
		if err != nil {
			if errors.Is(err, jobs.ErrJobNotFound) {
				types.SendNotFound(c, "Job not found")
				return
			}
			types.SendInternalError(c, "Failed to retrieve job")
			return
		}

		types.SendSuccess(c, job)
	}
}
