package timelines

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/voxlate/dubber-api/api/types"
	"github.com/voxlate/dubber-api/internal/services/timelines"
)

// Get retrieves a timeline with its segments and review summary
// @Summary      Get timeline
// @Description  Retrieve a timeline, its segments in chronological order, and derived review counters
// @Tags         timelines
// @Produce      json
// @Param        id path int true "Timeline ID"
// @Success      200 {object} object{timeline=models.Timeline,review=models.ReviewSummary}
// @Failure      404 {object} types.ErrorResponse "Timeline not found"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/timelines/{id} [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		timelineID, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}

		timeline, err := deps.TimelineService.GetTimeline(c.Request.Context(), timelineID)
		if err != nil {
			if errors.Is(err, timelines.ErrTimelineNotFound) {
				types.SendNotFound(c, "Timeline not found")
				return
			}
			types.SendInternalError(c, "Failed to retrieve timeline")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"timeline": timeline,
			"review":   timeline.Review(),
		})
	}
}
