package timelines

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/voxlate/dubber-api/api/types"
	"github.com/voxlate/dubber-api/internal/models"
	"github.com/voxlate/dubber-api/internal/services/timelines"
)

// UpdateSegment applies a partial update to one segment
// @Summary      Update segment
// @Description  Patch a segment's review state, trims, or texts; absent fields are untouched
// @Tags         timelines
// @Accept       json
// @Produce      json
// @Param        id path int true "Timeline ID"
// @Param        segmentId path int true "Segment ID"
// @Param        patch body types.UpdateSegmentRequest true "Fields to update"
// @Success      200 {object} models.Segment "Updated segment"
// @Failure      400 {object} types.ErrorResponse "Invalid patch"
// @Failure      404 {object} types.ErrorResponse "Timeline or segment not found"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/timelines/{id}/segments/{segmentId} [patch]
func UpdateSegment(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		timelineID, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}
		segmentID, ok := types.ParseIntParam(c, "segmentId")
		if !ok {
			return
		}

		var req types.UpdateSegmentRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		patch := timelines.SegmentPatch{
			TrimStart:      req.TrimStart,
			TrimEnd:        req.TrimEnd,
			SourceText:     req.SourceText,
			TranslatedText: req.TranslatedText,
		}
		if req.State != nil {
			state := models.SegmentState(*req.State)
			patch.State = &state
		}

		segment, err := deps.TimelineService.UpdateSegment(c.Request.Context(), timelineID, segmentID, patch)
		if err != nil {
			respondSegmentError(c, err)
			return
		}

		types.SendSuccess(c, segment)
	}
}

// BatchUpdateSegments applies one review state to many segments
// @Summary      Batch update segment states
// @Tags         timelines
// @Accept       json
// @Produce      json
// @Param        id path int true "Timeline ID"
// @Param        batch body types.BatchUpdateSegmentsRequest true "Segment ids and target state"
// @Success      200 {object} types.BatchUpdateResponse
// @Failure      400 {object} types.ErrorResponse "Invalid state"
// @Failure      404 {object} types.ErrorResponse "Timeline not found or no segments matched"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/timelines/{id}/segments/batch [post]
func BatchUpdateSegments(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		timelineID, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}

		var req types.BatchUpdateSegmentsRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		count, err := deps.TimelineService.BatchUpdateSegments(c.Request.Context(), timelineID, req.SegmentIDs, models.SegmentState(req.State))
		if err != nil {
			respondSegmentError(c, err)
			return
		}
		if count == 0 {
			types.SendNotFound(c, "No matching segments")
			return
		}

		c.JSON(http.StatusOK, types.BatchUpdateResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			UpdatedCount: count,
		})
	}
}

// DropBefore drops every segment that ends at or before the cutoff
// @Summary      Drop segments before a cutoff
// @Tags         timelines
// @Accept       json
// @Produce      json
// @Param        id path int true "Timeline ID"
// @Param        cutoff body types.DropRangeRequest true "Cutoff time in seconds"
// @Success      200 {object} types.BatchUpdateResponse
// @Failure      404 {object} types.ErrorResponse "Timeline not found"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/timelines/{id}/segments/drop-before [post]
func DropBefore(deps *types.Dependencies) gin.HandlerFunc {
	return dropRange(deps, func(deps *types.Dependencies, c *gin.Context, timelineID uint, cutoff float64) (int64, error) {
		return deps.TimelineService.DropSegmentsBefore(c.Request.Context(), timelineID, cutoff)
	})
}

// DropAfter drops every segment that starts at or after the cutoff
// @Summary      Drop segments after a cutoff
// @Tags         timelines
// @Accept       json
// @Produce      json
// @Param        id path int true "Timeline ID"
// @Param        cutoff body types.DropRangeRequest true "Cutoff time in seconds"
// @Success      200 {object} types.BatchUpdateResponse
// @Failure      404 {object} types.ErrorResponse "Timeline not found"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/timelines/{id}/segments/drop-after [post]
func DropAfter(deps *types.Dependencies) gin.HandlerFunc {
	return dropRange(deps, func(deps *types.Dependencies, c *gin.Context, timelineID uint, cutoff float64) (int64, error) {
		return deps.TimelineService.DropSegmentsAfter(c.Request.Context(), timelineID, cutoff)
	})
}

func dropRange(deps *types.Dependencies, drop func(*types.Dependencies, *gin.Context, uint, float64) (int64, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		timelineID, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}

		var req types.DropRangeRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		count, err := drop(deps, c, timelineID, req.Cutoff)
		if err != nil {
			respondSegmentError(c, err)
			return
		}

		c.JSON(http.StatusOK, types.BatchUpdateResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			UpdatedCount: count,
		})
	}
}

// SplitSegment splits one segment into two at text positions
// @Summary      Split segment
// @Description  Split a segment at character positions in its source and translated texts; the split time is proportional to the source-text position
// @Tags         timelines
// @Accept       json
// @Produce      json
// @Param        id path int true "Timeline ID"
// @Param        segmentId path int true "Segment ID"
// @Param        split body types.SplitSegmentRequest true "Split positions"
// @Success      200 {object} object{segments=[]models.Segment} "The two new segments"
// @Failure      400 {object} types.ErrorResponse "Invalid split index"
// @Failure      404 {object} types.ErrorResponse "Timeline or segment not found"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/timelines/{id}/segments/{segmentId}/split [post]
func SplitSegment(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		timelineID, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}
		segmentID, ok := types.ParseIntParam(c, "segmentId")
		if !ok {
			return
		}

		var req types.SplitSegmentRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		segments, err := deps.TimelineService.SplitSegment(c.Request.Context(), timelineID, segmentID, req.SourceSplitIndex, req.TranslatedSplitIndex)
		if err != nil {
			respondSegmentError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"segments": segments})
	}
}

// respondSegmentError maps service errors onto HTTP responses
func respondSegmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, timelines.ErrTimelineNotFound):
		types.SendNotFound(c, "Timeline not found")
	case errors.Is(err, timelines.ErrSegmentNotFound):
		types.SendNotFound(c, "Segment not found")
	case errors.Is(err, timelines.ErrInvalidSegmentState),
		errors.Is(err, timelines.ErrInvalidTrim),
		errors.Is(err, timelines.ErrInvalidSplitIndex):
		types.SendBadRequest(c, err.Error())
	default:
		types.SendInternalError(c, "Failed to update segments")
	}
}
