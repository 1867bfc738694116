package dubbing

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/voxlate/dubber-api/api/types"
	"github.com/voxlate/dubber-api/internal/services/dubconfig"
	"github.com/voxlate/dubber-api/internal/services/timelines"
)

// GetConfig returns a timeline's mixing configuration
// @Summary      Get dubbing config
// @Description  Retrieve the mixing configuration for a timeline; defaults are returned when nothing has been saved yet
// @Tags         dubbing
// @Produce      json
// @Param        id path int true "Timeline ID"
// @Success      200 {object} models.DubbingConfig
// @Failure      404 {object} types.ErrorResponse "Timeline not found"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/timelines/{id}/dubbing/config [get]
func GetConfig(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		timelineID, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}

		if _, err := deps.TimelineService.GetTimeline(c.Request.Context(), timelineID); err != nil {
			respondTimelineError(c, err)
			return
		}

		config, err := deps.ConfigService.GetConfig(c.Request.Context(), timelineID)
		if err != nil {
			types.SendInternalError(c, "Failed to retrieve dubbing config")
			return
		}

		types.SendSuccess(c, config)
	}
}

// UpdateConfig applies a partial update to a timeline's mixing config
// @Summary      Update dubbing config
// @Description  Patch the mixing configuration; absent fields keep their current values
// @Tags         dubbing
// @Accept       json
// @Produce      json
// @Param        id path int true "Timeline ID"
// @Param        config body types.UpdateConfigRequest true "Fields to update"
// @Success      200 {object} models.DubbingConfig "Updated config"
// @Failure      400 {object} types.ErrorResponse "Volume out of range or empty language"
// @Failure      404 {object} types.ErrorResponse "Timeline not found"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/timelines/{id}/dubbing/config [patch]
func UpdateConfig(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		timelineID, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}

		var req types.UpdateConfigRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		if _, err := deps.TimelineService.GetTimeline(c.Request.Context(), timelineID); err != nil {
			respondTimelineError(c, err)
			return
		}

		config, err := deps.ConfigService.UpdateConfig(c.Request.Context(), timelineID, dubconfig.ConfigPatch{
			TargetLanguage: req.TargetLanguage,
			BgmVolume:      req.BgmVolume,
			SfxVolume:      req.SfxVolume,
			VocalVolume:    req.VocalVolume,
			KeepBgm:        req.KeepBgm,
			KeepSfx:        req.KeepSfx,
		})
		if err != nil {
			switch {
			case errors.Is(err, dubconfig.ErrVolumeOutOfRange),
				errors.Is(err, dubconfig.ErrEmptyLanguage):
				types.SendBadRequest(c, err.Error())
			default:
				types.SendInternalError(c, "Failed to update dubbing config")
			}
			return
		}

		types.SendSuccess(c, config)
	}
}

// respondTimelineError maps timeline lookup errors onto HTTP responses
func respondTimelineError(c *gin.Context, err error) {
	if errors.Is(err, timelines.ErrTimelineNotFound) {
		types.SendNotFound(c, "Timeline not found")
		return
	}
	types.SendInternalError(c, "Failed to retrieve timeline")
}
