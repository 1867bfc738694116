package dubbing

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/voxlate/dubber-api/api/types"
	"github.com/voxlate/dubber-api/internal/models"
)

// GetVideo serves a timeline's dubbed video file
// @Summary      Download dubbed video
// @Description  Serve the remuxed video with the dubbed audio track; available after a completed generation run
// @Tags         dubbing
// @Produce      video/mp4
// @Param        id path int true "Timeline ID"
// @Success      200 {file} file "Dubbed video"
// @Failure      404 {object} types.ErrorResponse "Timeline not found or no dubbed video yet"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/timelines/{id}/dubbing/video [get]
func GetVideo(deps *types.Dependencies) gin.HandlerFunc {
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

		serveMediaFile(c, timeline.OutputVideoPath, "No dubbed video available")
	}
}

// GetAudioTrack serves one of a timeline's audio artifacts
// @Summary      Download audio track
// @Description  Serve a separated stem (vocal, bgm, sfx), the assembled dubbed voice track, or the final mixed track
// @Tags         dubbing
// @Produce      audio/wav
// @Param        id path int true "Timeline ID"
// @Param        track path string true "Track name" Enums(vocals, vocal, bgm, sfx, dubbed, mixed)
// @Success      200 {file} file "Audio track"
// @Failure      400 {object} types.ErrorResponse "Unknown track name"
// @Failure      404 {object} types.ErrorResponse "Track not available"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/timelines/{id}/dubbing/audio/{track} [get]
func GetAudioTrack(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		timelineID, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}
		track := c.Param("track")

		var path string
		switch track {
		case "vocal", "vocals", "bgm", "sfx":
			sep, ok := deps.StatusStore.GetSeparation(timelineID)
			if !ok || sep.Status != models.SeparationCompleted {
				types.SendNotFound(c, "Separation has not completed for this timeline")
				return
			}
			switch track {
			case "vocal", "vocals":
				path = sep.VocalsPath
			case "bgm":
				path = sep.BgmPath
			case "sfx":
				path = sep.SfxPath
			}
		case "dubbed":
			path = deps.Artifacts.VocalTrackPath(timelineID)
		case "mixed":
			timeline, err := deps.TimelineService.GetTimeline(c.Request.Context(), timelineID)
			if err != nil {
				respondTimelineError(c, err)
				return
			}
			path = timeline.MixedAudioPath
		default:
			types.SendBadRequest(c, "Unknown track: "+track)
			return
		}

		serveMediaFile(c, path, "Track not available")
	}
}

// serveMediaFile streams a file from the artifact area, treating an
// empty or missing path as not found
func serveMediaFile(c *gin.Context, path, notFoundMsg string) {
	if path == "" {
		types.SendNotFound(c, notFoundMsg)
		return
	}
	if _, err := os.Stat(path); err != nil {
		types.SendNotFound(c, notFoundMsg)
		return
	}
	c.File(path)
}
