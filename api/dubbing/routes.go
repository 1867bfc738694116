package dubbing

import (
	"github.com/gin-gonic/gin"
	"github.com/voxlate/dubber-api/api/types"
)

// RegisterRoutes registers dubbing pipeline routes under a timeline
func RegisterRoutes(group *gin.RouterGroup, deps *types.Dependencies) {
	group.GET("/:id/dubbing/config", GetConfig(deps))
	group.PATCH("/:id/dubbing/config", UpdateConfig(deps))

	group.GET("/:id/dubbing/speakers", ListSpeakers(deps))
	group.PATCH("/:id/dubbing/speakers/:speakerId", UpdateSpeaker(deps))

	group.POST("/:id/dubbing/separate", Separate(deps))
	group.GET("/:id/dubbing/separation", GetSeparationStatus(deps))

	group.POST("/:id/dubbing/generate", Generate(deps))
	group.GET("/:id/dubbing/status", GetStatus(deps))

	group.POST("/:id/dubbing/preview/:segmentId", Preview(deps))

	group.GET("/:id/dubbing/video", GetVideo(deps))
	group.GET("/:id/dubbing/audio/:track", GetAudioTrack(deps))
}
