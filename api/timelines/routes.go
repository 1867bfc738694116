package timelines

import (
	"github.com/gin-gonic/gin"
	"github.com/voxlate/dubber-api/api/types"
)

// RegisterRoutes registers timeline and segment review routes
func RegisterRoutes(group *gin.RouterGroup, deps *types.Dependencies) {
	group.POST("", Create(deps))
	group.POST("/import", Import(deps))
	group.GET("/:id", Get(deps))

	group.PATCH("/:id/segments/:segmentId", UpdateSegment(deps))
	group.POST("/:id/segments/batch", BatchUpdateSegments(deps))
	group.POST("/:id/segments/drop-before", DropBefore(deps))
	group.POST("/:id/segments/drop-after", DropAfter(deps))
	group.POST("/:id/segments/:segmentId/split", SplitSegment(deps))
}
