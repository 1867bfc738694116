package jobs

import (
	"github.com/gin-gonic/gin"
	"github.com/voxlate/dubber-api/api/types"
)

// RegisterRoutes registers job status routes
func RegisterRoutes(group *gin.RouterGroup, deps *types.Dependencies) {
	group.GET("/:id", Get(deps))
}
