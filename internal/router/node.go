package router

import (
	"pvefleet/internal/middleware"

	"github.com/gin-gonic/gin"
)

func InitNodeRouter(
	deps RouterDeps,
	r *gin.RouterGroup,
) {
	strictAuthRouter := r.Group("/").Use(middleware.StrictAuth(deps.JWT, deps.Logger))
	{
		strictAuthRouter.POST("/nodes", deps.NodeHandler.CreateNode)
		strictAuthRouter.GET("/nodes", deps.NodeHandler.ListNodes)
		strictAuthRouter.GET("/nodes/:id", deps.NodeHandler.GetNode)
		strictAuthRouter.PUT("/nodes/:id", deps.NodeHandler.UpdateNode)
		strictAuthRouter.DELETE("/nodes/:id", deps.NodeHandler.DeleteNode)
		strictAuthRouter.POST("/nodes/:id/test", deps.NodeHandler.TestNode)
		strictAuthRouter.POST("/nodes/:id/sync", deps.NodeHandler.SyncNode)
		strictAuthRouter.GET("/guests", deps.NodeHandler.ListGuests)
	}
}
