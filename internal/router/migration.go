package router

import (
	"pvefleet/internal/middleware"

	"github.com/gin-gonic/gin"
)

func InitMigrationRouter(
	deps RouterDeps,
	r *gin.RouterGroup,
) {
	strictAuthRouter := r.Group("/").Use(middleware.StrictAuth(deps.JWT, deps.Logger))
	{
		strictAuthRouter.POST("/migrations", deps.MigrationHandler.StartMigration)
		strictAuthRouter.GET("/migrations", deps.MigrationHandler.ListTasks)
		strictAuthRouter.GET("/migrations/:id", deps.MigrationHandler.GetTask)
		strictAuthRouter.DELETE("/migrations/:id", deps.MigrationHandler.CancelTask)
	}
}
