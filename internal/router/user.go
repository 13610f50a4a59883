package router

import (
	"pvefleet/internal/middleware"

	"github.com/gin-gonic/gin"
)

func InitUserRouter(
	deps RouterDeps,
	r *gin.RouterGroup,
) {
	// 无鉴权路由组
	noAuthRouter := r.Group("/")
	{
		noAuthRouter.POST("/login", deps.UserHandler.Login)
	}

	// 严格鉴权路由组
	strictAuthRouter := r.Group("/").Use(middleware.StrictAuth(deps.JWT, deps.Logger))
	{
		strictAuthRouter.GET("/user", deps.UserHandler.GetProfile)
		strictAuthRouter.PUT("/user", deps.UserHandler.UpdateProfile)
	}
}
