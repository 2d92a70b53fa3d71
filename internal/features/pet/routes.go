package pet

import "github.com/gin-gonic/gin"

// RegisterRoutes attaches pet endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc) {
	group := router.Group("/pets", auth)
	{
		group.GET("", handler.List)
		group.POST("", handler.Create)
		group.GET("/:petId", handler.Get)
		group.PUT("/:petId", handler.Update)
		group.DELETE("/:petId", handler.Delete)
	}
}
