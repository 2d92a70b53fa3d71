package rutcheck

import "github.com/gin-gonic/gin"

// RegisterRoutes attaches the public RUT helpers to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler) {
	group := router.Group("/rut")
	{
		group.POST("/validate", handler.Validate)
		group.POST("/format", handler.Format)
		group.GET("/check-digit", handler.CheckDigit)
	}
}
