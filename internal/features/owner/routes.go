package owner

import "github.com/gin-gonic/gin"

// RegisterRoutes attaches the authenticated owner endpoints.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc) {
	owners := router.Group("/owners", auth)
	{
		owners.GET("/me", handler.Me)
		owners.PUT("/me", handler.UpdateMe)
		owners.DELETE("/me", handler.DeleteMe)
		owners.GET("/:rut", handler.GetByRUT)
	}
}
