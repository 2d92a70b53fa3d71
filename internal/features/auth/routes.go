package auth

import "github.com/gin-gonic/gin"

// RegisterRoutes attaches authentication endpoints to the router. The
// /owners aliases are the legacy paths still used by the web client.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc) {
	group := router.Group("/auth")
	{
		group.POST("/register", handler.Register)
		group.POST("/login", handler.Login)
		group.POST("/refresh-token", handler.RefreshToken)
		group.POST("/logout", auth, handler.Logout)
	}

	router.POST("/owners", handler.Register)
	router.POST("/owners/login", handler.Login)
}
