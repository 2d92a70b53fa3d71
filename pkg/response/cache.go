package response

import (
	"github.com/gin-gonic/gin"
)

// SuccessNoCache sends a successful JSON response with no-cache headers.
// Used for responses carrying credentials.
func SuccessNoCache(c *gin.Context, status int, data interface{}, message string) {
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	Success(c, status, data, message, nil)
}
