package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS answers preflights unconditionally and allows the declared methods
// and capability headers on every response.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, "+HeaderAdminToken+", "+HeaderGuestToken)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
