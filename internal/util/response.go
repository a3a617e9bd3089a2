package util

import "github.com/gin-gonic/gin"

// Error writes the uniform error body. Every failure the API surfaces looks
// the same: {"error": "..."} plus the HTTP status.
func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}
