package middleware

import (
	"net/http"

	"github.com/goncalo-araujo/babyshower/internal/guard"
	"github.com/goncalo-araujo/babyshower/internal/util"

	"github.com/gin-gonic/gin"
)

// Capability headers. Each carries either the raw shared secret or a token
// minted by the auth endpoints.
const (
	HeaderAdminToken = "X-Admin-Token"
	HeaderGuestToken = "X-Guest-Token"
)

// RequireAdmin only lets admin-capable requests through.
func RequireAdmin(g *guard.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !g.HasRole(guard.RoleAdmin, c.GetHeader(HeaderAdminToken)) {
			util.Error(c, http.StatusUnauthorized, "unauthorized")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireGuestOrAdmin lets requests through that hold at least the guest
// capability. Admin implies guest.
func RequireGuestOrAdmin(g *guard.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		if g.HasRole(guard.RoleAdmin, c.GetHeader(HeaderAdminToken)) ||
			g.HasRole(guard.RoleGuest, c.GetHeader(HeaderGuestToken)) {
			c.Next()
			return
		}
		util.Error(c, http.StatusUnauthorized, "unauthorized")
		c.Abort()
	}
}
