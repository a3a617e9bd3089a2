package handler

import (
	"net/http"

	"github.com/goncalo-araujo/babyshower/internal/guard"
	"github.com/goncalo-araujo/babyshower/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthHandler verifies shared-secret passwords and mints role tokens.
type AuthHandler struct {
	Guard *guard.Guard
}

func NewAuthHandler(g *guard.Guard) *AuthHandler {
	return &AuthHandler{Guard: g}
}

type authReq struct {
	Password string `json:"password" binding:"required"`
}

// Login returns a handler for one role. The guard refuses to even look at
// the password once the identity's daily attempt budget is spent.
func (h *AuthHandler) Login(role guard.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req authReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, "invalid request body")
			return
		}

		token, err := h.Guard.Authenticate(role, req.Password, c.ClientIP())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
	}
}
