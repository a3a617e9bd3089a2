package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/goncalo-araujo/babyshower/internal/guard"
	"github.com/goncalo-araujo/babyshower/internal/ledger"
	"github.com/goncalo-araujo/babyshower/internal/util"

	"github.com/gin-gonic/gin"
)

// respondError maps component errors onto the HTTP taxonomy. Anything
// unexpected becomes a generic 500; internal error text never reaches the
// caller.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		util.Error(c, http.StatusNotFound, "not found")
	case errors.Is(err, ledger.ErrAlreadyFunded):
		util.Error(c, http.StatusConflict, "item is already fully funded")
	case errors.Is(err, guard.ErrUnauthorized):
		util.Error(c, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, guard.ErrRateLimited):
		util.Error(c, http.StatusTooManyRequests, "too many attempts, try again later")
	default:
		util.Error(c, http.StatusInternalServerError, "internal error")
	}
}

// parseID reads a positive numeric :id path parameter.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}
