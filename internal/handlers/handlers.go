package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// parseIDParam reads a numeric path parameter. A zero second return means the
// value was missing or not a positive integer.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
