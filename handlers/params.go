package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// idParam parses a positive numeric path parameter.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 0)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// optionalIDQuery parses an optional positive numeric query parameter.
// A present but malformed value is reported as not ok.
func optionalIDQuery(c *gin.Context, name string) (*uint, bool) {
	raw, present := c.GetQuery(name)
	if !present || raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || id == 0 {
		return nil, false
	}
	value := uint(id)
	return &value, true
}
