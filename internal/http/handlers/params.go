package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type moveRequest struct {
	From *int `json:"from" binding:"required"`
	To   *int `json:"to" binding:"required"`
}

type textRequest struct {
	Text string `json:"text"`
}

func indexParam(c *gin.Context, name string) (int, error) {
	i, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return i, nil
}

// wantsStream is true for ?stream=true or an Accept header asking for an event stream.
func wantsStream(c *gin.Context) bool {
	if v := c.Query("stream"); v != "" {
		b, err := strconv.ParseBool(v)
		return err == nil && b
	}
	return strings.Contains(c.GetHeader("Accept"), "text/event-stream")
}
