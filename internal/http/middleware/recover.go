package middleware

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/noteeline-backend/internal/http/response"
	"github.com/yungbote/noteeline-backend/internal/platform/logger"
)

// Recover turns a handler panic into a 500 error envelope.
func Recover(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			log.Error("panic in handler", "path", c.Request.URL.Path, "panic", fmt.Sprint(rec), "stack", string(debug.Stack()))
			if c.Writer.Written() {
				c.Abort()
				return
			}
			response.RespondError(c, errors.New("internal server error"))
		}()
		c.Next()
	}
}
