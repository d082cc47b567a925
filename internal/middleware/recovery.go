package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/liangwei/kuaikuaichuhai-website/internal/pkg"
)

// Recovery returns a gin middleware that recovers from panics, logs the value
// with its stack trace and answers with the standard JSON envelope:
//
//	{"code": 500, "message": "internal server error", "data": null}
//
// If the handler already started writing, only the log entry is produced.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.ErrorContext(c.Request.Context(), "panic recovered",
					slog.Any("panic", err),
					slog.String("method", c.Request.Method),
					slog.String("path", c.Request.URL.Path),
					slog.String("route", c.FullPath()),
					slog.String("stack", string(debug.Stack())),
				)

				if c.Writer.Written() {
					c.Abort()
					return
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, pkg.Response{
					Code:    http.StatusInternalServerError,
					Message: "internal server error",
					Data:    nil,
				})
			}
		}()
		c.Next()
	}
}
