package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/liangwei/kuaikuaichuhai-website/internal/pkg"
)

// Timeout returns a gin middleware that puts a deadline on the request
// context. Content store calls made with that context give up when it
// passes. A handler that returns after the deadline without writing gets a
// 408 envelope. d <= 0 disables the middleware.
func Timeout(d time.Duration) gin.HandlerFunc {
	if d <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if c.Writer.Written() || !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return
		}
		c.AbortWithStatusJSON(http.StatusRequestTimeout, pkg.Response{
			Code:    http.StatusRequestTimeout,
			Message: "request timeout",
			Data:    nil,
		})
	}
}
