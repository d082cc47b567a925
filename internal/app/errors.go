package app

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/liangwei/kuaikuaichuhai-website/internal/pkg"
)

// writeError sends the standard JSON envelope for errors raised outside the
// modules, where no AppError exists.
func writeError(c *gin.Context, code int, message string) {
	if message == "" {
		message = statusMessage(code)
	}
	c.JSON(code, pkg.Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

func noRouteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		writeError(c, http.StatusNotFound, "")
	}
}

func noMethodHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		writeError(c, http.StatusMethodNotAllowed, "")
	}
}

// statusMessage returns a short lower-case label for common error codes.
func statusMessage(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "bad request"
	case http.StatusNotFound:
		return "not found"
	case http.StatusMethodNotAllowed:
		return "method not allowed"
	case http.StatusRequestTimeout:
		return "request timeout"
	case http.StatusTooManyRequests:
		return "too many requests"
	case http.StatusInternalServerError:
		return "internal server error"
	default:
		return "error"
	}
}
