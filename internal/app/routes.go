package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// healthTimeout bounds the content store probe.
const healthTimeout = 2 * time.Second

// ContentStore is the part of the content repository the health check needs.
type ContentStore interface {
	Provider() string
	Ping(ctx context.Context) error
}

// RouteDeps holds all dependencies needed to register routes.
type RouteDeps struct {
	Modules []Module
	Store   ContentStore
}

// RegisterRoutes registers all application routes on the given gin.Engine.
func RegisterRoutes(r *gin.Engine, deps *RouteDeps) error {
	if r == nil {
		return errors.New("router is nil")
	}
	if deps == nil {
		return errors.New("route dependencies are nil")
	}
	if len(deps.Modules) == 0 {
		return errors.New("at least one module is required")
	}
	if deps.Store == nil {
		return errors.New("content store is required")
	}

	r.GET("/health", healthHandler(deps.Store))

	api := r.Group("/api/v1")
	public := r.Group("/api")

	for i, m := range deps.Modules {
		if m == nil {
			return fmt.Errorf("module at index %d is nil", i)
		}
		m.RegisterRoutes(api, public)
	}

	r.HandleMethodNotAllowed = true
	r.NoRoute(noRouteHandler())
	r.NoMethod(noMethodHandler())

	return nil
}

// healthHandler pings the content store. The site keeps serving when the
// store is down, so a failed ping reports "degraded" with 503.
func healthHandler(store ContentStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		contentStatus := "ok"
		status := "ok"
		code := http.StatusOK
		if err := store.Ping(ctx); err != nil {
			contentStatus = "error"
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status": status,
			"components": gin.H{
				"content": gin.H{
					"provider": store.Provider(),
					"status":   contentStatus,
				},
			},
		})
	}
}
