package contact

import "github.com/gin-gonic/gin"

// Module implements the app.Module interface for contact submissions.
type Module struct {
	handler *Handler
}

// NewModule creates a Module with the given handler.
// Panics if h is nil.
func NewModule(h *Handler) *Module {
	if h == nil {
		panic("contact.NewModule: handler must not be nil")
	}
	return &Module{handler: h}
}

// RegisterRoutes registers the contact API route.
func (m *Module) RegisterRoutes(api *gin.RouterGroup, _ *gin.RouterGroup) {
	api.POST("/contacts", m.handler.Create)
}
