package content

import "github.com/gin-gonic/gin"

// Module implements the app.Module interface for the content API.
type Module struct {
	handler *Handler
}

// NewModule creates a Module with the given handler.
// Panics if h is nil.
func NewModule(h *Handler) *Module {
	if h == nil {
		panic("content.NewModule: handler must not be nil")
	}
	return &Module{handler: h}
}

// RegisterRoutes registers the versioned content API and the widget route.
func (m *Module) RegisterRoutes(api *gin.RouterGroup, public *gin.RouterGroup) {
	api.GET("/articles", m.handler.ListArticles)
	api.GET("/articles/latest", m.handler.LatestArticles)
	api.GET("/articles/id/:id", m.handler.GetArticleByID)
	api.POST("/articles/id/:id/views", m.handler.RecordView)
	api.GET("/articles/:slug", m.handler.GetArticle)
	api.GET("/articles/:slug/related", m.handler.RelatedArticles)

	api.GET("/tags", m.handler.ListTags)
	api.GET("/tags/:slug", m.handler.GetTag)
	api.GET("/tags/:slug/articles", m.handler.TagArticles)

	api.GET("/services", m.handler.ListServices)
	api.GET("/services/:slug", m.handler.GetService)

	api.GET("/cases", m.handler.ListCases)
	api.GET("/cases/:slug", m.handler.GetCase)
	api.GET("/cases/:slug/related", m.handler.RelatedCases)

	public.GET("/latest-articles", m.handler.Widget)
}
