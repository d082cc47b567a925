package content

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/liangwei/kuaikuaichuhai-website/internal/domain"
	"github.com/liangwei/kuaikuaichuhai-website/internal/pkg"
)

// Handler serves the read-only content API.
type Handler struct {
	svc *Service
}

// NewHandler creates a Handler backed by svc.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// ListArticles handles GET /api/v1/articles.
func (h *Handler) ListArticles(c *gin.Context) {
	typ, err := domain.ParseContentType(c.Query("type"))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	lp := pkg.ParseListParams(c)

	q := domain.ArticleQuery{
		Type:   typ,
		Tag:    c.Query("tag"),
		Page:   lp.Page,
		Limit:  lp.Limit,
		Status: domain.StatusPublished,
	}

	pkg.List(c, h.svc.ListArticles(c.Request.Context(), q))
}

// LatestArticles handles GET /api/v1/articles/latest.
func (h *Handler) LatestArticles(c *gin.Context) {
	pkg.Success(c, h.svc.Latest(c.Request.Context(), pkg.QueryLimit(c, 0)))
}

// Widget handles GET /api/latest-articles. The body is not wrapped in the
// response envelope because embedded scripts read it directly.
func (h *Handler) Widget(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Widget(c.Request.Context()))
}

// GetArticle handles GET /api/v1/articles/:slug.
func (h *Handler) GetArticle(c *gin.Context) {
	detail, err := h.svc.ArticleDetail(c.Request.Context(), c.Param("slug"))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, detail)
}

// RelatedArticles handles GET /api/v1/articles/:slug/related.
func (h *Handler) RelatedArticles(c *gin.Context) {
	related, err := h.svc.RelatedArticles(c.Request.Context(), c.Param("slug"), pkg.QueryLimit(c, 0))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, related)
}

// GetArticleByID handles GET /api/v1/articles/id/:id.
func (h *Handler) GetArticleByID(c *gin.Context) {
	article, err := h.svc.ArticleByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, article)
}

// RecordView handles POST /api/v1/articles/id/:id/views.
func (h *Handler) RecordView(c *gin.Context) {
	h.svc.RecordView(c.Request.Context(), c.Param("id"))
	pkg.Accepted(c)
}

// ListTags handles GET /api/v1/tags.
func (h *Handler) ListTags(c *gin.Context) {
	pkg.Success(c, h.svc.Tags(c.Request.Context(), pkg.QueryLimit(c, 0)))
}

// GetTag handles GET /api/v1/tags/:slug.
func (h *Handler) GetTag(c *gin.Context) {
	tag, err := h.svc.Tag(c.Request.Context(), c.Param("slug"))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, tag)
}

// TagArticles handles GET /api/v1/tags/:slug/articles.
func (h *Handler) TagArticles(c *gin.Context) {
	lp := pkg.ParseListParams(c)
	result, err := h.svc.TagArticles(c.Request.Context(), c.Param("slug"), lp.Page, lp.Limit)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, result)
}

// ListServices handles GET /api/v1/services.
func (h *Handler) ListServices(c *gin.Context) {
	pkg.List(c, h.svc.Services(c.Request.Context(), pkg.QueryLimit(c, 0)))
}

// GetService handles GET /api/v1/services/:slug.
func (h *Handler) GetService(c *gin.Context) {
	slug, err := domain.ParseContentType(c.Param("slug"))
	if err != nil || slug == "" {
		pkg.Error(c, domain.NewAppError(domain.CodeNotFound, "service not found", nil))
		return
	}
	detail, err := h.svc.ServiceDetail(c.Request.Context(), slug)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, detail)
}

// ListCases handles GET /api/v1/cases.
func (h *Handler) ListCases(c *gin.Context) {
	typ, err := domain.ParseContentType(c.Query("type"))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	lp := pkg.ParseListParams(c)
	pkg.List(c, h.svc.ListCases(c.Request.Context(), domain.CaseQuery{Type: typ, Page: lp.Page, Limit: lp.Limit}))
}

// GetCase handles GET /api/v1/cases/:slug.
func (h *Handler) GetCase(c *gin.Context) {
	detail, err := h.svc.CaseDetail(c.Request.Context(), c.Param("slug"))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, detail)
}

// RelatedCases handles GET /api/v1/cases/:slug/related.
func (h *Handler) RelatedCases(c *gin.Context) {
	related, err := h.svc.RelatedCases(c.Request.Context(), c.Param("slug"), pkg.QueryLimit(c, 0))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, related)
}
