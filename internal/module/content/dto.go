package content

import "github.com/liangwei/kuaikuaichuhai-website/internal/domain"

// ArticleDetail is the payload of the article page.
type ArticleDetail struct {
	Article     domain.Article       `json:"article"`
	ContentHTML string               `json:"contentHtml,omitempty"`
	Style       domain.CategoryStyle `json:"style"`
	Sidebar     Sidebar              `json:"sidebar"`
}

// Sidebar holds the side panels shown next to an article.
type Sidebar struct {
	Latest []domain.Article `json:"latest"`
	Tags   []domain.Tag     `json:"tags"`
}

// CaseDetail is the payload of the case study page.
type CaseDetail struct {
	Case        domain.Case          `json:"case"`
	ContentHTML string               `json:"contentHtml,omitempty"`
	Style       domain.CategoryStyle `json:"style"`
}

// ServiceDetail is the payload of a service landing page.
type ServiceDetail struct {
	Service     domain.Service       `json:"service"`
	ContentHTML string               `json:"contentHtml,omitempty"`
	Style       domain.CategoryStyle `json:"style"`
}

// TagArticles is a tag together with one page of its articles.
type TagArticles struct {
	Tag      domain.Tag                   `json:"tag"`
	Articles *domain.Page[domain.Article] `json:"articles"`
}

// WidgetArticle is the trimmed article shape used by the latest-articles widget.
type WidgetArticle struct {
	ID    string             `json:"id"`
	Title string             `json:"title"`
	Slug  string             `json:"slug"`
	Type  domain.ContentType `json:"type"`
}

// WidgetResponse is the body of GET /api/latest-articles.
type WidgetResponse struct {
	Articles []WidgetArticle `json:"articles"`
}

func toWidget(articles []domain.Article) WidgetResponse {
	out := make([]WidgetArticle, 0, len(articles))
	for _, a := range articles {
		out = append(out, WidgetArticle{ID: a.ID, Title: a.Title, Slug: a.Slug, Type: a.Type})
	}
	return WidgetResponse{Articles: out}
}
