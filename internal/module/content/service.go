package content

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/liangwei/kuaikuaichuhai-website/internal/domain"
	"github.com/liangwei/kuaikuaichuhai-website/internal/markdown"
)

const (
	sidebarLatest = 6
	sidebarTags   = 10
	widgetLimit   = 6
)

// Service assembles page payloads from the content repository.
type Service struct {
	repo domain.ContentRepository
	md   *markdown.Renderer
}

// NewService creates a Service. A nil renderer disables contentHtml.
func NewService(repo domain.ContentRepository, md *markdown.Renderer) *Service {
	return &Service{repo: repo, md: md}
}

func (s *Service) render(content []byte) string {
	if s.md == nil {
		return ""
	}
	html, _ := s.md.Content(content)
	return html
}

// ListArticles returns one page of articles.
func (s *Service) ListArticles(ctx context.Context, q domain.ArticleQuery) *domain.Page[domain.Article] {
	return s.repo.ListArticles(ctx, q)
}

// Latest returns the newest published articles.
func (s *Service) Latest(ctx context.Context, limit int) []domain.Article {
	return s.repo.LatestArticles(ctx, limit)
}

// Widget returns the latest-articles widget payload.
func (s *Service) Widget(ctx context.Context) WidgetResponse {
	return toWidget(s.repo.LatestArticles(ctx, widgetLimit))
}

// ArticleDetail loads an article and its sidebar concurrently.
func (s *Service) ArticleDetail(ctx context.Context, slug string) (*ArticleDetail, error) {
	var (
		lookup domain.Lookup[domain.Article]
		side   Sidebar
	)

	// A missing or unavailable article cancels gctx so the sidebar reads stop.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lookup = s.repo.ArticleBySlug(gctx, slug)
		if !lookup.Found() {
			return lookup.Error("article")
		}
		return nil
	})
	g.Go(func() error {
		side.Latest = s.repo.LatestArticles(gctx, sidebarLatest)
		return nil
	})
	g.Go(func() error {
		side.Tags = s.repo.Tags(gctx, sidebarTags)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	style, _ := domain.StyleFor(lookup.Item.Type)
	return &ArticleDetail{
		Article:     *lookup.Item,
		ContentHTML: s.render(lookup.Item.Content),
		Style:       style,
		Sidebar:     side,
	}, nil
}

// ArticleByID returns a single article by its store identifier.
func (s *Service) ArticleByID(ctx context.Context, id string) (*domain.Article, error) {
	lookup := s.repo.ArticleByID(ctx, id)
	if !lookup.Found() {
		return nil, lookup.Error("article")
	}
	return lookup.Item, nil
}

// RelatedArticles returns articles of the same type as slug, without it.
func (s *Service) RelatedArticles(ctx context.Context, slug string, limit int) ([]domain.Article, error) {
	lookup := s.repo.ArticleBySlug(ctx, slug)
	if !lookup.Found() {
		return nil, lookup.Error("article")
	}
	return s.repo.RelatedArticles(ctx, domain.RelatedQuery{
		ExcludeID: lookup.Item.ID,
		Type:      lookup.Item.Type,
		Limit:     limit,
	}), nil
}

// RecordView counts a page view. Failures are logged by the repository.
func (s *Service) RecordView(ctx context.Context, id string) {
	s.repo.IncrementViewCount(ctx, id)
}

// Tags returns tags ordered by name.
func (s *Service) Tags(ctx context.Context, limit int) []domain.Tag {
	return s.repo.Tags(ctx, limit)
}

// Tag returns a tag by slug.
func (s *Service) Tag(ctx context.Context, slug string) (*domain.Tag, error) {
	lookup := s.repo.TagBySlug(ctx, slug)
	if !lookup.Found() {
		return nil, lookup.Error("tag")
	}
	return lookup.Item, nil
}

// TagArticles returns a tag and one page of the articles carrying it.
func (s *Service) TagArticles(ctx context.Context, slug string, page, limit int) (*TagArticles, error) {
	tag, err := s.Tag(ctx, slug)
	if err != nil {
		return nil, err
	}
	return &TagArticles{
		Tag:      *tag,
		Articles: s.repo.ListArticles(ctx, domain.ArticleQuery{Tag: tag.Slug, Page: page, Limit: limit}),
	}, nil
}

// Services returns the service lines in display order.
func (s *Service) Services(ctx context.Context, limit int) *domain.Page[domain.Service] {
	return s.repo.ListServices(ctx, limit)
}

// ServiceDetail returns the landing content of one service line.
func (s *Service) ServiceDetail(ctx context.Context, slug domain.ContentType) (*ServiceDetail, error) {
	lookup := s.repo.ServiceBySlug(ctx, slug)
	if !lookup.Found() {
		return nil, lookup.Error("service")
	}
	style, _ := domain.StyleFor(lookup.Item.Slug)
	return &ServiceDetail{
		Service:     *lookup.Item,
		ContentHTML: s.render(lookup.Item.Content),
		Style:       style,
	}, nil
}

// ListCases returns one page of case studies.
func (s *Service) ListCases(ctx context.Context, q domain.CaseQuery) *domain.Page[domain.Case] {
	return s.repo.ListCases(ctx, q)
}

// CaseDetail returns a case study by slug.
func (s *Service) CaseDetail(ctx context.Context, slug string) (*CaseDetail, error) {
	lookup := s.repo.CaseBySlug(ctx, slug)
	if !lookup.Found() {
		return nil, lookup.Error("case")
	}
	style, _ := domain.StyleFor(lookup.Item.ServiceType)
	return &CaseDetail{
		Case:        *lookup.Item,
		ContentHTML: s.render(lookup.Item.Content),
		Style:       style,
	}, nil
}

// RelatedCases returns case studies of the same service type as slug.
func (s *Service) RelatedCases(ctx context.Context, slug string, limit int) ([]domain.Case, error) {
	lookup := s.repo.CaseBySlug(ctx, slug)
	if !lookup.Found() {
		return nil, lookup.Error("case")
	}
	return s.repo.RelatedCases(ctx, domain.RelatedQuery{
		ExcludeID: lookup.Item.ID,
		Type:      lookup.Item.ServiceType,
		Limit:     limit,
	}), nil
}
