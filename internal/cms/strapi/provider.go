// Package strapi implements domain.ContentProvider over the Strapi 5 REST API.
package strapi

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/liangwei/kuaikuaichuhai-website/internal/cms"
	"github.com/liangwei/kuaikuaichuhai-website/internal/domain"
)

// Name identifies this provider in config and logs.
const Name = "strapi"

// DefaultPageSize matches Strapi's own default.
const DefaultPageSize = 25

// Config configures the Strapi provider.
type Config struct {
	BaseURL   string
	APIPrefix string // defaults to "/api"
	Token     string
	Timeout   time.Duration
	PageSize  int
	Client    *http.Client
}

// Provider talks to one Strapi instance.
type Provider struct {
	fetch    *cms.Fetcher
	pageSize int
	logger   *slog.Logger
}

var _ domain.ContentProvider = (*Provider)(nil)

// New builds a Provider.
func New(cfg Config, logger *slog.Logger) (*Provider, error) {
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api"
	}
	f, err := cms.NewFetcher(cms.FetcherConfig{
		Provider:  Name,
		BaseURL:   cfg.BaseURL,
		APIPrefix: cfg.APIPrefix,
		Token:     cfg.Token,
		Timeout:   cfg.Timeout,
		Client:    cfg.Client,
	})
	if err != nil {
		return nil, err
	}
	if cfg.PageSize < 1 {
		cfg.PageSize = DefaultPageSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{fetch: f, pageSize: cfg.PageSize, logger: logger}, nil
}

// Name implements domain.ContentProvider.
func (p *Provider) Name() string { return Name }

// DefaultPageSize implements domain.ContentProvider.
func (p *Provider) DefaultPageSize() int { return p.pageSize }

func paged(page, size int) url.Values {
	q := url.Values{}
	q.Set("populate", "*")
	q.Set("pagination[page]", strconv.Itoa(page))
	q.Set("pagination[pageSize]", strconv.Itoa(size))
	return q
}

// ArticleQuery translates an article listing intent into Strapi parameters.
func ArticleQuery(q domain.ArticleQuery) url.Values {
	v := paged(q.Page, q.Limit)
	v.Set("sort[0]", "publishedAt:desc")
	v.Set("filters[status][$eq]", string(q.Status))
	if q.Type != "" {
		v.Set("filters[type][$eq]", string(q.Type))
	}
	if q.Tag != "" {
		v.Set("filters[tags][slug][$eq]", q.Tag)
	}
	return v
}

// ListArticles implements domain.ContentProvider.
func (p *Provider) ListArticles(ctx context.Context, q domain.ArticleQuery) (*domain.Page[domain.Article], error) {
	q = q.Normalize(p.pageSize)
	var env listEnvelope[article]
	if err := p.fetch.GetJSON(ctx, "/articles", ArticleQuery(q), &env); err != nil {
		return nil, err
	}
	return cms.Normalize(articles(env.Data), env.Meta.Pagination, p.pageSize), nil
}

func articles(in []article) []domain.Article {
	out := make([]domain.Article, 0, len(in))
	for _, a := range in {
		out = append(out, a.toDomain())
	}
	return out
}

func (p *Provider) first(ctx context.Context, path string, q url.Values, out any) error {
	q.Set("pagination[page]", "1")
	q.Set("pagination[pageSize]", "1")
	return p.fetch.GetJSON(ctx, path, q, out)
}

// FindArticleBySlug implements domain.ContentProvider.
func (p *Provider) FindArticleBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	q := url.Values{}
	q.Set("populate", "*")
	q.Set("filters[slug][$eq]", slug)
	q.Set("filters[status][$eq]", string(domain.StatusPublished))
	var env listEnvelope[article]
	if err := p.first(ctx, "/articles", q, &env); err != nil {
		return nil, err
	}
	if len(env.Data) == 0 {
		return nil, nil
	}
	a := env.Data[0].toDomain()
	return &a, nil
}

// FindArticleByID implements domain.ContentProvider. id is the documentId.
func (p *Provider) FindArticleByID(ctx context.Context, id string) (*domain.Article, error) {
	q := url.Values{}
	q.Set("populate", "*")
	var env itemEnvelope[article]
	err := p.fetch.GetJSON(ctx, "/articles/"+url.PathEscape(id), q, &env)
	if cms.IsStatus(err, http.StatusNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, nil
	}
	a := env.Data.toDomain()
	return &a, nil
}

// ListRelatedArticles implements domain.ContentProvider.
func (p *Provider) ListRelatedArticles(ctx context.Context, q domain.RelatedQuery) ([]domain.Article, error) {
	v := paged(1, q.Limit)
	v.Set("sort[0]", "publishedAt:desc")
	v.Set("filters[status][$eq]", string(domain.StatusPublished))
	if q.Type != "" {
		v.Set("filters[type][$eq]", string(q.Type))
	}
	if q.ExcludeID != "" {
		v.Set("filters[documentId][$ne]", q.ExcludeID)
	}
	var env listEnvelope[article]
	if err := p.fetch.GetJSON(ctx, "/articles", v, &env); err != nil {
		return nil, err
	}
	return articles(env.Data), nil
}

// IncrementViewCount implements domain.ContentProvider. Strapi has no atomic
// increment, so the call only records that the view went uncounted.
func (p *Provider) IncrementViewCount(ctx context.Context, id string) error {
	p.logger.WarnContext(ctx, "view count increment not supported by strapi", "id", id)
	return nil
}

// ListTags implements domain.ContentProvider.
func (p *Provider) ListTags(ctx context.Context, limit int) ([]domain.Tag, error) {
	v := url.Values{}
	v.Set("pagination[pageSize]", strconv.Itoa(limit))
	v.Set("sort[0]", "name:asc")
	var env listEnvelope[tag]
	if err := p.fetch.GetJSON(ctx, "/tags", v, &env); err != nil {
		return nil, err
	}
	out := make([]domain.Tag, 0, len(env.Data))
	for _, t := range env.Data {
		out = append(out, t.toDomain())
	}
	return out, nil
}

// FindTagBySlug implements domain.ContentProvider.
func (p *Provider) FindTagBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	q := url.Values{}
	q.Set("filters[slug][$eq]", slug)
	var env listEnvelope[tag]
	if err := p.first(ctx, "/tags", q, &env); err != nil {
		return nil, err
	}
	if len(env.Data) == 0 {
		return nil, nil
	}
	t := env.Data[0].toDomain()
	return &t, nil
}

// ListServices implements domain.ContentProvider.
func (p *Provider) ListServices(ctx context.Context, limit int) (*domain.Page[domain.Service], error) {
	v := paged(1, limit)
	v.Set("sort[0]", "order:asc")
	var env listEnvelope[service]
	if err := p.fetch.GetJSON(ctx, "/services", v, &env); err != nil {
		return nil, err
	}
	docs := make([]domain.Service, 0, len(env.Data))
	for _, s := range env.Data {
		docs = append(docs, s.toDomain())
	}
	return cms.Normalize(docs, env.Meta.Pagination, p.pageSize), nil
}

// FindServiceBySlug implements domain.ContentProvider.
func (p *Provider) FindServiceBySlug(ctx context.Context, slug domain.ContentType) (*domain.Service, error) {
	q := url.Values{}
	q.Set("populate", "*")
	q.Set("filters[slug][$eq]", string(slug))
	var env listEnvelope[service]
	if err := p.first(ctx, "/services", q, &env); err != nil {
		return nil, err
	}
	if len(env.Data) == 0 {
		return nil, nil
	}
	s := env.Data[0].toDomain()
	return &s, nil
}

// CaseQuery translates a case listing intent into Strapi parameters.
func CaseQuery(q domain.CaseQuery) url.Values {
	v := paged(q.Page, q.Limit)
	v.Set("sort[0]", "order:asc")
	v.Set("sort[1]", "publishedAt:desc")
	if q.Type != "" {
		v.Set("filters[serviceType][$eq]", string(q.Type))
	}
	return v
}

// ListCases implements domain.ContentProvider.
func (p *Provider) ListCases(ctx context.Context, q domain.CaseQuery) (*domain.Page[domain.Case], error) {
	q = q.Normalize(p.pageSize)
	var env listEnvelope[caseStudy]
	if err := p.fetch.GetJSON(ctx, "/cases", CaseQuery(q), &env); err != nil {
		return nil, err
	}
	return cms.Normalize(cases(env.Data), env.Meta.Pagination, p.pageSize), nil
}

func cases(in []caseStudy) []domain.Case {
	out := make([]domain.Case, 0, len(in))
	for _, c := range in {
		out = append(out, c.toDomain())
	}
	return out
}

// FindCaseBySlug implements domain.ContentProvider.
func (p *Provider) FindCaseBySlug(ctx context.Context, slug string) (*domain.Case, error) {
	q := url.Values{}
	q.Set("populate", "*")
	q.Set("filters[slug][$eq]", slug)
	var env listEnvelope[caseStudy]
	if err := p.first(ctx, "/cases", q, &env); err != nil {
		return nil, err
	}
	if len(env.Data) == 0 {
		return nil, nil
	}
	c := env.Data[0].toDomain()
	return &c, nil
}

// ListRelatedCases implements domain.ContentProvider.
func (p *Provider) ListRelatedCases(ctx context.Context, q domain.RelatedQuery) ([]domain.Case, error) {
	v := paged(1, q.Limit)
	v.Set("sort[0]", "order:asc")
	if q.Type != "" {
		v.Set("filters[serviceType][$eq]", string(q.Type))
	}
	if q.ExcludeID != "" {
		v.Set("filters[documentId][$ne]", q.ExcludeID)
	}
	var env listEnvelope[caseStudy]
	if err := p.fetch.GetJSON(ctx, "/cases", v, &env); err != nil {
		return nil, err
	}
	return cases(env.Data), nil
}

// CreateContact implements domain.ContentProvider.
func (p *Provider) CreateContact(ctx context.Context, in domain.ContactSubmission) (*domain.Contact, error) {
	body := struct {
		Data contactInput `json:"data"`
	}{
		Data: contactInput{
			Name:        in.Name,
			Company:     in.Company,
			Email:       in.Email,
			Phone:       in.Phone,
			ServiceType: string(in.ServiceType),
			Message:     in.Message,
			DealStatus:  string(in.DealStatus),
			Source:      in.Source,
		},
	}
	var env itemEnvelope[contact]
	if err := p.fetch.SendJSON(ctx, http.MethodPost, "/contacts", body, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		c := domain.Contact{ContactSubmission: in}
		return &c, nil
	}
	c := env.Data.toDomain()
	return &c, nil
}

// Ping implements domain.ContentProvider.
func (p *Provider) Ping(ctx context.Context) error {
	v := url.Values{}
	v.Set("pagination[pageSize]", "1")
	return p.fetch.GetJSON(ctx, "/articles", v, &listEnvelope[document]{})
}
