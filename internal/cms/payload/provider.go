// Package payload implements domain.ContentProvider over the Payload CMS REST API.
package payload

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/liangwei/kuaikuaichuhai-website/internal/cms"
	"github.com/liangwei/kuaikuaichuhai-website/internal/domain"
)

// Name identifies this provider in config and logs.
const Name = "payload"

// DefaultPageSize matches Payload's own default.
const DefaultPageSize = 10

// Config configures the Payload provider.
type Config struct {
	BaseURL   string
	APIPrefix string // defaults to "/api"
	Token     string
	Timeout   time.Duration
	PageSize  int
	Client    *http.Client
}

// Provider talks to one Payload instance.
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

func paged(page, limit int) url.Values {
	v := url.Values{}
	v.Set("depth", "1")
	v.Set("page", strconv.Itoa(page))
	v.Set("limit", strconv.Itoa(limit))
	return v
}

func single(field, value string) url.Values {
	v := paged(1, 1)
	v.Set("where["+field+"][equals]", value)
	return v
}

// ArticleQuery translates an article listing intent into Payload parameters.
func ArticleQuery(q domain.ArticleQuery) url.Values {
	v := paged(q.Page, q.Limit)
	v.Set("sort", "-publishedAt")
	v.Set("where[status][equals]", string(q.Status))
	if q.Type != "" {
		v.Set("where[type][equals]", string(q.Type))
	}
	if q.Tag != "" {
		v.Set("where[tags.slug][equals]", q.Tag)
	}
	return v
}

// CaseQuery translates a case listing intent into Payload parameters.
func CaseQuery(q domain.CaseQuery) url.Values {
	v := paged(q.Page, q.Limit)
	v.Set("sort", "order")
	if q.Type != "" {
		v.Set("where[serviceType][equals]", string(q.Type))
	}
	return v
}

func toPage[W, T any](env listEnvelope[W], fallbackLimit int, conv func(W) T) *domain.Page[T] {
	docs := make([]T, 0, len(env.Docs))
	for _, d := range env.Docs {
		docs = append(docs, conv(d))
	}
	limit := env.Limit
	if limit < 1 {
		limit = fallbackLimit
	}
	return domain.NewPage(docs, env.Page, limit, env.TotalDocs)
}

func firstDoc[W, T any](env listEnvelope[W], conv func(W) T) *T {
	if len(env.Docs) == 0 {
		return nil
	}
	v := conv(env.Docs[0])
	return &v
}

// ListArticles implements domain.ContentProvider.
func (p *Provider) ListArticles(ctx context.Context, q domain.ArticleQuery) (*domain.Page[domain.Article], error) {
	q = q.Normalize(p.pageSize)
	var env listEnvelope[article]
	if err := p.fetch.GetJSON(ctx, "/articles", ArticleQuery(q), &env); err != nil {
		return nil, err
	}
	return toPage(env, q.Limit, article.toDomain), nil
}

// FindArticleBySlug implements domain.ContentProvider.
func (p *Provider) FindArticleBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	v := single("slug", slug)
	v.Set("where[status][equals]", string(domain.StatusPublished))
	var env listEnvelope[article]
	if err := p.fetch.GetJSON(ctx, "/articles", v, &env); err != nil {
		return nil, err
	}
	return firstDoc(env, article.toDomain), nil
}

// FindArticleByID implements domain.ContentProvider.
func (p *Provider) FindArticleByID(ctx context.Context, id string) (*domain.Article, error) {
	var a article
	err := p.fetch.GetJSON(ctx, "/articles/"+url.PathEscape(id), url.Values{"depth": {"1"}}, &a)
	if cms.IsStatus(err, http.StatusNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	out := a.toDomain()
	return &out, nil
}

// ListRelatedArticles implements domain.ContentProvider.
func (p *Provider) ListRelatedArticles(ctx context.Context, q domain.RelatedQuery) ([]domain.Article, error) {
	v := paged(1, q.Limit)
	v.Set("sort", "-publishedAt")
	v.Set("where[status][equals]", string(domain.StatusPublished))
	if q.Type != "" {
		v.Set("where[type][equals]", string(q.Type))
	}
	if q.ExcludeID != "" {
		v.Set("where[id][not_equals]", q.ExcludeID)
	}
	var env listEnvelope[article]
	if err := p.fetch.GetJSON(ctx, "/articles", v, &env); err != nil {
		return nil, err
	}
	return toPage(env, q.Limit, article.toDomain).Docs, nil
}

// IncrementViewCount implements domain.ContentProvider. Payload's REST API
// has no increment operator, so the counter is read and written back.
// Concurrent views can be lost.
func (p *Provider) IncrementViewCount(ctx context.Context, id string) error {
	var a struct {
		ViewCount int `json:"viewCount"`
	}
	path := "/articles/" + url.PathEscape(id)
	if err := p.fetch.GetJSON(ctx, path, url.Values{"depth": {"0"}}, &a); err != nil {
		return fmt.Errorf("read view count: %w", err)
	}
	body := map[string]int{"viewCount": a.ViewCount + 1}
	if err := p.fetch.SendJSON(ctx, http.MethodPatch, path, body, nil); err != nil {
		return fmt.Errorf("write view count: %w", err)
	}
	return nil
}

// ListTags implements domain.ContentProvider.
func (p *Provider) ListTags(ctx context.Context, limit int) ([]domain.Tag, error) {
	v := paged(1, limit)
	v.Set("sort", "name")
	var env listEnvelope[tag]
	if err := p.fetch.GetJSON(ctx, "/tags", v, &env); err != nil {
		return nil, err
	}
	return toPage(env, limit, tag.toDomain).Docs, nil
}

// FindTagBySlug implements domain.ContentProvider.
func (p *Provider) FindTagBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	var env listEnvelope[tag]
	if err := p.fetch.GetJSON(ctx, "/tags", single("slug", slug), &env); err != nil {
		return nil, err
	}
	return firstDoc(env, tag.toDomain), nil
}

// ListServices implements domain.ContentProvider.
func (p *Provider) ListServices(ctx context.Context, limit int) (*domain.Page[domain.Service], error) {
	v := paged(1, limit)
	v.Set("sort", "order")
	var env listEnvelope[service]
	if err := p.fetch.GetJSON(ctx, "/services", v, &env); err != nil {
		return nil, err
	}
	return toPage(env, limit, service.toDomain), nil
}

// FindServiceBySlug implements domain.ContentProvider.
func (p *Provider) FindServiceBySlug(ctx context.Context, slug domain.ContentType) (*domain.Service, error) {
	var env listEnvelope[service]
	if err := p.fetch.GetJSON(ctx, "/services", single("slug", string(slug)), &env); err != nil {
		return nil, err
	}
	return firstDoc(env, service.toDomain), nil
}

// ListCases implements domain.ContentProvider.
func (p *Provider) ListCases(ctx context.Context, q domain.CaseQuery) (*domain.Page[domain.Case], error) {
	q = q.Normalize(p.pageSize)
	var env listEnvelope[caseStudy]
	if err := p.fetch.GetJSON(ctx, "/cases", CaseQuery(q), &env); err != nil {
		return nil, err
	}
	return toPage(env, q.Limit, caseStudy.toDomain), nil
}

// FindCaseBySlug implements domain.ContentProvider.
func (p *Provider) FindCaseBySlug(ctx context.Context, slug string) (*domain.Case, error) {
	var env listEnvelope[caseStudy]
	if err := p.fetch.GetJSON(ctx, "/cases", single("slug", slug), &env); err != nil {
		return nil, err
	}
	return firstDoc(env, caseStudy.toDomain), nil
}

// ListRelatedCases implements domain.ContentProvider.
func (p *Provider) ListRelatedCases(ctx context.Context, q domain.RelatedQuery) ([]domain.Case, error) {
	v := paged(1, q.Limit)
	v.Set("sort", "order")
	if q.Type != "" {
		v.Set("where[serviceType][equals]", string(q.Type))
	}
	if q.ExcludeID != "" {
		v.Set("where[id][not_equals]", q.ExcludeID)
	}
	var env listEnvelope[caseStudy]
	if err := p.fetch.GetJSON(ctx, "/cases", v, &env); err != nil {
		return nil, err
	}
	return toPage(env, q.Limit, caseStudy.toDomain).Docs, nil
}

// CreateContact implements domain.ContentProvider.
func (p *Provider) CreateContact(ctx context.Context, in domain.ContactSubmission) (*domain.Contact, error) {
	var env docEnvelope[contact]
	if err := p.fetch.SendJSON(ctx, http.MethodPost, "/contacts", in, &env); err != nil {
		return nil, err
	}
	if env.Doc == nil {
		return &domain.Contact{ContactSubmission: in}, nil
	}
	c := env.Doc.toDomain()
	return &c, nil
}

// Ping implements domain.ContentProvider.
func (p *Provider) Ping(ctx context.Context) error {
	return p.fetch.GetJSON(ctx, "/articles", paged(1, 1), &listEnvelope[struct{}]{})
}
