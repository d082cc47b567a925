package cms

import (
	"context"
	"fmt"
	"time"

	"github.com/viccon/sturdyc"

	"github.com/liangwei/kuaikuaichuhai-website/internal/domain"
)

// CacheConfig sizes the read-through caches.
type CacheConfig struct {
	// ContentTTL applies to articles and cases.
	ContentTTL time.Duration
	// TaxonomyTTL applies to tags and services, which change rarely.
	TaxonomyTTL time.Duration
	Capacity    int
}

const (
	defaultContentTTL  = 60 * time.Second
	defaultTaxonomyTTL = time.Hour
	defaultCapacity    = 10000
	cacheShards        = 10
	evictionPercentage = 10
)

// CachedProvider serves reads from an in-memory cache and refills it from
// the wrapped provider. Errors are never stored; writes go straight through.
type CachedProvider struct {
	domain.ContentProvider
	content  *sturdyc.Client[any]
	taxonomy *sturdyc.Client[any]
}

var _ domain.ContentProvider = (*CachedProvider)(nil)

// NewCachedProvider wraps p with caches sized by cfg. Zero values take defaults.
func NewCachedProvider(p domain.ContentProvider, cfg CacheConfig) *CachedProvider {
	if cfg.ContentTTL <= 0 {
		cfg.ContentTTL = defaultContentTTL
	}
	if cfg.TaxonomyTTL <= 0 {
		cfg.TaxonomyTTL = defaultTaxonomyTTL
	}
	if cfg.Capacity < cacheShards {
		cfg.Capacity = defaultCapacity
	}
	return &CachedProvider{
		ContentProvider: p,
		content:         sturdyc.New[any](cfg.Capacity, cacheShards, cfg.ContentTTL, evictionPercentage),
		taxonomy:        sturdyc.New[any](cfg.Capacity, cacheShards, cfg.TaxonomyTTL, evictionPercentage),
	}
}

func fetchCached[T any](ctx context.Context, c *sturdyc.Client[any], key string, fetch func(context.Context) (T, error)) (T, error) {
	v, err := c.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache entry %q has unexpected type %T", key, v)
	}
	return out, nil
}

// ListArticles implements domain.ContentProvider.
func (c *CachedProvider) ListArticles(ctx context.Context, q domain.ArticleQuery) (*domain.Page[domain.Article], error) {
	key := fmt.Sprintf("articles:%s:%s:%s:%d:%d", q.Type, q.Tag, q.Status, q.Page, q.Limit)
	return fetchCached(ctx, c.content, key, func(ctx context.Context) (*domain.Page[domain.Article], error) {
		return c.ContentProvider.ListArticles(ctx, q)
	})
}

// FindArticleBySlug implements domain.ContentProvider.
func (c *CachedProvider) FindArticleBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	return fetchCached(ctx, c.content, "article:slug:"+slug, func(ctx context.Context) (*domain.Article, error) {
		return c.ContentProvider.FindArticleBySlug(ctx, slug)
	})
}

// FindArticleByID implements domain.ContentProvider.
func (c *CachedProvider) FindArticleByID(ctx context.Context, id string) (*domain.Article, error) {
	return fetchCached(ctx, c.content, "article:id:"+id, func(ctx context.Context) (*domain.Article, error) {
		return c.ContentProvider.FindArticleByID(ctx, id)
	})
}

// ListRelatedArticles implements domain.ContentProvider.
func (c *CachedProvider) ListRelatedArticles(ctx context.Context, q domain.RelatedQuery) ([]domain.Article, error) {
	key := fmt.Sprintf("articles:related:%s:%s:%d", q.ExcludeID, q.Type, q.Limit)
	return fetchCached(ctx, c.content, key, func(ctx context.Context) ([]domain.Article, error) {
		return c.ContentProvider.ListRelatedArticles(ctx, q)
	})
}

// ListTags implements domain.ContentProvider.
func (c *CachedProvider) ListTags(ctx context.Context, limit int) ([]domain.Tag, error) {
	return fetchCached(ctx, c.taxonomy, fmt.Sprintf("tags:%d", limit), func(ctx context.Context) ([]domain.Tag, error) {
		return c.ContentProvider.ListTags(ctx, limit)
	})
}

// FindTagBySlug implements domain.ContentProvider.
func (c *CachedProvider) FindTagBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	return fetchCached(ctx, c.taxonomy, "tag:"+slug, func(ctx context.Context) (*domain.Tag, error) {
		return c.ContentProvider.FindTagBySlug(ctx, slug)
	})
}

// ListServices implements domain.ContentProvider.
func (c *CachedProvider) ListServices(ctx context.Context, limit int) (*domain.Page[domain.Service], error) {
	return fetchCached(ctx, c.taxonomy, fmt.Sprintf("services:%d", limit), func(ctx context.Context) (*domain.Page[domain.Service], error) {
		return c.ContentProvider.ListServices(ctx, limit)
	})
}

// FindServiceBySlug implements domain.ContentProvider.
func (c *CachedProvider) FindServiceBySlug(ctx context.Context, slug domain.ContentType) (*domain.Service, error) {
	return fetchCached(ctx, c.taxonomy, "service:"+string(slug), func(ctx context.Context) (*domain.Service, error) {
		return c.ContentProvider.FindServiceBySlug(ctx, slug)
	})
}

// ListCases implements domain.ContentProvider.
func (c *CachedProvider) ListCases(ctx context.Context, q domain.CaseQuery) (*domain.Page[domain.Case], error) {
	key := fmt.Sprintf("cases:%s:%d:%d", q.Type, q.Page, q.Limit)
	return fetchCached(ctx, c.content, key, func(ctx context.Context) (*domain.Page[domain.Case], error) {
		return c.ContentProvider.ListCases(ctx, q)
	})
}

// FindCaseBySlug implements domain.ContentProvider.
func (c *CachedProvider) FindCaseBySlug(ctx context.Context, slug string) (*domain.Case, error) {
	return fetchCached(ctx, c.content, "case:slug:"+slug, func(ctx context.Context) (*domain.Case, error) {
		return c.ContentProvider.FindCaseBySlug(ctx, slug)
	})
}

// ListRelatedCases implements domain.ContentProvider.
func (c *CachedProvider) ListRelatedCases(ctx context.Context, q domain.RelatedQuery) ([]domain.Case, error) {
	key := fmt.Sprintf("cases:related:%s:%s:%d", q.ExcludeID, q.Type, q.Limit)
	return fetchCached(ctx, c.content, key, func(ctx context.Context) ([]domain.Case, error) {
		return c.ContentProvider.ListRelatedCases(ctx, q)
	})
}
