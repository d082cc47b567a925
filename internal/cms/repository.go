package cms

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/liangwei/kuaikuaichuhai-website/internal/domain"
)

const (
	// DefaultLatestLimit is how many articles the latest-articles views show.
	DefaultLatestLimit = 6
	// DefaultRelatedLimit is how many related items a detail page shows.
	DefaultRelatedLimit = 3
	// DefaultTagLimit bounds the tag listing when the caller does not.
	DefaultTagLimit = 100
)

// Repository applies the failure policy on top of a ContentProvider:
// listings degrade to empty results, single reads become a Lookup, and
// the contact write reports its error.
type Repository struct {
	provider domain.ContentProvider
	media    MediaResolver
	logger   *slog.Logger
}

var _ domain.ContentRepository = (*Repository)(nil)

// NewRepository wraps provider. A nil logger falls back to slog.Default.
func NewRepository(provider domain.ContentProvider, media MediaResolver, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		provider: provider,
		media:    media,
		logger:   logger.With("provider", provider.Name()),
	}
}

// Provider returns the wrapped provider name.
func (r *Repository) Provider() string { return r.provider.Name() }

func (r *Repository) warn(ctx context.Context, op string, err error, attrs ...any) {
	args := append([]any{"op", op, "error", err}, attrs...)
	r.logger.WarnContext(ctx, "content store request failed", args...)
}

// ListArticles returns one page of articles. Failures yield an empty page.
func (r *Repository) ListArticles(ctx context.Context, q domain.ArticleQuery) *domain.Page[domain.Article] {
	q = q.Normalize(r.provider.DefaultPageSize())
	page, err := r.provider.ListArticles(ctx, q)
	if err != nil {
		r.warn(ctx, "list_articles", err, "type", q.Type, "tag", q.Tag, "page", q.Page)
		return domain.EmptyPage[domain.Article](q.Page, q.Limit)
	}
	if page == nil {
		return domain.EmptyPage[domain.Article](q.Page, q.Limit)
	}
	page = clonePage(page)
	for i := range page.Docs {
		r.resolveArticle(&page.Docs[i])
	}
	return page
}

// ArticleBySlug finds a published article.
func (r *Repository) ArticleBySlug(ctx context.Context, slug string) domain.Lookup[domain.Article] {
	if slug == "" {
		return domain.NotFound[domain.Article]()
	}
	a, err := r.provider.FindArticleBySlug(ctx, slug)
	if err != nil {
		return lookupFailure[domain.Article](ctx, r, "article_by_slug", err)
	}
	if a == nil || a.Status == domain.StatusDraft {
		return domain.NotFound[domain.Article]()
	}
	item := *a
	r.resolveArticle(&item)
	return domain.Found(&item)
}

// ArticleByID finds a published article by its store identifier.
func (r *Repository) ArticleByID(ctx context.Context, id string) domain.Lookup[domain.Article] {
	if id == "" {
		return domain.NotFound[domain.Article]()
	}
	a, err := r.provider.FindArticleByID(ctx, id)
	if err != nil {
		return lookupFailure[domain.Article](ctx, r, "article_by_id", err)
	}
	if a == nil || a.Status == domain.StatusDraft {
		return domain.NotFound[domain.Article]()
	}
	item := *a
	r.resolveArticle(&item)
	return domain.Found(&item)
}

// RelatedArticles lists articles of the same type, never including ExcludeID.
func (r *Repository) RelatedArticles(ctx context.Context, q domain.RelatedQuery) []domain.Article {
	q = q.Normalize(DefaultRelatedLimit)
	items, err := r.provider.ListRelatedArticles(ctx, q)
	if err != nil {
		r.warn(ctx, "related_articles", err, "exclude_id", q.ExcludeID)
		return []domain.Article{}
	}
	out := make([]domain.Article, 0, len(items))
	for _, a := range items {
		if a.ID == q.ExcludeID {
			continue
		}
		r.resolveArticle(&a)
		out = append(out, a)
		if len(out) == q.Limit {
			break
		}
	}
	return out
}

// LatestArticles lists the newest published articles.
func (r *Repository) LatestArticles(ctx context.Context, limit int) []domain.Article {
	if limit < 1 {
		limit = DefaultLatestLimit
	}
	return r.ListArticles(ctx, domain.ArticleQuery{Page: 1, Limit: limit}).Docs
}

// IncrementViewCount bumps an article's view counter. Failures are logged only.
func (r *Repository) IncrementViewCount(ctx context.Context, id string) {
	if id == "" {
		return
	}
	if err := r.provider.IncrementViewCount(ctx, id); err != nil {
		r.warn(ctx, "increment_view_count", err, "id", id)
	}
}

// Tags lists tags, up to limit.
func (r *Repository) Tags(ctx context.Context, limit int) []domain.Tag {
	if limit < 1 {
		limit = DefaultTagLimit
	}
	tags, err := r.provider.ListTags(ctx, limit)
	if err != nil {
		r.warn(ctx, "list_tags", err)
		return []domain.Tag{}
	}
	if tags == nil {
		return []domain.Tag{}
	}
	if len(tags) > limit {
		tags = tags[:limit]
	}
	return tags
}

// TagBySlug finds a tag.
func (r *Repository) TagBySlug(ctx context.Context, slug string) domain.Lookup[domain.Tag] {
	if slug == "" {
		return domain.NotFound[domain.Tag]()
	}
	t, err := r.provider.FindTagBySlug(ctx, slug)
	if err != nil {
		return lookupFailure[domain.Tag](ctx, r, "tag_by_slug", err)
	}
	return domain.Found(t)
}

// ListServices lists the service pages in display order.
func (r *Repository) ListServices(ctx context.Context, limit int) *domain.Page[domain.Service] {
	if limit < 1 {
		limit = r.provider.DefaultPageSize()
	}
	page, err := r.provider.ListServices(ctx, limit)
	if err != nil {
		r.warn(ctx, "list_services", err)
		return domain.EmptyPage[domain.Service](1, limit)
	}
	if page == nil {
		return domain.EmptyPage[domain.Service](1, limit)
	}
	page = clonePage(page)
	for i := range page.Docs {
		page.Docs[i].CoverImage = r.media.Media(page.Docs[i].CoverImage)
	}
	return page
}

// ServiceBySlug finds the service page for one of the fixed categories.
func (r *Repository) ServiceBySlug(ctx context.Context, slug domain.ContentType) domain.Lookup[domain.Service] {
	if !slug.Valid() {
		return domain.NotFound[domain.Service]()
	}
	s, err := r.provider.FindServiceBySlug(ctx, slug)
	if err != nil {
		return lookupFailure[domain.Service](ctx, r, "service_by_slug", err)
	}
	if s == nil {
		return domain.NotFound[domain.Service]()
	}
	item := *s
	item.CoverImage = r.media.Media(item.CoverImage)
	return domain.Found(&item)
}

// ListCases returns one page of case studies.
func (r *Repository) ListCases(ctx context.Context, q domain.CaseQuery) *domain.Page[domain.Case] {
	q = q.Normalize(r.provider.DefaultPageSize())
	page, err := r.provider.ListCases(ctx, q)
	if err != nil {
		r.warn(ctx, "list_cases", err, "type", q.Type, "page", q.Page)
		return domain.EmptyPage[domain.Case](q.Page, q.Limit)
	}
	if page == nil {
		return domain.EmptyPage[domain.Case](q.Page, q.Limit)
	}
	page = clonePage(page)
	for i := range page.Docs {
		r.resolveCase(&page.Docs[i])
	}
	return page
}

// CaseBySlug finds a case study.
func (r *Repository) CaseBySlug(ctx context.Context, slug string) domain.Lookup[domain.Case] {
	if slug == "" {
		return domain.NotFound[domain.Case]()
	}
	c, err := r.provider.FindCaseBySlug(ctx, slug)
	if err != nil {
		return lookupFailure[domain.Case](ctx, r, "case_by_slug", err)
	}
	if c == nil {
		return domain.NotFound[domain.Case]()
	}
	item := *c
	r.resolveCase(&item)
	return domain.Found(&item)
}

// RelatedCases lists case studies with the same service type.
func (r *Repository) RelatedCases(ctx context.Context, q domain.RelatedQuery) []domain.Case {
	q = q.Normalize(DefaultRelatedLimit)
	items, err := r.provider.ListRelatedCases(ctx, q)
	if err != nil {
		r.warn(ctx, "related_cases", err, "exclude_id", q.ExcludeID)
		return []domain.Case{}
	}
	out := make([]domain.Case, 0, len(items))
	for _, c := range items {
		if c.ID == q.ExcludeID {
			continue
		}
		r.resolveCase(&c)
		out = append(out, c)
		if len(out) == q.Limit {
			break
		}
	}
	return out
}

// SubmitContact stores a lead. Unlike reads, failures are returned: a
// remote non-2xx becomes CodeUpstream carrying the status, anything else
// CodeUnavailable.
func (r *Repository) SubmitContact(ctx context.Context, in domain.ContactSubmission) (*domain.Contact, error) {
	if in.DealStatus == "" {
		in.DealStatus = domain.DealPending
	}
	c, err := r.provider.CreateContact(ctx, in)
	if err != nil {
		r.logger.ErrorContext(ctx, "contact submission failed", "op", "create_contact", "error", err)
		var se *StatusError
		if errors.As(err, &se) {
			return nil, domain.NewAppError(domain.CodeUpstream, "contact submission failed", err)
		}
		return nil, domain.NewAppError(domain.CodeUnavailable, "contact submission failed", err)
	}
	return c, nil
}

// MediaURL resolves an upload path against the configured media origin.
func (r *Repository) MediaURL(path string) (string, bool) {
	return r.media.Resolve(path)
}

// Ping checks that the content store answers.
func (r *Repository) Ping(ctx context.Context) error {
	return r.provider.Ping(ctx)
}

func (r *Repository) resolveArticle(a *domain.Article) {
	a.CoverImage = r.media.Media(a.CoverImage)
	if a.Tags == nil {
		a.Tags = []domain.Tag{}
	}
}

func (r *Repository) resolveCase(c *domain.Case) {
	c.CoverImage = r.media.Media(c.CoverImage)
	c.ClientLogo = r.media.Media(c.ClientLogo)
	images := make([]domain.Media, 0, len(c.Images))
	for i := range c.Images {
		if m := r.media.Media(&c.Images[i]); m != nil {
			images = append(images, *m)
		}
	}
	c.Images = images
	if c.Results == nil {
		c.Results = []domain.CaseResult{}
	}
}

// clonePage copies the envelope and its docs so resolving media never
// writes into a page shared through the cache.
func clonePage[T any](p *domain.Page[T]) *domain.Page[T] {
	out := *p
	out.Docs = append(make([]T, 0, len(p.Docs)), p.Docs...)
	return &out
}

// lookupFailure maps a provider error on a single read. A remote 404 means
// the store answered without a match.
func lookupFailure[T any](ctx context.Context, r *Repository, op string, err error) domain.Lookup[T] {
	if IsStatus(err, http.StatusNotFound) {
		return domain.NotFound[T]()
	}
	r.warn(ctx, op, err)
	return domain.Unavailable[T](err)
}
