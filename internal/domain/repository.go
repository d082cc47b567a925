package domain

import "context"

// ContentProvider is implemented by each content-store backend. Methods return
// errors as they happen; a single-item method returns (nil, nil) when the
// store answered without a match.
type ContentProvider interface {
	// Name identifies the backend in logs.
	Name() string
	// DefaultPageSize is used when a listing does not ask for a size.
	DefaultPageSize() int

	ListArticles(ctx context.Context, q ArticleQuery) (*Page[Article], error)
	FindArticleBySlug(ctx context.Context, slug string) (*Article, error)
	FindArticleByID(ctx context.Context, id string) (*Article, error)
	ListRelatedArticles(ctx context.Context, q RelatedQuery) ([]Article, error)
	IncrementViewCount(ctx context.Context, id string) error

	ListTags(ctx context.Context, limit int) ([]Tag, error)
	FindTagBySlug(ctx context.Context, slug string) (*Tag, error)

	ListServices(ctx context.Context, limit int) (*Page[Service], error)
	FindServiceBySlug(ctx context.Context, slug ContentType) (*Service, error)

	ListCases(ctx context.Context, q CaseQuery) (*Page[Case], error)
	FindCaseBySlug(ctx context.Context, slug string) (*Case, error)
	ListRelatedCases(ctx context.Context, q RelatedQuery) ([]Case, error)

	CreateContact(ctx context.Context, in ContactSubmission) (*Contact, error)

	Ping(ctx context.Context) error
}

// ContentRepository is the port the HTTP layer depends on. Listings never
// fail (an unreachable store yields an empty result), single reads return a
// Lookup, and the contact write returns its error.
type ContentRepository interface {
	ListArticles(ctx context.Context, q ArticleQuery) *Page[Article]
	ArticleBySlug(ctx context.Context, slug string) Lookup[Article]
	ArticleByID(ctx context.Context, id string) Lookup[Article]
	RelatedArticles(ctx context.Context, q RelatedQuery) []Article
	LatestArticles(ctx context.Context, limit int) []Article
	IncrementViewCount(ctx context.Context, id string)

	Tags(ctx context.Context, limit int) []Tag
	TagBySlug(ctx context.Context, slug string) Lookup[Tag]

	ListServices(ctx context.Context, limit int) *Page[Service]
	ServiceBySlug(ctx context.Context, slug ContentType) Lookup[Service]

	ListCases(ctx context.Context, q CaseQuery) *Page[Case]
	CaseBySlug(ctx context.Context, slug string) Lookup[Case]
	RelatedCases(ctx context.Context, q RelatedQuery) []Case

	SubmitContact(ctx context.Context, in ContactSubmission) (*Contact, error)

	MediaURL(path string) (string, bool)
	Ping(ctx context.Context) error
}
