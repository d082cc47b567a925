package content

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/liangwei/kuaikuaichuhai-website/internal/domain"
)

var errStoreDown = errors.New("content store down")

// mockRepo is an in-memory domain.ContentRepository. The *Down flags make the
// matching lookups report Unavailable.
type mockRepo struct {
	mu       sync.Mutex
	articles []domain.Article
	tags     []domain.Tag
	services []domain.Service
	cases    []domain.Case
	views    map[string]int

	articlesDown bool
	casesDown    bool
	lastQuery    domain.ArticleQuery

	// blockTags makes Tags wait for its context to end and record why.
	blockTags bool
	tagsErr   error
}

func newMockRepo() *mockRepo {
	return &mockRepo{views: make(map[string]int)}
}

func (m *mockRepo) ListArticles(_ context.Context, q domain.ArticleQuery) *domain.Page[domain.Article] {
	m.mu.Lock()
	m.lastQuery = q
	m.mu.Unlock()
	q = q.Normalize(12)
	var docs []domain.Article
	for _, a := range m.articles {
		if q.Type != "" && a.Type != q.Type {
			continue
		}
		if a.Status != q.Status {
			continue
		}
		if q.Tag != "" && !hasTag(a, q.Tag) {
			continue
		}
		docs = append(docs, a)
	}
	total := len(docs)
	start := min((q.Page-1)*q.Limit, total)
	end := min(start+q.Limit, total)
	return domain.NewPage(docs[start:end], q.Page, q.Limit, total)
}

func hasTag(a domain.Article, slug string) bool {
	for _, t := range a.Tags {
		if t.Slug == slug {
			return true
		}
	}
	return false
}

func (m *mockRepo) ArticleBySlug(_ context.Context, slug string) domain.Lookup[domain.Article] {
	if m.articlesDown {
		return domain.Unavailable[domain.Article](errStoreDown)
	}
	for i := range m.articles {
		if m.articles[i].Slug == slug && m.articles[i].Status == domain.StatusPublished {
			a := m.articles[i]
			return domain.Found(&a)
		}
	}
	return domain.NotFound[domain.Article]()
}

func (m *mockRepo) ArticleByID(_ context.Context, id string) domain.Lookup[domain.Article] {
	if m.articlesDown {
		return domain.Unavailable[domain.Article](errStoreDown)
	}
	for i := range m.articles {
		if m.articles[i].ID == id && m.articles[i].Status == domain.StatusPublished {
			a := m.articles[i]
			return domain.Found(&a)
		}
	}
	return domain.NotFound[domain.Article]()
}

func (m *mockRepo) RelatedArticles(_ context.Context, q domain.RelatedQuery) []domain.Article {
	q = q.Normalize(3)
	out := []domain.Article{}
	for _, a := range m.articles {
		if a.ID != q.ExcludeID && a.Type == q.Type && len(out) < q.Limit {
			out = append(out, a)
		}
	}
	return out
}

func (m *mockRepo) LatestArticles(_ context.Context, limit int) []domain.Article {
	if limit < 1 {
		limit = 6
	}
	out := []domain.Article{}
	for _, a := range m.articles {
		if a.Status == domain.StatusPublished && len(out) < limit {
			out = append(out, a)
		}
	}
	return out
}

func (m *mockRepo) IncrementViewCount(_ context.Context, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.views[id]++
}

func (m *mockRepo) Tags(ctx context.Context, limit int) []domain.Tag {
	if m.blockTags {
		select {
		case <-ctx.Done():
		case <-time.After(2 * time.Second):
		}
		m.mu.Lock()
		m.tagsErr = ctx.Err()
		m.mu.Unlock()
		return []domain.Tag{}
	}
	if limit < 1 || limit > len(m.tags) {
		limit = len(m.tags)
	}
	return append([]domain.Tag{}, m.tags[:limit]...)
}

func (m *mockRepo) TagBySlug(_ context.Context, slug string) domain.Lookup[domain.Tag] {
	for i := range m.tags {
		if m.tags[i].Slug == slug {
			t := m.tags[i]
			return domain.Found(&t)
		}
	}
	return domain.NotFound[domain.Tag]()
}

func (m *mockRepo) ListServices(_ context.Context, limit int) *domain.Page[domain.Service] {
	return domain.NewPage(m.services, 1, 10, len(m.services))
}

func (m *mockRepo) ServiceBySlug(_ context.Context, slug domain.ContentType) domain.Lookup[domain.Service] {
	for i := range m.services {
		if m.services[i].Slug == slug {
			s := m.services[i]
			return domain.Found(&s)
		}
	}
	return domain.NotFound[domain.Service]()
}

func (m *mockRepo) ListCases(_ context.Context, q domain.CaseQuery) *domain.Page[domain.Case] {
	q = q.Normalize(12)
	if m.casesDown {
		return domain.EmptyPage[domain.Case](q.Page, q.Limit)
	}
	var docs []domain.Case
	for _, c := range m.cases {
		if q.Type == "" || c.ServiceType == q.Type {
			docs = append(docs, c)
		}
	}
	return domain.NewPage(docs, q.Page, q.Limit, len(docs))
}

func (m *mockRepo) CaseBySlug(_ context.Context, slug string) domain.Lookup[domain.Case] {
	if m.casesDown {
		return domain.Unavailable[domain.Case](errStoreDown)
	}
	for i := range m.cases {
		if m.cases[i].Slug == slug {
			c := m.cases[i]
			return domain.Found(&c)
		}
	}
	return domain.NotFound[domain.Case]()
}

func (m *mockRepo) RelatedCases(_ context.Context, q domain.RelatedQuery) []domain.Case {
	out := []domain.Case{}
	for _, c := range m.cases {
		if c.ID != q.ExcludeID && c.ServiceType == q.Type {
			out = append(out, c)
		}
	}
	return out
}

func (m *mockRepo) SubmitContact(context.Context, domain.ContactSubmission) (*domain.Contact, error) {
	return nil, errors.New("not used")
}

func (m *mockRepo) MediaURL(path string) (string, bool) { return path, path != "" }

func (m *mockRepo) Ping(context.Context) error { return nil }

// seededRepo holds 3 seo articles (one a draft), 1 geo article, two tags,
// the seo service and two seo cases.
func seededRepo() *mockRepo {
	m := newMockRepo()
	google := domain.Tag{ID: "t1", Name: "Google", Slug: "google"}
	m.tags = []domain.Tag{google, {ID: "t2", Name: "AI", Slug: "ai"}}
	m.articles = []domain.Article{
		{ID: "a1", Title: "Ranking", Slug: "ranking", Type: domain.ContentTypeSEO, Status: domain.StatusPublished,
			Tags: []domain.Tag{google}, Content: domain.MarkdownContent("## Intro\n\nText")},
		{ID: "a2", Title: "Links", Slug: "links", Type: domain.ContentTypeSEO, Status: domain.StatusPublished, Tags: []domain.Tag{google}},
		{ID: "a3", Title: "Draft", Slug: "draft", Type: domain.ContentTypeSEO, Status: domain.StatusDraft},
		{ID: "a4", Title: "Answers", Slug: "answers", Type: domain.ContentTypeGEO, Status: domain.StatusPublished,
			Content: []byte(`{"root":{"children":[]}}`)},
	}
	m.services = []domain.Service{{ID: "s1", Title: "SEO", Slug: domain.ContentTypeSEO, Content: domain.MarkdownContent("**fast**")}}
	m.cases = []domain.Case{
		{ID: "c1", Title: "Shop", Slug: "shop", ServiceType: domain.ContentTypeSEO},
		{ID: "c2", Title: "Maker", Slug: "maker", ServiceType: domain.ContentTypeSEO},
	}
	return m
}
