package cms

import (
	"context"
	"sync"

	"github.com/liangwei/kuaikuaichuhai-website/internal/domain"
)

// --- mock provider ---

type mockProvider struct {
	mu       sync.Mutex
	articles []domain.Article
	tags     []domain.Tag
	services []domain.Service
	cases    []domain.Case
	contacts []domain.ContactSubmission
	views    map[string]int
	calls    map[string]int
	// hooks for error injection
	listErr    error
	findErr    error
	relatedErr error
	contactErr error
	viewErr    error
	pingErr    error
}

func newMockProvider() *mockProvider {
	return &mockProvider{views: make(map[string]int), calls: make(map[string]int)}
}

func (m *mockProvider) record(op string) {
	m.mu.Lock()
	m.calls[op]++
	m.mu.Unlock()
}

func (m *mockProvider) callCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *mockProvider) Name() string         { return "mock" }
func (m *mockProvider) DefaultPageSize() int { return 12 }

func (m *mockProvider) ListArticles(_ context.Context, q domain.ArticleQuery) (*domain.Page[domain.Article], error) {
	m.record("ListArticles")
	if m.listErr != nil {
		return nil, m.listErr
	}
	var matched []domain.Article
	for _, a := range m.articles {
		if a.Status != q.Status {
			continue
		}
		if q.Type != "" && a.Type != q.Type {
			continue
		}
		if q.Tag != "" && !hasTag(a, q.Tag) {
			continue
		}
		matched = append(matched, a)
	}
	start := (q.Page - 1) * q.Limit
	end := start + q.Limit
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}
	return domain.NewPage(matched[start:end], q.Page, q.Limit, len(matched)), nil
}

func hasTag(a domain.Article, slug string) bool {
	for _, t := range a.Tags {
		if t.Slug == slug {
			return true
		}
	}
	return false
}

func (m *mockProvider) FindArticleBySlug(_ context.Context, slug string) (*domain.Article, error) {
	m.record("FindArticleBySlug")
	if m.findErr != nil {
		return nil, m.findErr
	}
	for i := range m.articles {
		if m.articles[i].Slug == slug {
			a := m.articles[i]
			return &a, nil
		}
	}
	return nil, nil
}

func (m *mockProvider) FindArticleByID(_ context.Context, id string) (*domain.Article, error) {
	m.record("FindArticleByID")
	if m.findErr != nil {
		return nil, m.findErr
	}
	for i := range m.articles {
		if m.articles[i].ID == id {
			a := m.articles[i]
			return &a, nil
		}
	}
	return nil, nil
}

func (m *mockProvider) ListRelatedArticles(_ context.Context, q domain.RelatedQuery) ([]domain.Article, error) {
	m.record("ListRelatedArticles")
	if m.relatedErr != nil {
		return nil, m.relatedErr
	}
	// Deliberately ignores ExcludeID so the repository's filter is exercised.
	var out []domain.Article
	for _, a := range m.articles {
		if q.Type == "" || a.Type == q.Type {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockProvider) IncrementViewCount(_ context.Context, id string) error {
	m.record("IncrementViewCount")
	if m.viewErr != nil {
		return m.viewErr
	}
	m.mu.Lock()
	m.views[id]++
	m.mu.Unlock()
	return nil
}

func (m *mockProvider) ListTags(_ context.Context, _ int) ([]domain.Tag, error) {
	m.record("ListTags")
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.tags, nil
}

func (m *mockProvider) FindTagBySlug(_ context.Context, slug string) (*domain.Tag, error) {
	m.record("FindTagBySlug")
	if m.findErr != nil {
		return nil, m.findErr
	}
	for i := range m.tags {
		if m.tags[i].Slug == slug {
			t := m.tags[i]
			return &t, nil
		}
	}
	return nil, nil
}

func (m *mockProvider) ListServices(_ context.Context, limit int) (*domain.Page[domain.Service], error) {
	m.record("ListServices")
	if m.listErr != nil {
		return nil, m.listErr
	}
	return domain.NewPage(m.services, 1, limit, len(m.services)), nil
}

func (m *mockProvider) FindServiceBySlug(_ context.Context, slug domain.ContentType) (*domain.Service, error) {
	m.record("FindServiceBySlug")
	if m.findErr != nil {
		return nil, m.findErr
	}
	for i := range m.services {
		if m.services[i].Slug == slug {
			s := m.services[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (m *mockProvider) ListCases(_ context.Context, q domain.CaseQuery) (*domain.Page[domain.Case], error) {
	m.record("ListCases")
	if m.listErr != nil {
		return nil, m.listErr
	}
	var matched []domain.Case
	for _, c := range m.cases {
		if q.Type == "" || c.ServiceType == q.Type {
			matched = append(matched, c)
		}
	}
	return domain.NewPage(matched, q.Page, q.Limit, len(matched)), nil
}

func (m *mockProvider) FindCaseBySlug(_ context.Context, slug string) (*domain.Case, error) {
	m.record("FindCaseBySlug")
	if m.findErr != nil {
		return nil, m.findErr
	}
	for i := range m.cases {
		if m.cases[i].Slug == slug {
			c := m.cases[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (m *mockProvider) ListRelatedCases(_ context.Context, q domain.RelatedQuery) ([]domain.Case, error) {
	m.record("ListRelatedCases")
	if m.relatedErr != nil {
		return nil, m.relatedErr
	}
	var out []domain.Case
	for _, c := range m.cases {
		if q.Type == "" || c.ServiceType == q.Type {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockProvider) CreateContact(_ context.Context, in domain.ContactSubmission) (*domain.Contact, error) {
	m.record("CreateContact")
	if m.contactErr != nil {
		return nil, m.contactErr
	}
	m.contacts = append(m.contacts, in)
	return &domain.Contact{ID: "c1", ContactSubmission: in}, nil
}

func (m *mockProvider) Ping(_ context.Context) error {
	return m.pingErr
}
