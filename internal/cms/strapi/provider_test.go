package strapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/liangwei/kuaikuaichuhai-website/internal/cms"
	"github.com/liangwei/kuaikuaichuhai-website/internal/domain"
)

// --- fake Strapi server ---

type fakeStrapi struct {
	mu       sync.Mutex
	articles []map[string]any
	tags     []map[string]any
	services []map[string]any
	contacts []map[string]any
	queries  []string
	// contactStatus, when set, is returned for POST /api/contacts.
	contactStatus int
}

func newFakeStrapi() *fakeStrapi {
	f := &fakeStrapi{}
	f.tags = []map[string]any{
		{"id": 1, "documentId": "tag-google", "name": "Google", "slug": "google"},
		{"id": 2, "documentId": "tag-tiktok", "name": "TikTok", "slug": "tiktok"},
	}
	for i := 1; i <= 14; i++ {
		f.articles = append(f.articles, map[string]any{
			"id": i, "documentId": fmt.Sprintf("seo-%02d", i),
			"title": fmt.Sprintf("SEO article %d", i), "slug": fmt.Sprintf("seo-%d", i),
			"type": "seo", "status": "published", "content": "# Heading\n\nbody",
			"publishedAt": fmt.Sprintf("2025-01-%02dT08:00:00.000Z", i),
			"tags":        []any{f.tags[0]},
			"coverImage":  map[string]any{"url": "/uploads/seo.png", "width": 800, "height": 600},
		})
	}
	for i := 1; i <= 5; i++ {
		f.articles = append(f.articles, map[string]any{
			"id": 100 + i, "documentId": fmt.Sprintf("geo-%02d", i),
			"title": fmt.Sprintf("GEO article %d", i), "slug": fmt.Sprintf("geo-%d", i),
			"type": "geo", "status": "published",
			"publishedAt": fmt.Sprintf("2025-02-%02dT08:00:00.000Z", i),
			"tags":        []any{f.tags[1]},
		})
	}
	f.articles = append(f.articles, map[string]any{
		"id": 999, "documentId": "draft-01", "title": "Draft", "slug": "draft",
		"type": "seo", "status": "draft",
	})
	f.services = []map[string]any{
		{"id": 1, "documentId": "svc-seo", "title": "SEO", "slug": "seo", "order": 1,
			"features": []any{map[string]any{"id": 1, "title": "Audit", "description": "Full audit"}},
			"icon":     map[string]any{"url": "/uploads/seo-icon.svg"}},
		{"id": 2, "documentId": "svc-geo", "title": "GEO", "slug": "geo", "order": 2},
	}
	return f
}

func (f *fakeStrapi) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, r.URL.RawQuery)

	path := strings.TrimPrefix(r.URL.Path, "/api")
	q := r.URL.Query()
	switch {
	case r.Method == http.MethodPost && path == "/contacts":
		if f.contactStatus != 0 {
			w.WriteHeader(f.contactStatus)
			_, _ = w.Write([]byte(`{"error":{"message":"unavailable"}}`))
			return
		}
		var body struct {
			Data map[string]any `json:"data"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Data == nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		body.Data["id"] = len(f.contacts) + 1
		body.Data["documentId"] = fmt.Sprintf("contact-%d", len(f.contacts)+1)
		body.Data["createdAt"] = "2025-03-01T00:00:00.000Z"
		f.contacts = append(f.contacts, body.Data)
		writeJSON(w, http.StatusCreated, map[string]any{"data": body.Data, "meta": map[string]any{}})
	case path == "/articles":
		f.serveList(w, q, f.articles)
	case strings.HasPrefix(path, "/articles/"):
		id := strings.TrimPrefix(path, "/articles/")
		for _, a := range f.articles {
			if a["documentId"] == id {
				writeJSON(w, http.StatusOK, map[string]any{"data": a, "meta": map[string]any{}})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]any{"data": nil, "error": map[string]any{"status": 404}})
	case path == "/tags":
		f.serveList(w, q, f.tags)
	case path == "/services":
		f.serveList(w, q, f.services)
	case path == "/cases":
		f.serveList(w, q, nil)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeStrapi) serveList(w http.ResponseWriter, q map[string][]string, docs []map[string]any) {
	get := func(k string) string {
		if v := q[k]; len(v) > 0 {
			return v[0]
		}
		return ""
	}
	var matched []map[string]any
	for _, d := range docs {
		if v := get("filters[type][$eq]"); v != "" && d["type"] != v {
			continue
		}
		if v := get("filters[status][$eq]"); v != "" && d["status"] != v {
			continue
		}
		if v := get("filters[slug][$eq]"); v != "" && d["slug"] != v {
			continue
		}
		if v := get("filters[documentId][$ne]"); v != "" && d["documentId"] == v {
			continue
		}
		if v := get("filters[tags][slug][$eq]"); v != "" && !docHasTag(d, v) {
			continue
		}
		matched = append(matched, d)
	}

	page, _ := strconv.Atoi(get("pagination[page]"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(get("pagination[pageSize]"))
	if size < 1 {
		size = 25
	}
	start, end := (page-1)*size, page*size
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}
	data := matched[start:end]
	if data == nil {
		data = []map[string]any{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data": data,
		"meta": map[string]any{"pagination": map[string]any{
			"page": page, "pageSize": size,
			"pageCount": (len(matched) + size - 1) / size, "total": len(matched),
		}},
	})
}

func docHasTag(d map[string]any, slug string) bool {
	tags, _ := d["tags"].([]any)
	for _, t := range tags {
		if m, ok := t.(map[string]any); ok && m["slug"] == slug {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestProvider(t *testing.T, h http.Handler) *Provider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	p, err := New(Config{BaseURL: srv.URL}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

// --- tests ---

func TestArticleQuery(t *testing.T) {
	v := ArticleQuery(domain.ArticleQuery{Type: domain.ContentTypeGEO, Tag: "google", Page: 2, Limit: 12, Status: domain.StatusPublished})

	want := map[string]string{
		"populate":                 "*",
		"pagination[page]":         "2",
		"pagination[pageSize]":     "12",
		"sort[0]":                  "publishedAt:desc",
		"filters[type][$eq]":       "geo",
		"filters[tags][slug][$eq]": "google",
		"filters[status][$eq]":     "published",
	}
	for k, val := range want {
		if got := v.Get(k); got != val {
			t.Errorf("%s = %q, want %q", k, got, val)
		}
	}

	bare := ArticleQuery(domain.ArticleQuery{Page: 1, Limit: 25, Status: domain.StatusPublished})
	if bare.Has("filters[type][$eq]") || bare.Has("filters[tags][slug][$eq]") {
		t.Fatalf("unexpected filters in %v", bare)
	}
}

func TestCaseQuery(t *testing.T) {
	v := CaseQuery(domain.CaseQuery{Type: domain.ContentTypeSocial, Page: 1, Limit: 6})
	if v.Get("filters[serviceType][$eq]") != "social" || v.Get("pagination[pageSize]") != "6" {
		t.Fatalf("CaseQuery = %v", v)
	}
}

func TestProvider_ListArticles_EndToEnd(t *testing.T) {
	p := newTestProvider(t, newFakeStrapi())

	page, err := p.ListArticles(context.Background(), domain.ArticleQuery{Type: domain.ContentTypeSEO, Page: 1, Limit: 12})
	if err != nil {
		t.Fatalf("ListArticles: %v", err)
	}
	if len(page.Docs) != 12 || page.TotalDocs != 14 || page.TotalPages != 2 || !page.HasNextPage {
		t.Fatalf("page = docs %d total %d pages %d next %v; want 12/14/2/true",
			len(page.Docs), page.TotalDocs, page.TotalPages, page.HasNextPage)
	}
	first := page.Docs[0]
	if first.ID != "seo-01" || first.Type != domain.ContentTypeSEO || len(first.Tags) != 1 || first.Tags[0].Slug != "google" {
		t.Fatalf("first article = %+v", first)
	}
	if body, ok := domain.MarkdownBody(first.Content); !ok || !strings.HasPrefix(body, "# Heading") {
		t.Fatalf("content = %s", first.Content)
	}
	if first.CoverImage == nil || first.CoverImage.URL != "/uploads/seo.png" {
		t.Fatalf("cover = %+v", first.CoverImage)
	}
}

func TestProvider_ListArticles_ByTagAndDefaults(t *testing.T) {
	p := newTestProvider(t, newFakeStrapi())

	page, err := p.ListArticles(context.Background(), domain.ArticleQuery{Tag: "tiktok"})
	if err != nil {
		t.Fatalf("ListArticles: %v", err)
	}
	if page.TotalDocs != 5 || page.Limit != DefaultPageSize || page.Page != 1 {
		t.Fatalf("page = %+v", page)
	}
}

func TestProvider_FindArticleBySlug(t *testing.T) {
	p := newTestProvider(t, newFakeStrapi())
	ctx := context.Background()

	a, err := p.FindArticleBySlug(ctx, "geo-3")
	if err != nil || a == nil || a.ID != "geo-03" {
		t.Fatalf("FindArticleBySlug = %+v, %v", a, err)
	}

	a, err = p.FindArticleBySlug(ctx, "does-not-exist")
	if err != nil || a != nil {
		t.Fatalf("missing slug = %+v, %v; want nil, nil", a, err)
	}

	a, err = p.FindArticleBySlug(ctx, "draft")
	if err != nil || a != nil {
		t.Fatalf("draft slug = %+v, %v; want nil, nil", a, err)
	}
}

func TestProvider_FindArticleByID(t *testing.T) {
	p := newTestProvider(t, newFakeStrapi())
	ctx := context.Background()

	a, err := p.FindArticleByID(ctx, "seo-05")
	if err != nil || a == nil || a.Slug != "seo-5" {
		t.Fatalf("FindArticleByID = %+v, %v", a, err)
	}
	a, err = p.FindArticleByID(ctx, "nope")
	if err != nil || a != nil {
		t.Fatalf("missing id = %+v, %v; want nil, nil", a, err)
	}
}

func TestProvider_ListRelatedArticles_ExcludesSource(t *testing.T) {
	p := newTestProvider(t, newFakeStrapi())

	items, err := p.ListRelatedArticles(context.Background(), domain.RelatedQuery{ExcludeID: "geo-01", Type: domain.ContentTypeGEO, Limit: 10})
	if err != nil {
		t.Fatalf("ListRelatedArticles: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("len = %d, want 4", len(items))
	}
	for _, a := range items {
		if a.ID == "geo-01" {
			t.Fatal("source article returned as related")
		}
	}
}

func TestProvider_TagsAndServices(t *testing.T) {
	p := newTestProvider(t, newFakeStrapi())
	ctx := context.Background()

	tags, err := p.ListTags(ctx, 100)
	if err != nil || len(tags) != 2 {
		t.Fatalf("ListTags = %v, %v", tags, err)
	}
	tag, err := p.FindTagBySlug(ctx, "tiktok")
	if err != nil || tag == nil || tag.ID != "tag-tiktok" {
		t.Fatalf("FindTagBySlug = %+v, %v", tag, err)
	}

	services, err := p.ListServices(ctx, 25)
	if err != nil || services.TotalDocs != 2 {
		t.Fatalf("ListServices = %+v, %v", services, err)
	}
	svc, err := p.FindServiceBySlug(ctx, domain.ContentTypeSEO)
	if err != nil || svc == nil {
		t.Fatalf("FindServiceBySlug = %+v, %v", svc, err)
	}
	if len(svc.Features) != 1 || svc.Features[0].Title != "Audit" {
		t.Fatalf("features = %+v", svc.Features)
	}
	if svc.CoverImage == nil || svc.CoverImage.URL != "/uploads/seo-icon.svg" {
		t.Fatalf("cover should fall back to icon, got %+v", svc.CoverImage)
	}
	missing, err := p.FindServiceBySlug(ctx, domain.ContentTypeSocial)
	if err != nil || missing != nil {
		t.Fatalf("social service = %+v, %v; want nil, nil", missing, err)
	}
}

func TestProvider_CreateContact(t *testing.T) {
	fake := newFakeStrapi()
	p := newTestProvider(t, fake)
	in := domain.ContactSubmission{
		Name: "Wang", Email: "wang@example.com", ServiceType: domain.InterestGEO,
		Message: "need help", DealStatus: domain.DealPending,
	}

	c, err := p.CreateContact(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateContact: %v", err)
	}
	if c.ID != "contact-1" || c.Email != in.Email || c.DealStatus != domain.DealPending {
		t.Fatalf("contact = %+v", c)
	}
	if len(fake.contacts) != 1 || fake.contacts[0]["serviceType"] != "geo" {
		t.Fatalf("stored = %+v", fake.contacts)
	}
}

func TestProvider_CreateContact_FailureCarriesStatus(t *testing.T) {
	fake := newFakeStrapi()
	fake.contactStatus = http.StatusServiceUnavailable
	p := newTestProvider(t, fake)

	_, err := p.CreateContact(context.Background(), domain.ContactSubmission{Name: "a", Email: "a@b.c"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !cms.IsStatus(err, http.StatusServiceUnavailable) || !strings.Contains(err.Error(), "503") {
		t.Fatalf("error = %v, want 503 status error", err)
	}
}

func TestProvider_ThroughRepository(t *testing.T) {
	p := newTestProvider(t, newFakeStrapi())
	repo := cms.NewRepository(p, cms.NewMediaResolver("http://localhost:1337"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	l := repo.ArticleBySlug(ctx, "seo-1")
	if !l.Found() {
		t.Fatalf("status = %v", l.Status)
	}
	if l.Item.CoverImage.URL != "http://localhost:1337/uploads/seo.png" {
		t.Fatalf("cover = %q", l.Item.CoverImage.URL)
	}
	if l := repo.ArticleBySlug(ctx, "missing"); !l.NotFound() {
		t.Fatalf("missing status = %v", l.Status)
	}
	// View counting is a logged no-op on Strapi.
	repo.IncrementViewCount(ctx, "seo-01")
}

func TestProvider_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	p, err := New(Config{BaseURL: base}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	repo := cms.NewRepository(p, cms.NewMediaResolver(base), slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	if page := repo.ListArticles(ctx, domain.ArticleQuery{}); len(page.Docs) != 0 || page.TotalDocs != 0 {
		t.Fatalf("page = %+v, want empty", page)
	}
	if l := repo.ArticleBySlug(ctx, "seo-1"); !l.Unavailable() {
		t.Fatalf("status = %v, want unavailable", l.Status)
	}
	if _, err := repo.SubmitContact(ctx, domain.ContactSubmission{Name: "a"}); !domain.IsUnavailable(err) {
		t.Fatalf("SubmitContact error = %v, want unavailable", err)
	}
	if err := p.Ping(ctx); err == nil {
		t.Fatal("Ping should fail against a closed server")
	}
}
