package payload

import (
	"encoding/json"
	"time"

	"github.com/liangwei/kuaikuaichuhai-website/internal/cms"
	"github.com/liangwei/kuaikuaichuhai-website/internal/domain"
)

// listEnvelope is Payload's paginated response. Only the primary values are
// read; the derived fields are recomputed by domain.NewPage.
type listEnvelope[T any] struct {
	Docs      []T `json:"docs"`
	TotalDocs int `json:"totalDocs"`
	Limit     int `json:"limit"`
	Page      int `json:"page"`
}

type docEnvelope[T any] struct {
	Doc     *T     `json:"doc"`
	Message string `json:"message"`
}

// relation decodes a relationship field that holds either the populated
// document or, below the requested depth, just its identifier.
func relation[T any](raw json.RawMessage) *T {
	if !cms.IsObject(raw) {
		return nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return &v
}

type media struct {
	ID       cms.FlexibleID `json:"id"`
	URL      string         `json:"url"`
	Alt      string         `json:"alt"`
	Width    int            `json:"width"`
	Height   int            `json:"height"`
	MimeType string         `json:"mimeType"`
}

func mediaFrom(raw json.RawMessage) *domain.Media {
	m := relation[media](raw)
	if m == nil || m.URL == "" {
		return nil
	}
	return &domain.Media{
		URL:             m.URL,
		AlternativeText: m.Alt,
		Width:           m.Width,
		Height:          m.Height,
		Mime:            m.MimeType,
	}
}

type tag struct {
	ID          cms.FlexibleID `json:"id"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func (t tag) toDomain() domain.Tag {
	return domain.Tag{
		ID:          t.ID.String(),
		Name:        t.Name,
		Slug:        t.Slug,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

type article struct {
	ID          cms.FlexibleID    `json:"id"`
	Title       string            `json:"title"`
	Slug        string            `json:"slug"`
	Description string            `json:"description"`
	Excerpt     string            `json:"excerpt"`
	Content     json.RawMessage   `json:"content"`
	Type        string            `json:"type"`
	Tags        []json.RawMessage `json:"tags"`
	CoverImage  json.RawMessage   `json:"coverImage"`
	Author      string            `json:"author"`
	ViewCount   int               `json:"viewCount"`
	Featured    bool              `json:"featured"`
	Status      string            `json:"status"`
	PublishedAt *time.Time        `json:"publishedAt"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

func (a article) toDomain() domain.Article {
	tags := make([]domain.Tag, 0, len(a.Tags))
	for _, raw := range a.Tags {
		if t := relation[tag](raw); t != nil {
			tags = append(tags, t.toDomain())
		}
	}
	return domain.Article{
		ID:          a.ID.String(),
		Title:       a.Title,
		Slug:        a.Slug,
		Description: a.Description,
		Excerpt:     a.Excerpt,
		Content:     nullToEmpty(a.Content),
		Type:        domain.ContentType(a.Type),
		Tags:        tags,
		CoverImage:  mediaFrom(a.CoverImage),
		Author:      a.Author,
		ViewCount:   a.ViewCount,
		Featured:    a.Featured,
		Status:      domain.ParseStatus(a.Status),
		PublishedAt: a.PublishedAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

type feature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type service struct {
	ID               cms.FlexibleID  `json:"id"`
	Title            string          `json:"title"`
	Slug             string          `json:"slug"`
	Description      string          `json:"description"`
	ShortDescription string          `json:"shortDescription"`
	HeroTitle        string          `json:"heroTitle"`
	HeroSubtitle     string          `json:"heroSubtitle"`
	Content          json.RawMessage `json:"content"`
	Features         []feature       `json:"features"`
	CoverImage       json.RawMessage `json:"coverImage"`
	Order            int             `json:"order"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

func (s service) toDomain() domain.Service {
	features := make([]domain.ServiceFeature, 0, len(s.Features))
	for _, f := range s.Features {
		features = append(features, domain.ServiceFeature(f))
	}
	return domain.Service{
		ID:               s.ID.String(),
		Title:            s.Title,
		Slug:             domain.ContentType(s.Slug),
		Description:      s.Description,
		ShortDescription: s.ShortDescription,
		HeroTitle:        s.HeroTitle,
		HeroSubtitle:     s.HeroSubtitle,
		Content:          nullToEmpty(s.Content),
		Features:         features,
		CoverImage:       mediaFrom(s.CoverImage),
		Order:            s.Order,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

type caseResult struct {
	Metric string `json:"metric"`
	Value  string `json:"value"`
	Icon   string `json:"icon"`
}

type galleryItem struct {
	Image json.RawMessage `json:"image"`
}

type caseStudy struct {
	ID          cms.FlexibleID  `json:"id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Client      string          `json:"client"`
	ClientLogo  json.RawMessage `json:"clientLogo"`
	Industry    string          `json:"industry"`
	ServiceType string          `json:"serviceType"`
	Description string          `json:"description"`
	Challenge   string          `json:"challenge"`
	Solution    string          `json:"solution"`
	Results     []caseResult    `json:"results"`
	CoverImage  json.RawMessage `json:"coverImage"`
	Images      []galleryItem   `json:"images"`
	Featured    bool            `json:"featured"`
	Order       int             `json:"order"`
	Content     json.RawMessage `json:"content"`
	PublishedAt *time.Time      `json:"publishedAt"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (c caseStudy) toDomain() domain.Case {
	results := make([]domain.CaseResult, 0, len(c.Results))
	for _, r := range c.Results {
		results = append(results, domain.CaseResult(r))
	}
	images := make([]domain.Media, 0, len(c.Images))
	for _, g := range c.Images {
		if m := mediaFrom(g.Image); m != nil {
			images = append(images, *m)
		}
	}
	return domain.Case{
		ID:          c.ID.String(),
		Title:       c.Title,
		Slug:        c.Slug,
		Client:      c.Client,
		ClientLogo:  mediaFrom(c.ClientLogo),
		Industry:    domain.Industry(c.Industry),
		ServiceType: domain.ContentType(c.ServiceType),
		Description: c.Description,
		Challenge:   c.Challenge,
		Solution:    c.Solution,
		Results:     results,
		CoverImage:  mediaFrom(c.CoverImage),
		Images:      images,
		Featured:    c.Featured,
		Order:       c.Order,
		Content:     nullToEmpty(c.Content),
		PublishedAt: c.PublishedAt,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type contact struct {
	ID cms.FlexibleID `json:"id"`
	domain.ContactSubmission
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c contact) toDomain() domain.Contact {
	return domain.Contact{
		ID:                c.ID.String(),
		ContactSubmission: c.ContactSubmission,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func nullToEmpty(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return raw
}
