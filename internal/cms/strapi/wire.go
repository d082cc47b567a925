package strapi

import (
	"encoding/json"
	"time"

	"github.com/liangwei/kuaikuaichuhai-website/internal/cms"
	"github.com/liangwei/kuaikuaichuhai-website/internal/domain"
)

// Strapi 5 returns flat documents: attributes sit next to id and documentId.

type listEnvelope[T any] struct {
	Data []T `json:"data"`
	Meta struct {
		Pagination *cms.RemotePagination `json:"pagination"`
	} `json:"meta"`
}

type itemEnvelope[T any] struct {
	Data *T `json:"data"`
}

type document struct {
	ID         cms.FlexibleID `json:"id"`
	DocumentID string         `json:"documentId"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// key is the identifier exposed to callers: the stable documentId when the
// store sends one, else the numeric row id.
func (d document) key() string {
	if d.DocumentID != "" {
		return d.DocumentID
	}
	return d.ID.String()
}

type media struct {
	URL             string `json:"url"`
	AlternativeText string `json:"alternativeText"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	Mime            string `json:"mime"`
}

func (m *media) toDomain() *domain.Media {
	if m == nil || m.URL == "" {
		return nil
	}
	return &domain.Media{
		URL:             m.URL,
		AlternativeText: m.AlternativeText,
		Width:           m.Width,
		Height:          m.Height,
		Mime:            m.Mime,
	}
}

type tag struct {
	document
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

func (t tag) toDomain() domain.Tag {
	return domain.Tag{
		ID:          t.key(),
		Name:        t.Name,
		Slug:        t.Slug,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

type article struct {
	document
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Excerpt     string          `json:"excerpt"`
	Content     json.RawMessage `json:"content"`
	Type        string          `json:"type"`
	Tags        []tag           `json:"tags"`
	CoverImage  *media          `json:"coverImage"`
	Author      string          `json:"author"`
	ViewCount   int             `json:"viewCount"`
	Featured    bool            `json:"featured"`
	Status      string          `json:"status"`
	PublishedAt *time.Time      `json:"publishedAt"`
}

func (a article) toDomain() domain.Article {
	tags := make([]domain.Tag, 0, len(a.Tags))
	for _, t := range a.Tags {
		tags = append(tags, t.toDomain())
	}
	return domain.Article{
		ID:          a.key(),
		Title:       a.Title,
		Slug:        a.Slug,
		Description: a.Description,
		Excerpt:     a.Excerpt,
		Content:     nullToEmpty(a.Content),
		Type:        domain.ContentType(a.Type),
		Tags:        tags,
		CoverImage:  a.CoverImage.toDomain(),
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
	document
	Title            string          `json:"title"`
	Slug             string          `json:"slug"`
	Description      string          `json:"description"`
	ShortDescription string          `json:"shortDescription"`
	HeroTitle        string          `json:"heroTitle"`
	HeroSubtitle     string          `json:"heroSubtitle"`
	Content          json.RawMessage `json:"content"`
	Features         []feature       `json:"features"`
	CoverImage       *media          `json:"coverImage"`
	Icon             *media          `json:"icon"`
	Order            int             `json:"order"`
}

func (s service) toDomain() domain.Service {
	features := make([]domain.ServiceFeature, 0, len(s.Features))
	for _, f := range s.Features {
		features = append(features, domain.ServiceFeature(f))
	}
	cover := s.CoverImage.toDomain()
	if cover == nil {
		cover = s.Icon.toDomain()
	}
	return domain.Service{
		ID:               s.key(),
		Title:            s.Title,
		Slug:             domain.ContentType(s.Slug),
		Description:      s.Description,
		ShortDescription: s.ShortDescription,
		HeroTitle:        s.HeroTitle,
		HeroSubtitle:     s.HeroSubtitle,
		Content:          nullToEmpty(s.Content),
		Features:         features,
		CoverImage:       cover,
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

type caseStudy struct {
	document
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Client      string          `json:"client"`
	ClientLogo  *media          `json:"clientLogo"`
	Industry    string          `json:"industry"`
	ServiceType string          `json:"serviceType"`
	Description string          `json:"description"`
	Challenge   string          `json:"challenge"`
	Solution    string          `json:"solution"`
	Results     []caseResult    `json:"results"`
	CoverImage  *media          `json:"coverImage"`
	Images      []media         `json:"images"`
	Featured    bool            `json:"featured"`
	Order       int             `json:"order"`
	Content     json.RawMessage `json:"content"`
	PublishedAt *time.Time      `json:"publishedAt"`
}

func (c caseStudy) toDomain() domain.Case {
	results := make([]domain.CaseResult, 0, len(c.Results))
	for _, r := range c.Results {
		results = append(results, domain.CaseResult(r))
	}
	images := make([]domain.Media, 0, len(c.Images))
	for i := range c.Images {
		if m := c.Images[i].toDomain(); m != nil {
			images = append(images, *m)
		}
	}
	return domain.Case{
		ID:          c.key(),
		Title:       c.Title,
		Slug:        c.Slug,
		Client:      c.Client,
		ClientLogo:  c.ClientLogo.toDomain(),
		Industry:    domain.Industry(c.Industry),
		ServiceType: domain.ContentType(c.ServiceType),
		Description: c.Description,
		Challenge:   c.Challenge,
		Solution:    c.Solution,
		Results:     results,
		CoverImage:  c.CoverImage.toDomain(),
		Images:      images,
		Featured:    c.Featured,
		Order:       c.Order,
		Content:     nullToEmpty(c.Content),
		PublishedAt: c.PublishedAt,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type contactInput struct {
	Name        string `json:"name"`
	Company     string `json:"company,omitempty"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	ServiceType string `json:"serviceType"`
	Message     string `json:"message"`
	DealStatus  string `json:"dealStatus"`
	Source      string `json:"source,omitempty"`
}

type contact struct {
	document
	contactInput
}

func (c contact) toDomain() domain.Contact {
	return domain.Contact{
		ID: c.key(),
		ContactSubmission: domain.ContactSubmission{
			Name:        c.Name,
			Company:     c.Company,
			Email:       c.Email,
			Phone:       c.Phone,
			ServiceType: domain.ServiceInterest(c.ServiceType),
			Message:     c.Message,
			DealStatus:  domain.DealStatus(c.DealStatus),
			Source:      c.Source,
		},
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func nullToEmpty(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return raw
}
