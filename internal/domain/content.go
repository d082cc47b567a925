package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ContentType is the closed category set every article, case and service belongs to.
type ContentType string

const (
	ContentTypeSEO    ContentType = "seo"
	ContentTypeGEO    ContentType = "geo"
	ContentTypeSocial ContentType = "social"
)

// ContentTypes lists the valid categories in display order.
var ContentTypes = []ContentType{ContentTypeSEO, ContentTypeGEO, ContentTypeSocial}

// Valid reports whether t is one of the known categories.
func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeSEO, ContentTypeGEO, ContentTypeSocial:
		return true
	default:
		return false
	}
}

// ParseContentType parses a category value. Empty input yields the zero value
// and no error so callers can treat it as "no filter".
func ParseContentType(s string) (ContentType, error) {
	t := ContentType(strings.ToLower(strings.TrimSpace(s)))
	if t == "" || t.Valid() {
		return t, nil
	}
	return "", NewAppError(CodeValidation, fmt.Sprintf("invalid type %q: must be one of seo, geo, social", s), nil)
}

// Status is the publication lifecycle of a content item.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// ParseStatus maps s to a Status. Anything other than "draft" is published,
// so drafts never leak into a listing by accident.
func ParseStatus(s string) Status {
	if Status(strings.ToLower(strings.TrimSpace(s))) == StatusDraft {
		return StatusDraft
	}
	return StatusPublished
}

// Media is an uploaded asset as exposed by the content store.
type Media struct {
	URL             string `json:"url"`
	AlternativeText string `json:"alternativeText,omitempty"`
	Width           int    `json:"width,omitempty"`
	Height          int    `json:"height,omitempty"`
	Mime            string `json:"mime,omitempty"`
}

// Tag is a free-form label attached to articles.
type Tag struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Article is a news/insight post.
//
// Content is kept as delivered by the provider: a JSON string for markdown
// bodies or a structured rich-text document.
type Article struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Description string          `json:"description,omitempty"`
	Excerpt     string          `json:"excerpt,omitempty"`
	Content     json.RawMessage `json:"content,omitempty"`
	Type        ContentType     `json:"type"`
	Tags        []Tag           `json:"tags"`
	CoverImage  *Media          `json:"coverImage"`
	Author      string          `json:"author,omitempty"`
	ViewCount   int             `json:"viewCount"`
	Featured    bool            `json:"featured"`
	Status      Status          `json:"status"`
	PublishedAt *time.Time      `json:"publishedAt"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Industry classifies the client of a case study.
type Industry string

const (
	IndustryEcommerce     Industry = "ecommerce"
	IndustrySaaS          Industry = "saas"
	IndustryManufacturing Industry = "manufacturing"
	IndustryTourism       Industry = "tourism"
	IndustryOther         Industry = "other"
)

// CaseResult is one headline metric of a case study.
type CaseResult struct {
	Metric string `json:"metric"`
	Value  string `json:"value"`
	Icon   string `json:"icon,omitempty"`
}

// Case is a client success story.
type Case struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Client      string          `json:"client,omitempty"`
	ClientLogo  *Media          `json:"clientLogo"`
	Industry    Industry        `json:"industry,omitempty"`
	ServiceType ContentType     `json:"serviceType"`
	Description string          `json:"description,omitempty"`
	Challenge   string          `json:"challenge,omitempty"`
	Solution    string          `json:"solution,omitempty"`
	Results     []CaseResult    `json:"results"`
	CoverImage  *Media          `json:"coverImage"`
	Images      []Media         `json:"images"`
	Featured    bool            `json:"featured"`
	Order       int             `json:"order"`
	Content     json.RawMessage `json:"content,omitempty"`
	PublishedAt *time.Time      `json:"publishedAt"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ServiceFeature is a selling point shown on a service page.
type ServiceFeature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
}

// Service is the landing content for one of the three service lines.
// Its slug is always a ContentType.
type Service struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	Slug             ContentType      `json:"slug"`
	Description      string           `json:"description,omitempty"`
	ShortDescription string           `json:"shortDescription,omitempty"`
	HeroTitle        string           `json:"heroTitle,omitempty"`
	HeroSubtitle     string           `json:"heroSubtitle,omitempty"`
	Content          json.RawMessage  `json:"content,omitempty"`
	Features         []ServiceFeature `json:"features"`
	CoverImage       *Media           `json:"coverImage"`
	Order            int              `json:"order"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// ServiceInterest is what a prospect asks about in the contact form.
type ServiceInterest string

const (
	InterestSEO    ServiceInterest = "seo"
	InterestGEO    ServiceInterest = "geo"
	InterestSocial ServiceInterest = "social"
	InterestOther  ServiceInterest = "other"
)

// DealStatus tracks how far sales has processed a contact.
type DealStatus string

const (
	DealPending   DealStatus = "pending"
	DealContacted DealStatus = "contacted"
	DealClosed    DealStatus = "closed"
)

// ContactSubmission is the payload written to the store for a new lead.
type ContactSubmission struct {
	Name        string          `json:"name"`
	Company     string          `json:"company,omitempty"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone,omitempty"`
	ServiceType ServiceInterest `json:"serviceType"`
	Message     string          `json:"message"`
	DealStatus  DealStatus      `json:"dealStatus"`
	Source      string          `json:"source,omitempty"`
}

// Contact is a stored lead as returned by the store after creation.
type Contact struct {
	ID string `json:"id"`
	ContactSubmission
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MarkdownBody returns the content as markdown when it was delivered as a
// plain string. Structured rich text reports false.
func MarkdownBody(content json.RawMessage) (string, bool) {
	if len(content) == 0 || content[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(content, &s); err != nil {
		return "", false
	}
	return s, true
}

// MarkdownContent encodes a markdown body as raw content.
func MarkdownContent(body string) json.RawMessage {
	if body == "" {
		return nil
	}
	raw, _ := json.Marshal(body)
	return raw
}
