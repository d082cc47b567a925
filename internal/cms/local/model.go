package local

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/liangwei/kuaikuaichuhai-website/internal/domain"
)

// Rows use uuid string keys so identifiers look the same as the remote
// stores' document ids.

type tagModel struct {
	ID          string    `gorm:"primaryKey;size:36"`
	Name        string    `gorm:"size:100;not null"`
	Slug        string    `gorm:"size:100;uniqueIndex;not null"`
	Description string    `gorm:"size:500"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (tagModel) TableName() string { return "tags" }

func (m *tagModel) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func (m tagModel) toDomain() domain.Tag {
	return domain.Tag{
		ID:          m.ID,
		Name:        m.Name,
		Slug:        m.Slug,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

type articleModel struct {
	ID          string        `gorm:"primaryKey;size:36"`
	Title       string        `gorm:"size:255;not null"`
	Slug        string        `gorm:"size:255;uniqueIndex;not null"`
	Description string        `gorm:"size:1000"`
	Excerpt     string        `gorm:"size:1000"`
	Content     string        `gorm:"type:text"`
	Type        string        `gorm:"size:16;index"`
	Tags        []tagModel    `gorm:"many2many:article_tags;joinForeignKey:ArticleID;joinReferences:TagID"`
	CoverImage  *domain.Media `gorm:"serializer:json"`
	Author      string        `gorm:"size:100"`
	ViewCount   int           `gorm:"not null;default:0"`
	Featured    bool          `gorm:"not null;default:false"`
	Status      string        `gorm:"size:16;index;not null;default:draft"`
	PublishedAt *time.Time    `gorm:"index"`
	CreatedAt   time.Time     `gorm:"autoCreateTime"`
	UpdatedAt   time.Time     `gorm:"autoUpdateTime"`
}

func (articleModel) TableName() string { return "articles" }

func (m *articleModel) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func (m articleModel) toDomain() domain.Article {
	tags := make([]domain.Tag, 0, len(m.Tags))
	for _, t := range m.Tags {
		tags = append(tags, t.toDomain())
	}
	return domain.Article{
		ID:          m.ID,
		Title:       m.Title,
		Slug:        m.Slug,
		Description: m.Description,
		Excerpt:     m.Excerpt,
		Content:     domain.MarkdownContent(m.Content),
		Type:        domain.ContentType(m.Type),
		Tags:        tags,
		CoverImage:  m.CoverImage,
		Author:      m.Author,
		ViewCount:   m.ViewCount,
		Featured:    m.Featured,
		Status:      domain.ParseStatus(m.Status),
		PublishedAt: m.PublishedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

type serviceModel struct {
	ID               string                  `gorm:"primaryKey;size:36"`
	Title            string                  `gorm:"size:255;not null"`
	Slug             string                  `gorm:"size:16;uniqueIndex;not null"`
	Description      string                  `gorm:"size:1000"`
	ShortDescription string                  `gorm:"size:500"`
	HeroTitle        string                  `gorm:"size:255"`
	HeroSubtitle     string                  `gorm:"size:500"`
	Content          string                  `gorm:"type:text"`
	Features         []domain.ServiceFeature `gorm:"serializer:json"`
	CoverImage       *domain.Media           `gorm:"serializer:json"`
	SortOrder        int                     `gorm:"not null;default:0"`
	CreatedAt        time.Time               `gorm:"autoCreateTime"`
	UpdatedAt        time.Time               `gorm:"autoUpdateTime"`
}

func (serviceModel) TableName() string { return "services" }

func (m *serviceModel) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func (m serviceModel) toDomain() domain.Service {
	features := m.Features
	if features == nil {
		features = []domain.ServiceFeature{}
	}
	return domain.Service{
		ID:               m.ID,
		Title:            m.Title,
		Slug:             domain.ContentType(m.Slug),
		Description:      m.Description,
		ShortDescription: m.ShortDescription,
		HeroTitle:        m.HeroTitle,
		HeroSubtitle:     m.HeroSubtitle,
		Content:          domain.MarkdownContent(m.Content),
		Features:         features,
		CoverImage:       m.CoverImage,
		Order:            m.SortOrder,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

type caseModel struct {
	ID          string              `gorm:"primaryKey;size:36"`
	Title       string              `gorm:"size:255;not null"`
	Slug        string              `gorm:"size:255;uniqueIndex;not null"`
	Client      string              `gorm:"size:255"`
	ClientLogo  *domain.Media       `gorm:"serializer:json"`
	Industry    string              `gorm:"size:32"`
	ServiceType string              `gorm:"size:16;index"`
	Description string              `gorm:"size:1000"`
	Challenge   string              `gorm:"type:text"`
	Solution    string              `gorm:"type:text"`
	Results     []domain.CaseResult `gorm:"serializer:json"`
	CoverImage  *domain.Media       `gorm:"serializer:json"`
	Images      []domain.Media      `gorm:"serializer:json"`
	Featured    bool                `gorm:"not null;default:false"`
	SortOrder   int                 `gorm:"not null;default:0"`
	Content     string              `gorm:"type:text"`
	PublishedAt *time.Time          `gorm:"index"`
	CreatedAt   time.Time           `gorm:"autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"autoUpdateTime"`
}

func (caseModel) TableName() string { return "cases" }

func (m *caseModel) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func (m caseModel) toDomain() domain.Case {
	results := m.Results
	if results == nil {
		results = []domain.CaseResult{}
	}
	images := m.Images
	if images == nil {
		images = []domain.Media{}
	}
	return domain.Case{
		ID:          m.ID,
		Title:       m.Title,
		Slug:        m.Slug,
		Client:      m.Client,
		ClientLogo:  m.ClientLogo,
		Industry:    domain.Industry(m.Industry),
		ServiceType: domain.ContentType(m.ServiceType),
		Description: m.Description,
		Challenge:   m.Challenge,
		Solution:    m.Solution,
		Results:     results,
		CoverImage:  m.CoverImage,
		Images:      images,
		Featured:    m.Featured,
		Order:       m.SortOrder,
		Content:     domain.MarkdownContent(m.Content),
		PublishedAt: m.PublishedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

type contactModel struct {
	ID          string    `gorm:"primaryKey;size:36"`
	Name        string    `gorm:"size:100;not null"`
	Company     string    `gorm:"size:200"`
	Email       string    `gorm:"size:255;not null;index"`
	Phone       string    `gorm:"size:50"`
	ServiceType string    `gorm:"size:16;not null"`
	Message     string    `gorm:"type:text;not null"`
	DealStatus  string    `gorm:"size:16;not null;default:pending"`
	Source      string    `gorm:"size:500"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (contactModel) TableName() string { return "contacts" }

func (m *contactModel) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func (m contactModel) toDomain() domain.Contact {
	return domain.Contact{
		ID: m.ID,
		ContactSubmission: domain.ContactSubmission{
			Name:        m.Name,
			Company:     m.Company,
			Email:       m.Email,
			Phone:       m.Phone,
			ServiceType: domain.ServiceInterest(m.ServiceType),
			Message:     m.Message,
			DealStatus:  domain.DealStatus(m.DealStatus),
			Source:      m.Source,
		},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// Migrate creates or updates the content tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&tagModel{}, &articleModel{}, &serviceModel{}, &caseModel{}, &contactModel{})
}
