package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/liangwei/kuaikuaichuhai-website/internal/domain"
	"github.com/liangwei/kuaikuaichuhai-website/internal/pkg"
)

// Fixtures is the YAML seed document for the local store.
type Fixtures struct {
	Tags     []TagFixture     `yaml:"tags"`
	Articles []ArticleFixture `yaml:"articles"`
	Services []ServiceFixture `yaml:"services"`
	Cases    []CaseFixture    `yaml:"cases"`
}

type MediaFixture struct {
	URL    string `yaml:"url"`
	Alt    string `yaml:"alt"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

func (m *MediaFixture) media() *domain.Media {
	if m == nil || m.URL == "" {
		return nil
	}
	return &domain.Media{URL: m.URL, AlternativeText: m.Alt, Width: m.Width, Height: m.Height}
}

type TagFixture struct {
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
}

type ArticleFixture struct {
	Title       string        `yaml:"title"`
	Slug        string        `yaml:"slug"`
	Description string        `yaml:"description"`
	Excerpt     string        `yaml:"excerpt"`
	Content     string        `yaml:"content"`
	Type        string        `yaml:"type"`
	Tags        []string      `yaml:"tags"`
	Cover       *MediaFixture `yaml:"cover"`
	Author      string        `yaml:"author"`
	Featured    bool          `yaml:"featured"`
	Status      string        `yaml:"status"`
	PublishedAt *time.Time    `yaml:"published_at"`
}

type ServiceFixture struct {
	Title            string                  `yaml:"title"`
	Slug             string                  `yaml:"slug"`
	Description      string                  `yaml:"description"`
	ShortDescription string                  `yaml:"short_description"`
	HeroTitle        string                  `yaml:"hero_title"`
	HeroSubtitle     string                  `yaml:"hero_subtitle"`
	Content          string                  `yaml:"content"`
	Features         []domain.ServiceFeature `yaml:"features"`
	Cover            *MediaFixture           `yaml:"cover"`
	Order            int                     `yaml:"order"`
}

type CaseFixture struct {
	Title       string              `yaml:"title"`
	Slug        string              `yaml:"slug"`
	Client      string              `yaml:"client"`
	ClientLogo  *MediaFixture       `yaml:"client_logo"`
	Industry    string              `yaml:"industry"`
	ServiceType string              `yaml:"service_type"`
	Description string              `yaml:"description"`
	Challenge   string              `yaml:"challenge"`
	Solution    string              `yaml:"solution"`
	Results     []domain.CaseResult `yaml:"results"`
	Cover       *MediaFixture       `yaml:"cover"`
	Images      []MediaFixture      `yaml:"images"`
	Featured    bool                `yaml:"featured"`
	Order       int                 `yaml:"order"`
	Content     string              `yaml:"content"`
	PublishedAt *time.Time          `yaml:"published_at"`
}

// ImportStats counts the rows written by Import.
type ImportStats struct {
	Tags     int
	Articles int
	Services int
	Cases    int
}

// LoadFixtures reads a fixture file from disk.
func LoadFixtures(path string) (*Fixtures, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixtures: %w", err)
	}
	defer f.Close()
	return ParseFixtures(f)
}

// ParseFixtures decodes a fixture document and checks that every category
// value is known.
func ParseFixtures(r io.Reader) (*Fixtures, error) {
	var fx Fixtures
	if err := yaml.NewDecoder(r).Decode(&fx); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	for _, a := range fx.Articles {
		if a.Slug == "" {
			return nil, fmt.Errorf("article %q: missing slug", a.Title)
		}
		if !domain.ContentType(a.Type).Valid() {
			return nil, fmt.Errorf("article %q: invalid type %q", a.Slug, a.Type)
		}
	}
	for _, s := range fx.Services {
		if !domain.ContentType(s.Slug).Valid() {
			return nil, fmt.Errorf("service %q: slug must be one of seo, geo, social", s.Slug)
		}
	}
	for _, c := range fx.Cases {
		if c.Slug == "" {
			return nil, fmt.Errorf("case %q: missing slug", c.Title)
		}
		if !domain.ContentType(c.ServiceType).Valid() {
			return nil, fmt.Errorf("case %q: invalid service type %q", c.Slug, c.ServiceType)
		}
	}
	for _, t := range fx.Tags {
		if t.Slug == "" {
			return nil, fmt.Errorf("tag %q: missing slug", t.Name)
		}
	}
	return &fx, nil
}

// Import upserts fixtures by slug in one transaction. Re-importing the same
// document updates rows in place and replaces article tags.
func Import(ctx context.Context, db *gorm.DB, fx *Fixtures) (ImportStats, error) {
	var stats ImportStats
	err := pkg.WithTx(ctx, db, func(tx *gorm.DB) error {
		for _, t := range fx.Tags {
			row := tagModel{Name: t.Name, Slug: t.Slug, Description: t.Description}
			if err := save(tx, "tags", t.Slug, &row, &row.ID, &row.CreatedAt); err != nil {
				return fmt.Errorf("tag %q: %w", t.Slug, err)
			}
			stats.Tags++
		}

		for _, a := range fx.Articles {
			status := domain.ParseStatus(a.Status)
			row := articleModel{
				Title:       a.Title,
				Slug:        a.Slug,
				Description: a.Description,
				Excerpt:     a.Excerpt,
				Content:     a.Content,
				Type:        a.Type,
				CoverImage:  a.Cover.media(),
				Author:      a.Author,
				Featured:    a.Featured,
				Status:      string(status),
				PublishedAt: a.PublishedAt,
			}
			if status == domain.StatusPublished && row.PublishedAt == nil {
				now := time.Now().UTC()
				row.PublishedAt = &now
			}
			if err := save(tx, "articles", a.Slug, &row, &row.ID, &row.CreatedAt); err != nil {
				return fmt.Errorf("article %q: %w", a.Slug, err)
			}
			tags, err := tagsBySlug(tx, a.Tags)
			if err != nil {
				return fmt.Errorf("article %q: %w", a.Slug, err)
			}
			if err := tx.Model(&row).Association("Tags").Replace(tags); err != nil {
				return fmt.Errorf("article %q tags: %w", a.Slug, err)
			}
			stats.Articles++
		}

		for _, s := range fx.Services {
			row := serviceModel{
				Title:            s.Title,
				Slug:             s.Slug,
				Description:      s.Description,
				ShortDescription: s.ShortDescription,
				HeroTitle:        s.HeroTitle,
				HeroSubtitle:     s.HeroSubtitle,
				Content:          s.Content,
				Features:         s.Features,
				CoverImage:       s.Cover.media(),
				SortOrder:        s.Order,
			}
			if err := save(tx, "services", s.Slug, &row, &row.ID, &row.CreatedAt); err != nil {
				return fmt.Errorf("service %q: %w", s.Slug, err)
			}
			stats.Services++
		}

		for _, c := range fx.Cases {
			images := make([]domain.Media, 0, len(c.Images))
			for i := range c.Images {
				if m := c.Images[i].media(); m != nil {
					images = append(images, *m)
				}
			}
			row := caseModel{
				Title:       c.Title,
				Slug:        c.Slug,
				Client:      c.Client,
				ClientLogo:  c.ClientLogo.media(),
				Industry:    c.Industry,
				ServiceType: c.ServiceType,
				Description: c.Description,
				Challenge:   c.Challenge,
				Solution:    c.Solution,
				Results:     c.Results,
				CoverImage:  c.Cover.media(),
				Images:      images,
				Featured:    c.Featured,
				SortOrder:   c.Order,
				Content:     c.Content,
				PublishedAt: c.PublishedAt,
			}
			if err := save(tx, "cases", c.Slug, &row, &row.ID, &row.CreatedAt); err != nil {
				return fmt.Errorf("case %q: %w", c.Slug, err)
			}
			stats.Cases++
		}
		return nil
	})
	return stats, err
}

type rowKey struct {
	ID        string
	CreatedAt time.Time
}

// save inserts row, or overwrites the existing row with the same slug while
// keeping its id and creation time.
func save(tx *gorm.DB, table, slug string, row any, id *string, createdAt *time.Time) error {
	var key rowKey
	if err := tx.Table(table).Select("id, created_at").
		Where("slug = ?", slug).
		Limit(1).
		Scan(&key).Error; err != nil {
		return err
	}
	if key.ID == "" {
		return tx.Create(row).Error
	}
	*id = key.ID
	*createdAt = key.CreatedAt
	return tx.Save(row).Error
}

func tagsBySlug(tx *gorm.DB, slugs []string) ([]tagModel, error) {
	if len(slugs) == 0 {
		return []tagModel{}, nil
	}
	var tags []tagModel
	if err := tx.Where("slug IN ?", slugs).Find(&tags).Error; err != nil {
		return nil, err
	}
	found := make(map[string]bool, len(tags))
	for _, t := range tags {
		found[t.Slug] = true
	}
	for _, slug := range slugs {
		if !found[slug] {
			return nil, fmt.Errorf("unknown tag %q", slug)
		}
	}
	return tags, nil
}
