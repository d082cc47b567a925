// Package local implements domain.ContentProvider over a GORM database, so
// the site can run without a remote CMS.
package local

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/liangwei/kuaikuaichuhai-website/internal/domain"
	"github.com/liangwei/kuaikuaichuhai-website/internal/pkg"
)

// Name identifies this provider in config and logs.
const Name = "local"

// DefaultPageSize is used when a listing does not ask for a size.
const DefaultPageSize = 12

// Allowed fields for filtering and ordering.
var (
	articleFilterFields = []string{"type", "status", "slug"}
	caseFilterFields    = []string{"service_type", "slug"}
	sortFields          = []string{"published_at", "sort_order", "name"}
)

// Provider reads and writes content rows with GORM.
type Provider struct {
	db       *gorm.DB
	pageSize int
}

var _ domain.ContentProvider = (*Provider)(nil)

// New creates a Provider on db. pageSize < 1 takes DefaultPageSize.
func New(db *gorm.DB, pageSize int) *Provider {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Provider{db: db, pageSize: pageSize}
}

// Name implements domain.ContentProvider.
func (p *Provider) Name() string { return Name }

// DefaultPageSize implements domain.ContentProvider.
func (p *Provider) DefaultPageSize() int { return p.pageSize }

// ListArticles implements domain.ContentProvider.
func (p *Provider) ListArticles(ctx context.Context, q domain.ArticleQuery) (*domain.Page[domain.Article], error) {
	q = q.Normalize(p.pageSize)

	base := p.db.WithContext(ctx).Model(&articleModel{}).
		Scopes(pkg.Filter(map[string]string{
			"type":   string(q.Type),
			"status": string(q.Status),
		}, articleFilterFields))
	if q.Tag != "" {
		base = base.Where("id IN (?)", p.taggedArticleIDs(ctx, q.Tag))
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, mapError(err)
	}

	var rows []articleModel
	if err := base.Session(&gorm.Session{}).
		Scopes(pkg.Sort("published_at:desc", sortFields), pkg.Paginate(q.Page, q.Limit)).
		Preload("Tags").
		Find(&rows).Error; err != nil {
		return nil, mapError(err)
	}

	return domain.NewPage(articlesToDomain(rows), q.Page, q.Limit, int(total)), nil
}

func (p *Provider) taggedArticleIDs(ctx context.Context, slug string) *gorm.DB {
	return p.db.WithContext(ctx).Table("article_tags").
		Select("article_tags.article_id").
		Joins("JOIN tags ON tags.id = article_tags.tag_id").
		Where("tags.slug = ?", slug)
}

func articlesToDomain(rows []articleModel) []domain.Article {
	out := make([]domain.Article, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out
}

// FindArticleBySlug implements domain.ContentProvider.
func (p *Provider) FindArticleBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	return findOne(p.db.WithContext(ctx).
		Scopes(pkg.Filter(map[string]string{
			"slug":   slug,
			"status": string(domain.StatusPublished),
		}, articleFilterFields)).
		Preload("Tags"), articleModel.toDomain)
}

// FindArticleByID implements domain.ContentProvider.
func (p *Provider) FindArticleByID(ctx context.Context, id string) (*domain.Article, error) {
	return findOne(p.db.WithContext(ctx).Preload("Tags").Where("id = ?", id), articleModel.toDomain)
}

// ListRelatedArticles implements domain.ContentProvider.
func (p *Provider) ListRelatedArticles(ctx context.Context, q domain.RelatedQuery) ([]domain.Article, error) {
	db := p.db.WithContext(ctx).
		Scopes(pkg.Filter(map[string]string{
			"type":   string(q.Type),
			"status": string(domain.StatusPublished),
		}, articleFilterFields))
	if q.ExcludeID != "" {
		db = db.Where("id <> ?", q.ExcludeID)
	}
	var rows []articleModel
	if err := db.Scopes(pkg.Sort("published_at:desc", sortFields)).
		Limit(q.Limit).
		Preload("Tags").
		Find(&rows).Error; err != nil {
		return nil, mapError(err)
	}
	return articlesToDomain(rows), nil
}

// IncrementViewCount implements domain.ContentProvider with an atomic update.
func (p *Provider) IncrementViewCount(ctx context.Context, id string) error {
	result := p.db.WithContext(ctx).Model(&articleModel{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListTags implements domain.ContentProvider.
func (p *Provider) ListTags(ctx context.Context, limit int) ([]domain.Tag, error) {
	var rows []tagModel
	if err := p.db.WithContext(ctx).
		Scopes(pkg.Sort("name:asc", sortFields)).
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, mapError(err)
	}
	out := make([]domain.Tag, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// FindTagBySlug implements domain.ContentProvider.
func (p *Provider) FindTagBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	return findOne(p.db.WithContext(ctx).Where("slug = ?", slug), tagModel.toDomain)
}

// ListServices implements domain.ContentProvider.
func (p *Provider) ListServices(ctx context.Context, limit int) (*domain.Page[domain.Service], error) {
	var total int64
	if err := p.db.WithContext(ctx).Model(&serviceModel{}).Count(&total).Error; err != nil {
		return nil, mapError(err)
	}
	var rows []serviceModel
	if err := p.db.WithContext(ctx).
		Scopes(pkg.Sort("sort_order:asc", sortFields), pkg.Paginate(1, limit)).
		Find(&rows).Error; err != nil {
		return nil, mapError(err)
	}
	docs := make([]domain.Service, 0, len(rows))
	for _, r := range rows {
		docs = append(docs, r.toDomain())
	}
	return domain.NewPage(docs, 1, limit, int(total)), nil
}

// FindServiceBySlug implements domain.ContentProvider.
func (p *Provider) FindServiceBySlug(ctx context.Context, slug domain.ContentType) (*domain.Service, error) {
	return findOne(p.db.WithContext(ctx).Where("slug = ?", string(slug)), serviceModel.toDomain)
}

// ListCases implements domain.ContentProvider.
func (p *Provider) ListCases(ctx context.Context, q domain.CaseQuery) (*domain.Page[domain.Case], error) {
	q = q.Normalize(p.pageSize)
	base := p.db.WithContext(ctx).Model(&caseModel{}).
		Scopes(pkg.Filter(map[string]string{"service_type": string(q.Type)}, caseFilterFields))

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, mapError(err)
	}
	var rows []caseModel
	if err := base.Session(&gorm.Session{}).
		Scopes(pkg.Sort("sort_order:asc", sortFields), pkg.Paginate(q.Page, q.Limit)).
		Find(&rows).Error; err != nil {
		return nil, mapError(err)
	}
	return domain.NewPage(casesToDomain(rows), q.Page, q.Limit, int(total)), nil
}

func casesToDomain(rows []caseModel) []domain.Case {
	out := make([]domain.Case, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out
}

// FindCaseBySlug implements domain.ContentProvider.
func (p *Provider) FindCaseBySlug(ctx context.Context, slug string) (*domain.Case, error) {
	return findOne(p.db.WithContext(ctx).Where("slug = ?", slug), caseModel.toDomain)
}

// ListRelatedCases implements domain.ContentProvider.
func (p *Provider) ListRelatedCases(ctx context.Context, q domain.RelatedQuery) ([]domain.Case, error) {
	db := p.db.WithContext(ctx).
		Scopes(pkg.Filter(map[string]string{"service_type": string(q.Type)}, caseFilterFields))
	if q.ExcludeID != "" {
		db = db.Where("id <> ?", q.ExcludeID)
	}
	var rows []caseModel
	if err := db.Scopes(pkg.Sort("sort_order:asc", sortFields)).Limit(q.Limit).Find(&rows).Error; err != nil {
		return nil, mapError(err)
	}
	return casesToDomain(rows), nil
}

// CreateContact implements domain.ContentProvider.
func (p *Provider) CreateContact(ctx context.Context, in domain.ContactSubmission) (*domain.Contact, error) {
	row := contactModel{
		Name:        in.Name,
		Company:     in.Company,
		Email:       in.Email,
		Phone:       in.Phone,
		ServiceType: string(in.ServiceType),
		Message:     in.Message,
		DealStatus:  string(in.DealStatus),
		Source:      in.Source,
	}
	if row.DealStatus == "" {
		row.DealStatus = string(domain.DealPending)
	}
	if err := p.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, mapError(err)
	}
	c := row.toDomain()
	return &c, nil
}

// Ping implements domain.ContentProvider.
func (p *Provider) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// findOne loads the first row matching db and converts it. No match is
// reported as (nil, nil).
func findOne[M, D any](db *gorm.DB, convert func(M) D) (*D, error) {
	var row M
	err := db.First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err)
	}
	out := convert(row)
	return &out, nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	return domain.NewAppError(domain.CodeInternal, "database error", err)
}
