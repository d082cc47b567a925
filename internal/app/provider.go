package app

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/liangwei/kuaikuaichuhai-website/internal/cms"
	"github.com/liangwei/kuaikuaichuhai-website/internal/cms/local"
	"github.com/liangwei/kuaikuaichuhai-website/internal/cms/payload"
	"github.com/liangwei/kuaikuaichuhai-website/internal/cms/strapi"
	"github.com/liangwei/kuaikuaichuhai-website/internal/config"
	"github.com/liangwei/kuaikuaichuhai-website/internal/domain"
)

// newProvider builds the content provider selected by cfg.Provider. db is
// only used, and must be non-nil, for the local provider.
func newProvider(cfg *config.CMSConfig, db *gorm.DB, logger *slog.Logger) (domain.ContentProvider, error) {
	var (
		p   domain.ContentProvider
		err error
	)
	switch cfg.Provider {
	case config.ProviderStrapi:
		p, err = strapi.New(strapi.Config{
			BaseURL:   cfg.BaseURL,
			APIPrefix: cfg.APIPrefix,
			Token:     cfg.APIToken,
			Timeout:   cfg.TimeoutDuration(),
			PageSize:  cfg.DefaultPageSize,
		}, logger)
	case config.ProviderPayload:
		p, err = payload.New(payload.Config{
			BaseURL:   cfg.BaseURL,
			APIPrefix: cfg.APIPrefix,
			Token:     cfg.APIToken,
			Timeout:   cfg.TimeoutDuration(),
			PageSize:  cfg.DefaultPageSize,
		}, logger)
	case config.ProviderLocal, "":
		if db == nil {
			return nil, fmt.Errorf("local provider requires a database")
		}
		p = local.New(db, cfg.DefaultPageSize)
	default:
		return nil, fmt.Errorf("unsupported cms provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s provider: %w", cfg.Provider, err)
	}

	if cfg.Cache.Enabled {
		p = cms.NewCachedProvider(p, cms.CacheConfig{
			ContentTTL:  cfg.Cache.ContentTTLDuration(),
			TaxonomyTTL: cfg.Cache.TaxonomyTTLDuration(),
			Capacity:    cfg.Cache.Capacity,
		})
	}
	return p, nil
}

// newContentRepository wraps the selected provider with the media resolver
// and failure policy shared by every module.
func newContentRepository(cfg *config.CMSConfig, db *gorm.DB, logger *slog.Logger) (*cms.Repository, error) {
	p, err := newProvider(cfg, db, logger)
	if err != nil {
		return nil, err
	}
	return cms.NewRepository(p, cms.NewMediaResolver(cfg.MediaBaseURL), logger), nil
}
