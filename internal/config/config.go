package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Supported content providers.
const (
	ProviderLocal   = "local"
	ProviderStrapi  = "strapi"
	ProviderPayload = "payload"
)

// maxPageSize bounds cms.default_page_size.
const maxPageSize = 100

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`
	CMS      CMSConfig      `koanf:"cms"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string     `koanf:"host"`
	Port    int        `koanf:"port"`
	Mode    string     `koanf:"mode"`
	Timeout string     `koanf:"timeout"`
	CORS    CORSConfig `koanf:"cors"`
}

// CORSConfig holds CORS middleware settings.
type CORSConfig struct {
	AllowOrigins     []string `koanf:"allow_origins"`
	AllowMethods     []string `koanf:"allow_methods"`
	AllowHeaders     []string `koanf:"allow_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           string   `koanf:"max_age"`
}

// DatabaseConfig holds database connection settings. The database backs the
// local content provider only.
type DatabaseConfig struct {
	Driver      string         `koanf:"driver"`
	AutoMigrate bool           `koanf:"auto_migrate"`
	SQLite      SQLiteConfig   `koanf:"sqlite"`
	Postgres    PostgresConfig `koanf:"postgres"`
	Pool        PoolConfig     `koanf:"pool"`
}

// SQLiteConfig holds SQLite-specific settings.
type SQLiteConfig struct {
	Path string `koanf:"path"`
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	DBName   string `koanf:"dbname"`
	SSLMode  string `koanf:"sslmode"`
}

// PoolConfig holds database connection pool settings.
type PoolConfig struct {
	MaxIdleConns    int    `koanf:"max_idle_conns"`
	MaxOpenConns    int    `koanf:"max_open_conns"`
	ConnMaxLifetime string `koanf:"conn_max_lifetime"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level           string `koanf:"level"`
	Format          string `koanf:"format"`
	Color           *bool  `koanf:"color"`
	FilePath        string `koanf:"file_path"`
	MaxSizeMB       int    `koanf:"max_size_mb"`
	RetentionDays   int    `koanf:"retention_days"`
	MaxBackups      int    `koanf:"max_backups"`
	CompressRotated *bool  `koanf:"compress_rotated"`
}

// CMSConfig selects and configures the content store. It is built once at
// start-up and handed to the provider factory.
type CMSConfig struct {
	Provider        string         `koanf:"provider"`
	BaseURL         string         `koanf:"base_url"`
	APIPrefix       string         `koanf:"api_prefix"`
	MediaBaseURL    string         `koanf:"media_base_url"`
	APIToken        string         `koanf:"api_token"`
	Timeout         string         `koanf:"timeout"`
	DefaultPageSize int            `koanf:"default_page_size"`
	Cache           CMSCacheConfig `koanf:"cache"`
	Render          RenderConfig   `koanf:"render"`
}

// CMSCacheConfig holds the read-through cache settings.
type CMSCacheConfig struct {
	Enabled     bool   `koanf:"enabled"`
	ContentTTL  string `koanf:"content_ttl"`
	TaxonomyTTL string `koanf:"taxonomy_ttl"`
	Capacity    int    `koanf:"capacity"`
}

// RenderConfig holds markdown rendering settings.
type RenderConfig struct {
	UnsafeHTML bool `koanf:"unsafe_html"`
}

// TimeoutDuration returns the per-request deadline, or 0 when unset.
func (c ServerConfig) TimeoutDuration() time.Duration {
	return parseOptionalDuration(strings.TrimSpace(c.Timeout))
}

// MaxAgeDuration returns the preflight cache lifetime, or 0 when unset.
func (c CORSConfig) MaxAgeDuration() time.Duration {
	return parseOptionalDuration(strings.TrimSpace(c.MaxAge))
}

// IsRemote reports whether the provider is reached over HTTP.
func (c CMSConfig) IsRemote() bool {
	return c.Provider == ProviderStrapi || c.Provider == ProviderPayload
}

// TimeoutDuration returns the request timeout, or 0 when unset.
func (c CMSConfig) TimeoutDuration() time.Duration {
	return parseOptionalDuration(c.Timeout)
}

// ContentTTLDuration returns the content cache TTL, or 0 when unset.
func (c CMSCacheConfig) ContentTTLDuration() time.Duration {
	return parseOptionalDuration(c.ContentTTL)
}

// TaxonomyTTLDuration returns the taxonomy cache TTL, or 0 when unset.
func (c CMSCacheConfig) TaxonomyTTLDuration() time.Duration {
	return parseOptionalDuration(c.TaxonomyTTL)
}

// parseOptionalDuration parses a value already checked by Validate.
func parseOptionalDuration(s string) time.Duration {
	if s == "" {
		return 0
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}

// Load reads configuration from a YAML file and overlays environment variables.
// Environment variables use the prefix "APP__" and double-underscore as the
// hierarchy separator. Single underscores are preserved as part of the key name.
// For example, APP__SERVER__PORT=9090 overrides server.port and
// APP__DATABASE__POOL__MAX_IDLE_CONNS=20 overrides database.pool.max_idle_conns.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Load YAML config file.
	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}

	// Overlay environment variables with prefix APP__.
	// APP__SERVER__PORT -> server.port
	// APP__DATABASE__POOL__MAX_IDLE_CONNS -> database.pool.max_idle_conns
	if err := k.Load(env.Provider("APP__", ".", func(s string) string {
		key := strings.TrimPrefix(s, "APP__")
		key = strings.ToLower(key)
		key = strings.ReplaceAll(key, "__", ".")
		return key
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cross-field constraints and supported values.
func (c *Config) Validate() error {
	// Validate server.mode.
	mode := strings.TrimSpace(c.Server.Mode)
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		c.Server.Mode = mode
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", c.Server.Mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}

	// Validate server.port range.
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", c.Server.Port)
	}

	// Validate server.host.
	host := strings.TrimSpace(c.Server.Host)
	if host == "" {
		return fmt.Errorf("server.host is required")
	}
	c.Server.Host = host

	if err := c.CMS.validate(); err != nil {
		return err
	}

	// The database is only opened for the local provider.
	if c.CMS.Provider == ProviderLocal {
		if err := c.Database.validate(c.Server.Mode); err != nil {
			return err
		}
	}

	// Normalize optional duration fields: whitespace-only means unset.
	c.Server.Timeout = strings.TrimSpace(c.Server.Timeout)
	c.Server.CORS.MaxAge = strings.TrimSpace(c.Server.CORS.MaxAge)
	c.Database.Pool.ConnMaxLifetime = strings.TrimSpace(c.Database.Pool.ConnMaxLifetime)

	// Validate server.timeout (optional; must be a valid Go duration if set).
	if t := c.Server.Timeout; t != "" {
		d, err := time.ParseDuration(t)
		if err != nil {
			return fmt.Errorf("invalid server.timeout %q: %w", c.Server.Timeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("invalid server.timeout %q: must be greater than 0", c.Server.Timeout)
		}
	}

	// Validate server.cors.max_age (optional; must be a valid Go duration if set).
	if ma := c.Server.CORS.MaxAge; ma != "" {
		d, err := time.ParseDuration(ma)
		if err != nil {
			return fmt.Errorf("invalid server.cors.max_age %q: must be a valid duration (e.g. \"24h\", \"3600s\"): %w", c.Server.CORS.MaxAge, err)
		}
		if d <= 0 {
			return fmt.Errorf("invalid server.cors.max_age %q: must be greater than 0", c.Server.CORS.MaxAge)
		}
	}

	// Validate database.pool.conn_max_lifetime (optional; must be positive if set).
	if lm := c.Database.Pool.ConnMaxLifetime; lm != "" {
		d, err := time.ParseDuration(lm)
		if err != nil {
			return fmt.Errorf("invalid database.pool.conn_max_lifetime %q: %w", c.Database.Pool.ConnMaxLifetime, err)
		}
		if d <= 0 {
			return fmt.Errorf("invalid database.pool.conn_max_lifetime %q: must be greater than 0", c.Database.Pool.ConnMaxLifetime)
		}
	}

	// Validate log.level.
	level := strings.ToLower(strings.TrimSpace(c.Log.Level))
	switch level {
	case "debug", "info", "warn", "error":
		c.Log.Level = level
	default:
		return fmt.Errorf("invalid log.level %q: must be one of %q, %q, %q, %q", c.Log.Level, "debug", "info", "warn", "error")
	}

	// Validate log.format.
	format := strings.ToLower(strings.TrimSpace(c.Log.Format))
	switch format {
	case "text", "json":
		c.Log.Format = format
	default:
		return fmt.Errorf("invalid log.format %q: must be one of %q, %q", c.Log.Format, "text", "json")
	}

	return nil
}

// validate checks the driver and its connection settings.
func (c *DatabaseConfig) validate(mode string) error {
	// Validate database.driver.
	switch c.Driver {
	case "sqlite", "postgres":
		// ok
	default:
		return fmt.Errorf("invalid database.driver %q: must be one of %q, %q", c.Driver, "sqlite", "postgres")
	}

	if c.Driver == "sqlite" {
		sqlitePath := strings.TrimSpace(c.SQLite.Path)
		if sqlitePath == "" {
			return fmt.Errorf("database.sqlite.path is required when driver is sqlite")
		}
		c.SQLite.Path = sqlitePath
	}

	// When driver is postgres, required connection fields must be valid.
	if c.Driver == "postgres" {
		host := strings.TrimSpace(c.Postgres.Host)
		if host == "" {
			return fmt.Errorf("database.postgres.host is required when driver is postgres")
		}
		if c.Postgres.Port < 1 || c.Postgres.Port > 65535 {
			return fmt.Errorf("invalid database.postgres.port %d: must be between 1 and 65535", c.Postgres.Port)
		}
		user := strings.TrimSpace(c.Postgres.User)
		if user == "" {
			return fmt.Errorf("database.postgres.user is required when driver is postgres")
		}
		dbName := strings.TrimSpace(c.Postgres.DBName)
		if dbName == "" {
			return fmt.Errorf("database.postgres.dbname is required when driver is postgres")
		}
		sslMode := strings.TrimSpace(c.Postgres.SSLMode)

		switch sslMode {
		case "disable", "allow", "prefer", "require", "verify-ca", "verify-full":
			// ok
		default:
			return fmt.Errorf("invalid database.postgres.sslmode %q: must be one of %q, %q, %q, %q, %q, %q", c.Postgres.SSLMode, "disable", "allow", "prefer", "require", "verify-ca", "verify-full")
		}
		if mode == gin.ReleaseMode {
			switch sslMode {
			case "require", "verify-ca", "verify-full":
				// ok
			default:
				return fmt.Errorf("invalid database.postgres.sslmode %q for server.mode %q: must be one of %q, %q, %q", c.Postgres.SSLMode, gin.ReleaseMode, "require", "verify-ca", "verify-full")
			}
		}

		c.Postgres.Host = host
		c.Postgres.User = user
		c.Postgres.DBName = dbName
		c.Postgres.SSLMode = sslMode
	}

	return nil
}

// validate normalizes the cms section. An empty provider selects the local
// database; media URLs default to the content store origin.
func (c *CMSConfig) validate() error {
	provider := strings.ToLower(strings.TrimSpace(c.Provider))
	if provider == "" {
		provider = ProviderLocal
	}
	switch provider {
	case ProviderLocal, ProviderStrapi, ProviderPayload:
		c.Provider = provider
	default:
		return fmt.Errorf("invalid cms.provider %q: must be one of %q, %q, %q", c.Provider, ProviderLocal, ProviderStrapi, ProviderPayload)
	}

	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.MediaBaseURL = strings.TrimRight(strings.TrimSpace(c.MediaBaseURL), "/")
	c.APIPrefix = strings.TrimSpace(c.APIPrefix)
	c.APIToken = strings.TrimSpace(c.APIToken)

	if c.IsRemote() {
		if c.BaseURL == "" {
			return fmt.Errorf("cms.base_url is required when provider is %s", c.Provider)
		}
		if err := validateHTTPURL(c.BaseURL); err != nil {
			return fmt.Errorf("invalid cms.base_url %q: %w", c.BaseURL, err)
		}
	}
	if c.MediaBaseURL == "" {
		c.MediaBaseURL = c.BaseURL
	} else if err := validateHTTPURL(c.MediaBaseURL); err != nil {
		return fmt.Errorf("invalid cms.media_base_url %q: %w", c.MediaBaseURL, err)
	}

	if c.DefaultPageSize < 0 || c.DefaultPageSize > maxPageSize {
		return fmt.Errorf("invalid cms.default_page_size %d: must be between 0 and %d", c.DefaultPageSize, maxPageSize)
	}

	durations := []struct {
		name  string
		value *string
	}{
		{"cms.timeout", &c.Timeout},
		{"cms.cache.content_ttl", &c.Cache.ContentTTL},
		{"cms.cache.taxonomy_ttl", &c.Cache.TaxonomyTTL},
	}
	for _, f := range durations {
		v := strings.TrimSpace(*f.value)
		*f.value = v
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", f.name, v, err)
		}
		if d <= 0 {
			return fmt.Errorf("invalid %s %q: must be greater than 0", f.name, v)
		}
	}

	if c.Cache.Capacity < 0 {
		return fmt.Errorf("invalid cms.cache.capacity %d: must not be negative", c.Cache.Capacity)
	}
	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}
