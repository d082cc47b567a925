package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/logger"
	"gorm.io/gorm"

	"github.com/liangwei/kuaikuaichuhai-website/internal/cms"
	"github.com/liangwei/kuaikuaichuhai-website/internal/cms/local"
	"github.com/liangwei/kuaikuaichuhai-website/internal/config"
	"github.com/liangwei/kuaikuaichuhai-website/internal/markdown"
	"github.com/liangwei/kuaikuaichuhai-website/internal/middleware"
	"github.com/liangwei/kuaikuaichuhai-website/internal/module/contact"
	"github.com/liangwei/kuaikuaichuhai-website/internal/module/content"
)

// App holds the core application dependencies and the HTTP server.
type App struct {
	engine *gin.Engine
	db     *gorm.DB
	repo   *cms.Repository
	logger *logger.Logger
	cfg    *config.Config
}

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

var newHTTPServer = func(addr string, handler http.Handler) httpServer {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

var notifyContext = func(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, signals...)
}

// New creates and wires a fully configured App from the given Config.
//
// It sets up logging, the content store (a database only for the local
// provider), the content repository, modules, middleware, and routes.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	success := false

	// 1. Setup logger.
	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	if cfg.Server.Mode == gin.DebugMode && cfg.Server.Host == "0.0.0.0" {
		log.Warn("insecure server config: debug mode on 0.0.0.0 may expose debug behavior and permissive CORS")
	}
	defer func() {
		if success {
			return
		}
		if err := log.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}()

	// 2. Open the database when content is stored locally.
	var db *gorm.DB
	if !cfg.CMS.IsRemote() {
		db, err = config.SetupDatabase(&cfg.Database, log.Logger)
		if err != nil {
			return nil, fmt.Errorf("setup database: %w", err)
		}
		defer func() {
			if success {
				return
			}
			closeDB(db, log.Logger)
		}()

		if cfg.Database.AutoMigrate {
			if err := local.Migrate(db); err != nil {
				return nil, fmt.Errorf("auto migrate: %w", err)
			}
			log.Info("auto migration completed")
		}
	}

	// 3. Content repository: provider, optional cache, media resolver.
	repo, err := newContentRepository(&cfg.CMS, db, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("setup content store: %w", err)
	}
	log.Info("content store ready",
		slog.String("provider", repo.Provider()),
		slog.Bool("cache", cfg.CMS.Cache.Enabled),
		slog.String("media_base_url", cfg.CMS.MediaBaseURL),
	)

	// 4. Manual dependency injection: repository → service → handler → module.
	renderer := markdown.New(markdown.Options{Unsafe: cfg.CMS.Render.UnsafeHTML})
	contentModule := content.NewModule(content.NewHandler(content.NewService(repo, renderer)))
	contactModule := contact.NewModule(contact.NewHandler(contact.NewService(repo)))

	// 5. Create Gin engine with custom middleware (not gin.Default()).
	if err := validateGinMode(cfg.Server.Mode); err != nil {
		return nil, err
	}
	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()

	// In release mode, when no allowlist is configured, cross-origin
	// requests are denied.
	corsConfig := resolveCORSConfig(cfg.Server.Mode, &cfg.Server.CORS)

	engine.Use(
		middleware.Recovery(log.Logger),
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{
			TrustUpstream: false,
		}),
		middleware.LoggerWithConfig(log.Logger, middleware.LoggerConfig{
			SkipPaths: []string{"/health"},
		}),
		middleware.CORSWithConfig(corsConfig),
		middleware.Timeout(cfg.Server.TimeoutDuration()),
	)

	// 6. Register all routes.
	if err := RegisterRoutes(engine, &RouteDeps{
		Modules: []Module{contentModule, contactModule},
		Store:   repo,
	}); err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}

	success = true
	return &App{
		engine: engine,
		db:     db,
		repo:   repo,
		logger: log,
		cfg:    cfg,
	}, nil
}

// Handler returns the configured HTTP handler.
func (a *App) Handler() http.Handler {
	return a.engine
}

// CheckContentStore pings the configured content store once.
func (a *App) CheckContentStore(ctx context.Context) error {
	if a == nil || a.repo == nil {
		return errors.New("content store is not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	if err := a.repo.Ping(ctx); err != nil {
		return fmt.Errorf("%s content store: %w", a.repo.Provider(), err)
	}
	return nil
}

// Close releases the database and logger without starting the server.
func (a *App) Close() {
	if a == nil {
		return
	}
	log := slog.Default()
	if a.logger != nil {
		log = a.logger.Logger
	}
	closeDB(a.db, log)
	if a.logger != nil {
		_ = a.logger.Close()
	}
}

func resolveCORSConfig(mode string, cfg *config.CORSConfig) middleware.CORSConfig {
	corsConfig := middleware.DefaultCORSConfig()

	if cfg != nil {
		if len(cfg.AllowMethods) > 0 {
			corsConfig.AllowMethods = cfg.AllowMethods
		}
		if len(cfg.AllowHeaders) > 0 {
			corsConfig.AllowHeaders = cfg.AllowHeaders
		}
		corsConfig.AllowCredentials = cfg.AllowCredentials
		if d := cfg.MaxAgeDuration(); d > 0 {
			corsConfig.MaxAge = strconv.Itoa(int(d / time.Second))
		}
		if len(cfg.AllowOrigins) > 0 {
			corsConfig.AllowOrigins = cfg.AllowOrigins
			return corsConfig
		}
	}

	if mode == gin.ReleaseMode {
		corsConfig.AllowOrigins = []string{}
	}

	return corsConfig
}

func validateGinMode(mode string) error {
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		return nil
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}
}

func closeDB(db *gorm.DB, log *slog.Logger) {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error("database close error", slog.Any("error", err))
		return
	}
	log.Info("database connection closed")
}

// Run starts the HTTP server and blocks until a shutdown signal is received.
// It performs graceful shutdown with a 5-second timeout and closes the
// database connection when one was opened.
func (a *App) Run() error {
	if a == nil {
		return errors.New("app is nil")
	}
	if a.cfg == nil {
		return errors.New("app config is nil")
	}
	if a.engine == nil {
		return errors.New("app engine is nil")
	}

	log := slog.Default()
	if a.logger != nil {
		log = a.logger.Logger
	}

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	srv := newHTTPServer(addr, a.engine)

	// Listen for SIGINT / SIGTERM.
	ctx, stop := notifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("addr", addr), slog.String("provider", a.cfg.CMS.Provider))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		runErr = fmt.Errorf("server error: %w", err)
	}

	if runErr == nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", slog.Any("error", err))
		}
	}

	closeDB(a.db, log)

	log.Info("server stopped")
	if a.logger != nil {
		if err := a.logger.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}

	return runErr
}
