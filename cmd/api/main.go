// Package main is the entrypoint for the Meetloop API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/meetloop/meetloop/internal/cache"
	"github.com/meetloop/meetloop/internal/catalog"
	"github.com/meetloop/meetloop/internal/config"
	"github.com/meetloop/meetloop/internal/directory"
	"github.com/meetloop/meetloop/internal/handler"
	"github.com/meetloop/meetloop/internal/metrics"
	"github.com/meetloop/meetloop/internal/middleware"
	"github.com/meetloop/meetloop/internal/relay"
	"github.com/meetloop/meetloop/internal/server"
	"github.com/meetloop/meetloop/internal/store"
	"github.com/meetloop/meetloop/internal/upstream"
)

func main() {
	// Local overrides; missing file is fine.
	_ = godotenv.Load()

	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Load the durable document and rebuild the directory index
	fileStore := store.NewFileStore(cfg.DBPath)
	doc, err := fileStore.Load()
	if err != nil {
		logger.Error("failed to load directory document",
			slog.String("path", fileStore.Path()),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}
	logger.Info("directory document loaded",
		"path", fileStore.Path(),
		"users", len(doc.Users),
		"messages", len(doc.Messages),
	)

	metricsRecorder := metrics.NewInMemory()

	dir := directory.New(fileStore, logger, metricsRecorder)
	dir.Rebuild(doc)

	// Initialize the catalog cache: Redis when configured, in-memory otherwise
	catalogCache, err := newCatalogCache(ctx, cfg, logger)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", err.Error()),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer catalogCache.Close()

	// Initialize the upstream gateway and catalog service
	upstreamClient := upstream.New(cfg.UpstreamBaseURL, cfg.UpstreamAPIKey, cfg.UpstreamTimeout)
	catalogService := catalog.NewService(catalogCache, upstreamClient, cfg.CatalogCacheTTL, catalog.Fallback{}, logger, metricsRecorder)

	// Initialize the realtime relay
	hub := relay.NewHub(dir, logger, metricsRecorder)

	// Initialize handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(fileStore, catalogCache)
	metricsHandler := handler.NewMetricsHandler(metricsRecorder)
	catalogHandler := handler.NewCatalogHandler(catalogService, logger)
	userHandler := handler.NewUserHandler(dir, logger)
	messageHandler := handler.NewMessageHandler(dir, logger)
	wsHandler := handler.NewWSHandler(hub, logger)

	// Setup router
	r := setupRouter(h, healthHandler, metricsHandler, catalogHandler, userHandler, messageHandler, wsHandler, cfg, logger)

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)
	srv.OnShutdown("relay hub", func(ctx context.Context) error {
		return hub.Close()
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"upstream", cfg.UpstreamBaseURL,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// newCatalogCache selects the cache backend. REDIS_URL switches to Redis;
// without it catalog entries live in process memory.
func newCatalogCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (cache.Store, error) {
	if cfg.RedisURL == "" {
		logger.Info("using in-memory catalog cache")
		return cache.NewMemory(time.Minute), nil
	}

	client, err := cache.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to Redis")
	return client, nil
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	metricsHandler *handler.MetricsHandler,
	catalogHandler *handler.CatalogHandler,
	userHandler *handler.UserHandler,
	messageHandler *handler.MessageHandler,
	wsHandler *handler.WSHandler,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	secCfg := middleware.DefaultSecurityConfig()
	secCfg.IsDevelopment = cfg.IsDevelopment()
	r.Use(middleware.Security(secCfg))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))

	// Operational endpoints
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)

	// Root info endpoint
	r.Get("/", h.Hello)

	// Proxied event catalog
	r.Get("/events", catalogHandler.Events)
	r.Get("/events/{id}", catalogHandler.Event)
	r.Get("/events/{id}/attendees", catalogHandler.Attendees)
	r.Get("/calendar", catalogHandler.Calendar)

	// Directory routes share the request body limit
	bodyLimit := middleware.MaxBodySize(cfg.MaxRequestBodySize)

	r.With(bodyLimit).Post("/users", userHandler.Create)
	r.Get("/users/{id}", userHandler.Get)
	r.With(bodyLimit).Put("/users/{id}", userHandler.Update)
	r.With(bodyLimit).Post("/match", userHandler.Match)

	r.With(bodyLimit).Post("/messages", messageHandler.Create)
	r.Get("/messages/{eventId}", messageHandler.List)
	r.With(bodyLimit).Post("/notify", messageHandler.Notify)

	// Realtime relay
	r.Get("/ws", wsHandler.Connect)

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

// redactURL strips credentials from a connection URL before logging.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}
