package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Asim1921/Jodi-frontend/internal/api"
	"github.com/Asim1921/Jodi-frontend/internal/config"
	handler "github.com/Asim1921/Jodi-frontend/internal/handler/http"
	"github.com/Asim1921/Jodi-frontend/internal/session"
	"github.com/Asim1921/Jodi-frontend/pkg/health"
	"github.com/Asim1921/Jodi-frontend/pkg/httpclient"
	"github.com/Asim1921/Jodi-frontend/pkg/tracing"
)

// App wires together the frontend service: the upstream API client behind a
// retrying transport and circuit breaker, browser session management, and
// the HTTP surface the page scripts talk to.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	server         *http.Server
	redis          *redis.Client
	tracerShutdown func(context.Context) error
}

// NewApp builds the application from configuration. It fails fast on
// anything misconfigured, but a missing Redis only degrades sessions to
// in-memory storage.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:  "jodi-frontend",
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTELEndpoint,
		SampleRate:   cfg.OTELSampleRate,
		Enabled:      cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
	} else {
		logger.Warn("REDIS_ADDR not set, using in-memory sessions (single instance only)")
	}

	clientCfg := httpclient.DefaultConfig()
	clientCfg.Timeout = cfg.APITimeout
	clientCfg.MaxRetries = cfg.APIMaxRetries

	transport := httpclient.NewCircuitBreakerClient(
		httpclient.New(clientCfg),
		httpclient.DefaultCircuitBreakerConfig("jodi-api"),
		logger,
	)
	apiClient := api.New(cfg.APIBaseURL, transport, logger)

	sessions := session.NewManager(
		ctx,
		cfg.SessionSecret,
		cfg.SessionTTL,
		cfg.Environment != "development",
		redisClient,
		func(ctx context.Context, storage session.Storage) (*session.Store, error) {
			return session.NewStore(ctx, storage, apiClient, logger)
		},
		logger,
	)

	healthHandler := health.NewHandler()
	if redisClient != nil {
		healthHandler.Register("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	healthHandler.RegisterNonCritical("upstream_api", func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.APIBaseURL+"/health", nil)
		if err != nil {
			return err
		}
		resp, err := transport.Do(ctx, req)
		if err != nil {
			return err
		}
		resp.Body.Close()
		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("upstream returned %d", resp.StatusCode)
		}
		return nil
	})

	router := handler.NewRouter(ctx, cfg, sessions, handler.Handlers{
		Auth:     handler.NewAuthHandler(logger),
		Business: handler.NewBusinessHandler(logger),
		Review:   handler.NewReviewHandler(ctx, cfg.ReviewsPerPage, cfg.SessionTTL, logger),
	}, healthHandler, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		server:         server,
		redis:          redisClient,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until it stops.
func (a *App) Run() error {
	a.logger.Info("starting frontend server",
		slog.String("addr", a.server.Addr),
		slog.String("environment", a.cfg.Environment),
	)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server, then closes Redis and flushes traces.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down frontend server")

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("close redis client", slog.String("error", err.Error()))
		}
	}

	if a.tracerShutdown != nil {
		if err := a.tracerShutdown(ctx); err != nil {
			a.logger.Error("shutdown tracer", slog.String("error", err.Error()))
		}
	}

	return nil
}
