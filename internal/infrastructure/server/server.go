package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	handlers "github.com/GriffinCanCode/ChatRelay/backend/internal/api/http"
	"github.com/GriffinCanCode/ChatRelay/backend/internal/api/middleware"
	"github.com/GriffinCanCode/ChatRelay/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/ChatRelay/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/ChatRelay/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/ChatRelay/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/ChatRelay/backend/internal/infrastructure/storage"
	"github.com/GriffinCanCode/ChatRelay/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/ChatRelay/backend/internal/providers/detection"
	httpclient "github.com/GriffinCanCode/ChatRelay/backend/internal/providers/http/client"
)

const serviceName = "chat-relay"

// Server wraps the HTTP server and dependencies
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	logger     *logging.Logger
	config     *config.Config
	metrics    *monitoring.Metrics
	tracer     *tracing.Tracer
	breaker    *resilience.Breaker
}

// Option customizes server construction
type Option func(*options)

type options struct {
	logger *logging.Logger
	store  detection.Store
}

// WithLogger uses logger instead of building one from the config.
func WithLogger(logger *logging.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithStore uses store instead of the S3 store built from the config.
func WithStore(store detection.Store) Option {
	return func(o *options) { o.store = store }
}

// NewServer creates a new server instance
func NewServer(ctx context.Context, cfg *config.Config, opts ...Option) (*Server, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		var err error
		logger, err = logging.New(logging.Config{
			Level:       cfg.Logging.Level,
			Development: cfg.Logging.Development,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}

	logger.Info("Initializing Chat Relay",
		zap.String("port", cfg.Server.Port),
		zap.String("detection_host", cfg.Detection.Host),
		zap.String("bucket", cfg.Storage.Bucket),
		zap.String("region", cfg.Storage.Region),
	)

	// Initialize metrics first (needed by other components)
	metrics := monitoring.NewMetrics()

	tracer := tracing.New(serviceName, logger.Logger)

	store := o.store
	if store == nil {
		s3Store, err := storage.NewS3Store(ctx, cfg.Storage)
		if err != nil {
			tracer.Close()
			return nil, fmt.Errorf("failed to create object store: %w", err)
		}
		store = s3Store
	}

	var breaker *resilience.Breaker
	if cfg.Detection.BreakerEnabled {
		breaker = resilience.New("predict", resilience.Settings{
			OnStateChange: func(name string, from, to resilience.State) {
				metrics.SetBreakerState(name, int(to))
				logger.Warn("Circuit breaker state changed",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			},
		})
		metrics.SetBreakerState(breaker.Name(), int(breaker.State()))
		logger.Info("Prediction circuit breaker enabled")
	}

	fetchClient := httpclient.NewClient(httpclient.Options{Timeout: cfg.Fetch.Timeout})
	predictClient := httpclient.NewClient(httpclient.Options{
		Timeout: cfg.Detection.Timeout,
		Breaker: breaker,
	})

	predictor := detection.NewPredictor(predictClient, cfg.Detection.Host)
	pipeline := detection.NewPipeline(detection.Deps{
		Fetcher:   detection.NewFetcher(fetchClient, logger.Logger, metrics),
		Store:     store,
		Keys:      storage.NewKeyGenerator(),
		Predictor: predictor,
		Tracer:    tracer,
		Metrics:   metrics,
		Logger:    logger.Logger,
	})

	h := handlers.NewHandlers(handlers.Deps{
		Pipeline:      pipeline,
		DetectionHost: predictor.Host(),
		Bucket:        bucketOf(store, cfg.Storage.Bucket),
		Breaker:       breaker,
		Metrics:       metrics,
		Logger:        logger,
	})

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID(logger))
	router.Use(middleware.AccessLog(logger))
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.Server.CORSOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.Server.CORSOrigins
	}
	router.Use(middleware.CORS(corsCfg))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(rl))
	}

	// Register routes
	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.POST("/api/chat", h.Chat)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)

	logger.Info("Server initialized successfully")

	return &Server{
		router: router,
		httpServer: &http.Server{
			Addr:    addr,
			Handler: router,
		},
		logger:  logger,
		config:  cfg,
		metrics: metrics,
		tracer:  tracer,
		breaker: breaker,
	}, nil
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Run starts the HTTP server and blocks until it stops. A server stopped
// through Shutdown returns nil.
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server, letting in-flight replies finish
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		s.logger.Error("Failed to shut down HTTP server", zap.Error(err))
		err = fmt.Errorf("failed to shut down http server: %w", err)
	}

	// Flush pending spans before exit
	s.tracer.Close()
	_ = s.logger.Sync()

	return err
}

// bucketOf reports the bucket a store writes to, falling back to the
// configured name for stores that do not expose one.
func bucketOf(store detection.Store, fallback string) string {
	if b, ok := store.(interface{ Bucket() string }); ok {
		return b.Bucket()
	}
	return fallback
}
