package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aescanero/kfp-webhook/internal/application/relay"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// TokenProbe reports whether the outbound credential is present
type TokenProbe interface {
	Available() bool
}

// MetricsRecorder receives HTTP request metrics
type MetricsRecorder interface {
	ObserveHTTPRequest(method, route, status string, duration time.Duration)
}

// Server represents the HTTP API server
type Server struct {
	router *gin.Engine
	server *http.Server
	relay  *relay.Service
	auth   *relay.Authenticator
	token  TokenProbe
	logger *zap.Logger

	kubeflowEndpoint  string
	defaultPipelineID string
	maxBodyBytes      int64
}

// Config holds HTTP server configuration
type Config struct {
	Port              int
	ReadHeaderTimeout time.Duration
	MaxBodyBytes      int64

	Relay         *relay.Service
	Authenticator *relay.Authenticator
	TokenProbe    TokenProbe

	// Reported by the health endpoint
	KubeflowEndpoint  string
	DefaultPipelineID string

	Metrics  MetricsRecorder
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *Config) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(requestLogger(cfg.Logger))
	if cfg.Metrics != nil {
		router.Use(requestMetrics(cfg.Metrics))
	}

	s := &Server{
		router:            router,
		relay:             cfg.Relay,
		auth:              cfg.Authenticator,
		token:             cfg.TokenProbe,
		logger:            cfg.Logger,
		kubeflowEndpoint:  cfg.KubeflowEndpoint,
		defaultPipelineID: cfg.DefaultPipelineID,
		maxBodyBytes:      cfg.MaxBodyBytes,
	}

	s.setupRoutes(cfg.Gatherer)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	return s
}

// setupRoutes configures API routes
func (s *Server) setupRoutes(gatherer prometheus.Gatherer) {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/health", s.handleHealth)

	if gatherer != nil {
		s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	s.router.POST("/trigger", bearerAuth(s.auth, s.relay, s.logger), s.handleTrigger)
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("HTTP server shut down complete")
	return nil
}
