// Package httpapi wires the configuration engine's usecase.Manager onto
// an HTTP surface: routing and middleware glue around the real business
// logic, not business logic itself.
package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/globalbusinessadvisors/llm-config-manager/internal/config"
	"github.com/globalbusinessadvisors/llm-config-manager/internal/metrics"
	"github.com/globalbusinessadvisors/llm-config-manager/internal/security"
)

// Server is the main API server: /health, /ready, and the /api/v1/configs
// routes.
type Server struct {
	server   *http.Server
	logger   *slog.Logger
	router   *gin.Engine
	reqGroup singleflight.Group
}

// NewServer builds a Server bound to host:port.
func NewServer(host string, port int, logger *slog.Logger) *Server {
	return &Server{
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter wires every configuration-API route onto handler, through
// the request-id/logging/CORS/metrics/security middleware chain.
func (s *Server) SetupRouter(
	cfg *config.Config,
	handler *ConfigHandler,
	pipeline *security.Pipeline,
	metricsProvider *metrics.Provider,
	metricsNamespace string,
) {
	router := gin.New()
	router.Use(gin.Recovery())

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), metricsNamespace))
	}

	router.GET("/health", s.healthHandler(handler))
	router.GET("/ready", s.readinessHandler)

	if pipeline != nil {
		router.Use(SecurityMiddleware(pipeline, s.logger))
	}

	v1 := router.Group("/api/v1")
	{
		configs := v1.Group("/configs")
		{
			configs.GET("/:ns", handler.List)
			configs.GET("/:ns/:key", handler.Get)
			configs.POST("/:ns/:key", handler.Create)
			configs.DELETE("/:ns/:key", handler.Delete)
			configs.GET("/:ns/:key/history", handler.History)
			configs.POST("/:ns/:key/rollback/:version", handler.Rollback)
		}
	}

	s.router = router
}

// GetHandler returns the underlying http.Handler, for tests.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start blocks serving the API until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not initialized - call SetupRouter first")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler dedups concurrent health checks with singleflight, so a
// burst of probes from a load balancer collapses into one response build.
func (s *Server) healthHandler(handler *ConfigHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, _, _ := s.reqGroup.Do("health", func() (interface{}, error) {
			return gin.H{
				"status":  "healthy",
				"service": "llm-config-manager",
				"version": handler.version,
			}, nil
		})
		c.JSON(http.StatusOK, v)
	}
}

// readinessHandler always reports ready with storage "ok"; it runs no check
// of its own, since the server is only built after storage initialized and
// the configuration engine has no external database dependency to ping.
func (s *Server) readinessHandler(c *gin.Context) {
	v, _, _ := s.reqGroup.Do("readiness", func() (interface{}, error) {
		return gin.H{
			"status":     "ready",
			"components": gin.H{"storage": "ok"},
		}, nil
	})
	c.JSON(http.StatusOK, v)
}
