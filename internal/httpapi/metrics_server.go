package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/globalbusinessadvisors/llm-config-manager/internal/metrics"
)

// MetricsServer exposes the Prometheus /metrics endpoint on its own
// listener, bound to a different host:port than the API server so
// operators can keep it off the public network while the API stays
// reachable (or vice versa).
type MetricsServer struct {
	server  *http.Server
	logger  *slog.Logger
	enabled bool
}

// NewMetricsServer builds a MetricsServer. metricsProvider may be nil, in
// which case no /metrics route is registered and /live reports
// metrics_enabled: false, so a scrape-health check can tell "the process
// is up but metrics were turned off" apart from "the process is down".
func NewMetricsServer(host string, port int, logger *slog.Logger, metricsProvider *metrics.Provider) *MetricsServer {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CustomLoggerMiddleware(logger))

	enabled := metricsProvider != nil
	if enabled {
		router.GET("/metrics", gin.WrapH(metricsProvider.Handler()))
	}
	router.GET("/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "live", "metrics_enabled": enabled})
	})

	return &MetricsServer{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger:  logger,
		enabled: enabled,
	}
}

// GetHandler returns the underlying http.Handler, for tests.
func (s *MetricsServer) GetHandler() http.Handler {
	return s.server.Handler
}

// Start blocks serving the metrics endpoint until Shutdown is called.
func (s *MetricsServer) Start(ctx context.Context) error {
	s.logger.Info("starting metrics server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the metrics server.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down metrics server")
	return s.server.Shutdown(ctx)
}
