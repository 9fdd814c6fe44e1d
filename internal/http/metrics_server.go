package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gegcuk/kidsgpt-backend/internal/metrics"
)

// MetricsServer exposes the Prometheus scrape endpoint on its own port so that
// /metrics is never reachable through the public API listener.
type MetricsServer struct {
	server *http.Server
	logger *slog.Logger
}

// NewMetricsServer creates a MetricsServer serving GET /metrics from provider.
// A nil provider yields a server that answers 404 to every path.
func NewMetricsServer(host string, port int, logger *slog.Logger, provider *metrics.Provider) *MetricsServer {
	router := gin.New()
	router.Use(gin.Recovery())

	if provider != nil {
		router.GET("/metrics", gin.WrapH(provider.Handler()))
	}

	return &MetricsServer{
		server: &http.Server{
			Addr:              net.JoinHostPort(host, strconv.Itoa(port)),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      30 * time.Second,
		},
		logger: logger,
	}
}

// GetHandler returns the router, for tests.
func (s *MetricsServer) GetHandler() http.Handler {
	return s.server.Handler
}

// Start blocks serving scrapes until Shutdown is called.
func (s *MetricsServer) Start(_ context.Context) error {
	s.logger.Info("metrics server listening", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server stopped: %w", err)
	}
	return nil
}

func (s *MetricsServer) Shutdown(ctx context.Context) error {
	s.logger.Info("stopping metrics server")
	return s.server.Shutdown(ctx)
}
