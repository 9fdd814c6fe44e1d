// Package http provides HTTP server implementation and request handlers.
package http

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/gegcuk/kidsgpt-backend/internal/auth/http"
	authService "github.com/gegcuk/kidsgpt-backend/internal/auth/service"
	authUseCase "github.com/gegcuk/kidsgpt-backend/internal/auth/usecase"
	chatHTTP "github.com/gegcuk/kidsgpt-backend/internal/chat/http"
	"github.com/gegcuk/kidsgpt-backend/internal/config"
	"github.com/gegcuk/kidsgpt-backend/internal/metrics"
)

// Server represents the HTTP server
type Server struct {
	db     *sql.DB
	server *http.Server
	logger *slog.Logger
	router *gin.Engine
}

// NewServer creates a new HTTP server. Call SetupRouter before Start.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the gin engine.
//
// Middleware runs in this order: recovery, request id, request logging, HTTP metrics,
// CORS and the authentication gate. The gate never rejects; routes that need a principal
// add RequireAuthenticated.
func (s *Server) SetupRouter(
	cfg *config.Config,
	sessionHandler *authHTTP.SessionHandler,
	chatHandler *chatHTTP.ChatHandler,
	tokenCodec authService.TokenCodec,
	revocationUseCase authUseCase.RevocationUseCase,
	principalResolver authUseCase.PrincipalResolver,
	metricsProvider *metrics.Provider,
) {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	if corsMiddleware := newCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.Use(authHTTP.AuthenticationMiddleware(tokenCodec, revocationUseCase, principalResolver, s.logger))
	requirePrincipal := authHTTP.RequireAuthenticated(s.logger)

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		loginChain := []gin.HandlerFunc{}
		if cfg.RateLimitLoginEnabled {
			loginChain = append(loginChain, authHTTP.LoginRateLimitMiddleware(
				cfg.RateLimitLoginRequestsPerSec,
				cfg.RateLimitLoginBurst,
				s.logger,
			))
		}
		loginChain = append(loginChain, sessionHandler.LoginHandler)

		auth.POST("/login", loginChain...)
		auth.POST("/logout", sessionHandler.LogoutHandler)
		auth.GET("/me", requirePrincipal, sessionHandler.MeHandler)
	}

	chat := v1.Group("/chat", requirePrincipal)
	if cfg.RateLimitEnabled {
		chat.Use(authHTTP.RateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
	}
	{
		chat.POST("", chatHandler.ChatHandler)
		chat.GET("/contexts/:id/messages", chatHandler.HistoryHandler)
	}

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return errors.New("router not configured: call SetupRouter first")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports that the process is up.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler pings the database.
func (s *Server) readinessHandler(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": "ok"},
	})
}
