package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const corsWildcard = "*"

// newCORSMiddleware builds the CORS handler for the browser client, or nil when CORS is off
// or no origin is configured. Tokens travel in the Authorization header, so credentials
// (cookies) are never allowed.
func newCORSMiddleware(enabled bool, rawOrigins string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}

	origins := splitOrigins(rawOrigins)
	if len(origins) == 0 {
		logger.Warn("cors enabled without allowed origins, middleware not installed")
		return nil
	}

	config := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Authorization", "Content-Type", "X-Request-Id"},
		ExposeHeaders: []string{"X-Request-Id", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if containsWildcard(origins) {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}

	logger.Info("cors enabled", slog.Any("origins", origins))
	return cors.New(config)
}

// splitOrigins splits a comma-separated origin list, dropping blanks and trailing slashes.
func splitOrigins(raw string) []string {
	var origins []string
	for _, part := range strings.Split(raw, ",") {
		origin := strings.TrimRight(strings.TrimSpace(part), "/")
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func containsWildcard(origins []string) bool {
	for _, origin := range origins {
		if origin == corsWildcard {
			return true
		}
	}
	return false
}
