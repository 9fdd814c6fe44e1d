// Package httputil writes JSON error bodies for gin handlers.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/gegcuk/kidsgpt-backend/internal/errors"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// errorMapping ties an error kind to its status. When message is empty the error text is
// shown to the caller; otherwise the fixed message hides it.
type errorMapping struct {
	kind    error
	status  int
	code    string
	message string
}

// errorMappings is checked in order; the first kind found in the chain wins.
var errorMappings = []errorMapping{
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized", "Invalid credentials or authentication required"},
	{apperrors.ErrForbidden, http.StatusForbidden, "forbidden", "You don't have permission to access this resource"},
	{apperrors.ErrNotFound, http.StatusNotFound, "not_found", "The requested resource was not found"},
	{apperrors.ErrConflict, http.StatusConflict, "conflict", "A conflict occurred with existing data"},
	{apperrors.ErrInvalidInput, http.StatusUnprocessableEntity, "invalid_input", ""},
	{apperrors.ErrTooManyRequests, http.StatusTooManyRequests, "too_many_requests", "Too many requests, please try again later"},
	{apperrors.ErrUnavailable, http.StatusServiceUnavailable, "service_unavailable", "A required service is temporarily unavailable"},
}

var internalError = errorMapping{
	status:  http.StatusInternalServerError,
	code:    "internal_error",
	message: "An internal error occurred",
}

func mappingFor(err error) errorMapping {
	for _, m := range errorMappings {
		if apperrors.Is(err, m.kind) {
			return m
		}
	}
	return internalError
}

// HandleErrorGin aborts the request with the status for err's kind. Unauthorized bodies
// are fixed text, so a missing user and a wrong password look the same to the caller.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	m := mappingFor(err)
	body := ErrorResponse{Error: m.code, Message: m.message}
	if body.Message == "" {
		body.Message = err.Error()
	}

	if logger != nil {
		level := slog.LevelWarn
		if m.status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.LogAttrs(c, level, "request failed",
			slog.Int("status_code", m.status),
			slog.String("error_code", m.code),
			slog.Any("error", err),
		)
	}

	c.AbortWithStatusJSON(m.status, body)
}

// HandleBadRequestGin answers 400 for bodies or parameters that could not be bound.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: err.Error()})
}
