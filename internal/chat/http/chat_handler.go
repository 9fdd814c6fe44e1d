// Package http provides the HTTP handlers of the chat endpoints.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/gegcuk/kidsgpt-backend/internal/auth/http"
	"github.com/gegcuk/kidsgpt-backend/internal/chat/http/dto"
	chatUseCase "github.com/gegcuk/kidsgpt-backend/internal/chat/usecase"
	apperrors "github.com/gegcuk/kidsgpt-backend/internal/errors"
	"github.com/gegcuk/kidsgpt-backend/internal/httputil"
	customValidation "github.com/gegcuk/kidsgpt-backend/internal/validation"
)

// ChatHandler serves the moderated chat endpoints.
type ChatHandler struct {
	chatUseCase chatUseCase.UseCase
	logger      *slog.Logger
}

// NewChatHandler creates a new chat handler with required dependencies.
func NewChatHandler(chatUseCase chatUseCase.UseCase, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
		logger:      logger,
	}
}

// ChatHandler sends a message and returns the moderated reply.
// POST /api/v1/chat - Requires RequireAuthenticated.
func (h *ChatHandler) ChatHandler(c *gin.Context) {
	principal, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleBadRequestGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.chatUseCase.Chat(c.Request.Context(), principal.Username, req.ToDomain())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapChatOutputToResponse(output))
}

// HistoryHandler lists the messages of one of the caller's conversations.
// GET /api/v1/chat/contexts/:id/messages - Requires RequireAuthenticated.
func (h *ChatHandler) HistoryHandler(c *gin.Context) {
	principal, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	contextID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	messages, err := h.chatUseCase.History(c.Request.Context(), principal.Username, contextID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapMessagesToHistoryResponse(contextID, messages))
}
