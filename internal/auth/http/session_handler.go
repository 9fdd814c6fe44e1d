package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authDomain "github.com/gegcuk/kidsgpt-backend/internal/auth/domain"
	"github.com/gegcuk/kidsgpt-backend/internal/auth/http/dto"
	authUseCase "github.com/gegcuk/kidsgpt-backend/internal/auth/usecase"
	apperrors "github.com/gegcuk/kidsgpt-backend/internal/errors"
	"github.com/gegcuk/kidsgpt-backend/internal/httputil"
	customValidation "github.com/gegcuk/kidsgpt-backend/internal/validation"
)

// SessionHandler serves login, logout and the current-user profile.
type SessionHandler struct {
	sessionUseCase authUseCase.SessionUseCase
	logger         *slog.Logger
}

// NewSessionHandler creates a new session handler with required dependencies.
func NewSessionHandler(sessionUseCase authUseCase.SessionUseCase, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		sessionUseCase: sessionUseCase,
		logger:         logger,
	}
}

// LoginHandler exchanges credentials for an access and a refresh token.
// POST /api/v1/auth/login - No authentication required.
// Returns 400 for missing fields and 401 with the same body for every credential failure.
func (h *SessionHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleBadRequestGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.sessionUseCase.Login(c.Request.Context(), &authDomain.LoginInput{
		UsernameOrEmail: req.UsernameOrEmail,
		Password:        req.Password,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapLoginOutputToResponse(output))
}

// LogoutHandler revokes the bearer token when one is presented.
// POST /api/v1/auth/logout - Always 200; revocation failures are logged, not returned.
func (h *SessionHandler) LogoutHandler(c *gin.Context) {
	if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
		if err := h.sessionUseCase.Logout(c.Request.Context(), token); err != nil {
			level := slog.LevelError
			if apperrors.Is(err, apperrors.ErrInvalidInput) {
				level = slog.LevelDebug
			}
			h.logger.Log(c.Request.Context(), level, "logout did not revoke token", slog.Any("error", err))
		}
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "logged out"})
}

// MeHandler returns the profile of the authenticated user.
// GET /api/v1/auth/me - Requires RequireAuthenticated.
func (h *SessionHandler) MeHandler(c *gin.Context) {
	principal, ok := GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	profile, err := h.sessionUseCase.Me(c.Request.Context(), principal)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapProfileToResponse(profile))
}
