// Package http provides the authentication gate, authorization middleware and the
// session endpoints.
package http

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/gegcuk/kidsgpt-backend/internal/auth/domain"
	authService "github.com/gegcuk/kidsgpt-backend/internal/auth/service"
	authUseCase "github.com/gegcuk/kidsgpt-backend/internal/auth/usecase"
	apperrors "github.com/gegcuk/kidsgpt-backend/internal/errors"
	"github.com/gegcuk/kidsgpt-backend/internal/httputil"
)

const bearerPrefix = "Bearer "

// bearerToken extracts the token from an Authorization header. The scheme match is
// case-sensitive.
func bearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	return header[len(bearerPrefix):], true
}

// AuthenticationMiddleware attaches a principal to the request when it carries a valid,
// unrevoked bearer token.
//
// The gate never rejects a request for a missing or bad token. It leaves the request
// unauthenticated and lets RequireAuthenticated or RequireAuthority decide:
//   - no header, or a scheme other than "Bearer " → continue, codec untouched
//   - token fails verification (malformed, bad signature, expired) → continue
//   - token revoked → continue
//   - subject no longer resolves to an active user → continue
//   - otherwise → principal stored via WithPrincipal, continue
//
// When the revocation lookup or the user lookup fails, the token is never assumed
// unrevoked: the request continues without a principal and the failure is recorded, so
// RequireAuthenticated and RequireAuthority answer 500 instead of 401. Routes that do not
// need a principal, such as logout, are unaffected.
func AuthenticationMiddleware(
	codec authService.TokenCodec,
	revocations authUseCase.RevocationUseCase,
	resolver authUseCase.PrincipalResolver,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := bearerToken(header)
		if !ok {
			if header != "" {
				logger.Debug("unauthenticated: unsupported authorization scheme")
			}
			c.Next()
			return
		}

		if result := codec.Inspect(token); result != authDomain.VerifyOK {
			logger.Debug("unauthenticated: token rejected", slog.String("reason", result.String()))
			c.Next()
			return
		}

		ctx := c.Request.Context()

		revoked, err := revocations.Contains(ctx, token)
		if err != nil {
			logger.Warn("unauthenticated: revocation check failed", slog.Any("error", err))
			c.Request = c.Request.WithContext(withLookupFailure(ctx, fmt.Errorf("revocation check failed: %w", err)))
			c.Next()
			return
		}
		if revoked {
			logger.Debug("unauthenticated: token revoked")
			c.Next()
			return
		}

		subject, err := codec.SubjectOf(token)
		if err != nil {
			logger.Debug("unauthenticated: subject unreadable", slog.Any("error", err))
			c.Next()
			return
		}

		principal, err := resolver.Resolve(ctx, subject)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				logger.Debug("unauthenticated: subject no longer resolves")
				c.Next()
				return
			}
			logger.Warn("unauthenticated: principal lookup failed", slog.Any("error", err))
			c.Request = c.Request.WithContext(withLookupFailure(ctx, err))
			c.Next()
			return
		}

		c.Request = c.Request.WithContext(WithPrincipal(ctx, principal))
		c.Next()
	}
}

// RequireAuthenticated answers 401 unless AuthenticationMiddleware attached a principal.
func RequireAuthenticated(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetPrincipal(c.Request.Context()); !ok {
			rejectUnauthenticated(c, logger)
			return
		}
		c.Next()
	}
}

// RequireAuthority answers 401 for unauthenticated requests and 403 when the principal
// lacks authority.
func RequireAuthority(authority string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c.Request.Context())
		if !ok {
			rejectUnauthenticated(c, logger)
			return
		}
		if !principal.HasAuthority(authority) {
			logger.Debug("authorization failed: missing authority",
				slog.String("username", principal.Username),
				slog.String("authority", authority))
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
			return
		}
		c.Next()
	}
}

// rejectUnauthenticated answers 401, or 500 when the gate failed to look the token up.
func rejectUnauthenticated(c *gin.Context, logger *slog.Logger) {
	if err := lookupFailure(c.Request.Context()); err != nil {
		httputil.HandleErrorGin(c, err, logger)
		return
	}
	httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
}
