package usecase

import (
	"context"
	"log/slog"
	"time"

	authDomain "github.com/gegcuk/kidsgpt-backend/internal/auth/domain"
	authService "github.com/gegcuk/kidsgpt-backend/internal/auth/service"
	apperrors "github.com/gegcuk/kidsgpt-backend/internal/errors"
	userDomain "github.com/gegcuk/kidsgpt-backend/internal/user/domain"
)

// SessionConfig holds the token lifetimes handed out at login.
type SessionConfig struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type sessionUseCase struct {
	config        SessionConfig
	authenticator Authenticator
	codec         authService.TokenCodec
	revocations   RevocationUseCase
	users         UserReader
	logger        *slog.Logger
	now           func() time.Time
}

// NewSessionUseCase creates a SessionUseCase.
func NewSessionUseCase(
	config SessionConfig,
	authenticator Authenticator,
	codec authService.TokenCodec,
	revocations RevocationUseCase,
	users UserReader,
	logger *slog.Logger,
) SessionUseCase {
	return &sessionUseCase{
		config:        config,
		authenticator: authenticator,
		codec:         codec,
		revocations:   revocations,
		users:         users,
		logger:        logger,
		now:           time.Now,
	}
}

// Login issues an access and a refresh token for valid credentials.
//
// Unknown users, wrong passwords and disabled accounts all return ErrInvalidCredentials
// so the caller cannot enumerate usernames. Storage errors are returned unchanged.
func (s *sessionUseCase) Login(
	ctx context.Context,
	input *authDomain.LoginInput,
) (*authDomain.LoginOutput, error) {
	principal, err := s.authenticator.Authenticate(ctx, input.UsernameOrEmail, input.Password)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) || apperrors.Is(err, apperrors.ErrUnauthorized) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	accessToken, err := s.codec.Issue(principal.Username, authDomain.AccessToken, s.config.AccessTTL)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to issue access token")
	}
	refreshToken, err := s.codec.Issue(principal.Username, authDomain.RefreshToken, s.config.RefreshTTL)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to issue refresh token")
	}

	if err := s.users.UpdateLastLogin(ctx, principal.UserID, s.now().UTC()); err != nil {
		s.logger.Warn("failed to record last login",
			slog.String("user_id", principal.UserID.String()),
			slog.Any("error", err),
		)
	}

	return &authDomain.LoginOutput{
		AccessToken:        accessToken,
		RefreshToken:       refreshToken,
		AccessExpiresInMs:  s.config.AccessTTL.Milliseconds(),
		RefreshExpiresInMs: s.config.RefreshTTL.Milliseconds(),
	}, nil
}

func (s *sessionUseCase) Logout(ctx context.Context, token string) error {
	claims, err := s.codec.ClaimsOf(token)
	if err != nil {
		return err
	}
	return s.revocations.Add(ctx, token, claims.ExpiresAt)
}

func (s *sessionUseCase) Me(ctx context.Context, principal *authDomain.Principal) (*authDomain.Profile, error) {
	user, err := s.users.GetByID(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	return &authDomain.Profile{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      primaryRole(principal.Authorities),
		CreatedAt: user.CreatedAt,
	}, nil
}

// primaryRole picks the highest role in userDomain.AllRoles order, or "" when none match.
func primaryRole(authorities []string) string {
	for _, role := range userDomain.AllRoles {
		for _, authority := range authorities {
			if authority == role {
				return role
			}
		}
	}
	return ""
}
