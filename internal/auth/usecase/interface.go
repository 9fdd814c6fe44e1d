// Package usecase implements the authentication pipeline: revoking tokens, resolving
// principals, checking credentials and issuing sessions.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/gegcuk/kidsgpt-backend/internal/auth/domain"
	userDomain "github.com/gegcuk/kidsgpt-backend/internal/user/domain"
)

// RevokedTokenRepository defines persistence operations for revoked tokens.
// Implementations must support transaction-aware operations via context propagation.
type RevokedTokenRepository interface {
	// Create stores a revocation. Storing the same token hash twice is not an error.
	Create(ctx context.Context, token *authDomain.RevokedToken) error

	// GetByTokenHash returns ErrRevokedTokenNotFound when the hash was never revoked.
	GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.RevokedToken, error)

	// DeleteExpired removes every revocation whose expiry lies before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	// CountExpired counts the revocations DeleteExpired would remove.
	CountExpired(ctx context.Context, now time.Time) (int64, error)
}

// UserReader is the slice of the user store the pipeline depends on.
type UserReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error)
	GetByUsername(ctx context.Context, username string) (*userDomain.User, error)
	GetByEmail(ctx context.Context, email string) (*userDomain.User, error)
	ListRoleNames(ctx context.Context, userID uuid.UUID) ([]string, error)
	UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error
}

// RevocationUseCase keeps the set of tokens invalidated before their natural expiry.
type RevocationUseCase interface {
	// Add revokes token until expiresAt. Revoking a token twice succeeds.
	Add(ctx context.Context, token string, expiresAt time.Time) error

	// Contains reports whether token was revoked. A storage failure is returned as an
	// error, never as "not revoked".
	Contains(ctx context.Context, token string) (bool, error)

	// PurgeExpired deletes revocations whose expiry lies before now and returns how many
	// were removed.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)

	// CountExpired reports how many revocations PurgeExpired would remove.
	CountExpired(ctx context.Context, now time.Time) (int64, error)
}

// PrincipalResolver turns a token subject or login handle into a principal.
type PrincipalResolver interface {
	// Resolve looks the user up by username, then by email. Authorities are read from
	// the user store on every call. Returns ErrUserNotFound when nothing matches or the
	// account cannot authenticate.
	Resolve(ctx context.Context, usernameOrEmail string) (*authDomain.Principal, error)
}

// Authenticator checks login credentials.
type Authenticator interface {
	// Authenticate returns the principal for valid credentials. Failures are reported as
	// error kinds: ErrUserNotFound or ErrPasswordMismatch. Storage errors pass through.
	Authenticate(ctx context.Context, usernameOrEmail, password string) (*authDomain.Principal, error)
}

// SessionUseCase issues and ends sessions.
type SessionUseCase interface {
	// Login checks the credentials and issues an access and a refresh token. Every
	// credential failure becomes ErrInvalidCredentials.
	Login(ctx context.Context, input *authDomain.LoginInput) (*authDomain.LoginOutput, error)

	// Logout revokes token until its embedded expiry. Expired tokens are still revoked.
	Logout(ctx context.Context, token string) error

	// Me returns the profile of the authenticated principal.
	Me(ctx context.Context, principal *authDomain.Principal) (*authDomain.Profile, error)
}
