// Package service provides the technical services behind authentication: signing and
// parsing JWTs, loading the signing key, hashing and checking passwords, and hashing
// tokens for revocation storage.
package service

import (
	"time"

	authDomain "github.com/gegcuk/kidsgpt-backend/internal/auth/domain"
)

// TokenCodec issues and checks signed tokens. Implementations must be safe for
// concurrent use.
type TokenCodec interface {
	// Issue signs a token for subject that expires ttl from now.
	Issue(subject string, tokenType authDomain.TokenType, ttl time.Duration) (string, error)

	// Verify reports whether the token is well formed, correctly signed and unexpired.
	// It never panics and never returns an error.
	Verify(token string) bool

	// Inspect classifies the token the same way Verify does, keeping the reason.
	Inspect(token string) authDomain.VerifyResult

	// SubjectOf returns the subject of a valid token, or ErrMalformedToken.
	SubjectOf(token string) (string, error)

	// ClaimsOf returns the claims of a correctly signed token even when it has expired.
	// Returns ErrMalformedToken on any parse or signature failure.
	ClaimsOf(token string) (*authDomain.Claims, error)
}

// PasswordService hashes and checks user passwords.
type PasswordService interface {
	// Hash returns an Argon2id PHC string for the password.
	Hash(password string) (string, error)

	// Compare reports whether password matches hash. Argon2id and bcrypt hashes are
	// both understood; anything else never matches.
	Compare(password, hash string) bool
}

// TokenHasher derives the storage key for a token.
type TokenHasher interface {
	// HashToken returns the hex-encoded SHA-256 of the exact token string.
	HashToken(token string) string
}
