package domain

import (
	"time"

	"github.com/google/uuid"
)

// Claims is the decoded payload of a signed token.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Type      TokenType
}

// RevokedToken records a token that must no longer authenticate. Only the SHA-256
// hash of the token is persisted.
type RevokedToken struct {
	ID        uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	RevokedAt time.Time
}

// IsExpired reports whether the expiry lies strictly before now, which makes the
// revocation row eligible for purging.
func (r *RevokedToken) IsExpired(now time.Time) bool {
	return r.ExpiresAt.Before(now)
}
