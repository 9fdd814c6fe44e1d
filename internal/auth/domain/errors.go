package domain

import (
	"github.com/gegcuk/kidsgpt-backend/internal/errors"
)

// Authentication errors.
var (
	// ErrMalformedToken is returned when a token cannot be parsed or its signature does not match.
	ErrMalformedToken = errors.Wrap(errors.ErrInvalidInput, "malformed token")

	// ErrInvalidCredentials covers every login failure so callers cannot tell them apart.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrEmptySigningKey is returned when the codec is built without key material.
	ErrEmptySigningKey = errors.Wrap(errors.ErrInvalidInput, "signing key is empty")

	// ErrPasswordMismatch is returned by the credential check when the password is wrong.
	ErrPasswordMismatch = errors.Wrap(errors.ErrUnauthorized, "password mismatch")

	// ErrRevokedTokenNotFound indicates no revocation exists for a token hash.
	ErrRevokedTokenNotFound = errors.Wrap(errors.ErrNotFound, "revoked token not found")
)
