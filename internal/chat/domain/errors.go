package domain

import (
	"github.com/gegcuk/kidsgpt-backend/internal/errors"
)

// Chat errors.
var (
	// ErrUnsafeInput is returned when moderation flags the user's message.
	ErrUnsafeInput = errors.Wrap(errors.ErrInvalidInput, "user input flagged as unsafe")

	// ErrModerationUnavailable is returned when the moderation endpoint cannot be reached.
	ErrModerationUnavailable = errors.Wrap(errors.ErrUnavailable, "moderation service unavailable")

	// ErrContextNotFound covers unknown context ids and contexts owned by another user.
	ErrContextNotFound = errors.Wrap(errors.ErrNotFound, "chat context not found")

	// ErrProviderRateLimited is returned when the completion call fails.
	ErrProviderRateLimited = errors.Wrap(errors.ErrTooManyRequests, "language model rate-limited")
)
