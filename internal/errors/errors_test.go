package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type customError struct {
	Msg string
}

func (e customError) Error() string { return e.Msg }

func TestWrap(t *testing.T) {
	baseErr := errors.New("base error")

	t.Run("wrap non-nil error", func(t *testing.T) {
		wrapped := Wrap(baseErr, "wrapped")
		require.Error(t, wrapped)
		assert.Equal(t, "wrapped: base error", wrapped.Error())
		assert.True(t, errors.Is(wrapped, baseErr))
	})

	t.Run("wrap nil error", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "wrapped"))
	})

	t.Run("wrapped sentinel keeps its kind", func(t *testing.T) {
		userNotFound := Wrap(ErrNotFound, "user not found")
		lookupFailed := Wrap(userNotFound, "resolve principal")

		assert.True(t, Is(lookupFailed, ErrNotFound))
		assert.False(t, Is(lookupFailed, ErrUnauthorized))
	})
}

func TestAs(t *testing.T) {
	err := Wrap(customError{Msg: "boom"}, "context")

	var target customError
	require.True(t, As(err, &target))
	assert.Equal(t, "boom", target.Msg)
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrConflict,
		ErrInvalidInput,
		ErrUnauthorized,
		ErrForbidden,
		ErrTooManyRequests,
		ErrUnavailable,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.False(t, Is(a, b), "%v should not match %v", a, b)
		}
	}
}
