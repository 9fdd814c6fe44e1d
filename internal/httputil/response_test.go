package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/gegcuk/kidsgpt-backend/internal/errors"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func createTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeErrorResponse(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleErrorGin(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "not found",
			err:            apperrors.Wrap(apperrors.ErrNotFound, "user not found"),
			expectedStatus: http.StatusNotFound,
			expectedCode:   "not_found",
		},
		{
			name:           "conflict",
			err:            apperrors.Wrap(apperrors.ErrConflict, "username already taken"),
			expectedStatus: http.StatusConflict,
			expectedCode:   "conflict",
		},
		{
			name:           "invalid input",
			err:            apperrors.Wrap(apperrors.ErrInvalidInput, "unsafe message"),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   "invalid_input",
		},
		{
			name:           "unauthorized",
			err:            apperrors.Wrap(apperrors.ErrUnauthorized, "invalid credentials"),
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "unauthorized",
		},
		{
			name:           "forbidden",
			err:            apperrors.ErrForbidden,
			expectedStatus: http.StatusForbidden,
			expectedCode:   "forbidden",
		},
		{
			name:           "too many requests",
			err:            apperrors.Wrap(apperrors.ErrTooManyRequests, "provider rate limited"),
			expectedStatus: http.StatusTooManyRequests,
			expectedCode:   "too_many_requests",
		},
		{
			name:           "unavailable",
			err:            apperrors.Wrap(apperrors.ErrUnavailable, "moderation unavailable"),
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   "service_unavailable",
		},
		{
			name:           "unknown error",
			err:            errors.New("connection reset by peer"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			HandleErrorGin(c, tt.err, createTestLogger())

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, c.IsAborted())
			resp := decodeErrorResponse(t, w)
			assert.Equal(t, tt.expectedCode, resp.Error)
		})
	}
}

func TestHandleErrorGin_DoesNotLeakDetails(t *testing.T) {
	t.Run("internal error message is generic", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		HandleErrorGin(c, errors.New("pq: password authentication failed"), nil)

		resp := decodeErrorResponse(t, w)
		assert.Equal(t, "An internal error occurred", resp.Message)
	})

	t.Run("unauthorized bodies are identical", func(t *testing.T) {
		w1 := httptest.NewRecorder()
		c1, _ := gin.CreateTestContext(w1)
		HandleErrorGin(c1, apperrors.Wrap(apperrors.ErrUnauthorized, "user not found"), nil)

		w2 := httptest.NewRecorder()
		c2, _ := gin.CreateTestContext(w2)
		HandleErrorGin(c2, apperrors.Wrap(apperrors.ErrUnauthorized, "bad password"), nil)

		assert.Equal(t, w1.Body.String(), w2.Body.String())
	})
}

func TestHandleErrorGin_NilError(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleErrorGin(c, nil, createTestLogger())

	assert.False(t, c.IsAborted())
	assert.Empty(t, w.Body.String())
}

func TestHandleBadRequestGin(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleBadRequestGin(c, errors.New("password: cannot be blank."), createTestLogger())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeErrorResponse(t, w)
	assert.Equal(t, "bad_request", resp.Error)
	assert.Equal(t, "password: cannot be blank.", resp.Message)
}

func TestHandleErrorGin_FirstKindWins(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	// A principal lookup failure surfaced during login carries both kinds.
	err := errors.Join(apperrors.ErrNotFound, apperrors.ErrUnauthorized)
	HandleErrorGin(c, err, createTestLogger())

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", decodeErrorResponse(t, w).Error)
}
