package usecase

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/gegcuk/kidsgpt-backend/internal/auth/domain"
	userDomain "github.com/gegcuk/kidsgpt-backend/internal/user/domain"
)

func createTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockRevokedTokenRepository struct {
	mock.Mock
}

func (m *mockRevokedTokenRepository) Create(ctx context.Context, token *authDomain.RevokedToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockRevokedTokenRepository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*authDomain.RevokedToken, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.RevokedToken), args.Error(1)
}

func (m *mockRevokedTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRevokedTokenRepository) CountExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type mockUserReader struct {
	mock.Mock
}

func (m *mockUserReader) GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *mockUserReader) GetByUsername(ctx context.Context, username string) (*userDomain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *mockUserReader) GetByEmail(ctx context.Context, email string) (*userDomain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *mockUserReader) ListRoleNames(ctx context.Context, userID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockUserReader) UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	args := m.Called(ctx, userID, at)
	return args.Error(0)
}

type mockPasswordService struct {
	mock.Mock
}

func (m *mockPasswordService) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *mockPasswordService) Compare(password, hash string) bool {
	args := m.Called(password, hash)
	return args.Bool(0)
}

type mockTokenCodec struct {
	mock.Mock
}

func (m *mockTokenCodec) Issue(subject string, tokenType authDomain.TokenType, ttl time.Duration) (string, error) {
	args := m.Called(subject, tokenType, ttl)
	return args.String(0), args.Error(1)
}

func (m *mockTokenCodec) Verify(token string) bool {
	args := m.Called(token)
	return args.Bool(0)
}

func (m *mockTokenCodec) Inspect(token string) authDomain.VerifyResult {
	args := m.Called(token)
	return args.Get(0).(authDomain.VerifyResult)
}

func (m *mockTokenCodec) SubjectOf(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

func (m *mockTokenCodec) ClaimsOf(token string) (*authDomain.Claims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Claims), args.Error(1)
}

type mockAuthenticator struct {
	mock.Mock
}

func (m *mockAuthenticator) Authenticate(
	ctx context.Context,
	usernameOrEmail, password string,
) (*authDomain.Principal, error) {
	args := m.Called(ctx, usernameOrEmail, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Principal), args.Error(1)
}

type mockRevocationUseCase struct {
	mock.Mock
}

func (m *mockRevocationUseCase) Add(ctx context.Context, token string, expiresAt time.Time) error {
	args := m.Called(ctx, token, expiresAt)
	return args.Error(0)
}

func (m *mockRevocationUseCase) Contains(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

func (m *mockRevocationUseCase) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRevocationUseCase) CountExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func (m *mockBusinessMetrics) RecordCacheLookup(ctx context.Context, cache, result string) {
	m.Called(ctx, cache, result)
}

func (m *mockBusinessMetrics) RecordModelTokens(ctx context.Context, model string, tokens int) {
	m.Called(ctx, model, tokens)
}

func newActiveUser(username string) *userDomain.User {
	return &userDomain.User{
		ID:           uuid.Must(uuid.NewV7()),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "$argon2id$stored",
		IsActive:     true,
		CreatedAt:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}
