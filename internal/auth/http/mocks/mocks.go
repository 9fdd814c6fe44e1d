// Package mocks provides testify mocks of the auth use cases and token codec for HTTP tests.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	authDomain "github.com/gegcuk/kidsgpt-backend/internal/auth/domain"
)

// MockSessionUseCase is a mock of usecase.SessionUseCase.
type MockSessionUseCase struct {
	mock.Mock
}

func (m *MockSessionUseCase) Login(
	ctx context.Context,
	input *authDomain.LoginInput,
) (*authDomain.LoginOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.LoginOutput), args.Error(1)
}

func (m *MockSessionUseCase) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockSessionUseCase) Me(ctx context.Context, principal *authDomain.Principal) (*authDomain.Profile, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Profile), args.Error(1)
}

// MockRevocationUseCase is a mock of usecase.RevocationUseCase.
type MockRevocationUseCase struct {
	mock.Mock
}

func (m *MockRevocationUseCase) Add(ctx context.Context, token string, expiresAt time.Time) error {
	args := m.Called(ctx, token, expiresAt)
	return args.Error(0)
}

func (m *MockRevocationUseCase) Contains(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

func (m *MockRevocationUseCase) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRevocationUseCase) CountExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockPrincipalResolver is a mock of usecase.PrincipalResolver.
type MockPrincipalResolver struct {
	mock.Mock
}

func (m *MockPrincipalResolver) Resolve(ctx context.Context, usernameOrEmail string) (*authDomain.Principal, error) {
	args := m.Called(ctx, usernameOrEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Principal), args.Error(1)
}

// MockTokenCodec is a mock of service.TokenCodec.
type MockTokenCodec struct {
	mock.Mock
}

func (m *MockTokenCodec) Issue(subject string, tokenType authDomain.TokenType, ttl time.Duration) (string, error) {
	args := m.Called(subject, tokenType, ttl)
	return args.String(0), args.Error(1)
}

func (m *MockTokenCodec) Verify(token string) bool {
	args := m.Called(token)
	return args.Bool(0)
}

func (m *MockTokenCodec) Inspect(token string) authDomain.VerifyResult {
	args := m.Called(token)
	return args.Get(0).(authDomain.VerifyResult)
}

func (m *MockTokenCodec) SubjectOf(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

func (m *MockTokenCodec) ClaimsOf(token string) (*authDomain.Claims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Claims), args.Error(1)
}
