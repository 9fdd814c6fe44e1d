package commands

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	userDomain "github.com/gegcuk/kidsgpt-backend/internal/user/domain"
	userUseCase "github.com/gegcuk/kidsgpt-backend/internal/user/usecase"
)

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

type mockUserUseCase struct {
	mock.Mock
}

func (m *mockUserUseCase) CreateUser(
	ctx context.Context,
	input userUseCase.CreateUserInput,
) (*userDomain.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *mockUserUseCase) SeedRoles(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockUserUseCase) GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}
