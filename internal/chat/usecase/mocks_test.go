package usecase

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/gegcuk/kidsgpt-backend/internal/chat/domain"
	userDomain "github.com/gegcuk/kidsgpt-backend/internal/user/domain"
)

func createTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockTxManager runs fn inline unless an error is configured.
type mockTxManager struct {
	mock.Mock
}

func (m *mockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Get(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

type mockChatRepository struct {
	mock.Mock
}

func (m *mockChatRepository) CreateContext(ctx context.Context, chatContext *domain.ChatContext) error {
	args := m.Called(ctx, chatContext)
	return args.Error(0)
}

func (m *mockChatRepository) GetContext(ctx context.Context, id uuid.UUID) (*domain.ChatContext, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatContext), args.Error(1)
}

func (m *mockChatRepository) CreateMessage(ctx context.Context, message *domain.ChatMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *mockChatRepository) ListMessages(ctx context.Context, contextID uuid.UUID) ([]*domain.ChatMessage, error) {
	args := m.Called(ctx, contextID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ChatMessage), args.Error(1)
}

type mockUserReader struct {
	mock.Mock
}

func (m *mockUserReader) GetByUsername(ctx context.Context, username string) (*userDomain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

type mockLanguageModel struct {
	mock.Mock
}

func (m *mockLanguageModel) Moderate(ctx context.Context, text string) (*domain.ModerationResult, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ModerationResult), args.Error(1)
}

func (m *mockLanguageModel) Complete(ctx context.Context, system, user string) (*domain.Completion, error) {
	args := m.Called(ctx, system, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Completion), args.Error(1)
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

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Chat(ctx context.Context, username string, input *domain.ChatInput) (*domain.ChatOutput, error) {
	args := m.Called(ctx, username, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatOutput), args.Error(1)
}

func (m *mockUseCase) History(
	ctx context.Context,
	username string,
	contextID uuid.UUID,
) ([]*domain.ChatMessage, error) {
	args := m.Called(ctx, username, contextID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ChatMessage), args.Error(1)
}
