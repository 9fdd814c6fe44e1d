package usecase

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gegcuk/kidsgpt-backend/internal/chat/domain"
	"github.com/gegcuk/kidsgpt-backend/internal/chat/service"
	"github.com/gegcuk/kidsgpt-backend/internal/database"
	apperrors "github.com/gegcuk/kidsgpt-backend/internal/errors"
)

type chatUseCase struct {
	txManager    database.TxManager
	repo         ChatRepository
	users        UserReader
	model        LanguageModel
	defaultModel string
	logger       *slog.Logger
	now          func() time.Time
	pick         func(n int) int
}

// NewChatUseCase creates a chat UseCase. defaultModel is reported when the provider does
// not name the model it used.
func NewChatUseCase(
	txManager database.TxManager,
	repo ChatRepository,
	users UserReader,
	model LanguageModel,
	defaultModel string,
	logger *slog.Logger,
) UseCase {
	return &chatUseCase{
		txManager:    txManager,
		repo:         repo,
		users:        users,
		model:        model,
		defaultModel: defaultModel,
		logger:       logger,
		now:          time.Now,
		pick:         rand.IntN,
	}
}

func (u *chatUseCase) Chat(
	ctx context.Context,
	username string,
	input *domain.ChatInput,
) (*domain.ChatOutput, error) {
	start := u.now()

	if strings.TrimSpace(input.Message) == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "message is required")
	}

	safe, err := u.isSafe(ctx, input.Message)
	if err != nil {
		return nil, err
	}
	if !safe {
		return nil, domain.ErrUnsafeInput
	}

	user, err := u.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	var chatContext *domain.ChatContext
	err = u.txManager.WithTx(ctx, func(ctx context.Context) error {
		chatContext, err = u.resolveContext(ctx, username, input.ContextID)
		if err != nil {
			return err
		}
		return u.repo.CreateMessage(ctx, u.newMessage(chatContext.ID, domain.RoleUser, input.Message))
	})
	if err != nil {
		return nil, err
	}

	prompt := service.DecoratePrompt(input.Message, u.pick(service.PromptTemplateCount))
	system := service.BuildSystemPrompt(user.Age, input.Tone)

	completion, err := u.model.Complete(ctx, system, prompt)
	if err != nil {
		u.logger.Warn("chat completion failed",
			slog.String("username", username),
			slog.Any("error", err),
		)
		return nil, domain.ErrProviderRateLimited
	}

	reply := completion.Text
	safe, err = u.isSafe(ctx, reply)
	if err != nil {
		return nil, err
	}
	if !safe {
		reply = domain.FallbackReply
	}

	if err := u.repo.CreateMessage(ctx, u.newMessage(chatContext.ID, domain.RoleAssistant, reply)); err != nil {
		return nil, err
	}

	model := completion.Model
	if model == "" {
		model = u.defaultModel
	}

	return &domain.ChatOutput{
		Reply:      reply,
		Model:      model,
		LatencyMs:  u.now().Sub(start).Milliseconds(),
		TokensUsed: completion.TotalTokens,
		ContextID:  chatContext.ID,
	}, nil
}

func (u *chatUseCase) History(
	ctx context.Context,
	username string,
	contextID uuid.UUID,
) ([]*domain.ChatMessage, error) {
	chatContext, err := u.repo.GetContext(ctx, contextID)
	if err != nil {
		return nil, err
	}
	if !chatContext.OwnedBy(username) {
		return nil, domain.ErrContextNotFound
	}
	return u.repo.ListMessages(ctx, contextID)
}

// resolveContext loads a conversation owned by username or starts a new one when id is nil.
// A context owned by someone else is reported as missing.
func (u *chatUseCase) resolveContext(
	ctx context.Context,
	username string,
	id *uuid.UUID,
) (*domain.ChatContext, error) {
	if id != nil {
		chatContext, err := u.repo.GetContext(ctx, *id)
		if err != nil {
			return nil, err
		}
		if !chatContext.OwnedBy(username) {
			return nil, domain.ErrContextNotFound
		}
		return chatContext, nil
	}

	chatContext := &domain.ChatContext{
		ID:        uuid.Must(uuid.NewV7()),
		Username:  username,
		CreatedAt: u.now().UTC(),
	}
	if err := u.repo.CreateContext(ctx, chatContext); err != nil {
		return nil, err
	}
	return chatContext, nil
}

func (u *chatUseCase) newMessage(contextID uuid.UUID, role, content string) *domain.ChatMessage {
	return &domain.ChatMessage{
		ID:        uuid.Must(uuid.NewV7()),
		ContextID: contextID,
		Role:      role,
		Content:   content,
		CreatedAt: u.now().UTC(),
	}
}

// isSafe asks the moderation endpoint about text. A failed call is ErrModerationUnavailable.
func (u *chatUseCase) isSafe(ctx context.Context, text string) (bool, error) {
	result, err := u.model.Moderate(ctx, text)
	if err != nil {
		u.logger.Error("moderation service call failed", slog.Any("error", err))
		return false, domain.ErrModerationUnavailable
	}
	if result.Flagged {
		u.logger.Warn("moderation violation", slog.Any("categories", result.Categories))
		return false, nil
	}
	return true, nil
}
