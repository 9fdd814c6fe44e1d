// Package usecase implements the moderated chat flow.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/gegcuk/kidsgpt-backend/internal/chat/domain"
	userDomain "github.com/gegcuk/kidsgpt-backend/internal/user/domain"
)

// ChatRepository persists conversations and their messages.
type ChatRepository interface {
	CreateContext(ctx context.Context, chatContext *domain.ChatContext) error
	GetContext(ctx context.Context, id uuid.UUID) (*domain.ChatContext, error)
	CreateMessage(ctx context.Context, message *domain.ChatMessage) error
	ListMessages(ctx context.Context, contextID uuid.UUID) ([]*domain.ChatMessage, error)
}

// UserReader loads the account that is chatting.
type UserReader interface {
	GetByUsername(ctx context.Context, username string) (*userDomain.User, error)
}

// LanguageModel is the remote moderation and completion provider.
type LanguageModel interface {
	Moderate(ctx context.Context, text string) (*domain.ModerationResult, error)
	Complete(ctx context.Context, system, user string) (*domain.Completion, error)
}

// UseCase defines the chat operations.
type UseCase interface {
	// Chat moderates the message, stores it, asks the provider for a reply, moderates the
	// reply and stores it.
	Chat(ctx context.Context, username string, input *domain.ChatInput) (*domain.ChatOutput, error)

	// History lists the messages of a conversation owned by username.
	History(ctx context.Context, username string, contextID uuid.UUID) ([]*domain.ChatMessage, error)
}
