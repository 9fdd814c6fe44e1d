// Package domain defines chat contexts, messages and the values exchanged with the
// language model provider.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message authors stored on ChatMessage.Role.
const (
	RoleUser      = "USER"
	RoleAssistant = "ASSISTANT"
)

// FallbackReply replaces a provider reply that fails moderation.
const FallbackReply = "Oops, that topic's a bit tricky. Let's chat about something else fun!"

// ChatContext groups the messages of one conversation. It belongs to a single username.
type ChatContext struct {
	ID        uuid.UUID
	Username  string
	CreatedAt time.Time
}

// OwnedBy reports whether the context belongs to username.
func (c *ChatContext) OwnedBy(username string) bool {
	return c != nil && c.Username == username
}

// ChatMessage is one turn of a conversation.
type ChatMessage struct {
	ID        uuid.UUID
	ContextID uuid.UUID
	Role      string
	Content   string
	CreatedAt time.Time
}

// ChatInput is a message sent by an authenticated user. A nil ContextID starts a new
// conversation.
type ChatInput struct {
	Message   string
	ContextID *uuid.UUID
	Tone      string
}

// ChatOutput is the moderated reply.
type ChatOutput struct {
	Reply      string
	Model      string
	LatencyMs  int64
	TokensUsed int
	ContextID  uuid.UUID
}

// ModerationResult is the provider's verdict for one text.
type ModerationResult struct {
	Flagged    bool
	Categories []string
}

// Completion is a single chat completion.
type Completion struct {
	Text        string
	Model       string
	TotalTokens int
}
