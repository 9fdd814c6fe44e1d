package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/gegcuk/kidsgpt-backend/internal/chat/domain"
)

// ChatMessageResponse is the reply to POST /chat.
type ChatMessageResponse struct {
	Reply      string    `json:"reply"`
	Model      string    `json:"model"`
	LatencyMs  int64     `json:"latencyMs"`
	TokensUsed int       `json:"tokensUsed"`
	ContextID  uuid.UUID `json:"contextId"`
}

// MapChatOutputToResponse converts a ChatOutput to its response body.
func MapChatOutputToResponse(output *domain.ChatOutput) ChatMessageResponse {
	return ChatMessageResponse{
		Reply:      output.Reply,
		Model:      output.Model,
		LatencyMs:  output.LatencyMs,
		TokensUsed: output.TokensUsed,
		ContextID:  output.ContextID,
	}
}

// MessageItem is one stored message.
type MessageItem struct {
	ID        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// HistoryResponse lists the messages of a conversation.
type HistoryResponse struct {
	ContextID uuid.UUID     `json:"contextId"`
	Messages  []MessageItem `json:"messages"`
}

// MapMessagesToHistoryResponse converts stored messages to a HistoryResponse.
func MapMessagesToHistoryResponse(contextID uuid.UUID, messages []*domain.ChatMessage) HistoryResponse {
	items := make([]MessageItem, 0, len(messages))
	for _, m := range messages {
		items = append(items, MessageItem{
			ID:        m.ID,
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	return HistoryResponse{ContextID: contextID, Messages: items}
}
