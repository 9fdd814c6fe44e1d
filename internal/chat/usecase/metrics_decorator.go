package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gegcuk/kidsgpt-backend/internal/chat/domain"
	"github.com/gegcuk/kidsgpt-backend/internal/metrics"
)

// chatUseCaseWithMetrics decorates UseCase with metrics instrumentation.
type chatUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewChatUseCaseWithMetrics wraps a UseCase with metrics recording.
func NewChatUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &chatUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Chat records metrics for chat turns, including the tokens the model reported.
func (c *chatUseCaseWithMetrics) Chat(
	ctx context.Context,
	username string,
	input *domain.ChatInput,
) (*domain.ChatOutput, error) {
	start := time.Now()
	output, err := c.next.Chat(ctx, username, input)
	c.record(ctx, "chat", start, err)
	if err == nil {
		c.metrics.RecordModelTokens(ctx, output.Model, output.TokensUsed)
	}
	return output, err
}

// History records metrics for history reads.
func (c *chatUseCaseWithMetrics) History(
	ctx context.Context,
	username string,
	contextID uuid.UUID,
) ([]*domain.ChatMessage, error) {
	start := time.Now()
	messages, err := c.next.History(ctx, username, contextID)
	c.record(ctx, "chat_history", start, err)
	return messages, err
}

func (c *chatUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "chat", operation, status)
	c.metrics.RecordDuration(ctx, "chat", operation, time.Since(start), status)
}
