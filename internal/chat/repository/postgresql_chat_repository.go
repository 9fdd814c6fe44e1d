// Package repository persists chat contexts and messages for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/gegcuk/kidsgpt-backend/internal/chat/domain"
	"github.com/gegcuk/kidsgpt-backend/internal/database"
	apperrors "github.com/gegcuk/kidsgpt-backend/internal/errors"
)

// PostgreSQLChatRepository handles chat persistence for PostgreSQL.
type PostgreSQLChatRepository struct {
	db *sql.DB
}

// NewPostgreSQLChatRepository creates a new PostgreSQLChatRepository.
func NewPostgreSQLChatRepository(db *sql.DB) *PostgreSQLChatRepository {
	return &PostgreSQLChatRepository{db: db}
}

// CreateContext inserts a new conversation.
func (r *PostgreSQLChatRepository) CreateContext(ctx context.Context, chatContext *domain.ChatContext) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO chat_contexts (id, username, created_at) VALUES ($1, $2, $3)`

	_, err := querier.ExecContext(ctx, query, chatContext.ID, chatContext.Username, chatContext.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create chat context")
	}
	return nil
}

// GetContext returns a conversation by id or ErrContextNotFound.
func (r *PostgreSQLChatRepository) GetContext(ctx context.Context, id uuid.UUID) (*domain.ChatContext, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, username, created_at FROM chat_contexts WHERE id = $1`

	var chatContext domain.ChatContext
	err := querier.QueryRowContext(ctx, query, id).Scan(
		&chatContext.ID,
		&chatContext.Username,
		&chatContext.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrContextNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get chat context")
	}
	return &chatContext, nil
}

// CreateMessage appends a message to a conversation.
func (r *PostgreSQLChatRepository) CreateMessage(ctx context.Context, message *domain.ChatMessage) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO chat_messages (id, context_id, role, content, created_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := querier.ExecContext(
		ctx,
		query,
		message.ID,
		message.ContextID,
		message.Role,
		message.Content,
		message.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create chat message")
	}
	return nil
}

// ListMessages returns the messages of a conversation, oldest first.
func (r *PostgreSQLChatRepository) ListMessages(
	ctx context.Context,
	contextID uuid.UUID,
) ([]*domain.ChatMessage, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, context_id, role, content, created_at
			  FROM chat_messages WHERE context_id = $1
			  ORDER BY created_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query, contextID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list chat messages")
	}
	defer func() {
		_ = rows.Close()
	}()

	messages := make([]*domain.ChatMessage, 0)
	for rows.Next() {
		var message domain.ChatMessage
		if err := rows.Scan(
			&message.ID,
			&message.ContextID,
			&message.Role,
			&message.Content,
			&message.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan chat message")
		}
		messages = append(messages, &message)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating chat messages")
	}
	return messages, nil
}
