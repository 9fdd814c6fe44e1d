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

// MySQLChatRepository handles chat persistence for MySQL. UUIDs are stored as BINARY(16).
type MySQLChatRepository struct {
	db *sql.DB
}

// NewMySQLChatRepository creates a new MySQLChatRepository.
func NewMySQLChatRepository(db *sql.DB) *MySQLChatRepository {
	return &MySQLChatRepository{db: db}
}

// CreateContext inserts a new conversation.
func (r *MySQLChatRepository) CreateContext(ctx context.Context, chatContext *domain.ChatContext) error {
	querier := database.GetTx(ctx, r.db)

	id, err := chatContext.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `INSERT INTO chat_contexts (id, username, created_at) VALUES (?, ?, ?)`

	if _, err := querier.ExecContext(ctx, query, id, chatContext.Username, chatContext.CreatedAt); err != nil {
		return apperrors.Wrap(err, "failed to create chat context")
	}
	return nil
}

// GetContext returns a conversation by id or ErrContextNotFound.
func (r *MySQLChatRepository) GetContext(ctx context.Context, id uuid.UUID) (*domain.ChatContext, error) {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `SELECT id, username, created_at FROM chat_contexts WHERE id = ?`

	var (
		chatContext domain.ChatContext
		rawID       []byte
	)
	err = querier.QueryRowContext(ctx, query, idBytes).Scan(
		&rawID,
		&chatContext.Username,
		&chatContext.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrContextNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get chat context")
	}

	if err := chatContext.ID.UnmarshalBinary(rawID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	return &chatContext, nil
}

// CreateMessage appends a message to a conversation.
func (r *MySQLChatRepository) CreateMessage(ctx context.Context, message *domain.ChatMessage) error {
	querier := database.GetTx(ctx, r.db)

	id, err := message.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	contextID, err := message.ContextID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal context UUID")
	}

	query := `INSERT INTO chat_messages (id, context_id, role, content, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, id, contextID, message.Role, message.Content, message.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create chat message")
	}
	return nil
}

// ListMessages returns the messages of a conversation, oldest first.
func (r *MySQLChatRepository) ListMessages(
	ctx context.Context,
	contextID uuid.UUID,
) ([]*domain.ChatMessage, error) {
	querier := database.GetTx(ctx, r.db)

	contextIDBytes, err := contextID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal context UUID")
	}

	query := `SELECT id, context_id, role, content, created_at
			  FROM chat_messages WHERE context_id = ?
			  ORDER BY created_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query, contextIDBytes)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list chat messages")
	}
	defer func() {
		_ = rows.Close()
	}()

	messages := make([]*domain.ChatMessage, 0)
	for rows.Next() {
		var (
			message    domain.ChatMessage
			rawID      []byte
			rawContext []byte
		)
		if err := rows.Scan(&rawID, &rawContext, &message.Role, &message.Content, &message.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan chat message")
		}
		if err := message.ID.UnmarshalBinary(rawID); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
		}
		if err := message.ContextID.UnmarshalBinary(rawContext); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal context UUID")
		}
		messages = append(messages, &message)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating chat messages")
	}
	return messages, nil
}
