package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gegcuk/kidsgpt-backend/internal/chat/domain"
)

func mustBinary(t *testing.T, id uuid.UUID) []byte {
	t.Helper()
	b, err := id.MarshalBinary()
	require.NoError(t, err)
	return b
}

func TestMySQLChatRepository_CreateContext(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMySQLChatRepository(db)
	chatContext := newTestContext()

	mock.ExpectExec(`INSERT INTO chat_contexts \(id, username, created_at\) VALUES \(\?, \?, \?\)`).
		WithArgs(mustBinary(t, chatContext.ID), "sam", chatContext.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.CreateContext(context.Background(), chatContext))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLChatRepository_GetContext(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLChatRepository(db)
		chatContext := newTestContext()

		mock.ExpectQuery(`SELECT id, username, created_at FROM chat_contexts WHERE id = \?`).
			WithArgs(mustBinary(t, chatContext.ID)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "created_at"}).
				AddRow(mustBinary(t, chatContext.ID), "sam", chatContext.CreatedAt))

		got, err := repo.GetContext(context.Background(), chatContext.ID)
		require.NoError(t, err)
		assert.Equal(t, chatContext, got)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLChatRepository(db)

		mock.ExpectQuery(`SELECT id, username, created_at FROM chat_contexts`).WillReturnError(sql.ErrNoRows)

		_, err := repo.GetContext(context.Background(), uuid.Must(uuid.NewV7()))
		assert.ErrorIs(t, err, domain.ErrContextNotFound)
	})

	t.Run("Error_BadStoredID", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMySQLChatRepository(db)

		mock.ExpectQuery(`SELECT id, username, created_at FROM chat_contexts`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "created_at"}).
				AddRow([]byte{1, 2, 3}, "sam", newTestContext().CreatedAt))

		_, err := repo.GetContext(context.Background(), uuid.Must(uuid.NewV7()))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to unmarshal UUID")
	})
}

func TestMySQLChatRepository_CreateMessage(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMySQLChatRepository(db)
	message := newTestMessage(uuid.Must(uuid.NewV7()), domain.RoleAssistant, "hi!")

	mock.ExpectExec(`INSERT INTO chat_messages`).
		WithArgs(mustBinary(t, message.ID), mustBinary(t, message.ContextID), "ASSISTANT", "hi!", message.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.CreateMessage(context.Background(), message))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLChatRepository_ListMessages(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMySQLChatRepository(db)
	contextID := uuid.Must(uuid.NewV7())
	message := newTestMessage(contextID, domain.RoleUser, "hello")

	mock.ExpectQuery(`SELECT .* FROM chat_messages WHERE context_id = \?`).
		WithArgs(mustBinary(t, contextID)).
		WillReturnRows(sqlmock.NewRows(messageColumns).
			AddRow(mustBinary(t, message.ID), mustBinary(t, contextID), "USER", "hello", message.CreatedAt))

	messages, err := repo.ListMessages(context.Background(), contextID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, message, messages[0])
}
