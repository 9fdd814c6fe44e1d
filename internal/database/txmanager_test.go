package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestNewTxManager(t *testing.T) {
	db, _ := newMockDB(t)

	txManager := NewTxManager(db)
	assert.NotNil(t, txManager)
	assert.IsType(t, &sqlTxManager{}, txManager)
}

func TestWithTx_Commit(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	txManager := NewTxManager(db)
	err := txManager.WithTx(context.Background(), func(ctx context.Context) error {
		tx := ctx.Value(txKey{})
		assert.IsType(t, &sql.Tx{}, tx)
		return nil
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollbackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	txManager := NewTxManager(db)
	err := txManager.WithTx(context.Background(), func(ctx context.Context) error {
		return assert.AnError
	})

	assert.Equal(t, assert.AnError, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_BeginError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin().WillReturnError(assert.AnError)

	txManager := NewTxManager(db)
	called := false
	err := txManager.WithTx(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, assert.AnError)
	assert.False(t, called)
}

func TestGetTx(t *testing.T) {
	db, mock := newMockDB(t)

	t.Run("without transaction", func(t *testing.T) {
		querier := GetTx(context.Background(), db)
		assert.Equal(t, db, querier)
	})

	t.Run("with transaction", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectCommit()

		err := NewTxManager(db).WithTx(context.Background(), func(ctx context.Context) error {
			assert.IsType(t, &sql.Tx{}, GetTx(ctx, db))
			return nil
		})
		require.NoError(t, err)
	})
}

func TestWithTx_NestedJoinsOuter(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	txManager := NewTxManager(db)
	err := txManager.WithTx(context.Background(), func(outer context.Context) error {
		return txManager.WithTx(outer, func(inner context.Context) error {
			assert.Same(t, GetTx(outer, db), GetTx(inner, db))
			return nil
		})
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	txManager := NewTxManager(db)
	assert.PanicsWithValue(t, "boom", func() {
		_ = txManager.WithTx(context.Background(), func(ctx context.Context) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_CommitError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(assert.AnError)

	err := NewTxManager(db).WithTx(context.Background(), func(ctx context.Context) error {
		return nil
	})

	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "failed to commit transaction")
}
