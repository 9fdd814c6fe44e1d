package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/gegcuk/kidsgpt-backend/internal/errors"
	"github.com/gegcuk/kidsgpt-backend/internal/user/domain"
)

var userColumns = []string{
	"id", "username", "email", "password_hash", "age", "is_active", "is_deleted",
	"created_at", "updated_at", "last_login",
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func newTestUser() *domain.User {
	now := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)
	age := 9
	return &domain.User{
		ID:           uuid.Must(uuid.NewV7()),
		Username:     "sam",
		Email:        "sam@example.com",
		PasswordHash: "$argon2id$v=19$m=65536,t=2,p=1$c2FsdA$aGFzaA",
		Age:          &age,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestPostgreSQLUserRepository_Create(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLUserRepository(db)
		user := newTestUser()

		mock.ExpectExec(`INSERT INTO users`).
			WithArgs(user.ID, user.Username, user.Email, user.PasswordHash, int64(9), true, false,
				user.CreatedAt, user.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(context.Background(), user))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success_NullAge", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLUserRepository(db)
		user := newTestUser()
		user.Age = nil

		mock.ExpectExec(`INSERT INTO users`).
			WithArgs(user.ID, user.Username, user.Email, user.PasswordHash, nil, true, false,
				user.CreatedAt, user.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(context.Background(), user))
	})

	t.Run("Error_Duplicate", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLUserRepository(db)

		mock.ExpectExec(`INSERT INTO users`).WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Create(context.Background(), newTestUser())
		assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
		assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
	})
}

func TestPostgreSQLUserRepository_GetByUsername(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLUserRepository(db)
		user := newTestUser()
		lastLogin := user.CreatedAt.Add(time.Hour)

		rows := sqlmock.NewRows(userColumns).AddRow(
			user.ID.String(), user.Username, user.Email, user.PasswordHash, int64(9), true, false,
			user.CreatedAt, user.UpdatedAt, lastLogin,
		)
		mock.ExpectQuery(`SELECT .* FROM users WHERE username = \$1`).
			WithArgs("sam").
			WillReturnRows(rows)

		got, err := repo.GetByUsername(context.Background(), "sam")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, "sam@example.com", got.Email)
		require.NotNil(t, got.Age)
		assert.Equal(t, 9, *got.Age)
		require.NotNil(t, got.LastLogin)
		assert.True(t, lastLogin.Equal(*got.LastLogin))
	})

	t.Run("Success_NullColumns", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLUserRepository(db)
		user := newTestUser()

		rows := sqlmock.NewRows(userColumns).AddRow(
			user.ID.String(), user.Username, user.Email, user.PasswordHash, nil, true, false,
			user.CreatedAt, user.UpdatedAt, nil,
		)
		mock.ExpectQuery(`SELECT .* FROM users WHERE username = \$1`).WillReturnRows(rows)

		got, err := repo.GetByUsername(context.Background(), "sam")
		require.NoError(t, err)
		assert.Nil(t, got.Age)
		assert.Nil(t, got.LastLogin)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLUserRepository(db)

		mock.ExpectQuery(`SELECT .* FROM users WHERE username = \$1`).WillReturnError(sql.ErrNoRows)

		got, err := repo.GetByUsername(context.Background(), "ghost")
		assert.Nil(t, got)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestPostgreSQLUserRepository_GetByEmailAndID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLUserRepository(db)
	user := newTestUser()

	mock.ExpectQuery(`SELECT .* FROM users WHERE email = \$1`).
		WithArgs("sam@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
			user.ID.String(), user.Username, user.Email, user.PasswordHash, nil, true, false,
			user.CreatedAt, user.UpdatedAt, nil,
		))
	mock.ExpectQuery(`SELECT .* FROM users WHERE id = \$1`).
		WithArgs(user.ID).
		WillReturnError(errors.New("connection reset"))

	got, err := repo.GetByEmail(context.Background(), "sam@example.com")
	require.NoError(t, err)
	assert.Equal(t, "sam", got.Username)

	_, err = repo.GetByID(context.Background(), user.ID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUserNotFound)
	assert.Contains(t, err.Error(), "failed to get user by id")
}

func TestPostgreSQLUserRepository_ListRoleNames(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLUserRepository(db)
	userID := uuid.Must(uuid.NewV7())

	mock.ExpectQuery(`SELECT r.name FROM roles r\s+JOIN user_roles ur`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("ROLE_ADMIN").AddRow("ROLE_PARENT"))

	names, err := repo.ListRoleNames(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"ROLE_ADMIN", "ROLE_PARENT"}, names)

	mock.ExpectQuery(`SELECT r.name FROM roles r`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"name"}))

	names, err = repo.ListRoleNames(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.NotNil(t, names)
}

func TestPostgreSQLUserRepository_AssignRole(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLUserRepository(db)
	userID, roleID := uuid.Must(uuid.NewV7()), uuid.Must(uuid.NewV7())

	mock.ExpectExec(`INSERT INTO user_roles \(user_id, role_id\) VALUES \(\$1, \$2\)\s+ON CONFLICT`).
		WithArgs(userID, roleID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.AssignRole(context.Background(), userID, roleID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLUserRepository_UpdateLastLogin(t *testing.T) {
	at := time.Date(2025, 2, 2, 8, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLUserRepository(db)
		userID := uuid.Must(uuid.NewV7())

		mock.ExpectExec(`UPDATE users SET last_login = \$1`).
			WithArgs(at, userID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateLastLogin(context.Background(), userID, at))
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLUserRepository(db)

		mock.ExpectExec(`UPDATE users SET last_login`).WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateLastLogin(context.Background(), uuid.Must(uuid.NewV7()), at)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}
