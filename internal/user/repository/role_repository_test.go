package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gegcuk/kidsgpt-backend/internal/user/domain"
)

func TestPostgreSQLRoleRepository(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLRoleRepository(db)
	role := &domain.Role{ID: uuid.Must(uuid.NewV7()), Name: domain.RoleParent}

	mock.ExpectExec(`INSERT INTO roles \(id, name\) VALUES \(\$1, \$2\) ON CONFLICT \(name\) DO NOTHING`).
		WithArgs(role.ID, role.Name).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT id, name FROM roles WHERE name = \$1`).
		WithArgs(domain.RoleParent).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(role.ID.String(), role.Name))
	mock.ExpectQuery(`SELECT id, name FROM roles WHERE name = \$1`).
		WithArgs(domain.RoleAdmin).
		WillReturnError(sql.ErrNoRows)

	ctx := context.Background()
	require.NoError(t, repo.EnsureRole(ctx, role))

	got, err := repo.GetByName(ctx, domain.RoleParent)
	require.NoError(t, err)
	assert.Equal(t, role.ID, got.ID)

	_, err = repo.GetByName(ctx, domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrRoleNotFound)
}

func TestMySQLRoleRepository(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMySQLRoleRepository(db)
	role := &domain.Role{ID: uuid.Must(uuid.NewV7()), Name: domain.RoleChild}
	id, err := role.ID.MarshalBinary()
	require.NoError(t, err)

	mock.ExpectExec(`INSERT IGNORE INTO roles`).
		WithArgs(id, role.Name).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT id, name FROM roles WHERE name = \?`).
		WithArgs(domain.RoleChild).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(id, role.Name))

	ctx := context.Background()
	require.NoError(t, repo.EnsureRole(ctx, role))

	got, err := repo.GetByName(ctx, domain.RoleChild)
	require.NoError(t, err)
	assert.Equal(t, role.ID, got.ID)
}
