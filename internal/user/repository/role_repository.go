package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gegcuk/kidsgpt-backend/internal/database"
	apperrors "github.com/gegcuk/kidsgpt-backend/internal/errors"
	"github.com/gegcuk/kidsgpt-backend/internal/user/domain"
)

// PostgreSQLRoleRepository handles role persistence for PostgreSQL
type PostgreSQLRoleRepository struct {
	db *sql.DB
}

// NewPostgreSQLRoleRepository creates a new PostgreSQLRoleRepository
func NewPostgreSQLRoleRepository(db *sql.DB) *PostgreSQLRoleRepository {
	return &PostgreSQLRoleRepository{db: db}
}

// EnsureRole inserts the role unless one with the same name exists.
func (r *PostgreSQLRoleRepository) EnsureRole(ctx context.Context, role *domain.Role) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO roles (id, name) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`

	if _, err := querier.ExecContext(ctx, query, role.ID, role.Name); err != nil {
		return apperrors.Wrap(err, "failed to ensure role")
	}
	return nil
}

// GetByName retrieves a role by name
func (r *PostgreSQLRoleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	querier := database.GetTx(ctx, r.db)

	var role domain.Role
	err := querier.QueryRowContext(ctx, `SELECT id, name FROM roles WHERE name = $1`, name).
		Scan(&role.ID, &role.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get role")
	}
	return &role, nil
}

// MySQLRoleRepository handles role persistence for MySQL
type MySQLRoleRepository struct {
	db *sql.DB
}

// NewMySQLRoleRepository creates a new MySQLRoleRepository
func NewMySQLRoleRepository(db *sql.DB) *MySQLRoleRepository {
	return &MySQLRoleRepository{db: db}
}

// EnsureRole inserts the role unless one with the same name exists.
func (r *MySQLRoleRepository) EnsureRole(ctx context.Context, role *domain.Role) error {
	querier := database.GetTx(ctx, r.db)

	id, err := role.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	if _, err := querier.ExecContext(ctx, `INSERT IGNORE INTO roles (id, name) VALUES (?, ?)`, id, role.Name); err != nil {
		return apperrors.Wrap(err, "failed to ensure role")
	}
	return nil
}

// GetByName retrieves a role by name
func (r *MySQLRoleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	querier := database.GetTx(ctx, r.db)

	var (
		role    domain.Role
		idBytes []byte
	)
	err := querier.QueryRowContext(ctx, `SELECT id, name FROM roles WHERE name = ?`, name).
		Scan(&idBytes, &role.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get role")
	}

	if err := role.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	return &role, nil
}
