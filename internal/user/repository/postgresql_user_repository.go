// Package repository provides data persistence implementations for users and roles.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/gegcuk/kidsgpt-backend/internal/database"
	apperrors "github.com/gegcuk/kidsgpt-backend/internal/errors"
	"github.com/gegcuk/kidsgpt-backend/internal/user/domain"
)

const postgresUserColumns = `id, username, email, password_hash, age, is_active, is_deleted,
			  created_at, updated_at, last_login`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// PostgreSQLUserRepository handles user persistence for PostgreSQL
type PostgreSQLUserRepository struct {
	db *sql.DB
}

// NewPostgreSQLUserRepository creates a new PostgreSQLUserRepository
func NewPostgreSQLUserRepository(db *sql.DB) *PostgreSQLUserRepository {
	return &PostgreSQLUserRepository{db: db}
}

// Create inserts a new user. A taken username or email returns ErrUserAlreadyExists.
func (r *PostgreSQLUserRepository) Create(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO users (id, username, email, password_hash, age, is_active, is_deleted,
			  created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := querier.ExecContext(
		ctx,
		query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		nullableAge(user.Age),
		user.IsActive,
		user.IsDeleted,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *PostgreSQLUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.getBy(ctx, "id", id)
}

// GetByUsername retrieves a user by exact username
func (r *PostgreSQLUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getBy(ctx, "username", username)
}

// GetByEmail retrieves a user by exact email
func (r *PostgreSQLUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, "email", email)
}

// getBy is only called with fixed column names, never user input.
func (r *PostgreSQLUserRepository) getBy(ctx context.Context, column string, value any) (*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + postgresUserColumns + ` FROM users WHERE ` + column + ` = $1`

	user, err := scanPostgresUser(querier.QueryRowContext(ctx, query, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user by "+column)
	}
	return user, nil
}

// ListRoleNames reads the user's role names, sorted by name.
func (r *PostgreSQLUserRepository) ListRoleNames(ctx context.Context, userID uuid.UUID) ([]string, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT r.name FROM roles r
			  JOIN user_roles ur ON ur.role_id = r.id
			  WHERE ur.user_id = $1
			  ORDER BY r.name`

	rows, err := querier.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list user roles")
	}
	defer func() {
		_ = rows.Close()
	}()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan role name")
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate user roles")
	}
	return names, nil
}

// AssignRole grants a role. Granting a role twice is a no-op.
func (r *PostgreSQLUserRepository) AssignRole(ctx context.Context, userID, roleID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)
			  ON CONFLICT (user_id, role_id) DO NOTHING`

	if _, err := querier.ExecContext(ctx, query, userID, roleID); err != nil {
		return apperrors.Wrap(err, "failed to assign role")
	}
	return nil
}

// UpdateLastLogin records a successful login time.
func (r *PostgreSQLUserRepository) UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE users SET last_login = $1, updated_at = $1 WHERE id = $2`

	result, err := querier.ExecContext(ctx, query, at, userID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update last login")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if affected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func scanPostgresUser(row rowScanner) (*domain.User, error) {
	var (
		user      domain.User
		age       sql.NullInt64
		lastLogin sql.NullTime
	)
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&age,
		&user.IsActive,
		&user.IsDeleted,
		&user.CreatedAt,
		&user.UpdatedAt,
		&lastLogin,
	)
	if err != nil {
		return nil, err
	}
	applyNullable(&user, age, lastLogin)
	return &user, nil
}

func nullableAge(age *int) sql.NullInt64 {
	if age == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*age), Valid: true}
}

func applyNullable(user *domain.User, age sql.NullInt64, lastLogin sql.NullTime) {
	if age.Valid {
		v := int(age.Int64)
		user.Age = &v
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		user.LastLogin = &t
	}
}
