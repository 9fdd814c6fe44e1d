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

const mysqlUserColumns = `id, username, email, password_hash, age, is_active, is_deleted,
			  created_at, updated_at, last_login`

// MySQLUserRepository handles user persistence for MySQL. UUIDs are stored as BINARY(16).
type MySQLUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new MySQLUserRepository
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}

// Create inserts a new user. A taken username or email returns ErrUserAlreadyExists.
func (r *MySQLUserRepository) Create(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO users (id, username, email, password_hash, age, is_active, is_deleted,
			  created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := user.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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
func (r *MySQLUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}
	return r.getBy(ctx, "id", idBytes)
}

// GetByUsername retrieves a user by exact username
func (r *MySQLUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getBy(ctx, "username", username)
}

// GetByEmail retrieves a user by exact email
func (r *MySQLUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *MySQLUserRepository) getBy(ctx context.Context, column string, value any) (*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mysqlUserColumns + ` FROM users WHERE ` + column + ` = ?`

	var (
		user      domain.User
		idBytes   []byte
		age       sql.NullInt64
		lastLogin sql.NullTime
	)
	err := querier.QueryRowContext(ctx, query, value).Scan(
		&idBytes,
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
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user by "+column)
	}

	if err := user.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	applyNullable(&user, age, lastLogin)
	return &user, nil
}

// ListRoleNames reads the user's role names, sorted by name.
func (r *MySQLUserRepository) ListRoleNames(ctx context.Context, userID uuid.UUID) ([]string, error) {
	querier := database.GetTx(ctx, r.db)

	id, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `SELECT r.name FROM roles r
			  JOIN user_roles ur ON ur.role_id = r.id
			  WHERE ur.user_id = ?
			  ORDER BY r.name`

	rows, err := querier.QueryContext(ctx, query, id)
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
func (r *MySQLUserRepository) AssignRole(ctx context.Context, userID, roleID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	uid, err := userID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user UUID")
	}
	rid, err := roleID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal role UUID")
	}

	if _, err := querier.ExecContext(ctx, `INSERT IGNORE INTO user_roles (user_id, role_id) VALUES (?, ?)`, uid, rid); err != nil {
		return apperrors.Wrap(err, "failed to assign role")
	}
	return nil
}

// UpdateLastLogin records a successful login time.
func (r *MySQLUserRepository) UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	querier := database.GetTx(ctx, r.db)

	id, err := userID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	result, err := querier.ExecContext(ctx, `UPDATE users SET last_login = ?, updated_at = ? WHERE id = ?`, at, at, id)
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
