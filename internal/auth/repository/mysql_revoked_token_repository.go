package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/gegcuk/kidsgpt-backend/internal/auth/domain"
	"github.com/gegcuk/kidsgpt-backend/internal/database"
	apperrors "github.com/gegcuk/kidsgpt-backend/internal/errors"
)

// MySQLRevokedTokenRepository implements RevokedToken persistence for MySQL.
// Uses BINARY(16) for UUIDs.
type MySQLRevokedTokenRepository struct {
	db *sql.DB
}

// NewMySQLRevokedTokenRepository creates a new MySQL RevokedToken repository.
func NewMySQLRevokedTokenRepository(db *sql.DB) *MySQLRevokedTokenRepository {
	return &MySQLRevokedTokenRepository{db: db}
}

// Create inserts a revocation. INSERT IGNORE turns a duplicate token hash into a no-op.
func (m *MySQLRevokedTokenRepository) Create(ctx context.Context, token *authDomain.RevokedToken) error {
	querier := database.GetTx(ctx, m.db)

	id, err := token.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal revoked token id")
	}

	query := `INSERT IGNORE INTO revoked_tokens (id, token_hash, expires_at, revoked_at)
			  VALUES (?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, id, token.TokenHash, token.ExpiresAt, token.RevokedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil
		}
		return apperrors.Wrap(err, "failed to create revoked token")
	}
	return nil
}

// GetByTokenHash returns the revocation for a token hash or ErrRevokedTokenNotFound.
func (m *MySQLRevokedTokenRepository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*authDomain.RevokedToken, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, token_hash, expires_at, revoked_at
			  FROM revoked_tokens WHERE token_hash = ?`

	var (
		token authDomain.RevokedToken
		id    []byte
	)
	err := querier.QueryRowContext(ctx, query, tokenHash).Scan(
		&id,
		&token.TokenHash,
		&token.ExpiresAt,
		&token.RevokedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrRevokedTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get revoked token")
	}

	if token.ID, err = uuid.FromBytes(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal revoked token id")
	}
	return &token, nil
}

// DeleteExpired removes revocations whose expiry is strictly before now.
func (m *MySQLRevokedTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM revoked_tokens WHERE expires_at < ?`, now)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired revoked tokens")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get affected rows")
	}
	return count, nil
}

// CountExpired counts revocations DeleteExpired would remove.
func (m *MySQLRevokedTokenRepository) CountExpired(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	var count int64
	err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM revoked_tokens WHERE expires_at < ?`, now).
		Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired revoked tokens")
	}
	return count, nil
}
