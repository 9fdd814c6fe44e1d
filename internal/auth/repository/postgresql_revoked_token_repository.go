// Package repository implements revocation persistence for PostgreSQL and MySQL and a
// Redis read-through cache in front of either.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	authDomain "github.com/gegcuk/kidsgpt-backend/internal/auth/domain"
	"github.com/gegcuk/kidsgpt-backend/internal/database"
	apperrors "github.com/gegcuk/kidsgpt-backend/internal/errors"
)

// PostgreSQLRevokedTokenRepository implements RevokedToken persistence for PostgreSQL.
type PostgreSQLRevokedTokenRepository struct {
	db *sql.DB
}

// NewPostgreSQLRevokedTokenRepository creates a new PostgreSQL RevokedToken repository.
func NewPostgreSQLRevokedTokenRepository(db *sql.DB) *PostgreSQLRevokedTokenRepository {
	return &PostgreSQLRevokedTokenRepository{db: db}
}

// Create inserts a revocation. A row that already exists for the same token hash is left
// untouched and no error is returned.
func (p *PostgreSQLRevokedTokenRepository) Create(ctx context.Context, token *authDomain.RevokedToken) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO revoked_tokens (id, token_hash, expires_at, revoked_at)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (token_hash) DO NOTHING`

	_, err := querier.ExecContext(ctx, query, token.ID, token.TokenHash, token.ExpiresAt, token.RevokedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil
		}
		return apperrors.Wrap(err, "failed to create revoked token")
	}
	return nil
}

// GetByTokenHash returns the revocation for a token hash or ErrRevokedTokenNotFound.
func (p *PostgreSQLRevokedTokenRepository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*authDomain.RevokedToken, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, token_hash, expires_at, revoked_at
			  FROM revoked_tokens WHERE token_hash = $1`

	var token authDomain.RevokedToken
	err := querier.QueryRowContext(ctx, query, tokenHash).Scan(
		&token.ID,
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
	return &token, nil
}

// DeleteExpired removes revocations whose expiry is strictly before now.
func (p *PostgreSQLRevokedTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM revoked_tokens WHERE expires_at < $1`, now)
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
func (p *PostgreSQLRevokedTokenRepository) CountExpired(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	var count int64
	err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM revoked_tokens WHERE expires_at < $1`, now).
		Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired revoked tokens")
	}
	return count, nil
}
