package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/gegcuk/kidsgpt-backend/internal/auth/domain"
	authService "github.com/gegcuk/kidsgpt-backend/internal/auth/service"
)

// revocationUseCase stores SHA-256 hashes of revoked tokens, never the tokens themselves.
type revocationUseCase struct {
	repo   RevokedTokenRepository
	hasher authService.TokenHasher
	now    func() time.Time
}

// NewRevocationUseCase creates a RevocationUseCase backed by repo.
func NewRevocationUseCase(repo RevokedTokenRepository, hasher authService.TokenHasher) RevocationUseCase {
	return &revocationUseCase{
		repo:   repo,
		hasher: hasher,
		now:    time.Now,
	}
}

func (r *revocationUseCase) Add(ctx context.Context, token string, expiresAt time.Time) error {
	return r.repo.Create(ctx, &authDomain.RevokedToken{
		ID:        uuid.Must(uuid.NewV7()),
		TokenHash: r.hasher.HashToken(token),
		ExpiresAt: expiresAt.UTC(),
		RevokedAt: r.now().UTC(),
	})
}

func (r *revocationUseCase) Contains(ctx context.Context, token string) (bool, error) {
	_, err := r.repo.GetByTokenHash(ctx, r.hasher.HashToken(token))
	if err != nil {
		if errors.Is(err, authDomain.ErrRevokedTokenNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *revocationUseCase) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	return r.repo.DeleteExpired(ctx, now.UTC())
}

func (r *revocationUseCase) CountExpired(ctx context.Context, now time.Time) (int64, error) {
	return r.repo.CountExpired(ctx, now.UTC())
}
