package usecase

import (
	"context"
	"time"

	authDomain "github.com/gegcuk/kidsgpt-backend/internal/auth/domain"
	"github.com/gegcuk/kidsgpt-backend/internal/metrics"
)

// sessionUseCaseWithMetrics decorates SessionUseCase with metrics instrumentation.
type sessionUseCaseWithMetrics struct {
	next    SessionUseCase
	metrics metrics.BusinessMetrics
}

// NewSessionUseCaseWithMetrics wraps a SessionUseCase with metrics recording.
func NewSessionUseCaseWithMetrics(useCase SessionUseCase, m metrics.BusinessMetrics) SessionUseCase {
	return &sessionUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Login records metrics for login operations.
func (s *sessionUseCaseWithMetrics) Login(
	ctx context.Context,
	input *authDomain.LoginInput,
) (*authDomain.LoginOutput, error) {
	start := time.Now()
	output, err := s.next.Login(ctx, input)
	record(ctx, s.metrics, "login", start, err)
	return output, err
}

// Logout records metrics for logout operations.
func (s *sessionUseCaseWithMetrics) Logout(ctx context.Context, token string) error {
	start := time.Now()
	err := s.next.Logout(ctx, token)
	record(ctx, s.metrics, "logout", start, err)
	return err
}

// Me records metrics for profile lookups.
func (s *sessionUseCaseWithMetrics) Me(
	ctx context.Context,
	principal *authDomain.Principal,
) (*authDomain.Profile, error) {
	start := time.Now()
	profile, err := s.next.Me(ctx, principal)
	record(ctx, s.metrics, "me", start, err)
	return profile, err
}

// revocationUseCaseWithMetrics decorates RevocationUseCase with metrics instrumentation.
type revocationUseCaseWithMetrics struct {
	next    RevocationUseCase
	metrics metrics.BusinessMetrics
}

// NewRevocationUseCaseWithMetrics wraps a RevocationUseCase with metrics recording.
func NewRevocationUseCaseWithMetrics(useCase RevocationUseCase, m metrics.BusinessMetrics) RevocationUseCase {
	return &revocationUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Add records metrics for token revocations.
func (r *revocationUseCaseWithMetrics) Add(ctx context.Context, token string, expiresAt time.Time) error {
	start := time.Now()
	err := r.next.Add(ctx, token, expiresAt)
	record(ctx, r.metrics, "revocation_add", start, err)
	return err
}

// Contains records metrics for revocation checks.
func (r *revocationUseCaseWithMetrics) Contains(ctx context.Context, token string) (bool, error) {
	start := time.Now()
	revoked, err := r.next.Contains(ctx, token)
	record(ctx, r.metrics, "revocation_check", start, err)
	return revoked, err
}

// PurgeExpired records metrics for revocation purges.
func (r *revocationUseCaseWithMetrics) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	start := time.Now()
	count, err := r.next.PurgeExpired(ctx, now)
	record(ctx, r.metrics, "revocation_purge", start, err)
	return count, err
}

// CountExpired is not instrumented; it only backs dry runs.
func (r *revocationUseCaseWithMetrics) CountExpired(ctx context.Context, now time.Time) (int64, error) {
	return r.next.CountExpired(ctx, now)
}

func record(ctx context.Context, m metrics.BusinessMetrics, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	m.RecordOperation(ctx, "auth", operation, status)
	m.RecordDuration(ctx, "auth", operation, time.Since(start), status)
}
