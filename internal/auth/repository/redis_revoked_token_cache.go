package repository

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	authDomain "github.com/gegcuk/kidsgpt-backend/internal/auth/domain"
	apperrors "github.com/gegcuk/kidsgpt-backend/internal/errors"
	"github.com/gegcuk/kidsgpt-backend/internal/metrics"
)

const (
	revokedKeyPrefix = "kidsgpt:revoked:"
	cacheName        = "revoked_tokens"

	sharedLookupTimeout = 5 * time.Second
)

// revokedTokenStore is the durable store behind the cache.
type revokedTokenStore interface {
	Create(ctx context.Context, token *authDomain.RevokedToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.RevokedToken, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	CountExpired(ctx context.Context, now time.Time) (int64, error)
}

// RedisRevokedTokenCache is a read-through cache over a revokedTokenStore. Only positive
// lookups are cached, so a revocation written by another instance is never hidden by a
// stale negative entry. Redis failures degrade to the durable store; store failures are
// returned unchanged.
type RedisRevokedTokenCache struct {
	client  *redis.Client
	next    revokedTokenStore
	ttl     time.Duration
	metrics metrics.BusinessMetrics
	logger  *slog.Logger
	now     func() time.Time
	group   singleflight.Group
}

// NewRedisRevokedTokenCache wraps next. ttl caps how long a positive answer stays cached.
func NewRedisRevokedTokenCache(
	client *redis.Client,
	next revokedTokenStore,
	ttl time.Duration,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) *RedisRevokedTokenCache {
	return &RedisRevokedTokenCache{
		client:  client,
		next:    next,
		ttl:     ttl,
		metrics: businessMetrics,
		logger:  logger,
		now:     time.Now,
	}
}

// Create writes through: the durable store first, then the cache.
func (r *RedisRevokedTokenCache) Create(ctx context.Context, token *authDomain.RevokedToken) error {
	if err := r.next.Create(ctx, token); err != nil {
		return err
	}
	r.store(ctx, token.TokenHash, token.ExpiresAt)
	return nil
}

// GetByTokenHash answers from Redis when possible. Concurrent misses for the same hash
// share one store lookup, bounded by sharedLookupTimeout.
func (r *RedisRevokedTokenCache) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
) (*authDomain.RevokedToken, error) {
	val, err := r.client.Get(ctx, revokedKeyPrefix+tokenHash).Result()
	switch {
	case err == nil:
		if expiresAt, perr := strconv.ParseInt(val, 10, 64); perr == nil {
			r.metrics.RecordCacheLookup(ctx, cacheName, metrics.CacheHit)
			return &authDomain.RevokedToken{
				TokenHash: tokenHash,
				ExpiresAt: time.UnixMilli(expiresAt).UTC(),
			}, nil
		}
		r.metrics.RecordCacheLookup(ctx, cacheName, metrics.CacheError)
	case errors.Is(err, redis.Nil):
		r.metrics.RecordCacheLookup(ctx, cacheName, metrics.CacheMiss)
	default:
		r.metrics.RecordCacheLookup(ctx, cacheName, metrics.CacheError)
		r.logger.Warn("revocation cache read failed, using database", slog.Any("error", err))
	}

	// The shared lookup outlives any single caller; each caller stops waiting on its own
	// cancellation.
	ch := r.group.DoChan(tokenHash, func() (any, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedLookupTimeout)
		defer cancel()

		token, err := r.next.GetByTokenHash(lookupCtx, tokenHash)
		if err != nil {
			return nil, err
		}
		r.store(lookupCtx, token.TokenHash, token.ExpiresAt)
		return token, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*authDomain.RevokedToken), nil
	}
}

// DeleteExpired only touches the durable store; cached entries expire on their own.
func (r *RedisRevokedTokenCache) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return r.next.DeleteExpired(ctx, now)
}

func (r *RedisRevokedTokenCache) CountExpired(ctx context.Context, now time.Time) (int64, error) {
	return r.next.CountExpired(ctx, now)
}

func (r *RedisRevokedTokenCache) store(ctx context.Context, tokenHash string, expiresAt time.Time) {
	ttl := expiresAt.Sub(r.now())
	if r.ttl > 0 && ttl > r.ttl {
		ttl = r.ttl
	}
	if ttl <= 0 {
		return
	}

	value := strconv.FormatInt(expiresAt.UnixMilli(), 10)
	if err := r.client.Set(ctx, revokedKeyPrefix+tokenHash, value, ttl).Err(); err != nil {
		r.logger.Warn("revocation cache write failed", slog.Any("error", err))
	}
}

// NewRedisClient parses a redis:// URL and checks the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, apperrors.Wrap(err, "invalid redis URL")
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, apperrors.Wrap(err, "redis connection failed")
	}
	return client, nil
}
