package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apperrors "github.com/gegcuk/kidsgpt-backend/internal/errors"
	"github.com/gegcuk/kidsgpt-backend/internal/httputil"
)

const (
	limiterSweepInterval = 5 * time.Minute
	limiterMaxIdle       = time.Hour
)

// limiterStore holds keyed rate limiters. Idle limiters are swept inline by whichever
// request first notices that sweepEvery has passed, so the store owns no goroutine.
type limiterStore struct {
	limiters   sync.Map // map[string]*limiterEntry
	rps        float64
	burst      int
	sweepEvery time.Duration
	maxIdle    time.Duration
	lastSweep  atomic.Int64 // unix nanoseconds
	now        func() time.Time
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
	mu         sync.Mutex
}

func newLimiterStore(rps float64, burst int) *limiterStore {
	store := &limiterStore{
		rps:        rps,
		burst:      burst,
		sweepEvery: limiterSweepInterval,
		maxIdle:    limiterMaxIdle,
		now:        time.Now,
	}
	store.lastSweep.Store(store.now().UnixNano())
	return store
}

func (s *limiterStore) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// LoginRateLimitMiddleware limits login attempts per client IP to slow down credential
// stuffing. c.ClientIP honours X-Forwarded-For and X-Real-IP for trusted proxies.
func LoginRateLimitMiddleware(rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := newLimiterStore(rps, burst)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		if !store.allow(c, clientIP) {
			logger.Debug("login rate limit exceeded", slog.String("client_ip", clientIP))
			return
		}
		c.Next()
	}
}

// RateLimitMiddleware limits requests per authenticated user. It must run after
// RequireAuthenticated.
func RateLimitMiddleware(rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := newLimiterStore(rps, burst)

	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c.Request.Context())
		if !ok {
			logger.Error("rate limit middleware: no principal in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			return
		}

		if !store.allow(c, principal.Username) {
			logger.Debug("rate limit exceeded", slog.String("username", principal.Username))
			return
		}
		c.Next()
	}
}

// allow reports whether key may proceed. When it may not, a 429 with Retry-After has
// already been written and the request aborted.
func (s *limiterStore) allow(c *gin.Context, key string) bool {
	limiter := s.getLimiter(key)
	if limiter.Allow() {
		return true
	}

	reservation := limiter.Reserve()
	retryAfter := int(reservation.Delay().Seconds())
	reservation.Cancel()
	if retryAfter < 1 {
		retryAfter = 1
	}

	c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, httputil.ErrorResponse{
		Error:   "rate_limit_exceeded",
		Message: "Too many requests. Please retry after the specified delay.",
	})
	return false
}

func (s *limiterStore) getLimiter(key string) *rate.Limiter {
	now := s.clock()
	s.maybeSweep(now)

	if val, ok := s.limiters.Load(key); ok {
		entry := val.(*limiterEntry)
		entry.mu.Lock()
		entry.lastAccess = now
		entry.mu.Unlock()
		return entry.limiter
	}

	entry := &limiterEntry{
		limiter:    rate.NewLimiter(rate.Limit(s.rps), s.burst),
		lastAccess: now,
	}
	actual, _ := s.limiters.LoadOrStore(key, entry)
	return actual.(*limiterEntry).limiter
}

// maybeSweep evicts limiters idle for longer than maxIdle at most once per sweepEvery.
// Only the caller that wins the swap does the work.
func (s *limiterStore) maybeSweep(now time.Time) {
	if s.sweepEvery <= 0 {
		return
	}
	last := s.lastSweep.Load()
	if now.Sub(time.Unix(0, last)) < s.sweepEvery {
		return
	}
	if !s.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}
	s.evictIdle(now.Add(-s.maxIdle))
}

func (s *limiterStore) evictIdle(threshold time.Time) {
	s.limiters.Range(func(key, value any) bool {
		entry := value.(*limiterEntry)
		entry.mu.Lock()
		stale := entry.lastAccess.Before(threshold)
		entry.mu.Unlock()

		if stale {
			s.limiters.Delete(key)
		}
		return true
	})
}
