package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertMetricLine checks that the Prometheus output contains a series with the given
// name, partial label pattern and value. The exporter adds otel scope labels, so the
// label match is a regex.
func assertMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func scrape(t *testing.T, provider *Provider) string {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestNewBusinessMetrics(t *testing.T) {
	provider, err := NewProvider("kidsgpt_test", "dev")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "kidsgpt_test")

	require.NoError(t, err)
	assert.NotNil(t, bm)
}

func TestBusinessMetrics_Recording(t *testing.T) {
	provider, err := NewProvider("biz_test", "dev")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "biz_test")
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordOperation(ctx, "auth", "login", "success")
	bm.RecordOperation(ctx, "auth", "login", "success")
	bm.RecordOperation(ctx, "auth", "login", "error")
	bm.RecordOperation(ctx, "chat", "chat", "success")

	bm.RecordDuration(ctx, "auth", "login", 50*time.Millisecond, "success")
	bm.RecordDuration(ctx, "auth", "login", 70*time.Millisecond, "success")

	bm.RecordCacheLookup(ctx, "revoked_tokens", CacheHit)
	bm.RecordCacheLookup(ctx, "revoked_tokens", CacheMiss)
	bm.RecordCacheLookup(ctx, "revoked_tokens", CacheMiss)

	bm.RecordModelTokens(ctx, "gpt-4o-mini", 40)
	bm.RecordModelTokens(ctx, "gpt-4o-mini", 2)
	bm.RecordModelTokens(ctx, "gpt-4o-mini", 0)

	output := scrape(t, provider)

	assertMetricLine(t, output, `biz_test_operations_total`,
		`domain="auth".*operation="login".*status="success"`, `2`)
	assertMetricLine(t, output, `biz_test_operations_total`,
		`domain="auth".*operation="login".*status="error"`, `1`)
	assertMetricLine(t, output, `biz_test_operations_total`,
		`domain="chat".*operation="chat".*status="success"`, `1`)
	assertMetricLine(t, output, `biz_test_operation_duration_seconds_count`,
		`domain="auth".*operation="login".*status="success"`, `2`)
	assertMetricLine(t, output, `biz_test_cache_lookups_total`,
		`cache="revoked_tokens".*result="hit"`, `1`)
	assertMetricLine(t, output, `biz_test_cache_lookups_total`,
		`cache="revoked_tokens".*result="miss"`, `2`)
	assertMetricLine(t, output, `biz_test_model_tokens_total`, `model="gpt-4o-mini"`, `42`)
}

func TestNewNoOpBusinessMetrics(t *testing.T) {
	noOp := NewNoOpBusinessMetrics()
	require.NotNil(t, noOp)

	assert.NotPanics(t, func() {
		ctx := context.Background()
		noOp.RecordOperation(ctx, "auth", "logout", "success")
		noOp.RecordDuration(ctx, "auth", "logout", time.Millisecond, "success")
		noOp.RecordCacheLookup(ctx, "revoked_tokens", CacheError)
		noOp.RecordModelTokens(ctx, "gpt-4o-mini", 12)
	})
}
