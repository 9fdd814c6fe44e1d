package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	for _, namespace := range []string{"kidsgpt_test", ""} {
		t.Run("namespace="+namespace, func(t *testing.T) {
			provider, err := NewProvider(namespace, "v1.2.3")
			require.NoError(t, err)
			require.NotNil(t, provider.MeterProvider())
			assert.NoError(t, provider.Shutdown(context.Background()))
		})
	}
}

func TestRegisterRuntimeCollectors_Duplicate(t *testing.T) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	err := registerRuntimeCollectors(registry)
	assert.ErrorContains(t, err, "failed to register runtime collector")
}

func TestProvider_Handler(t *testing.T) {
	provider, err := NewProvider("kidsgpt_test", "v1.2.3")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	w := httptest.NewRecorder()
	provider.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestProvider_Shutdown(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		provider, err := NewProvider("kidsgpt_test", "dev")
		require.NoError(t, err)

		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	t.Run("ZeroValue", func(t *testing.T) {
		assert.NoError(t, (&Provider{}).Shutdown(context.Background()))
	})
}
