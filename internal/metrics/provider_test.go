package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	provider, err := NewProvider("rolegate")
	require.NoError(t, err)
	defer func() { assert.NoError(t, provider.Shutdown(context.Background())) }()

	assert.NotNil(t, provider.MeterProvider())
	assert.NotNil(t, provider.exporter)
	assert.NotNil(t, provider.registry)
}

func TestNewProvider_RegistriesAreIndependent(t *testing.T) {
	first, err := NewProvider("rolegate")
	require.NoError(t, err)
	second, err := NewProvider("rolegate")
	require.NoError(t, err, "a second provider must not collide with the first one's collectors")

	bm, err := NewBusinessMetrics(first.MeterProvider(), "rolegate")
	require.NoError(t, err)
	bm.RecordDecision(context.Background(), "deny", "timeout")

	assert.Contains(t, scrape(t, first), "rolegate_guard_decisions_total")
	assert.NotContains(t, scrape(t, second), "rolegate_guard_decisions_total")

	assert.NoError(t, first.Shutdown(context.Background()))
	assert.NoError(t, second.Shutdown(context.Background()))
}

func TestProvider_Handler(t *testing.T) {
	provider, err := NewProvider("handler_test")
	require.NoError(t, err)
	defer func() { assert.NoError(t, provider.Shutdown(context.Background())) }()

	output := scrape(t, provider)

	assert.Contains(t, output, "go_goroutines")
	assert.Contains(t, output, "handler_test_process_")
}

func TestProvider_Shutdown(t *testing.T) {
	t.Run("Success_ShutdownProvider", func(t *testing.T) {
		provider, err := NewProvider("rolegate")
		require.NoError(t, err)

		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	t.Run("Success_ShutdownWithoutMeterProvider", func(t *testing.T) {
		provider := &Provider{}

		assert.NoError(t, provider.Shutdown(context.Background()))
	})
}
