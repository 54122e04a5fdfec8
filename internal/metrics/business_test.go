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

// assertMetricLine checks that the Prometheus output contains a sample with the given
// name, partial label pattern and value. The exporter injects extra scope labels, so
// labels are matched as a regex fragment.
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
	provider, err := NewProvider("test_app")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "test_app")

	require.NoError(t, err)
	assert.NotNil(t, bm)
}

func TestBusinessMetrics_Operations(t *testing.T) {
	provider, err := NewProvider("ops_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "ops_test")
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordOperation(ctx, "access", "session_open", "success")
	bm.RecordOperation(ctx, "access", "session_open", "success")
	bm.RecordOperation(ctx, "access", "session_refresh", "error")
	bm.RecordDuration(ctx, "access", "session_open", 20*time.Millisecond, "success")
	bm.RecordDuration(ctx, "access", "session_open", 30*time.Millisecond, "success")

	output := scrape(t, provider)

	assertMetricLine(t, output, `ops_test_operations_total`,
		`domain="access".*operation="session_open".*status="success"`, `2`)
	assertMetricLine(t, output, `ops_test_operations_total`,
		`domain="access".*operation="session_refresh".*status="error"`, `1`)
	assertMetricLine(t, output, `ops_test_operation_duration_seconds_count`,
		`domain="access".*operation="session_open".*status="success"`, `2`)
}

func TestBusinessMetrics_Decisions(t *testing.T) {
	provider, err := NewProvider("guard_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "guard_test")
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordDecision(ctx, "allow", "role_match")
	bm.RecordDecision(ctx, "deny", "timeout")
	bm.RecordDecision(ctx, "deny", "timeout")

	output := scrape(t, provider)

	assertMetricLine(t, output, `guard_test_guard_decisions_total`, `outcome="allow".*reason="role_match"`, `1`)
	assertMetricLine(t, output, `guard_test_guard_decisions_total`, `outcome="deny".*reason="timeout"`, `2`)
}

func TestBusinessMetrics_ActiveSessions(t *testing.T) {
	provider, err := NewProvider("sessions_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "sessions_test")
	require.NoError(t, err)

	ctx := context.Background()
	bm.AddActiveSessions(ctx, 1)
	bm.AddActiveSessions(ctx, 1)
	bm.AddActiveSessions(ctx, -1)

	output := scrape(t, provider)

	assert.Regexp(t, `sessions_test_active_sessions(\{[^}]*\})? 1`, output)
}

func TestNewNoOpBusinessMetrics(t *testing.T) {
	noOp := NewNoOpBusinessMetrics()

	assert.IsType(t, &NoOpBusinessMetrics{}, noOp)

	t.Run("NoOp_DoesNotPanic", func(t *testing.T) {
		ctx := context.Background()
		noOp.RecordOperation(ctx, "access", "session_open", "success")
		noOp.RecordDuration(ctx, "access", "session_open", 100*time.Millisecond, "success")
		noOp.RecordDecision(ctx, "deny", "role_mismatch")
		noOp.AddActiveSessions(ctx, 1)
	})
}
