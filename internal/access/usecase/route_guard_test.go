package usecase_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/rolegate/internal/access/domain"
	"github.com/allisson/rolegate/internal/access/store"
	"github.com/allisson/rolegate/internal/access/usecase"
)

type guardResult struct {
	decision domain.Decision
	err      error
	elapsed  time.Duration
}

func checkAsync(ctx context.Context, guard *usecase.RouteGuard, s *store.Store) <-chan guardResult {
	results := make(chan guardResult, 1)
	go func() {
		start := time.Now()
		decision, err := guard.Check(ctx, s)
		results <- guardResult{decision: decision, err: err, elapsed: time.Since(start)}
	}()
	return results
}

func waitForSubscribers(t *testing.T, s *store.Store, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return s.Subscribers() == n }, time.Second, time.Millisecond)
}

func TestRouteGuardBuilder(t *testing.T) {
	t.Run("Success_Defaults", func(t *testing.T) {
		guard := usecase.NewRouteGuardBuilder(domain.RoleCashier).Build()

		assert.Equal(t, domain.RoleCashier, guard.RequiredRole())
		assert.Equal(t, 10*time.Second, guard.Timeout())
	})

	t.Run("Success_Overrides", func(t *testing.T) {
		guard := usecase.NewRouteGuardBuilder(domain.RoleSupervisor).
			WithTimeout(time.Second).
			WithRedirect("/login").
			Build()

		assert.Equal(t, time.Second, guard.Timeout())

		s := store.New()
		defer s.Close()
		s.Replace([]string{"doctor"})

		decision, err := guard.Check(context.Background(), s)
		require.NoError(t, err)
		assert.Equal(t, "/login", decision.Redirect)
	})

	t.Run("Success_InvalidOverridesIgnored", func(t *testing.T) {
		guard := usecase.NewRouteGuardBuilder(domain.RoleCashier).
			WithTimeout(0).
			WithRedirect("").
			WithLogger(nil).
			WithMetrics(nil).
			Build()

		assert.Equal(t, domain.DefaultGuardTimeout, guard.Timeout())

		s := store.New()
		defer s.Close()
		s.Replace([]string{"nurse"})

		decision, err := guard.Check(context.Background(), s)
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultAccessDeniedRoute, decision.Redirect)
	})
}

func TestRouteGuard_Check(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_AllowWhenAlreadyPopulated", func(t *testing.T) {
		s := store.New()
		defer s.Close()
		s.Replace([]string{"Cashier"})

		guard := usecase.NewRouteGuardBuilder(domain.RoleCashier).WithTimeout(time.Second).Build()
		decision, err := guard.Check(ctx, s)

		require.NoError(t, err)
		assert.Equal(t, domain.Allow(domain.ReasonRoleMatch), decision)
		assert.Equal(t, 0, s.Subscribers())
	})

	t.Run("Success_AllowWhenRolesArriveLater", func(t *testing.T) {
		s := store.New()
		defer s.Close()

		guard := usecase.NewRouteGuardBuilder(domain.RoleCashier).WithTimeout(5 * time.Second).Build()
		results := checkAsync(ctx, guard, s)

		waitForSubscribers(t, s, 1)
		s.Replace([]string{"cashier", "doctor"})

		result := <-results
		require.NoError(t, result.err)
		assert.True(t, result.decision.Allowed())
		assert.Less(t, result.elapsed, 5*time.Second)
		assert.Equal(t, 0, s.Subscribers())
	})

	t.Run("Success_EmptySnapshotsAreSkipped", func(t *testing.T) {
		s := store.New()
		defer s.Close()

		guard := usecase.NewRouteGuardBuilder(domain.RoleFinanceApprover).WithTimeout(5 * time.Second).Build()
		results := checkAsync(ctx, guard, s)

		waitForSubscribers(t, s, 1)
		s.Replace(nil)
		s.Replace([]string{"  "})
		s.Replace([]string{"finance-approver"})

		result := <-results
		require.NoError(t, result.err)
		assert.Equal(t, domain.Allow(domain.ReasonRoleMatch), result.decision)
	})

	t.Run("Failure_DenyOnMismatchBeforeTimeout", func(t *testing.T) {
		s := store.New()
		defer s.Close()

		timeout := 5 * time.Second
		guard := usecase.NewRouteGuardBuilder(domain.RoleCashier).WithTimeout(timeout).Build()
		results := checkAsync(ctx, guard, s)

		waitForSubscribers(t, s, 1)
		s.Replace([]string{"doctor"})

		result := <-results
		require.NoError(t, result.err)
		assert.Equal(t, domain.Deny(domain.DefaultAccessDeniedRoute, domain.ReasonRoleMismatch), result.decision)
		assert.Less(t, result.elapsed, timeout)
	})

	t.Run("Failure_DenyOnTimeoutNotEarlier", func(t *testing.T) {
		s := store.New()
		defer s.Close()

		timeout := 80 * time.Millisecond
		guard := usecase.NewRouteGuardBuilder(domain.RoleCashier).WithTimeout(timeout).Build()

		start := time.Now()
		decision, err := guard.Check(ctx, s)
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.Equal(t, domain.Deny(domain.DefaultAccessDeniedRoute, domain.ReasonTimeout), decision)
		assert.GreaterOrEqual(t, elapsed, timeout)
		assert.Equal(t, 0, s.Subscribers())
	})

	t.Run("Failure_DenyWhenStoreClosedBeforeCheck", func(t *testing.T) {
		s := store.New()
		s.Close()

		guard := usecase.NewRouteGuardBuilder(domain.RoleCashier).Build()
		decision, err := guard.Check(ctx, s)

		require.NoError(t, err)
		assert.Equal(t, domain.Deny(domain.DefaultAccessDeniedRoute, domain.ReasonStoreClosed), decision)
	})

	t.Run("Failure_DenyWhenStoreClosedWhileWaiting", func(t *testing.T) {
		s := store.New()

		guard := usecase.NewRouteGuardBuilder(domain.RoleCashier).WithTimeout(5 * time.Second).Build()
		results := checkAsync(ctx, guard, s)

		waitForSubscribers(t, s, 1)
		s.Close()

		result := <-results
		require.NoError(t, result.err)
		assert.Equal(t, domain.ReasonStoreClosed, result.decision.Reason)
		assert.False(t, result.decision.Allowed())
	})

	t.Run("Success_AbandonedNavigationProducesNoDecision", func(t *testing.T) {
		s := store.New()
		defer s.Close()

		cancelCtx, cancel := context.WithCancel(ctx)
		guard := usecase.NewRouteGuardBuilder(domain.RoleCashier).WithTimeout(5 * time.Second).Build()
		results := checkAsync(cancelCtx, guard, s)

		waitForSubscribers(t, s, 1)
		cancel()

		result := <-results
		assert.ErrorIs(t, result.err, context.Canceled)
		assert.Equal(t, domain.Decision{}, result.decision)
		assert.Equal(t, 0, s.Subscribers())
	})

	t.Run("Success_CancelledBeforeCheckNeverDecides", func(t *testing.T) {
		cancelCtx, cancel := context.WithCancel(ctx)
		cancel()

		guard := usecase.NewRouteGuardBuilder(domain.RoleCashier).WithTimeout(time.Nanosecond).Build()

		populated := store.New()
		defer populated.Close()
		populated.Replace([]string{"cashier"})

		closed := store.New()
		closed.Close()

		for i := 0; i < 200; i++ {
			for name, s := range map[string]*store.Store{"populated": populated, "closed": closed} {
				decision, err := guard.Check(cancelCtx, s)

				require.ErrorIs(t, err, context.Canceled, "%s store, iteration %d", name, i)
				require.Equal(t, domain.Decision{}, decision, "%s store, iteration %d", name, i)
			}
		}
		assert.Equal(t, 0, populated.Subscribers())
	})

	t.Run("Success_ConcurrentChecksShareOneStore", func(t *testing.T) {
		s := store.New()
		defer s.Close()

		cashier := usecase.NewRouteGuardBuilder(domain.RoleCashier).WithTimeout(5 * time.Second).Build()
		finance := usecase.NewRouteGuardBuilder(domain.RoleFinanceApprover).WithTimeout(5 * time.Second).Build()

		first := checkAsync(ctx, cashier, s)
		second := checkAsync(ctx, finance, s)
		waitForSubscribers(t, s, 2)
		s.Replace([]string{"cashier"})

		assert.True(t, (<-first).decision.Allowed())
		assert.False(t, (<-second).decision.Allowed())
		assert.Equal(t, 0, s.Subscribers())
	})
}

func TestRouteGuard_Check_DefaultTimeout(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the full default timeout")
	}

	s := store.New()
	defer s.Close()

	guard := usecase.NewRouteGuardBuilder(domain.RoleCashier).Build()

	start := time.Now()
	decision, err := guard.Check(context.Background(), s)

	require.NoError(t, err)
	assert.Equal(t, domain.ReasonTimeout, decision.Reason)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Second)
}

func TestRouteGuard_Check_Logging(t *testing.T) {
	decode := func(t *testing.T, buf *bytes.Buffer) map[string]any {
		t.Helper()
		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		return entry
	}

	t.Run("Success_TimeoutLoggedAsWarning", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		s := store.New()
		defer s.Close()

		guard := usecase.NewRouteGuardBuilder(domain.RoleCashier).
			WithTimeout(20 * time.Millisecond).
			WithLogger(logger).
			Build()
		_, err := guard.Check(context.Background(), s)
		require.NoError(t, err)

		entry := decode(t, &buf)
		assert.Equal(t, "WARN", entry["level"])
		assert.Equal(t, "timeout", entry["reason"])
		assert.Equal(t, "cashier", entry["required_role"])
	})

	t.Run("Success_MismatchLoggedAsInfo", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		s := store.New()
		defer s.Close()
		s.Replace([]string{"nurse"})

		guard := usecase.NewRouteGuardBuilder(domain.RoleCashier).WithLogger(logger).Build()
		_, err := guard.Check(context.Background(), s)
		require.NoError(t, err)

		entry := decode(t, &buf)
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "role_mismatch", entry["reason"])
		assert.Equal(t, []any{"nurse"}, entry["roles"])
	})
}

func TestRouteGuard_Check_Metrics(t *testing.T) {
	mockMetrics := &mockBusinessMetrics{}
	mockMetrics.On("RecordDecision", mock.Anything, "deny", "role_mismatch").Return().Once()
	mockMetrics.On("RecordDecision", mock.Anything, "allow", "role_match").Return().Once()

	guard := usecase.NewRouteGuardBuilder(domain.RoleSupervisor).WithMetrics(mockMetrics).Build()

	denied := store.New()
	defer denied.Close()
	denied.Replace([]string{"doctor"})
	_, err := guard.Check(context.Background(), denied)
	require.NoError(t, err)

	allowed := store.New()
	defer allowed.Close()
	allowed.Replace([]string{"supervisor"})
	_, err = guard.Check(context.Background(), allowed)
	require.NoError(t, err)

	mockMetrics.AssertExpectations(t)
}
