package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func createTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockBusinessMetrics is a local mock for metrics.BusinessMetrics.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func (m *mockBusinessMetrics) RecordDecision(ctx context.Context, outcome, reason string) {
	m.Called(ctx, outcome, reason)
}

func (m *mockBusinessMetrics) AddActiveSessions(ctx context.Context, delta int64) {
	m.Called(ctx, delta)
}
