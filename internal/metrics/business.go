package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BusinessMetrics records what the access engine does: session lifecycle operations,
// route guard decisions and the number of live sessions.
type BusinessMetrics interface {
	// RecordOperation counts an operation, e.g. ("access", "session_open", "success").
	RecordOperation(ctx context.Context, domain, operation, status string)

	// RecordDuration observes how long an operation took, in seconds.
	RecordDuration(ctx context.Context, domain, operation string, duration time.Duration, status string)

	// RecordDecision counts a route guard decision by outcome and reason.
	RecordDecision(ctx context.Context, outcome, reason string)

	// AddActiveSessions moves the live session gauge by delta.
	AddActiveSessions(ctx context.Context, delta int64)
}

type businessMetrics struct {
	operationCounter metric.Int64Counter
	durationHisto    metric.Float64Histogram
	decisionCounter  metric.Int64Counter
	activeSessions   metric.Int64UpDownCounter
}

// NewBusinessMetrics creates the instruments on meterProvider, prefixing every metric
// name with namespace.
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)

	operationCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_operations_total", namespace),
		metric.WithDescription("Total number of access operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_operation_duration_seconds", namespace),
		metric.WithDescription("Duration of access operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	decisionCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_guard_decisions_total", namespace),
		metric.WithDescription("Total number of route guard decisions"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create decision counter: %w", err)
	}

	activeSessions, err := meter.Int64UpDownCounter(
		fmt.Sprintf("%s_active_sessions", namespace),
		metric.WithDescription("Number of open sessions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create active sessions gauge: %w", err)
	}

	return &businessMetrics{
		operationCounter: operationCounter,
		durationHisto:    durationHisto,
		decisionCounter:  decisionCounter,
		activeSessions:   activeSessions,
	}, nil
}

func (b *businessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	b.operationCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("domain", domain),
			attribute.String("operation", operation),
			attribute.String("status", status),
		),
	)
}

func (b *businessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	b.durationHisto.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("domain", domain),
			attribute.String("operation", operation),
			attribute.String("status", status),
		),
	)
}

func (b *businessMetrics) RecordDecision(ctx context.Context, outcome, reason string) {
	b.decisionCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("outcome", outcome),
			attribute.String("reason", reason),
		),
	)
}

func (b *businessMetrics) AddActiveSessions(ctx context.Context, delta int64) {
	b.activeSessions.Add(ctx, delta)
}

// NoOpBusinessMetrics discards everything. Used when METRICS_ENABLED is false and by
// the CLI commands.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics creates a no-op BusinessMetrics implementation.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return &NoOpBusinessMetrics{}
}

func (n *NoOpBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {}

func (n *NoOpBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
}

func (n *NoOpBusinessMetrics) RecordDecision(ctx context.Context, outcome, reason string) {}

func (n *NoOpBusinessMetrics) AddActiveSessions(ctx context.Context, delta int64) {}
