package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/rolegate/internal/access/domain"
	"github.com/allisson/rolegate/internal/access/store"
	"github.com/allisson/rolegate/internal/metrics"
)

// sessionUseCaseWithMetrics decorates SessionUseCase with metrics instrumentation.
type sessionUseCaseWithMetrics struct {
	next    SessionUseCase
	metrics metrics.BusinessMetrics
}

// NewSessionUseCaseWithMetrics wraps a SessionUseCase with metrics recording. It also
// keeps the active session gauge in step with Open, Close and Shutdown.
func NewSessionUseCaseWithMetrics(useCase SessionUseCase, m metrics.BusinessMetrics) SessionUseCase {
	return &sessionUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (s *sessionUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "access", operation, status)
	s.metrics.RecordDuration(ctx, "access", operation, time.Since(start), status)
}

func (s *sessionUseCaseWithMetrics) Open(ctx context.Context, identity string) (*domain.Session, error) {
	start := time.Now()
	session, err := s.next.Open(ctx, identity)
	s.record(ctx, "session_open", start, err)
	if err == nil {
		s.metrics.AddActiveSessions(ctx, 1)
	}
	return session, err
}

func (s *sessionUseCaseWithMetrics) Get(ctx context.Context, sessionID uuid.UUID) (*domain.Session, error) {
	return s.next.Get(ctx, sessionID)
}

func (s *sessionUseCaseWithMetrics) Store(ctx context.Context, sessionID uuid.UUID) (*store.Store, error) {
	return s.next.Store(ctx, sessionID)
}

func (s *sessionUseCaseWithMetrics) Refresh(ctx context.Context, sessionID uuid.UUID) (domain.RoleSet, error) {
	start := time.Now()
	roles, err := s.next.Refresh(ctx, sessionID)
	s.record(ctx, "session_refresh", start, err)
	return roles, err
}

func (s *sessionUseCaseWithMetrics) Close(ctx context.Context, sessionID uuid.UUID) error {
	start := time.Now()
	err := s.next.Close(ctx, sessionID)
	s.record(ctx, "session_close", start, err)
	if err == nil {
		s.metrics.AddActiveSessions(ctx, -1)
	}
	return err
}

func (s *sessionUseCaseWithMetrics) List(ctx context.Context) []*domain.Session {
	return s.next.List(ctx)
}

func (s *sessionUseCaseWithMetrics) Count() int {
	return s.next.Count()
}

func (s *sessionUseCaseWithMetrics) Shutdown(ctx context.Context) {
	open := s.next.Count()
	s.next.Shutdown(ctx)
	s.metrics.AddActiveSessions(ctx, -int64(open))
}

// accessUseCaseWithMetrics times navigation. Guard decisions themselves are counted by
// the guard.
type accessUseCaseWithMetrics struct {
	next    AccessUseCase
	metrics metrics.BusinessMetrics
}

// NewAccessUseCaseWithMetrics wraps an AccessUseCase with metrics recording.
func NewAccessUseCaseWithMetrics(useCase AccessUseCase, m metrics.BusinessMetrics) AccessUseCase {
	return &accessUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (a *accessUseCaseWithMetrics) Roles(ctx context.Context, sessionID uuid.UUID) (domain.RoleSet, error) {
	return a.next.Roles(ctx, sessionID)
}

func (a *accessUseCaseWithMetrics) Visibility(ctx context.Context, sessionID uuid.UUID) (domain.FlagBag, error) {
	return a.next.Visibility(ctx, sessionID)
}

func (a *accessUseCaseWithMetrics) Chrome(ctx context.Context, sessionID uuid.UUID, path string) (bool, error) {
	return a.next.Chrome(ctx, sessionID, path)
}

func (a *accessUseCaseWithMetrics) Navigate(
	ctx context.Context,
	sessionID uuid.UUID,
	path string,
) (domain.Decision, error) {
	start := time.Now()
	decision, err := a.next.Navigate(ctx, sessionID, path)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "access", "route_navigate", status)
	a.metrics.RecordDuration(ctx, "access", "route_navigate", time.Since(start), status)

	return decision, err
}

func (a *accessUseCaseWithMetrics) WatchVisibility(ctx context.Context, sessionID uuid.UUID) (*VisibilityFeed, error) {
	return a.next.WatchVisibility(ctx, sessionID)
}
