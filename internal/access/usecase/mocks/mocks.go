// Package mocks provides testify mocks for the access use cases and their collaborators.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/allisson/rolegate/internal/access/domain"
	"github.com/allisson/rolegate/internal/access/store"
	"github.com/allisson/rolegate/internal/access/usecase"
)

// MockRoleSource is a mock implementation of RoleSource.
type MockRoleSource struct {
	mock.Mock
}

func (m *MockRoleSource) FetchRoles(ctx context.Context, identity string) ([]string, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockSessionUseCase is a mock implementation of SessionUseCase.
type MockSessionUseCase struct {
	mock.Mock
}

func (m *MockSessionUseCase) Open(ctx context.Context, identity string) (*domain.Session, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionUseCase) Get(ctx context.Context, sessionID uuid.UUID) (*domain.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionUseCase) Store(ctx context.Context, sessionID uuid.UUID) (*store.Store, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Store), args.Error(1)
}

func (m *MockSessionUseCase) Refresh(ctx context.Context, sessionID uuid.UUID) (domain.RoleSet, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(domain.RoleSet), args.Error(1)
}

func (m *MockSessionUseCase) Close(ctx context.Context, sessionID uuid.UUID) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockSessionUseCase) List(ctx context.Context) []*domain.Session {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*domain.Session)
}

func (m *MockSessionUseCase) Count() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockSessionUseCase) Shutdown(ctx context.Context) {
	m.Called(ctx)
}

// MockAccessUseCase is a mock implementation of AccessUseCase.
type MockAccessUseCase struct {
	mock.Mock
}

func (m *MockAccessUseCase) Roles(ctx context.Context, sessionID uuid.UUID) (domain.RoleSet, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(domain.RoleSet), args.Error(1)
}

func (m *MockAccessUseCase) Visibility(ctx context.Context, sessionID uuid.UUID) (domain.FlagBag, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(domain.FlagBag), args.Error(1)
}

func (m *MockAccessUseCase) Chrome(ctx context.Context, sessionID uuid.UUID, path string) (bool, error) {
	args := m.Called(ctx, sessionID, path)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessUseCase) Navigate(
	ctx context.Context,
	sessionID uuid.UUID,
	path string,
) (domain.Decision, error) {
	args := m.Called(ctx, sessionID, path)
	return args.Get(0).(domain.Decision), args.Error(1)
}

func (m *MockAccessUseCase) WatchVisibility(
	ctx context.Context,
	sessionID uuid.UUID,
) (*usecase.VisibilityFeed, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.VisibilityFeed), args.Error(1)
}
