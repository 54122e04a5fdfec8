package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/allisson/rolegate/internal/access/domain"
	"github.com/allisson/rolegate/internal/access/service"
)

type accessUseCase struct {
	sessions   SessionUseCase
	visibility service.VisibilityResolver
	header     service.HeaderSuppressionResolver
	navigator  *Navigator
}

// NewAccessUseCase wires the pure resolvers and the navigator to the session stores.
func NewAccessUseCase(
	sessions SessionUseCase,
	visibility service.VisibilityResolver,
	header service.HeaderSuppressionResolver,
	navigator *Navigator,
) AccessUseCase {
	return &accessUseCase{
		sessions:   sessions,
		visibility: visibility,
		header:     header,
		navigator:  navigator,
	}
}

func (a *accessUseCase) Roles(ctx context.Context, sessionID uuid.UUID) (domain.RoleSet, error) {
	roles, err := a.sessions.Store(ctx, sessionID)
	if err != nil {
		return domain.RoleSet{}, err
	}
	return roles.Current(), nil
}

func (a *accessUseCase) Visibility(ctx context.Context, sessionID uuid.UUID) (domain.FlagBag, error) {
	roles, err := a.Roles(ctx, sessionID)
	if err != nil {
		return domain.FlagBag{}, err
	}
	return a.visibility.Resolve(roles), nil
}

func (a *accessUseCase) Chrome(ctx context.Context, sessionID uuid.UUID, path string) (bool, error) {
	roles, err := a.Roles(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return a.header.Suppress(path, roles), nil
}

func (a *accessUseCase) Navigate(ctx context.Context, sessionID uuid.UUID, path string) (domain.Decision, error) {
	roles, err := a.sessions.Store(ctx, sessionID)
	if err != nil {
		return domain.Decision{}, err
	}
	return a.navigator.Navigate(ctx, roles, path)
}

func (a *accessUseCase) WatchVisibility(ctx context.Context, sessionID uuid.UUID) (*VisibilityFeed, error) {
	roles, err := a.sessions.Store(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return NewVisibilityFeed(roles, a.visibility)
}
