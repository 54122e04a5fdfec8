package app

import (
	"fmt"

	validation "github.com/jellydator/validation"

	"github.com/allisson/rolegate/internal/access/domain"
	accessHTTP "github.com/allisson/rolegate/internal/access/http"
	"github.com/allisson/rolegate/internal/access/repository"
	"github.com/allisson/rolegate/internal/access/service"
	accessUseCase "github.com/allisson/rolegate/internal/access/usecase"
	"github.com/allisson/rolegate/internal/config"
	apperrors "github.com/allisson/rolegate/internal/errors"
	customValidation "github.com/allisson/rolegate/internal/validation"
)

// Policy returns the access policy: the policy file (or the built-in policy) with the
// GUARD_TIMEOUT_SECONDS and ACCESS_DENIED_ROUTE overrides applied.
func (c *Container) Policy() (*domain.Policy, error) {
	var err error
	c.policyInit.Do(func() {
		c.policy, err = c.initPolicy()
		if err != nil {
			c.initErrors["policy"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["policy"]; exists {
		return nil, storedErr
	}
	return c.policy, nil
}

// RoleSource returns the AuthDataSource adapter selected by ROLE_SOURCE.
func (c *Container) RoleSource() (accessUseCase.RoleSource, error) {
	var err error
	c.roleSourceInit.Do(func() {
		c.roleSource, err = c.initRoleSource()
		if err != nil {
			c.initErrors["roleSource"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["roleSource"]; exists {
		return nil, storedErr
	}
	return c.roleSource, nil
}

// VisibilityResolver returns the resolver deriving flag bags from role sets.
func (c *Container) VisibilityResolver() (service.VisibilityResolver, error) {
	var err error
	c.visibilityInit.Do(func() {
		var policy *domain.Policy
		policy, err = c.Policy()
		if err != nil {
			c.initErrors["visibility"] = err
			return
		}
		c.visibility = service.NewVisibilityResolver(policy)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["visibility"]; exists {
		return nil, storedErr
	}
	return c.visibility, nil
}

// HeaderSuppressionResolver returns the resolver deciding chrome suppression.
func (c *Container) HeaderSuppressionResolver() (service.HeaderSuppressionResolver, error) {
	var err error
	c.headerSuppressionInit.Do(func() {
		var policy *domain.Policy
		policy, err = c.Policy()
		if err != nil {
			c.initErrors["headerSuppression"] = err
			return
		}
		c.headerSuppression = service.NewHeaderSuppressionResolver(policy)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["headerSuppression"]; exists {
		return nil, storedErr
	}
	return c.headerSuppression, nil
}

// Navigator returns the route guard table built from the policy.
func (c *Container) Navigator() (*accessUseCase.Navigator, error) {
	var err error
	c.navigatorInit.Do(func() {
		c.navigator, err = c.initNavigator()
		if err != nil {
			c.initErrors["navigator"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["navigator"]; exists {
		return nil, storedErr
	}
	return c.navigator, nil
}

// SessionUseCase returns the session use case.
func (c *Container) SessionUseCase() (accessUseCase.SessionUseCase, error) {
	var err error
	c.sessionUseCaseInit.Do(func() {
		c.sessionUseCase, err = c.initSessionUseCase()
		if err != nil {
			c.initErrors["sessionUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionUseCase"]; exists {
		return nil, storedErr
	}
	return c.sessionUseCase, nil
}

// AccessUseCase returns the access use case.
func (c *Container) AccessUseCase() (accessUseCase.AccessUseCase, error) {
	var err error
	c.accessUseCaseInit.Do(func() {
		c.accessUseCase, err = c.initAccessUseCase()
		if err != nil {
			c.initErrors["accessUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["accessUseCase"]; exists {
		return nil, storedErr
	}
	return c.accessUseCase, nil
}

// SessionHandler returns the HTTP handler for session lifecycle routes.
func (c *Container) SessionHandler() (*accessHTTP.SessionHandler, error) {
	var err error
	c.sessionHandlerInit.Do(func() {
		var sessionUseCase accessUseCase.SessionUseCase
		sessionUseCase, err = c.SessionUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get session use case for session handler: %w", err)
			c.initErrors["sessionHandler"] = err
			return
		}
		c.sessionHandler = accessHTTP.NewSessionHandler(sessionUseCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionHandler"]; exists {
		return nil, storedErr
	}
	return c.sessionHandler, nil
}

// AccessHandler returns the HTTP handler for visibility, chrome and navigation routes.
func (c *Container) AccessHandler() (*accessHTTP.AccessHandler, error) {
	var err error
	c.accessHandlerInit.Do(func() {
		var useCase accessUseCase.AccessUseCase
		useCase, err = c.AccessUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get access use case for access handler: %w", err)
			c.initErrors["accessHandler"] = err
			return
		}
		c.accessHandler = accessHTTP.NewAccessHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["accessHandler"]; exists {
		return nil, storedErr
	}
	return c.accessHandler, nil
}

// initPolicy loads the policy and applies the environment overrides.
func (c *Container) initPolicy() (*domain.Policy, error) {
	policy, err := repository.LoadPolicy(c.config.AccessPolicyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load access policy: %w", err)
	}
	if err := ApplyPolicyOverrides(policy, c.config); err != nil {
		return nil, err
	}
	return policy, nil
}

// ApplyPolicyOverrides applies GUARD_TIMEOUT_SECONDS and ACCESS_DENIED_ROUTE on top of
// a loaded policy. Zero values leave the policy untouched.
func ApplyPolicyOverrides(policy *domain.Policy, cfg *config.Config) error {
	if err := validation.Validate(cfg.AccessDeniedRoute, customValidation.RoutePath); err != nil {
		return apperrors.Wrap(domain.ErrInvalidPolicy, "access denied route: "+err.Error())
	}

	if cfg.GuardTimeout > 0 {
		policy.GuardTimeout = cfg.GuardTimeout
	}
	if cfg.AccessDeniedRoute != "" {
		policy.AccessDeniedRoute = cfg.AccessDeniedRoute
	}
	return nil
}

// initRoleSource creates the role source selected by configuration.
func (c *Container) initRoleSource() (accessUseCase.RoleSource, error) {
	switch c.config.RoleSource {
	case config.RoleSourceHTTP:
		if err := validation.Validate(c.config.RoleSourceURL,
			validation.Required,
			customValidation.HTTPURL,
		); err != nil {
			return nil, fmt.Errorf("invalid ROLE_SOURCE_URL: %w", err)
		}
		return repository.NewHTTPRoleSource(repository.HTTPRoleSourceConfig{
			BaseURL:    c.config.RoleSourceURL,
			Timeout:    c.config.RoleSourceTimeout,
			MaxRetries: c.config.RoleSourceMaxRetries,
		}, c.Logger()), nil
	case config.RoleSourceStatic:
		source, err := repository.LoadStaticRoleSource(c.config.RoleSourceStaticFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load static role source: %w", err)
		}
		return source, nil
	default:
		return nil, fmt.Errorf("unsupported role source: %s", c.config.RoleSource)
	}
}

// initNavigator creates one route guard per protected route.
func (c *Container) initNavigator() (*accessUseCase.Navigator, error) {
	policy, err := c.Policy()
	if err != nil {
		return nil, fmt.Errorf("failed to get policy for navigator: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for navigator: %w", err)
	}

	return accessUseCase.NewNavigator(policy, c.Logger(), businessMetrics), nil
}

// initSessionUseCase creates the session use case, wrapped with metrics if enabled.
func (c *Container) initSessionUseCase() (accessUseCase.SessionUseCase, error) {
	roleSource, err := c.RoleSource()
	if err != nil {
		return nil, fmt.Errorf("failed to get role source for session use case: %w", err)
	}

	baseUseCase := accessUseCase.NewSessionUseCase(roleSource, c.Logger())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for session use case: %w", err)
		}
		return accessUseCase.NewSessionUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initAccessUseCase creates the access use case, wrapped with metrics if enabled.
func (c *Container) initAccessUseCase() (accessUseCase.AccessUseCase, error) {
	sessionUseCase, err := c.SessionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get session use case for access use case: %w", err)
	}

	visibility, err := c.VisibilityResolver()
	if err != nil {
		return nil, fmt.Errorf("failed to get visibility resolver for access use case: %w", err)
	}

	headerSuppression, err := c.HeaderSuppressionResolver()
	if err != nil {
		return nil, fmt.Errorf("failed to get header suppression resolver for access use case: %w", err)
	}

	navigator, err := c.Navigator()
	if err != nil {
		return nil, fmt.Errorf("failed to get navigator for access use case: %w", err)
	}

	baseUseCase := accessUseCase.NewAccessUseCase(sessionUseCase, visibility, headerSuppression, navigator)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for access use case: %w", err)
		}
		return accessUseCase.NewAccessUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
