package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	validation "github.com/jellydator/validation"

	"github.com/allisson/rolegate/internal/access/domain"
	"github.com/allisson/rolegate/internal/access/http/dto"
	"github.com/allisson/rolegate/internal/access/service"
	"github.com/allisson/rolegate/internal/access/store"
	"github.com/allisson/rolegate/internal/access/usecase"
	customValidation "github.com/allisson/rolegate/internal/validation"
)

// RunResolve prints the visibility flags derived from roles.
func RunResolve(
	resolver service.VisibilityResolver,
	logger *slog.Logger,
	writer io.Writer,
	roles []string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	set := domain.NewRoleSet(roles...)
	bag := resolver.Resolve(set)

	logger.Debug("resolved visibility",
		slog.Any("roles", set.Strings()),
		slog.Int("enabled", len(bag.Enabled())),
	)

	if format == "json" {
		return writeJSON(writer, dto.MapFlagBagToResponse(bag))
	}

	fmt.Fprintf(writer, "Roles: %s\n", formatRoles(set))
	for _, flag := range domain.AllFlags() {
		fmt.Fprintf(writer, "  %-26s %t\n", flag, bag.Get(flag))
	}
	return nil
}

// RunChrome prints whether the page chrome is suppressed on path for roles.
func RunChrome(
	resolver service.HeaderSuppressionResolver,
	logger *slog.Logger,
	writer io.Writer,
	path string,
	roles []string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if err := validatePath(path); err != nil {
		return err
	}

	set := domain.NewRoleSet(roles...)
	hide := resolver.Suppress(path, set)

	logger.Debug("resolved chrome",
		slog.String("path", path),
		slog.Any("roles", set.Strings()),
		slog.Bool("hide_chrome", hide),
	)

	if format == "json" {
		return writeJSON(writer, dto.ChromeResponse{Path: path, HideChrome: hide})
	}

	if hide {
		fmt.Fprintf(writer, "Chrome hidden on %s for roles %s\n", path, formatRoles(set))
	} else {
		fmt.Fprintf(writer, "Chrome shown on %s for roles %s\n", path, formatRoles(set))
	}
	return nil
}

// RunCheckRoute runs the guard for path against a role store holding roles and prints
// the decision. With no roles the guard waits for its timeout and denies.
func RunCheckRoute(
	ctx context.Context,
	navigator *usecase.Navigator,
	logger *slog.Logger,
	writer io.Writer,
	path string,
	roles []string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if err := validatePath(path); err != nil {
		return err
	}

	roleStore := store.New()
	defer roleStore.Close()
	roleStore.Replace(roles)

	if guard, ok := navigator.Guard(path); ok {
		logger.Debug("checking route",
			slog.String("path", path),
			slog.String("required_role", guard.RequiredRole().String()),
			slog.Duration("timeout", guard.Timeout()),
		)
	}

	decision, err := navigator.Navigate(ctx, roleStore, path)
	if err != nil {
		return fmt.Errorf("failed to check route: %w", err)
	}

	if format == "json" {
		return writeJSON(writer, dto.MapDecisionToResponse(path, decision))
	}

	if decision.Allowed() {
		fmt.Fprintf(writer, "Allowed: %s (%s)\n", path, decision.Reason)
	} else {
		fmt.Fprintf(writer, "Denied: %s (%s), redirect to %s\n", path, decision.Reason, decision.Redirect)
	}
	return nil
}

func validatePath(path string) error {
	err := validation.Validate(path, validation.Required, customValidation.RoutePath)
	if err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}
	return nil
}

func formatRoles(set domain.RoleSet) string {
	if set.IsEmpty() {
		return "(none)"
	}
	return strings.Join(set.Strings(), ",")
}
