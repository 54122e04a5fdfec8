// Package repository provides the engine's data adapters: role sources that talk to
// the authentication backend and the policy file loader.
package repository

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	validation "github.com/jellydator/validation"
	"gopkg.in/yaml.v3"

	"github.com/allisson/rolegate/internal/access/domain"
	apperrors "github.com/allisson/rolegate/internal/errors"
	customValidation "github.com/allisson/rolegate/internal/validation"
)

// policyDocument is the on-disk shape of a policy. Omitted keys keep the value from
// domain.DefaultPolicy.
type policyDocument struct {
	FinanceRole                *string             `yaml:"finance_role"`
	CashierRole                *string             `yaml:"cashier_role"`
	PublicFlags                []string            `yaml:"public_flags"`
	ClinicBaseline             []string            `yaml:"clinic_baseline"`
	FinanceFlags               []string            `yaml:"finance_flags"`
	CashierFlags               []string            `yaml:"cashier_flags"`
	Unlocks                    map[string][]string `yaml:"unlocks"`
	FocusedRoutes              []string            `yaml:"focused_routes"`
	ClinicalRoles              []string            `yaml:"clinical_roles"`
	SuppressChromeForAnonymous *bool               `yaml:"suppress_chrome_for_anonymous"`
	Routes                     []routeDocument     `yaml:"routes"`
	GuardTimeout               *string             `yaml:"guard_timeout"`
	AccessDeniedRoute          *string             `yaml:"access_denied_route"`
}

type routeDocument struct {
	Path           string `yaml:"path"`
	RequiredRole   string `yaml:"required_role"`
	RedirectOnDeny string `yaml:"redirect_on_deny"`
}

func (r routeDocument) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Path, validation.Required, customValidation.RoutePath),
		validation.Field(&r.RequiredRole, customValidation.Identifier),
		validation.Field(&r.RedirectOnDeny, customValidation.RoutePath),
	)
}

var knownFlag = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_flag_type", "must be a string")
	}
	if !domain.Flag(s).IsKnown() {
		return validation.NewError("validation_flag_unknown", fmt.Sprintf("unknown flag %q", s))
	}
	return nil
})

// LoadPolicy reads a YAML policy file. An empty path returns DefaultPolicy.
func LoadPolicy(path string) (*domain.Policy, error) {
	if path == "" {
		return domain.DefaultPolicy(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to read policy file %s", path)
	}
	return ParsePolicy(data)
}

// ParsePolicy decodes and validates a YAML policy document. Role identifiers are
// normalized the same way the role store normalizes them, so the file may use any case.
func ParsePolicy(data []byte) (*domain.Policy, error) {
	var doc policyDocument

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, apperrors.Wrap(domain.ErrInvalidPolicy, err.Error())
	}

	doc.normalize()
	if err := doc.validate(); err != nil {
		return nil, apperrors.Wrap(domain.ErrInvalidPolicy, err.Error())
	}

	return doc.toPolicy()
}

func (d *policyDocument) normalize() {
	normalize := func(s string) string { return domain.NormalizeRoleID(s).String() }

	if d.FinanceRole != nil {
		v := normalize(*d.FinanceRole)
		d.FinanceRole = &v
	}
	if d.CashierRole != nil {
		v := normalize(*d.CashierRole)
		d.CashierRole = &v
	}
	for i := range d.ClinicalRoles {
		d.ClinicalRoles[i] = normalize(d.ClinicalRoles[i])
	}
	for i := range d.Routes {
		d.Routes[i].RequiredRole = normalize(d.Routes[i].RequiredRole)
	}
	if d.Unlocks != nil {
		unlocks := make(map[string][]string, len(d.Unlocks))
		for role, flags := range d.Unlocks {
			key := normalize(role)
			unlocks[key] = append(unlocks[key], flags...)
		}
		d.Unlocks = unlocks
	}
}

func (d *policyDocument) validate() error {
	unlockErrs := validation.Errors{}
	for role, flags := range d.Unlocks {
		if err := customValidation.Identifier.Validate(role); err != nil || role == "" {
			unlockErrs[role] = validation.NewError("validation_identifier", "must be a lower-case identifier without spaces")
			continue
		}
		if err := validation.Validate(flags, validation.Each(knownFlag)); err != nil {
			unlockErrs[role] = err
		}
	}
	if err := unlockErrs.Filter(); err != nil {
		return validation.Errors{"unlocks": err}
	}

	return validation.ValidateStruct(d,
		validation.Field(&d.FinanceRole, validation.NilOrNotEmpty, customValidation.Identifier),
		validation.Field(&d.CashierRole, validation.NilOrNotEmpty, customValidation.Identifier),
		validation.Field(&d.PublicFlags, validation.Each(knownFlag)),
		validation.Field(&d.ClinicBaseline, validation.Each(knownFlag)),
		validation.Field(&d.FinanceFlags, validation.Each(knownFlag)),
		validation.Field(&d.CashierFlags, validation.Each(knownFlag)),
		validation.Field(&d.FocusedRoutes, validation.Each(validation.Required, customValidation.RoutePath)),
		validation.Field(&d.ClinicalRoles, validation.Each(validation.Required, customValidation.Identifier)),
		validation.Field(&d.Routes),
		validation.Field(&d.AccessDeniedRoute, validation.NilOrNotEmpty, customValidation.RoutePath),
	)
}

func (d *policyDocument) toPolicy() (*domain.Policy, error) {
	policy := domain.DefaultPolicy()

	if d.FinanceRole != nil {
		policy.FinanceRole = domain.RoleID(*d.FinanceRole)
	}
	if d.CashierRole != nil {
		policy.CashierRole = domain.RoleID(*d.CashierRole)
	}
	if d.PublicFlags != nil {
		policy.PublicFlags = toFlags(d.PublicFlags)
	}
	if d.ClinicBaseline != nil {
		policy.ClinicBaseline = toFlags(d.ClinicBaseline)
	}
	if d.FinanceFlags != nil {
		policy.FinanceFlags = toFlags(d.FinanceFlags)
	}
	if d.CashierFlags != nil {
		policy.CashierFlags = toFlags(d.CashierFlags)
	}
	if d.Unlocks != nil {
		policy.Unlocks = make(map[domain.RoleID][]domain.Flag, len(d.Unlocks))
		for role, flags := range d.Unlocks {
			policy.Unlocks[domain.RoleID(role)] = toFlags(flags)
		}
	}
	if d.FocusedRoutes != nil {
		policy.FocusedRoutes = append([]string(nil), d.FocusedRoutes...)
	}
	if d.ClinicalRoles != nil {
		policy.ClinicalRoles = make([]domain.RoleID, 0, len(d.ClinicalRoles))
		for _, role := range d.ClinicalRoles {
			policy.ClinicalRoles = append(policy.ClinicalRoles, domain.RoleID(role))
		}
	}
	if d.SuppressChromeForAnonymous != nil {
		policy.SuppressChromeForAnonymous = *d.SuppressChromeForAnonymous
	}
	if d.Routes != nil {
		policy.Routes = make([]domain.Route, 0, len(d.Routes))
		for _, r := range d.Routes {
			policy.Routes = append(policy.Routes, domain.Route{
				Path:           r.Path,
				RequiredRole:   domain.RoleID(r.RequiredRole),
				RedirectOnDeny: r.RedirectOnDeny,
			})
		}
	}
	if d.GuardTimeout != nil {
		timeout, err := time.ParseDuration(*d.GuardTimeout)
		if err != nil {
			return nil, apperrors.Wrapf(domain.ErrInvalidPolicy, "guard_timeout: %v", err)
		}
		if err := customValidation.PositiveDuration.Validate(timeout); err != nil {
			return nil, apperrors.Wrapf(domain.ErrInvalidPolicy, "guard_timeout: %v", err)
		}
		policy.GuardTimeout = timeout
	}
	if d.AccessDeniedRoute != nil {
		policy.AccessDeniedRoute = *d.AccessDeniedRoute
	}

	return policy, nil
}

func toFlags(values []string) []domain.Flag {
	flags := make([]domain.Flag, 0, len(values))
	for _, v := range values {
		flags = append(flags, domain.Flag(v))
	}
	return flags
}
