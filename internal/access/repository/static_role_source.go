package repository

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"slices"

	validation "github.com/jellydator/validation"
	"gopkg.in/yaml.v3"

	"github.com/allisson/rolegate/internal/access/domain"
	apperrors "github.com/allisson/rolegate/internal/errors"
	customValidation "github.com/allisson/rolegate/internal/validation"
)

// StaticRoleSource serves roles from a fixed identity table. It backs local
// development and the CLI when no authentication backend is reachable.
type StaticRoleSource struct {
	identities map[string][]string
}

type staticDocument struct {
	Identities map[string][]string `yaml:"identities"`
}

// NewStaticRoleSource copies identities into a new source.
func NewStaticRoleSource(identities map[string][]string) *StaticRoleSource {
	table := make(map[string][]string, len(identities))
	for identity, roles := range identities {
		table[identity] = slices.Clone(roles)
	}
	return &StaticRoleSource{identities: table}
}

// LoadStaticRoleSource reads a YAML file of the form
//
//	identities:
//	  alice: [doctor, supervisor]
//	  bob: [cashier]
func LoadStaticRoleSource(path string) (*StaticRoleSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to read role file %s", path)
	}

	var doc staticDocument
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, customValidation.WrapValidationError(err)
	}

	errs := validation.Errors{}
	for identity := range doc.Identities {
		if err := validation.Validate(identity, validation.Required, customValidation.NotBlank); err != nil {
			errs[identity] = err
		}
	}
	if err := errs.Filter(); err != nil {
		return nil, customValidation.WrapValidationError(err)
	}

	return NewStaticRoleSource(doc.Identities), nil
}

// FetchRoles returns the identity's roles or ErrIdentityNotFound.
func (s *StaticRoleSource) FetchRoles(ctx context.Context, identity string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	roles, ok := s.identities[identity]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	return slices.Clone(roles), nil
}
