// Package validation provides custom validation rules for request DTOs and policy files.
package validation

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/rolegate/internal/errors"
)

var (
	// identifierRegex accepts role ids after normalization: lower-case, no spaces.
	identifierRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9._:\-]*$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// RoutePath validates an application route or route pattern: absolute, no whitespace.
var RoutePath = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.HasPrefix(s, "/") && !strings.ContainsAny(s, " \t\r\n")
	},
	validation.NewError("validation_route_path", "must be an absolute path starting with /"),
)

// Identifier validates a normalized role identifier.
var Identifier = validation.NewStringRuleWithError(
	func(s string) bool {
		return identifierRegex.MatchString(s)
	},
	validation.NewError("validation_identifier", "must be a lower-case identifier without spaces"),
)

// HTTPURL validates an absolute http or https URL.
var HTTPURL = validation.NewStringRuleWithError(
	func(s string) bool {
		u, err := url.Parse(s)
		if err != nil {
			return false
		}
		return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
	},
	validation.NewError("validation_http_url", "must be an absolute http(s) URL"),
)

// PositiveDuration validates that a time.Duration is greater than zero.
var PositiveDuration = validation.By(func(value interface{}) error {
	d, ok := value.(time.Duration)
	if !ok {
		return validation.NewError("validation_duration_type", "must be a duration")
	}
	if d <= 0 {
		return validation.NewError("validation_positive_duration", "must be greater than zero")
	}
	return nil
})
