// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/rolegate/internal/validation"
)

// OpenSessionRequest contains the parameters for opening a session.
type OpenSessionRequest struct {
	Identity string `json:"identity"`
}

// Validate checks if the open session request is valid.
func (r *OpenSessionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Identity,
			validation.Required,
			customValidation.NotBlank,
			customValidation.NoWhitespace,
			validation.Length(1, 255),
		),
	)
}

// NavigateRequest names the route a session is trying to enter.
type NavigateRequest struct {
	Path string `json:"path"`
}

// Validate checks if the navigate request is valid.
func (r *NavigateRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Path,
			validation.Required,
			customValidation.RoutePath,
			validation.Length(1, 2048),
		),
	)
}

// ChromeRequest is bound from the query string of the chrome endpoint.
type ChromeRequest struct {
	Path string `form:"path"`
}

// Validate checks if the chrome request is valid.
func (r *ChromeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Path,
			validation.Required,
			customValidation.RoutePath,
			validation.Length(1, 2048),
		),
	)
}
