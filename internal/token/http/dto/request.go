// Package dto provides data transfer objects for the token HTTP endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/tokenbroker/internal/validation"
)

// ValidateTokenRequest is the body of POST /v1/token/validate.
type ValidateTokenRequest struct {
	Token         string `json:"token"`
	ValidAudience string `json:"validAudience"`
}

// Validate checks if the validate token request is valid.
func (r *ValidateTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Token,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}

// ReadTokenRequest is the body of POST /v1/token/read.
type ReadTokenRequest struct {
	Token string `json:"token"`
}

// Validate checks if the read token request is valid.
func (r *ReadTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Token,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}
