// Package dto provides the request and response bodies of the auth endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/gegcuk/kidsgpt-backend/internal/validation"
)

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

// Validate checks that both fields are present and not blank.
func (r *LoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UsernameOrEmail,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Password,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 128),
		),
	)
}
