package models

import (
	"strings"

	dErrors "passport/pkg/domain-errors"
	"passport/pkg/email"
)

// RegisterRequest is the body of POST /api/signup.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Category string `json:"category"`
}

// Validate checks r in the order Size -> Required -> Syntax. Fields are
// stored verbatim, so " alice" and "alice" are different usernames.
func (r *RegisterRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}

	if len(r.Username) > 255 {
		return dErrors.New(dErrors.CodeValidation, "username must be 255 characters or less")
	}
	if len(r.Email) > 255 {
		return dErrors.New(dErrors.CodeValidation, "email must be 255 characters or less")
	}
	if len(r.Password) > 255 {
		return dErrors.New(dErrors.CodeValidation, "password must be 255 characters or less")
	}
	if len(r.Category) > 50 {
		return dErrors.New(dErrors.CodeValidation, "category must be 50 characters or less")
	}

	if strings.TrimSpace(r.Username) == "" {
		return dErrors.New(dErrors.CodeValidation, "username is required")
	}
	if strings.TrimSpace(r.Email) == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required")
	}
	if r.Password == "" {
		return dErrors.New(dErrors.CodeValidation, "password is required")
	}
	if strings.TrimSpace(r.Category) == "" {
		return dErrors.New(dErrors.CodeValidation, "category is required")
	}

	if !email.IsValid(r.Email) {
		return dErrors.New(dErrors.CodeValidation, "invalid email")
	}
	return nil
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if strings.TrimSpace(r.Email) == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required")
	}
	if !email.IsValid(r.Email) {
		return dErrors.New(dErrors.CodeValidation, "invalid email")
	}
	if r.Password == "" {
		return dErrors.New(dErrors.CodeValidation, "password is required")
	}
	return nil
}
