package models

import (
	"strings"
	"unicode/utf8"

	dErrors "passport/pkg/domain-errors"
	"passport/pkg/email"
)

// PANLength is the exact length of a PAN-style identifier.
const PANLength = 10

// SubmitRequest is the body of POST /api/applications. DateOfBirth and Status
// stay strings here so that malformed values surface as validation errors
// rather than decode failures.
type SubmitRequest struct {
	Username         string `json:"username"`
	Name             string `json:"name"`
	FatherName       string `json:"father_name"`
	DateOfBirth      string `json:"date_of_birth"`
	PermanentAddress string `json:"permanent_address"`
	TemporaryAddress string `json:"temporary_address"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	PAN              string `json:"pan"`
	Status           string `json:"status,omitempty"`
}

// Validate checks r in the order Size -> Required -> Syntax. Values are
// stored exactly as sent; whitespace only matters for the required check.
func (r *SubmitRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}

	sized := []struct {
		field string
		value string
		max   int
	}{
		{"username", r.Username, 255},
		{"name", r.Name, 255},
		{"father_name", r.FatherName, 255},
		{"phone", r.Phone, 50},
		{"email", r.Email, 255},
	}
	for _, f := range sized {
		if utf8.RuneCountInString(f.value) > f.max {
			return dErrors.New(dErrors.CodeValidation, f.field+" is too long")
		}
	}

	required := []struct {
		field string
		value string
	}{
		{"username", r.Username},
		{"name", r.Name},
		{"father_name", r.FatherName},
		{"date_of_birth", r.DateOfBirth},
		{"permanent_address", r.PermanentAddress},
		{"temporary_address", r.TemporaryAddress},
		{"phone", r.Phone},
		{"email", r.Email},
		{"pan", r.PAN},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return dErrors.New(dErrors.CodeValidation, f.field+" is required")
		}
	}

	if !email.IsValid(r.Email) {
		return dErrors.New(dErrors.CodeValidation, "invalid email")
	}
	if _, err := ParseDate(r.DateOfBirth); err != nil {
		return dErrors.New(dErrors.CodeValidation, "date_of_birth must be a valid YYYY-MM-DD date")
	}
	if utf8.RuneCountInString(r.PAN) != PANLength {
		return dErrors.New(dErrors.CodeValidation, "pan must be exactly 10 characters")
	}
	if r.Status != "" {
		if _, err := ParseStatus(r.Status); err != nil {
			return dErrors.New(dErrors.CodeValidation, err.Error())
		}
	}
	return nil
}

// UpdateStatusRequest is the optional JSON body of PUT /api/applications/{id}.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (r *UpdateStatusRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.Status == "" {
		return dErrors.New(dErrors.CodeValidation, "status is required")
	}
	if _, err := ParseStatus(r.Status); err != nil {
		return dErrors.New(dErrors.CodeValidation, err.Error())
	}
	return nil
}
