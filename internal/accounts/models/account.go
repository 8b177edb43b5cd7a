package models

import "time"

// Category values the frontend offers. Category is free text and is stored
// verbatim; these are not enforced.
const (
	CategoryApplicant     = "Applicant"
	CategoryAdministrator = "Passport Administrator"
)

// Account is a registered identity.
//
// Invariants:
//   - Username is globally unique (enforced by the accounts_username_key index)
//   - ID and Username never change after creation
//   - Email is not unique
type Account struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}
