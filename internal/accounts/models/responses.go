package models

import "time"

// RegisterResponse is returned by POST /api/signup.
type RegisterResponse struct {
	Message  string `json:"message"`
	Category string `json:"category"`
}

// LoginResponse is returned by POST /api/login. AccessToken is a signed
// session token carrying username and category; nothing in this service
// requires it.
type LoginResponse struct {
	Message     string     `json:"message"`
	Category    string     `json:"category"`
	Username    string     `json:"username"`
	AccessToken string     `json:"access_token,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}
