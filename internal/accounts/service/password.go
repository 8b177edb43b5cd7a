package service

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordTooLong is returned by BcryptHasher for passwords over 72 bytes.
var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// PasswordHasher turns a plaintext password into its stored form and checks
// a candidate against it.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(stored, plain string) bool
}

// PlaintextHasher stores passwords as given and compares them exactly.
type PlaintextHasher struct{}

func (PlaintextHasher) Hash(plain string) (string, error) {
	return plain, nil
}

func (PlaintextHasher) Compare(stored, plain string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(plain)) == 1
}

// BcryptHasher stores bcrypt digests. A zero Cost uses bcrypt.DefaultCost.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(plain string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(digest), nil
}

func (BcryptHasher) Compare(stored, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil
}

// HasherFor resolves a PASSWORD_HASHING mode. Unknown modes fall back to
// plaintext; config validation rejects them earlier.
func HasherFor(mode string) PasswordHasher {
	if mode == "bcrypt" {
		return BcryptHasher{}
	}
	return PlaintextHasher{}
}
