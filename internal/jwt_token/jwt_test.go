package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "passport/pkg/domain-errors"
)

func newTestService(ttl time.Duration) *JWTService {
	return NewJWTService("test-signing-key", "passport-test", ttl)
}

func Test_IssueSessionToken(t *testing.T) {
	svc := newTestService(time.Hour)

	token, expiresAt, err := svc.IssueSessionToken("alice", "Applicant")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, "Applicant", claims.Category)
	assert.NotEmpty(t, claims.ID)
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	_, err := newTestService(time.Hour).ValidateToken("invalid-token-string")
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "invalid token"))
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	svc := newTestService(-time.Hour)

	token, _, err := svc.IssueSessionToken("alice", "Applicant")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "token has expired"))
}

func Test_ValidateToken_WrongKey(t *testing.T) {
	token, _, err := newTestService(time.Hour).IssueSessionToken("alice", "Applicant")
	require.NoError(t, err)

	other := NewJWTService("other-key", "passport-test", time.Hour)
	_, err = other.ValidateToken(token)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_WrongIssuer(t *testing.T) {
	token, _, err := newTestService(time.Hour).IssueSessionToken("alice", "Applicant")
	require.NoError(t, err)

	other := NewJWTService("test-signing-key", "someone-else", time.Hour)
	_, err = other.ValidateToken(token)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
