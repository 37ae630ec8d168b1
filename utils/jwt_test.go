package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Date(2026, time.October, 20, 8, 0, 0, 0, time.UTC)
	token := signedToken(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)})

	got, ok, err := TokenExpiry(token)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, exp.Equal(got))
}

func TestTokenExpiry_NoClaim(t *testing.T) {
	token := signedToken(t, jwt.RegisteredClaims{Subject: "42"})

	_, ok, err := TokenExpiry(token)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenExpiry_NotAJWT(t *testing.T) {
	_, ok, err := TokenExpiry("opaque-token")
	assert.Error(t, err)
	assert.False(t, ok)
}
