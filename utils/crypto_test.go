package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestNewSealer_KeyLength(t *testing.T) {
	_, err := NewSealer("short")
	assert.Error(t, err)

	_, err = NewSealer(testKey)
	assert.NoError(t, err)
}

func TestSealer_RoundTrip(t *testing.T) {
	sealer, err := NewSealer(testKey)
	require.NoError(t, err)

	sealed, err := sealer.Seal("eyJhbGciOiJIUzI1NiJ9.payload.sig")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "payload")

	again, err := sealer.Seal("eyJhbGciOiJIUzI1NiJ9.payload.sig")
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again)

	plain, err := sealer.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "eyJhbGciOiJIUzI1NiJ9.payload.sig", plain)
}

func TestSealer_Empty(t *testing.T) {
	sealer, err := NewSealer(testKey)
	require.NoError(t, err)

	sealed, err := sealer.Seal("")
	require.NoError(t, err)
	assert.Empty(t, sealed)

	plain, err := sealer.Open("")
	require.NoError(t, err)
	assert.Empty(t, plain)
}

func TestSealer_WrongKeyOrTampered(t *testing.T) {
	sealer, err := NewSealer(testKey)
	require.NoError(t, err)
	other, err := NewSealer(strings.Repeat("k", 32))
	require.NoError(t, err)

	sealed, err := sealer.Seal("credential")
	require.NoError(t, err)

	_, err = other.Open(sealed)
	assert.ErrorIs(t, err, ErrSealedDataCorrupt)

	_, err = sealer.Open("AAAA")
	assert.ErrorIs(t, err, ErrSealedDataCorrupt)

	_, err = sealer.Open("not base64!")
	assert.Error(t, err)
}
