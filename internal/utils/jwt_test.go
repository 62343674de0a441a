package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccessToken_RoundTrip(t *testing.T) {
	const secret = "test-secret"

	at, err := NewAccessToken(secret, 42, "PASSENGER", 15)
	require.NoError(t, err)
	require.NotEmpty(t, at.Token)
	assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), at.Exp, 5*time.Second)

	parsed, err := jwt.Parse(at.Token, func(tok *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["sub"])
	assert.Equal(t, "PASSENGER", claims["role"])
}

func TestNewAccessToken_WrongSecretRejected(t *testing.T) {
	at, err := NewAccessToken("right-secret", 1, "PASSENGER", 15)
	require.NoError(t, err)

	_, err = jwt.Parse(at.Token, func(tok *jwt.Token) (interface{}, error) {
		return []byte("wrong-secret"), nil
	})
	assert.Error(t, err)
}

func TestNewRefreshToken(t *testing.T) {
	rt, err := NewRefreshToken(30)
	require.NoError(t, err)
	assert.Len(t, rt.Raw, 96) // 48 random bytes hex-encoded
	assert.WithinDuration(t, time.Now().UTC().Add(30*24*time.Hour), rt.Exp, 5*time.Second)

	other, err := NewRefreshToken(30)
	require.NoError(t, err)
	assert.NotEqual(t, rt.Raw, other.Raw)
}

func TestHashRefreshRaw(t *testing.T) {
	h1 := HashRefreshRaw("token-a")
	h2 := HashRefreshRaw("token-a")
	h3 := HashRefreshRaw("token-b")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64) // sha256 hex digest
	assert.NotContains(t, h1, "token-a")
}
