package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	maker := NewJWTMaker("test-secret", time.Minute)

	token, err := maker.GenerateToken("user@example.com", "Test User")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "Test User", claims.Name)
}

func TestParseToken_WrongSecret(t *testing.T) {
	maker := NewJWTMaker("test-secret", time.Minute)
	other := NewJWTMaker("other-secret", time.Minute)

	token, err := maker.GenerateToken("user@example.com", "Test User")
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	maker := NewJWTMaker("test-secret", -time.Minute)

	token, err := maker.GenerateToken("user@example.com", "Test User")
	require.NoError(t, err)

	_, err = maker.ParseToken(token)
	assert.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	maker := NewJWTMaker("test-secret", time.Minute)

	_, err := maker.ParseToken("not-a-token")
	assert.Error(t, err)
}
