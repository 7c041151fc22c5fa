package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewManager("secret", 15)

	token, err := m.GenerateAccessToken("user-1", "a@b.c", "librarian")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@b.c", claims.Email)
	assert.Equal(t, "librarian", claims.Role)
	assert.Equal(t, "access", claims.Type)
}

func TestTokenTypeIsEnforced(t *testing.T) {
	m := NewManager("secret", 15)

	access, err := m.GenerateAccessToken("user-1", "a@b.c", "librarian")
	require.NoError(t, err)
	refresh, err := m.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	_, err = m.ValidateRefreshToken(access)
	assert.Error(t, err)

	_, err = m.ValidateAccessToken(refresh)
	assert.Error(t, err)

	claims, err := m.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "refresh", claims.Type)
}

func TestWrongSecretIsRejected(t *testing.T) {
	token, err := NewManager("secret-a", 15).GenerateAccessToken("user-1", "a@b.c", "member")
	require.NoError(t, err)

	_, err = NewManager("secret-b", 15).ValidateToken(token)
	assert.Error(t, err)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	m := NewManager("secret", -1) // already expired at issue time

	token, err := m.GenerateAccessToken("user-1", "a@b.c", "member")
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.Error(t, err)
}

func TestAccessTokenExpiryHonoursConfig(t *testing.T) {
	m := NewManager("secret", 15)

	token, err := m.GenerateAccessToken("user-1", "a@b.c", "member")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)

	remaining := time.Until(claims.ExpiresAt.Time)
	assert.Greater(t, remaining, 14*time.Minute)
	assert.LessOrEqual(t, remaining, 15*time.Minute)
}
