package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/prod-golang-projects/nexus/internal/config"
	"github.com/dmehra2102/prod-golang-projects/nexus/internal/domain"
)

func testConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:          "0123456789abcdef0123456789abcdef",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
		Issuer:          "nexus-test",
	}
}

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager(testConfig())

	pair, err := m.GenerateTokenPair(&domain.Claims{Subject: "station-12", Role: domain.RoleParamedic})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)

	claims, err := m.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "station-12", claims.Subject)
	assert.Equal(t, domain.RoleParamedic, claims.Role)

	_, err = m.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
}

func TestJWTManager_TypeMismatch(t *testing.T) {
	m := NewJWTManager(testConfig())
	pair, err := m.GenerateTokenPair(&domain.Claims{Subject: "s", Role: domain.RoleNurse})
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenTypeMismatch)
}

func TestJWTManager_Expired(t *testing.T) {
	m := NewJWTManager(testConfig())
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	pair, err := m.GenerateTokenPair(&domain.Claims{Subject: "s", Role: domain.RoleDoctor})
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	pair, err := NewJWTManager(testConfig()).GenerateTokenPair(&domain.Claims{Subject: "s", Role: domain.RoleAdmin})
	require.NoError(t, err)

	other := testConfig()
	other.Secret = "another-secret-another-secret-00"
	_, err = NewJWTManager(other).ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
