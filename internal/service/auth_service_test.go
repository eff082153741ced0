package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmehra2102/prod-golang-projects/nexus/internal/config"
	"github.com/dmehra2102/prod-golang-projects/nexus/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/nexus/pkg/auth"
)

const (
	testPassphrase       = "correct horse battery staple"
	supervisorPassphrase = "tr0ub4dor and three"
)

func newAuthService(t *testing.T, enabled bool) *AuthService {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassphrase), bcrypt.MinCost)
	require.NoError(t, err)
	supervisorHash, err := bcrypt.GenerateFromPassword([]byte(supervisorPassphrase), bcrypt.MinCost)
	require.NoError(t, err)

	jwtManager := auth.NewJWTManager(config.JWTConfig{
		Secret:          "0123456789abcdef0123456789abcdef",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		Issuer:          "nexus-test",
	})
	return NewAuthService(config.AuthConfig{
		Enabled:                  enabled,
		PassphraseHash:           string(hash),
		SupervisorPassphraseHash: string(supervisorHash),
		DefaultRole:              "nurse",
	}, jwtManager, zap.NewNop())
}

func TestAuthService_Login(t *testing.T) {
	svc := newAuthService(t, true)

	pair, err := svc.Login(context.Background(), "ambulance-3", testPassphrase, "10.0.0.1")
	require.NoError(t, err)

	claims, err := svc.Authenticate(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ambulance-3", claims.Subject)
	assert.Equal(t, domain.RoleNurse, claims.Role)

	refreshed, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestAuthService_SupervisorPassphraseIssuesDoctorRole(t *testing.T) {
	svc := newAuthService(t, true)

	pair, err := svc.Login(context.Background(), "samu-regulation", supervisorPassphrase, "10.0.0.2")
	require.NoError(t, err)

	claims, err := svc.Authenticate(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDoctor, claims.Role)

	refreshed, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	claims, err = svc.Authenticate(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDoctor, claims.Role)
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name    string
		claims  *domain.Claims
		allowed []domain.Role
		wantErr error
	}{
		{"allowed role", &domain.Claims{Subject: "s", Role: domain.RoleDoctor}, []domain.Role{domain.RoleDoctor, domain.RoleAdmin}, nil},
		{"admin", &domain.Claims{Subject: "s", Role: domain.RoleAdmin}, []domain.Role{domain.RoleDoctor, domain.RoleAdmin}, nil},
		{"other role", &domain.Claims{Subject: "s", Role: domain.RoleParamedic}, []domain.Role{domain.RoleDoctor, domain.RoleAdmin}, ErrForbidden},
		{"no claims", nil, []domain.Role{domain.RoleDoctor}, ErrForbidden},
		{"nothing allowed", &domain.Claims{Subject: "s", Role: domain.RoleAdmin}, nil, ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.claims, tt.allowed...)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthService_WrongPassphrase(t *testing.T) {
	svc := newAuthService(t, true)

	_, err := svc.Login(context.Background(), "s", "guess", "10.0.0.1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Refresh(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Disabled(t *testing.T) {
	svc := newAuthService(t, false)

	_, err := svc.Login(context.Background(), "s", testPassphrase, "")
	assert.ErrorIs(t, err, ErrAuthDisabled)
}

func TestHashPassphrase(t *testing.T) {
	_, err := HashPassphrase("short")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	hash, err := HashPassphrase(testPassphrase)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte(testPassphrase)))
}
