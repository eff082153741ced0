package service

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmehra2102/prod-golang-projects/nexus/internal/config"
	"github.com/dmehra2102/prod-golang-projects/nexus/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/nexus/pkg/auth"
)

// AuthService exchanges a passphrase for a token pair. Nexus has no user
// accounts; the token subject is the caller-supplied station name and the
// role follows from which passphrase matched.
type AuthService struct {
	cfg        config.AuthConfig
	jwtManager *auth.JWTManager
	log        *zap.Logger
}

func NewAuthService(cfg config.AuthConfig, jwtManager *auth.JWTManager, log *zap.Logger) *AuthService {
	return &AuthService{cfg: cfg, jwtManager: jwtManager, log: log}
}

func (s *AuthService) Enabled() bool {
	return s.cfg.Enabled
}

func (s *AuthService) Login(ctx context.Context, station, passphrase, ip string) (*domain.TokenPair, error) {
	if !s.cfg.Enabled {
		return nil, ErrAuthDisabled
	}

	role, ok := s.roleFor(passphrase)
	if !ok {
		s.log.Warn("failed passphrase attempt",
			zap.String("station", station),
			zap.String("ip", ip),
		)
		return nil, ErrInvalidCredentials
	}

	if station == "" {
		station = "station"
	}
	claims := &domain.Claims{Subject: station, Role: role}

	pair, err := s.jwtManager.GenerateTokenPair(claims)
	if err != nil {
		s.log.Error("failed to generate token pair", zap.Error(err))
		return nil, fmt.Errorf("generating tokens: %w", err)
	}

	s.log.Info("station authenticated",
		zap.String("station", station),
		zap.String("role", string(role)),
		zap.String("ip", ip),
	)
	return pair, nil
}

func (s *AuthService) roleFor(passphrase string) (domain.Role, bool) {
	if s.cfg.SupervisorPassphraseHash != "" &&
		bcrypt.CompareHashAndPassword([]byte(s.cfg.SupervisorPassphraseHash), []byte(passphrase)) == nil {
		return domain.RoleDoctor, true
	}
	if bcrypt.CompareHashAndPassword([]byte(s.cfg.PassphraseHash), []byte(passphrase)) != nil {
		return "", false
	}

	role := domain.Role(s.cfg.DefaultRole)
	if !role.IsValid() {
		role = domain.RoleParamedic
	}
	return role, true
}

// Authorize returns ErrForbidden unless claims carry one of allowed.
func Authorize(claims *domain.Claims, allowed ...domain.Role) error {
	if claims == nil || !slices.Contains(allowed, claims.Role) {
		return ErrForbidden
	}
	return nil
}

// Refresh issues a new pair from a valid refresh token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if !s.cfg.Enabled {
		return nil, ErrAuthDisabled
	}
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.jwtManager.GenerateTokenPair(claims)
}

// Authenticate validates an access token.
func (s *AuthService) Authenticate(accessToken string) (*domain.Claims, error) {
	return s.jwtManager.ValidateAccessToken(accessToken)
}

// HashPassphrase produces the value expected in AUTH_PASSPHRASE_HASH.
func HashPassphrase(passphrase string) (string, error) {
	if len(passphrase) < 12 {
		return "", &ValidationError{Fields: []string{"passphrase must be at least 12 characters"}}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing passphrase: %w", err)
	}
	return string(hash), nil
}
