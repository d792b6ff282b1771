package service_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxextract/internal/config"
	"taxextract/internal/domain"
	"taxextract/internal/service"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{Secret: "test-secret", Issuer: "taxextract-test", AccessTokenExpiry: time.Hour}
}

func TestAuthService_IssueAndValidate(t *testing.T) {
	svc := service.NewAuthService(testJWTConfig())

	issued, err := svc.IssueToken("ops-team", []string{"client-1"}, 0)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), issued.ExpiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(issued.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ops-team", claims.AccessID)
	assert.True(t, claims.CanAccessClient("client-1"))
	assert.False(t, claims.CanAccessClient("client-2"))
}

func TestAuthService_UnrestrictedClients(t *testing.T) {
	svc := service.NewAuthService(testJWTConfig())

	issued, err := svc.IssueToken("batch", nil, time.Minute)
	require.NoError(t, err)
	claims, err := svc.ValidateToken(issued.AccessToken)
	require.NoError(t, err)

	assert.True(t, claims.CanAccessClient("anything"))
}

func TestAuthService_IssueRequiresAccessID(t *testing.T) {
	svc := service.NewAuthService(testJWTConfig())

	_, err := svc.IssueToken("  ", nil, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAuthService_RejectsWrongSecret(t *testing.T) {
	issuer := service.NewAuthService(&config.JWTConfig{Secret: "other", Issuer: "taxextract-test", AccessTokenExpiry: time.Hour})
	issued, err := issuer.IssueToken("ops", nil, 0)
	require.NoError(t, err)

	_, err = service.NewAuthService(testJWTConfig()).ValidateToken(issued.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthService_RejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	claims := &service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{"access"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
		AccessID: "ops",
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
	require.NoError(t, err)

	_, err = service.NewAuthService(cfg).ValidateToken(signed)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthService_RejectsNoneAlgorithm(t *testing.T) {
	cfg := testJWTConfig()
	claims := &service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: cfg.Issuer, Audience: jwt.ClaimStrings{"access"}},
		AccessID:         "ops",
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = service.NewAuthService(cfg).ValidateToken(signed)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
