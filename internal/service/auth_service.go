package service

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"taxextract/internal/config"
	"taxextract/internal/domain"
)

const accessAudience = "access"

// Claims represents the JWT claims of an API caller. AccessID is recorded on
// every row the caller writes. An empty ClientIDs grants every client.
type Claims struct {
	jwt.RegisteredClaims
	AccessID  string   `json:"access_id"`
	ClientIDs []string `json:"client_ids,omitempty"`
}

// CanAccessClient reports whether the token holder may read or write clientID.
func (c *Claims) CanAccessClient(clientID string) bool {
	return len(c.ClientIDs) == 0 || slices.Contains(c.ClientIDs, clientID)
}

// IssuedToken is a signed access token and its expiry.
type IssuedToken struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// AuthService issues and validates access tokens.
type AuthService interface {
	IssueToken(accessID string, clientIDs []string, ttl time.Duration) (*IssuedToken, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	cfg *config.JWTConfig
	now func() time.Time
}

// NewAuthService creates a new AuthService implementation.
func NewAuthService(cfg *config.JWTConfig) AuthService {
	return &authService{cfg: cfg, now: time.Now}
}

// IssueToken signs an access token. A zero ttl uses the configured expiry.
func (s *authService) IssueToken(accessID string, clientIDs []string, ttl time.Duration) (*IssuedToken, error) {
	accessID = strings.TrimSpace(accessID)
	if accessID == "" {
		return nil, fmt.Errorf("%w: access id is required", domain.ErrInvalidInput)
	}
	if ttl <= 0 {
		ttl = s.cfg.AccessTokenExpiry
	}

	now := s.now()
	expiry := now.Add(ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accessID,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{accessAudience},
		},
		AccessID:  accessID,
		ClientIDs: clientIDs,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("signing access token: %w", err)
	}
	return &IssuedToken{AccessToken: signed, ExpiresAt: expiry}, nil
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithAudience(accessAudience),
		jwt.WithIssuer(s.cfg.Issuer),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing token: %v", domain.ErrUnauthorized, err)
	}
	if !token.Valid || claims.AccessID == "" {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}
