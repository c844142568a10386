package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ViktorMash/resource-booking-system/internal/domain"
)

// TokenService issues HS256 access tokens for authenticated users. Tokens
// carry the user ID as subject; the auth middleware re-loads the user on
// every request so deactivation takes effect before the token expires.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenService creates a TokenService. ttl of zero defaults to 24h.
func NewTokenService(secret, issuer string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret is required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), issuer: issuer, ttl: ttl}, nil
}

// Issue signs a token for the user and returns it with its expiry.
func (s *TokenService) Issue(u *domain.User) (token string, expiresAt time.Time, err error) {
	now := time.Now()
	expiresAt = now.Add(s.ttl)

	claims := jwt.MapClaims{
		"sub":   u.ID,
		"iss":   s.issuer,
		"email": u.Email,
		"name":  u.Username,
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, expiresAt, nil
}
