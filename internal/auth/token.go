// Package auth issues and verifies the HS256 access tokens that identify marketplace users.
package auth

import (
	"errors"
	"fmt"
	"time"

	"auction-marketplace/internal/clock"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for tokens that are malformed, expired, or signed with another key
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims are the access token claims. The subject is the user ID.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenManager signs and verifies access tokens with a shared secret
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	clock  clock.Clock
}

// NewTokenManager creates a TokenManager. A nil clock uses the system clock.
func NewTokenManager(secret, issuer string, ttl time.Duration, clk clock.Clock) *TokenManager {
	if clk == nil {
		clk = clock.System{}
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), issuer: issuer, ttl: ttl, clock: clk}
}

// Issue signs an access token for userID and returns it with its expiry
func (m *TokenManager) Issue(userID string) (string, time.Time, error) {
	if userID == "" {
		return "", time.Time{}, fmt.Errorf("auth: empty user ID")
	}

	now := m.clock.Now()
	expires := now.Add(m.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, expires, nil
}

// Verify parses tokenString and returns the user ID it was issued to
func (m *TokenManager) Verify(tokenString string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.clock.Now),
		jwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("auth: %w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", fmt.Errorf("auth: %w", ErrInvalidToken)
	}
	return claims.Subject, nil
}
