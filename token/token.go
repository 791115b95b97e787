package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTTL = 15 * time.Minute

// Signer mints HS256-signed test tokens.
type Signer struct {
	// Secret is the HMAC signing key.
	Secret []byte
	// Issuer is set as the iss claim.
	Issuer string
	// TTL bounds token validity. Defaults to 15 minutes.
	TTL time.Duration
}

// Claims are the claims carried by a minted test token.
type Claims struct {
	jwt.RegisteredClaims
	// Extra carries scenario-specific claims.
	Extra map[string]string `json:"extra,omitempty"`
}

// Mint creates a signed token for the given subject.
func (s *Signer) Mint(subject string, extra map[string]string) (string, error) {
	if len(s.Secret) == 0 {
		return "", fmt.Errorf("token: signing secret is required")
	}
	ttl := s.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}

	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Extra: extra,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Parse validates a token string against the signer's secret and returns
// its claims.
func (s *Signer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("token: unexpected signing method %v", t.Header["alg"])
		}
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, fmt.Errorf("token: parse: %w", err)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("token: invalid token")
	}
	return claims, nil
}
