// Package token issues and validates the service's bearer tokens:
// HS256-signed JWTs carrying the username as subject and an expiry of
// now + TTL. Validity is determined purely by signature and expiry;
// there is no server-side session table and no revocation.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is used when no TTL is configured.
const DefaultTTL = 15 * time.Minute

// ErrInvalidToken covers signature mismatch, expiry, malformed payloads,
// and a missing subject claim.
var ErrInvalidToken = errors.New("invalid token")

// Issuer signs and validates access tokens with a process-wide secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer creates an Issuer. A zero ttl falls back to DefaultTTL.
func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: secret, ttl: ttl}
}

// Issue creates a signed token for the given username, expiring at
// now + TTL.
func (i *Issuer) Issue(username string) (string, error) {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	})

	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Validate verifies signature and expiry and returns the subject username.
func (i *Issuer) Validate(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	tok, err := jwt.ParseWithClaims(tokenStr, claims,
		func(t *jwt.Token) (interface{}, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tok.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return claims.Subject, nil
}
