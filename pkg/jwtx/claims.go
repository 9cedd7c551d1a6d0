package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is how long a session cookie stays valid.
const DefaultSessionTTL = 7 * 24 * time.Hour

var (
	// ErrInvalidCookie covers every reason a cookie value is rejected:
	// bad signature, wrong issuer, expired, or malformed.
	ErrInvalidCookie = errors.New("jwtx: invalid session cookie")

	// ErrWeakKey is returned when the signing key is shorter than 32 bytes.
	ErrWeakKey = errors.New("jwtx: signing key must be at least 32 bytes")
)

// SessionClaims is the payload of a signed session cookie. The session token
// rides in the jti claim; nothing else about the visitor is kept client side.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// NewSessionClaims builds claims for token that expire at expiresAt.
func NewSessionClaims(token, issuer string, now, expiresAt time.Time) SessionClaims {
	return SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        token,
		},
	}
}
