package jwtx

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieCodec signs and verifies session cookie values as compact HS256 JWTs.
type CookieCodec struct {
	key    []byte
	issuer string
	now    func() time.Time
}

// NewCookieCodec returns a codec using key for HMAC-SHA256.
func NewCookieCodec(key []byte, issuer string) (*CookieCodec, error) {
	if len(key) < 32 {
		return nil, ErrWeakKey
	}

	return &CookieCodec{
		key:    append([]byte(nil), key...),
		issuer: issuer,
		now:    time.Now,
	}, nil
}

// WithClock overrides the time source, for tests.
func (c *CookieCodec) WithClock(now func() time.Time) *CookieCodec {
	c.now = now
	return c
}

// Encode returns the signed cookie value carrying token until expiresAt.
func (c *CookieCodec) Encode(token string, expiresAt time.Time) (string, error) {
	claims := NewSessionClaims(token, c.issuer, c.now(), expiresAt)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign session cookie: %w", err)
	}
	return signed, nil
}

// Decode verifies value and returns the session token it carries.
func (c *CookieCodec) Decode(value string) (string, error) {
	var claims SessionClaims

	_, err := jwt.ParseWithClaims(value, &claims,
		func(*jwt.Token) (any, error) { return c.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCookie, err)
	}
	if claims.ID == "" {
		return "", fmt.Errorf("%w: missing token", ErrInvalidCookie)
	}

	return claims.ID, nil
}
