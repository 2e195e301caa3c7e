// Package jwtmw issues and verifies HS256 session tokens and provides the
// gin middleware that authenticates bearer requests.
package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the lifetime of an issued token.
const DefaultTTL = 24 * time.Hour

// ErrEmptySecret is returned when a generator or verifier is built without a key.
var ErrEmptySecret = errors.New("jwt secret must not be empty")

// Option configures a Generator or a Verifier.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source used for iat/exp and for validation.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Generator signs tokens whose subject is an identity id.
type Generator struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

// NewGenerator creates a new JWT generator with the provided secret and expiration duration.
// A non-positive expiration falls back to DefaultTTL.
func NewGenerator(secret string, expiration time.Duration, opts ...Option) (*Generator, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if expiration <= 0 {
		expiration = DefaultTTL
	}
	o := buildOptions(opts)
	return &Generator{
		secret:     []byte(secret),
		expiration: expiration,
		now:        o.now,
	}, nil
}

// GenerateToken creates a signed JWT with sub, iat and exp claims.
func (g *Generator) GenerateToken(identityID string) (string, error) {
	if identityID == "" {
		return "", errors.New("identity id must not be empty")
	}
	now := g.now()
	claims := jwt.RegisteredClaims{
		Subject:   identityID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(g.expiration)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}
