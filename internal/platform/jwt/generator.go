// Package jwtmw provides HS256 token issuing and the Gin middleware that verifies it.
package jwtmw

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// EnvKeyJWTSecret is the environment variable holding the HMAC secret.
const EnvKeyJWTSecret = "JWT_SECRET"

// ErrEmptySubject is returned when a token is requested without a subject.
var ErrEmptySubject = errors.New("token subject is required")

// SecretFromEnv returns the HMAC secret or an error when it is not configured.
func SecretFromEnv() (string, error) {
	s := os.Getenv(EnvKeyJWTSecret)
	if s == "" {
		return "", fmt.Errorf("%s is not set", EnvKeyJWTSecret)
	}
	return s, nil
}

// Generator defines the interface for JWT token generation.
type Generator interface {
	// GenerateToken creates a signed JWT token for the given subject (viewer owner).
	GenerateToken(subject string) (string, error)
}

// generator implements the Generator interface.
type generator struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

// NewGenerator creates a new JWT generator with the provided secret and expiration duration.
func NewGenerator(secret string, expiration time.Duration) *generator {
	return &generator{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

// GenerateToken creates a signed JWT token with registered claims and a random jti.
func (g *generator) GenerateToken(subject string) (string, error) {
	if subject == "" {
		return "", ErrEmptySubject
	}
	now := g.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ID:        uuid.NewString(),
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
