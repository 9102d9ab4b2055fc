package jwtmw

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func parseRegistered(t *testing.T, tokenStr, secret string) *jwt.RegisteredClaims {
	t.Helper()
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			t.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if !token.Valid {
		t.Fatal("expected token to be valid")
	}
	return &claims
}

// TestGenerator_GenerateToken は生成されたJWTトークンが有効で正しいクレームを含むことを検証します。
func TestGenerator_GenerateToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		subject    string
		expiration time.Duration
	}{
		{"plain subject", "alice", time.Hour},
		{"email subject", "user+tag@example.com", time.Hour},
		{"long expiration", "bob", 24 * time.Hour * 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gen := NewGenerator("test-secret", tt.expiration)
			tokenStr, err := gen.GenerateToken(tt.subject)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			claims := parseRegistered(t, tokenStr, "test-secret")
			if claims.Subject != tt.subject {
				t.Errorf("expected sub %q, got %q", tt.subject, claims.Subject)
			}
			if claims.ID == "" {
				t.Error("expected jti claim to be set")
			}
			if claims.ExpiresAt == nil || claims.IssuedAt == nil {
				t.Fatal("expected exp and iat claims to be set")
			}
			if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != tt.expiration {
				t.Errorf("expected lifetime %v, got %v", tt.expiration, got)
			}
		})
	}
}

// TestGenerator_GenerateToken_FixedClock はexp・iatが注入した時刻から計算されることを検証します。
func TestGenerator_GenerateToken_FixedClock(t *testing.T) {
	t.Parallel()

	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	gen := NewGenerator("test-secret", 2*time.Hour)
	gen.now = func() time.Time { return now }

	tokenStr, err := gen.GenerateToken("alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims := parseRegistered(t, tokenStr, "test-secret")
	if !claims.IssuedAt.Equal(now) {
		t.Errorf("unexpected iat: %v", claims.IssuedAt)
	}
	if !claims.ExpiresAt.Equal(now.Add(2 * time.Hour)) {
		t.Errorf("unexpected exp: %v", claims.ExpiresAt)
	}
}

// TestGenerator_GenerateToken_EmptySubject は空の subject を拒否することを検証します。
func TestGenerator_GenerateToken_EmptySubject(t *testing.T) {
	t.Parallel()

	_, err := NewGenerator("test-secret", time.Hour).GenerateToken("")
	if !errors.Is(err, ErrEmptySubject) {
		t.Errorf("expected ErrEmptySubject, got %v", err)
	}
}

// TestGenerator_GenerateToken_UniquePerCall は同じ subject でも jti によりトークンが異なることを検証します。
func TestGenerator_GenerateToken_UniquePerCall(t *testing.T) {
	t.Parallel()

	gen := NewGenerator("test-secret", time.Hour)

	token1, _ := gen.GenerateToken("alice")
	token2, _ := gen.GenerateToken("alice")

	if token1 == token2 {
		t.Error("expected different tokens for each call")
	}
}

func TestSecretFromEnv(t *testing.T) {
	t.Setenv(EnvKeyJWTSecret, "")
	if _, err := SecretFromEnv(); err == nil {
		t.Error("expected error when secret is unset")
	}

	t.Setenv(EnvKeyJWTSecret, "s3cret")
	s, err := SecretFromEnv()
	if err != nil || s != "s3cret" {
		t.Errorf("unexpected result %q, %v", s, err)
	}
}
