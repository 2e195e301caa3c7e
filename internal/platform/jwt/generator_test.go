package jwtmw

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// TestNewGenerator verifies construction with various settings.
func TestNewGenerator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		secret     string
		expiration time.Duration
		want       time.Duration
		wantErr    bool
	}{
		{"standard config", "my-secret-key", time.Hour, time.Hour, false},
		{"long expiration", "secret", 24 * time.Hour * 30, 24 * time.Hour * 30, false},
		{"zero expiration uses default", "s", 0, DefaultTTL, false},
		{"empty secret", "", time.Hour, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gen, err := NewGenerator(tt.secret, tt.expiration)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(gen.secret) != tt.secret {
				t.Errorf("expected secret %q, got %q", tt.secret, string(gen.secret))
			}
			if gen.expiration != tt.want {
				t.Errorf("expected expiration %v, got %v", tt.want, gen.expiration)
			}
		})
	}
}

// TestGenerator_GenerateToken verifies the registered claims of an issued token.
func TestGenerator_GenerateToken(t *testing.T) {
	t.Parallel()

	gen, err := NewGenerator("test-secret", DefaultTTL, WithClock(clock))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tokenStr, err := gen.GenerateToken("7f0c1c6e-0000-4000-8000-000000000001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var claims jwt.RegisteredClaims
	token, err := jwt.NewParser(jwt.WithTimeFunc(clock)).ParseWithClaims(tokenStr, &claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			t.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return []byte("test-secret"), nil
	})
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if token.Method.Alg() != "HS256" {
		t.Errorf("expected HS256, got %s", token.Method.Alg())
	}
	if claims.Subject != "7f0c1c6e-0000-4000-8000-000000000001" {
		t.Errorf("unexpected sub %q", claims.Subject)
	}
	if !claims.IssuedAt.Time.Equal(fixedNow) {
		t.Errorf("expected iat %v, got %v", fixedNow, claims.IssuedAt.Time)
	}
	if !claims.ExpiresAt.Time.Equal(fixedNow.Add(24 * time.Hour)) {
		t.Errorf("expected exp %v, got %v", fixedNow.Add(24*time.Hour), claims.ExpiresAt.Time)
	}
}

func TestGenerator_GenerateToken_EmptySubject(t *testing.T) {
	t.Parallel()

	gen, _ := NewGenerator("test-secret", time.Hour)
	if _, err := gen.GenerateToken(""); err == nil {
		t.Fatal("expected error for empty identity id")
	}
}

// TestGenerator_GenerateToken_DifferentUsersProduceDifferentTokens verifies tokens differ per identity.
func TestGenerator_GenerateToken_DifferentUsersProduceDifferentTokens(t *testing.T) {
	t.Parallel()

	gen, _ := NewGenerator("test-secret", time.Hour, WithClock(clock))

	token1, _ := gen.GenerateToken("a")
	token2, _ := gen.GenerateToken("b")

	if token1 == token2 {
		t.Error("expected different tokens for different users")
	}
}
