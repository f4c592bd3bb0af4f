package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWTIssuer_RoundTrip(t *testing.T) {
	issuer, err := NewJWTIssuer("secret", time.Hour)
	if err != nil {
		t.Fatalf("NewJWTIssuer: %v", err)
	}

	token, err := issuer.Issue("acc-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.AccountID != "acc-1" {
		t.Fatalf("expected subject acc-1, got %q", claims.AccountID)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt); got != time.Hour {
		t.Fatalf("expected 1h lifetime, got %v", got)
	}
}

func TestJWTIssuer_DefaultTTL(t *testing.T) {
	issuer, err := NewJWTIssuer("secret", 0)
	if err != nil {
		t.Fatalf("NewJWTIssuer: %v", err)
	}
	if issuer.ttl != defaultTokenTTL {
		t.Fatalf("expected default ttl, got %v", issuer.ttl)
	}
}

func TestJWTIssuer_MissingSecret(t *testing.T) {
	if _, err := NewJWTIssuer("", time.Hour); !errors.Is(err, ErrMissingSigningSecret) {
		t.Fatalf("expected ErrMissingSigningSecret, got %v", err)
	}
}

func TestJWTIssuer_RejectsForeignSignature(t *testing.T) {
	issuer, _ := NewJWTIssuer("secret", time.Hour)
	other, _ := NewJWTIssuer("other-secret", time.Hour)

	token, err := other.Issue("acc-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := issuer.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTIssuer_RejectsExpired(t *testing.T) {
	issuer, _ := NewJWTIssuer("secret", time.Hour)
	issued := time.Now().Add(-2 * time.Hour)
	issuer.now = func() time.Time { return issued }

	token, err := issuer.Issue("acc-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	issuer.now = time.Now
	if _, err := issuer.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestJWTIssuer_RejectsOtherAlgorithms(t *testing.T) {
	issuer, _ := NewJWTIssuer("secret", time.Hour)

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   "acc-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := issuer.Parse(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for HS512, got %v", err)
	}
}

func TestJWTIssuer_RejectsMissingExpiry(t *testing.T) {
	issuer, _ := NewJWTIssuer("secret", time.Hour)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:  tokenIssuer,
		Subject: "acc-1",
	})
	signed, _ := token.SignedString([]byte("secret"))

	if _, err := issuer.Parse(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken without exp, got %v", err)
	}
}
