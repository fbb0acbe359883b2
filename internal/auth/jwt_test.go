package auth

import (
	"errors"
	"testing"
	"time"
)

func TestJWTService_RoundTrip(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService([]byte("super-secret"), time.Hour)
	if err != nil {
		t.Fatalf("NewJWTService error: %v", err)
	}

	token, err := svc.CreateToken(42, "ana@x.com")
	if err != nil {
		t.Fatalf("CreateToken error: %v", err)
	}

	claims, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken error: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("user id mismatch: got %d want 42", claims.UserID)
	}
	if claims.Email != "ana@x.com" {
		t.Errorf("email mismatch: got %q want %q", claims.Email, "ana@x.com")
	}
	if !claims.ExpiresAt.After(claims.IssuedAt) {
		t.Errorf("expiry %v should be after issued-at %v", claims.ExpiresAt, claims.IssuedAt)
	}
}

func TestJWTService_Expired(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService([]byte("secret"), -time.Minute)
	if err != nil {
		t.Fatalf("NewJWTService error: %v", err)
	}

	token, err := svc.CreateToken(1, "u@x.com")
	if err != nil {
		t.Fatalf("CreateToken error: %v", err)
	}

	_, err = svc.VerifyToken(token)
	if !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestJWTService_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer, err := NewJWTService([]byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("NewJWTService error: %v", err)
	}
	verifier, err := NewJWTService([]byte("wrong-secret"), time.Hour)
	if err != nil {
		t.Fatalf("NewJWTService error: %v", err)
	}

	token, err := issuer.CreateToken(1, "u@x.com")
	if err != nil {
		t.Fatalf("CreateToken error: %v", err)
	}

	_, err = verifier.VerifyToken(token)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestJWTService_Malformed(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService([]byte("k"), time.Hour)
	if err != nil {
		t.Fatalf("NewJWTService error: %v", err)
	}

	for _, tokenStr := range []string{"", "not.a.jwt", "garbage"} {
		if _, err := svc.VerifyToken(tokenStr); !errors.Is(err, ErrMalformedToken) {
			t.Errorf("token %q: expected ErrMalformedToken, got %v", tokenStr, err)
		}
	}
}

func TestNewJWTService_EmptySecret(t *testing.T) {
	t.Parallel()

	if _, err := NewJWTService(nil, time.Hour); err == nil {
		t.Fatal("expected error for empty secret, got nil")
	}
}
