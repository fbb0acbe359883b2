package auth

import (
	"errors"
	"time"
)

// Token verification failures. The HTTP boundary collapses all of these into
// a generic unauthorized response; the split exists for logging and tests.
var (
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidSignature = errors.New("token signature does not match")
	ErrMalformedToken   = errors.New("malformed token")
)

// TokenClaims represents the claims carried by a session token
type TokenClaims struct {
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// TokenService defines the interface for token creation and validation.
// Implementations include JWTService (HS256) and PasetoService (PASETO v4.local).
type TokenService interface {
	CreateToken(userID int64, email string) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}
