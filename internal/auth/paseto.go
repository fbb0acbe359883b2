package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"aidanwoods.dev/go-paseto"
)

// PasetoService is the alternate token backend.
// Uses v4.local (symmetric encryption with XChaCha20-Poly1305).
type PasetoService struct {
	symmetricKey paseto.V4SymmetricKey
	duration     time.Duration
}

func NewPasetoService(symmetricKey []byte, duration time.Duration) (*PasetoService, error) {
	if len(symmetricKey) != 32 {
		return nil, fmt.Errorf("symmetric key must be exactly 32 bytes, got %d", len(symmetricKey))
	}

	key, err := paseto.V4SymmetricKeyFromBytes(symmetricKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create symmetric key: %w", err)
	}

	return &PasetoService{
		symmetricKey: key,
		duration:     duration,
	}, nil
}

// CreateToken generates a new PASETO v4.local token with the given claims
func (s *PasetoService) CreateToken(userID int64, email string) (string, error) {
	now := time.Now()

	token := paseto.NewToken()
	token.SetIssuedAt(now)
	token.SetExpiration(now.Add(s.duration))
	token.SetString("user_id", strconv.FormatInt(userID, 10))
	token.SetString("email", email)

	return token.V4Encrypt(s.symmetricKey, nil), nil
}

// VerifyToken validates a PASETO v4.local token and returns the claims
func (s *PasetoService) VerifyToken(tokenStr string) (*TokenClaims, error) {
	parser := paseto.NewParser()

	token, err := parser.ParseV4Local(s.symmetricKey, tokenStr, nil)
	if err != nil {
		// The parser checks expiration by default; distinguish expired from invalid
		if errors.Is(err, &paseto.RuleError{}) {
			return nil, ErrExpiredToken
		}
		return nil, ErrMalformedToken
	}

	userIDStr, err := token.GetString("user_id")
	if err != nil {
		return nil, ErrMalformedToken
	}

	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return nil, ErrMalformedToken
	}

	email, err := token.GetString("email")
	if err != nil {
		return nil, ErrMalformedToken
	}

	issuedAt, err := token.GetIssuedAt()
	if err != nil {
		return nil, ErrMalformedToken
	}

	expiresAt, err := token.GetExpiration()
	if err != nil {
		return nil, ErrMalformedToken
	}

	return &TokenClaims{
		UserID:    userID,
		Email:     email,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}
