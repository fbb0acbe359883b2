package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/mylibrary/mylibrary-api/internal/logging"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// the response never reveals whether an account exists.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountNotFound is what an AccountStore returns for an unknown email.
	ErrAccountNotFound = errors.New("account not found")
)

// Account is the slice of a user record the login flow needs
type Account struct {
	ID           int64
	Email        string
	PasswordHash string
}

// AccountStore is the persistence port for credential lookups
type AccountStore interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
}

// LoginResponse wraps the issued session token
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// Service handles authentication business logic
type Service struct {
	accounts AccountStore
	tokens   TokenService
	logger   *logging.Logger
}

func NewService(accounts AccountStore, tokens TokenService, logger *logging.Logger) *Service {
	return &Service{
		accounts: accounts,
		tokens:   tokens,
		logger:   logger,
	}
}

// Login authenticates the email/password pair and mints a session token
// bound to the account's id and email.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			// Same failure as a wrong password on purpose
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if !CheckPassword(password, account.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.CreateToken(account.ID, account.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	return &LoginResponse{AccessToken: token}, nil
}
