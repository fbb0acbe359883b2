package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/mylibrary/mylibrary-api/internal/auth"
	"github.com/mylibrary/mylibrary-api/internal/logging"
)

var (
	ErrNameRequired       = errors.New("name is required")
	ErrEmailRequired      = errors.New("email is required")
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
)

// CreateInput holds the fields required to register a user
type CreateInput struct {
	Name     string
	Email    string
	Password string
}

// UpdateInput holds the optional fields of a user update. Nil means unchanged.
type UpdateInput struct {
	Name     *string
	Email    *string
	Password *string
}

// Service handles user business logic: email uniqueness and the rule that the
// hash, never the plaintext, is what gets persisted.
type Service struct {
	store  Store
	logger *logging.Logger
}

func NewService(store Store, logger *logging.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// Create registers a new user with a hashed password
func (s *Service) Create(ctx context.Context, input CreateInput) (*User, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	// Pre-check for a friendlier error; the unique constraint backstops races
	if _, err := s.store.GetByEmail(ctx, input.Email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	passwordHash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser := &User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: passwordHash,
	}

	if err := s.store.Create(ctx, newUser); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return newUser, nil
}

// Get retrieves a user by id
func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.store.GetByID(ctx, id)
}

// List retrieves all users
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.store.List(ctx)
}

// Update applies any subset of name/email/password to a user. A new password
// is hashed before it is persisted.
func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) (*User, error) {
	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrNameRequired
		}
		existing.Name = *input.Name
	}

	if input.Email != nil {
		if *input.Email == "" {
			return nil, ErrEmailRequired
		}
		if _, err := mail.ParseAddress(*input.Email); err != nil {
			return nil, ErrInvalidEmailFormat
		}
		existing.Email = *input.Email
	}

	if input.Password != nil {
		if len(*input.Password) < 6 {
			return nil, ErrPasswordTooShort
		}
		passwordHash, err := auth.HashPassword(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		existing.PasswordHash = passwordHash
	}

	if err := s.store.Update(ctx, existing); err != nil {
		return nil, err
	}

	return existing, nil
}

// Delete removes a user by id
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

func validateCreateInput(input CreateInput) error {
	if input.Name == "" {
		return ErrNameRequired
	}
	if input.Email == "" {
		return ErrEmailRequired
	}
	if len(input.Email) > 254 {
		return ErrInvalidEmailFormat
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return ErrInvalidEmailFormat
	}
	if input.Password == "" {
		return ErrPasswordRequired
	}
	if len(input.Password) < 6 {
		return ErrPasswordTooShort
	}
	return nil
}
