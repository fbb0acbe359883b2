package book

import (
	"context"
	"errors"
	"fmt"

	"github.com/mylibrary/mylibrary-api/internal/logging"
)

var (
	ErrNameRequired = errors.New("name is required")
	ErrInvalidPages = errors.New("pages must not be negative")
)

// CreateInput holds the client-supplied fields of a new book. There is no
// owner field here on purpose: the owner always comes from the caller
// identity, whatever the payload claims.
type CreateInput struct {
	Name       string
	BookGenres *string
	Author     *string
	Pages      *int32
}

// UpdateInput holds the optional fields of a book update. Nil means unchanged.
type UpdateInput struct {
	Name       *string
	BookGenres *string
	Author     *string
	Pages      *int32
}

// Service enforces the ownership rules on books: only the owner may see,
// update or delete a record.
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

// Create adds a book to the caller's library, stamped with callerID as owner
func (s *Service) Create(ctx context.Context, input CreateInput, callerID int64) (*Book, error) {
	if input.Name == "" {
		return nil, ErrNameRequired
	}
	if input.Pages != nil && *input.Pages < 0 {
		return nil, ErrInvalidPages
	}

	newBook := &Book{
		Name:       input.Name,
		BookGenres: input.BookGenres,
		Author:     input.Author,
		Pages:      input.Pages,
		UserID:     callerID,
	}

	if err := s.store.Create(ctx, newBook); err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	return newBook, nil
}

// ListByOwner returns the caller's books and nothing else
func (s *Service) ListByOwner(ctx context.Context, callerID int64) ([]Book, error) {
	return s.store.ListByUser(ctx, callerID)
}

// Update modifies a book after the ownership guard passes. The persisted
// mutation is re-keyed on (id, owner), so a book deleted between the check
// and the write surfaces as not found instead of touching a foreign row.
func (s *Service) Update(ctx context.Context, id, callerID int64, input UpdateInput) (*Book, error) {
	existing, err := s.guard(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrNameRequired
		}
		existing.Name = *input.Name
	}
	if input.BookGenres != nil {
		existing.BookGenres = input.BookGenres
	}
	if input.Author != nil {
		existing.Author = input.Author
	}
	if input.Pages != nil {
		if *input.Pages < 0 {
			return nil, ErrInvalidPages
		}
		existing.Pages = input.Pages
	}

	if err := s.store.Update(ctx, existing); err != nil {
		return nil, err
	}

	return existing, nil
}

// Delete removes a book after the ownership guard passes
func (s *Service) Delete(ctx context.Context, id, callerID int64) error {
	if _, err := s.guard(ctx, id, callerID); err != nil {
		return err
	}

	return s.store.Delete(ctx, id, callerID)
}

// guard fetches the book and confirms the caller owns it: absent records fail
// with ErrNotFound, foreign records with ErrForbidden.
func (s *Service) guard(ctx context.Context, id, callerID int64) (*Book, error) {
	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if existing.UserID != callerID {
		return nil, ErrForbidden
	}

	return existing, nil
}
