package book

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/mylibrary/mylibrary-api/internal/database"
)

var (
	ErrNotFound  = errors.New("book not found")
	ErrForbidden = errors.New("caller does not own this book")
)

// Store is the persistence port for books. Update and Delete are keyed on
// both id and owner id so a mutation can never land on a row the caller does
// not own, even if the row changed between the guard check and the write.
type Store interface {
	Create(ctx context.Context, b *Book) error
	GetByID(ctx context.Context, id int64) (*Book, error)
	ListByUser(ctx context.Context, userID int64) ([]Book, error)
	Update(ctx context.Context, b *Book) error
	Delete(ctx context.Context, id, userID int64) error
}

// Repository handles book data persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new book
func (r *Repository) Create(ctx context.Context, b *Book) error {
	dbBook := &database.Book{
		Name:       b.Name,
		BookGenres: b.BookGenres,
		Author:     b.Author,
		Pages:      b.Pages,
		UserID:     b.UserID,
	}

	_, err := r.db.NewInsert().
		Model(dbBook).
		Returning("*").
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}

	*b = *mapDBBookToModel(dbBook)
	return nil
}

// GetByID retrieves a book by ID regardless of owner; ownership is the
// service's decision to make.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Book, error) {
	dbBook := new(database.Book)
	err := r.db.NewSelect().
		Model(dbBook).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get book by id: %w", err)
	}

	return mapDBBookToModel(dbBook), nil
}

// ListByUser retrieves all books owned by the given user
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]Book, error) {
	var dbBooks []database.Book
	err := r.db.NewSelect().
		Model(&dbBooks).
		Where("user_id = ?", userID).
		Order("id ASC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	books := make([]Book, 0, len(dbBooks))
	for i := range dbBooks {
		books = append(books, *mapDBBookToModel(&dbBooks[i]))
	}

	return books, nil
}

// Update persists the mutable fields of a book, keyed on (id, user_id)
func (r *Repository) Update(ctx context.Context, b *Book) error {
	result, err := r.db.NewUpdate().
		Model((*database.Book)(nil)).
		Set("name = ?", b.Name).
		Set("book_genres = ?", b.BookGenres).
		Set("author = ?", b.Author).
		Set("pages = ?", b.Pages).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", b.ID).
		Where("user_id = ?", b.UserID).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a book, keyed on (id, user_id)
func (r *Repository) Delete(ctx context.Context, id, userID int64) error {
	result, err := r.db.NewDelete().
		Model((*database.Book)(nil)).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// mapDBBookToModel converts database model to domain model
func mapDBBookToModel(dbb *database.Book) *Book {
	return &Book{
		ID:         dbb.ID,
		Name:       dbb.Name,
		BookGenres: dbb.BookGenres,
		Author:     dbb.Author,
		Pages:      dbb.Pages,
		UserID:     dbb.UserID,
		CreatedAt:  dbb.CreatedAt,
		UpdatedAt:  dbb.UpdatedAt,
	}
}
