package database

import (
	"time"

	"github.com/uptrace/bun"
)

// User is the bun model for the users table.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Name         string    `bun:"name,notnull"`
	Email        string    `bun:"email,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:now()"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:now()"`
}

// Book is the bun model for the books table. user_id references the owning
// user and is never changed after insert.
type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID         int64     `bun:"id,pk,autoincrement"`
	Name       string    `bun:"name,notnull"`
	BookGenres *string   `bun:"book_genres"`
	Author     *string   `bun:"author"`
	Pages      *int32    `bun:"pages"`
	UserID     int64     `bun:"user_id,notnull"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:now()"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero,notnull,default:now()"`
}
