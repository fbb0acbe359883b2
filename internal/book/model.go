package book

import "time"

// Book is an owned resource. UserID is stamped at creation from the
// authenticated caller and never changes afterwards.
type Book struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	BookGenres *string   `json:"bookGenres,omitempty"`
	Author     *string   `json:"author,omitempty"`
	Pages      *int32    `json:"pages,omitempty"`
	UserID     int64     `json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
