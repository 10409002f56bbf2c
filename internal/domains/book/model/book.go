package model

import (
	"time"

	"github.com/google/uuid"
)

// Book represents one book in the home library catalog.
// AuthorIDs is ordered - display order of names follows it.
type Book struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	Title       string      `json:"title" db:"title"`
	Description string      `json:"description" db:"description"`
	Genre       string      `json:"genre" db:"genre"`
	AuthorIDs   []uuid.UUID `json:"author_ids" db:"author_ids"`
	FileKey     string      `json:"file_key" db:"file_key"`
	CoverURL    *string     `json:"cover_url" db:"cover_url"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}
