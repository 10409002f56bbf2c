package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Author mirrors the catalog's author records. BookIDs is a denormalized
// back-reference maintained independently of Book.AuthorIDs - no
// transactional link ties the two sides together.
type Author struct {
	ID        uuid.UUID   `json:"id" db:"id"`
	FullName  string      `json:"full_name" db:"full_name"`
	Biography string      `json:"biography" db:"biography"`
	BookIDs   []uuid.UUID `json:"book_ids" db:"book_ids"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
}

type AuthorRequest struct {
	FullName  string   `json:"full_name"`
	Biography string   `json:"biography"`
	BookIDs   []string `json:"book_ids,omitempty"`
}

func (r AuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Biography, validation.Length(0, 10000)),
	)
}

type AuthorResponse struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Biography string    `json:"biography,omitempty"`
	BookIDs   []string  `json:"book_ids,omitempty"`
}

// ToResponse converts Author to AuthorResponse
func (a *Author) ToResponse() *AuthorResponse {
	ids := make([]string, len(a.BookIDs))
	for i, id := range a.BookIDs {
		ids[i] = id.String()
	}
	return &AuthorResponse{
		ID:        a.ID,
		FullName:  a.FullName,
		Biography: a.Biography,
		BookIDs:   ids,
	}
}
