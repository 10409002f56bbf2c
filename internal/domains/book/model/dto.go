package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// CreateBookRequest - admin catalog insert
type CreateBookRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Genre       string   `json:"genre"`
	AuthorIDs   []string `json:"author_ids"`
	FileKey     string   `json:"file_key"`
	CoverURL    *string  `json:"cover_url,omitempty"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 300)),
		validation.Field(&r.Description, validation.Length(0, 5000)),
		validation.Field(&r.Genre, validation.Length(0, 100)),
		validation.Field(&r.AuthorIDs, validation.Each(validation.Required)),
	)
}

// UpdateBookRequest - field-level patch, nil fields stay untouched
type UpdateBookRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Genre       *string   `json:"genre,omitempty"`
	AuthorIDs   *[]string `json:"author_ids,omitempty"`
	FileKey     *string   `json:"file_key,omitempty"`
	CoverURL    *string   `json:"cover_url,omitempty"`
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, 300)),
	)
}

// ListBooksRequest - single screen, no pagination beyond a limit
type ListBooksRequest struct {
	Search string `form:"q"`
	Limit  int    `form:"limit"`
}

// BookResponse is the detail view: author names already resolved,
// in the same order as AuthorIDs.
type BookResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Genre       string    `json:"genre"`
	AuthorIDs   []string  `json:"author_ids"`
	AuthorNames []string  `json:"author_names"`
	CoverURL    *string   `json:"cover_url,omitempty"`
	FileKey     string    `json:"file_key,omitempty"`
}

// BookSummary is the list/feed row shape.
type BookSummary struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Genre    string    `json:"genre"`
	CoverURL *string   `json:"cover_url,omitempty"`
}

// ToSummary converts Book to its feed row shape
func (b *Book) ToSummary() BookSummary {
	return BookSummary{
		ID:       b.ID,
		Title:    b.Title,
		Genre:    b.Genre,
		CoverURL: b.CoverURL,
	}
}

// ToResponse converts Book to detail DTO; names resolved separately.
func (b *Book) ToResponse(authorNames []string) *BookResponse {
	ids := make([]string, len(b.AuthorIDs))
	for i, id := range b.AuthorIDs {
		ids[i] = id.String()
	}
	return &BookResponse{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		Genre:       b.Genre,
		AuthorIDs:   ids,
		AuthorNames: authorNames,
		CoverURL:    b.CoverURL,
		FileKey:     b.FileKey,
	}
}

// ParseAuthorIDs converts the request's string ids, preserving order.
func ParseAuthorIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, ErrInvalidAuthorID
		}
		ids = append(ids, id)
	}
	return ids, nil
}
