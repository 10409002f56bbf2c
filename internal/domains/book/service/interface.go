package service

import (
	"context"

	"github.com/google/uuid"

	"homelibrary-backend/internal/domains/book/model"
)

// ServiceInterface defines book business operations
type ServiceInterface interface {
	CreateBook(ctx context.Context, req model.CreateBookRequest) (*model.BookResponse, error)
	GetBook(ctx context.Context, id uuid.UUID) (*model.BookResponse, error)
	ListBooks(ctx context.Context, req model.ListBooksRequest) ([]model.BookSummary, error)
	UpdateBook(ctx context.Context, id uuid.UUID, req model.UpdateBookRequest) (*model.BookResponse, error)
	DeleteBook(ctx context.Context, id uuid.UUID) error

	// UploadBookFile stores the PDF in object storage and links it to the book.
	UploadBookFile(ctx context.Context, id uuid.UUID, data []byte) (*model.BookResponse, error)
	// UploadCover stores the cover image and links its URL to the book.
	UploadCover(ctx context.Context, id uuid.UUID, data []byte, contentType string) (*model.BookResponse, error)
}
