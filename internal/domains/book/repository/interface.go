package repository

import (
	"context"

	"github.com/google/uuid"

	"homelibrary-backend/internal/domains/book/model"
)

// RepositoryInterface defines book data access operations
type RepositoryInterface interface {
	Create(ctx context.Context, b *model.Book) (*model.Book, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	List(ctx context.Context, limit int) ([]*model.Book, error)
	SearchByTitle(ctx context.Context, query string, limit int) ([]*model.Book, error)
	Update(ctx context.Context, b *model.Book) (*model.Book, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
