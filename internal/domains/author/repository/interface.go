package repository

import (
	"context"

	"github.com/google/uuid"

	"homelibrary-backend/internal/domains/author/model"
)

// RepositoryInterface defines author data access operations
type RepositoryInterface interface {
	Create(ctx context.Context, a *model.Author) (*model.Author, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error)
	List(ctx context.Context, limit int) ([]*model.Author, error)
	Update(ctx context.Context, a *model.Author) (*model.Author, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
