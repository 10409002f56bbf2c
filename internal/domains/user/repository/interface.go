package repository

import (
	"context"

	"github.com/google/uuid"

	"homelibrary-backend/internal/domains/user/model"
)

// RepositoryInterface defines user data access operations
type RepositoryInterface interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, u *model.User) (*model.User, error)

	// Per-book reading state (the "downloaded books" map)
	SetReadingOffset(ctx context.Context, userID, bookID uuid.UUID, offset int64) error
	GetReadingStates(ctx context.Context, userID uuid.UUID) ([]model.ReadingState, error)
}
