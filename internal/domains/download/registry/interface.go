package registry

import (
	"context"

	"homelibrary-backend/internal/domains/download/model"
)

// RegistryInterface defines transfer record storage operations
type RegistryInterface interface {
	Put(ctx context.Context, t *model.Transfer) error
	Get(ctx context.Context, correlationID string) (*model.Transfer, error)
	MarkDone(ctx context.Context, correlationID string, successful bool, detail string) error
	ListPending(ctx context.Context) ([]*model.Transfer, error)
}

var _ RegistryInterface = (*Registry)(nil)
