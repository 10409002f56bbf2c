package service

import (
	"context"

	"github.com/google/uuid"

	"homelibrary-backend/internal/domains/download/model"
)

// ServiceInterface defines transfer tracking operations
type ServiceInterface interface {
	// Start enqueues a book file download and returns the pending record.
	// If the destination file already exists the record comes back successful
	// without enqueueing anything.
	Start(ctx context.Context, bookID, userID uuid.UUID) (*model.Transfer, error)

	// Status returns the registry record for a correlation id.
	Status(ctx context.Context, correlationID string) (*model.Transfer, error)

	// IsSuccessful reports whether a transfer reached the successful state.
	// Pending, failed and unknown ids all answer false.
	IsSuccessful(ctx context.Context, correlationID string) bool

	// Await blocks until the transfer reaches a terminal state or ctx ends.
	Await(ctx context.Context, correlationID string) (*model.Transfer, error)

	// LocalFile returns the on-disk path for a downloaded book file.
	// ErrNotDownloaded if the file is not present yet.
	LocalFile(ctx context.Context, bookID uuid.UUID) (path, filename string, err error)

	// OpenArtifact is LocalFile addressed by correlation id: the transfer
	// must have finished successfully and its destination must still exist.
	OpenArtifact(ctx context.Context, correlationID string) (path, filename string, err error)

	// Listen consumes transfer completion events and resolves waiters.
	// Blocks until ctx is cancelled; run it in its own goroutine.
	Listen(ctx context.Context)
}
