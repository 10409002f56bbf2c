package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"homelibrary-backend/internal/domains/download/model"
	"homelibrary-backend/internal/domains/download/registry"
	"homelibrary-backend/internal/infrastructure/events"
	"homelibrary-backend/internal/infrastructure/storage"
)

// TransferHandler fetches a book file from object storage to the local
// library, flips the registry record and announces the result on the bus.
type TransferHandler struct {
	storage  *storage.MinIOStorage
	registry registry.RegistryInterface
	bus      *events.Bus
}

func NewTransferHandler(
	st *storage.MinIOStorage,
	reg registry.RegistryInterface,
	bus *events.Bus,
) *TransferHandler {
	return &TransferHandler{
		storage:  st,
		registry: reg,
		bus:      bus,
	}
}

func (h *TransferHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload model.TransferTask
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal transfer payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	log.Info().
		Str("correlation_id", payload.CorrelationID).
		Str("file_key", payload.FileKey).
		Str("destination", payload.Destination).
		Msg("Processing book file transfer")

	if err := h.storage.DownloadToFile(ctx, payload.FileKey, payload.Destination); err != nil {
		h.finish(ctx, payload, false, err.Error())
		log.Error().Err(err).
			Str("correlation_id", payload.CorrelationID).
			Msg("❌ Transfer failed")
		// The registry already holds the failure; retrying would just
		// race a fresh Start for the same book.
		return fmt.Errorf("download %s: %v: %w", payload.FileKey, err, asynq.SkipRetry)
	}

	h.finish(ctx, payload, true, "")

	log.Info().
		Str("correlation_id", payload.CorrelationID).
		Str("book_id", payload.BookID).
		Msg("✅ Transfer completed")

	return nil
}

// finish flips the registry record and publishes the completion event.
// Both are best effort relative to each other: waiters fall back to the
// registry when the event is missed.
func (h *TransferHandler) finish(ctx context.Context, payload model.TransferTask, successful bool, detail string) {
	if err := h.registry.MarkDone(ctx, payload.CorrelationID, successful, detail); err != nil {
		log.Error().Err(err).
			Str("correlation_id", payload.CorrelationID).
			Msg("Failed to update transfer record")
	}

	err := h.bus.PublishTransferDone(ctx, events.TransferDone{
		CorrelationID: payload.CorrelationID,
		BookID:        payload.BookID,
		Successful:    successful,
		Detail:        detail,
	})
	if err != nil {
		log.Error().Err(err).
			Str("correlation_id", payload.CorrelationID).
			Msg("Failed to publish transfer event")
	}
}
