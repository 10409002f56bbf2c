package job

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"homelibrary-backend/internal/domains/download/registry"
	"homelibrary-backend/internal/infrastructure/events"
)

// SweepHandler fails pending transfers that outlived the sweep window.
// A crashed worker leaves its records pending forever otherwise.
type SweepHandler struct {
	registry   registry.RegistryInterface
	bus        *events.Bus
	sweepAfter time.Duration
}

func NewSweepHandler(reg registry.RegistryInterface, bus *events.Bus, sweepAfter time.Duration) *SweepHandler {
	return &SweepHandler{
		registry:   reg,
		bus:        bus,
		sweepAfter: sweepAfter,
	}
}

func (h *SweepHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	cutoff := time.Now().Add(-h.sweepAfter)

	pending, err := h.registry.ListPending(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list pending transfers")
		return err
	}

	swept := 0
	for _, t := range pending {
		if t.EnqueuedAt.After(cutoff) {
			continue
		}

		if err := h.registry.MarkDone(ctx, t.CorrelationID, false, "timed out"); err != nil {
			log.Error().Err(err).
				Str("correlation_id", t.CorrelationID).
				Msg("Failed to fail stale transfer")
			continue
		}

		// Release anyone still blocked on this id.
		if err := h.bus.PublishTransferDone(ctx, events.TransferDone{
			CorrelationID: t.CorrelationID,
			BookID:        t.BookID.String(),
			Successful:    false,
			Detail:        "timed out",
		}); err != nil {
			log.Error().Err(err).
				Str("correlation_id", t.CorrelationID).
				Msg("Failed to publish sweep event")
		}
		swept++
	}

	if swept > 0 {
		log.Info().Int("swept", swept).Msg("Failed stale transfers")
	}

	return nil
}
