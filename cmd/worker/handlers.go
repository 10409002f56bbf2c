package main

import (
	"github.com/hibiken/asynq"

	downloadJob "homelibrary-backend/internal/domains/download/job"
	"homelibrary-backend/internal/shared"
	"homelibrary-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	// Transfer handlers
	transfer *downloadJob.TransferHandler
	sweep    *downloadJob.SweepHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container, cfg *Config) *HandlerRegistry {
	return &HandlerRegistry{
		transfer: downloadJob.NewTransferHandler(c.Storage, c.TransferRegistry, c.Bus),
		sweep:    downloadJob.NewSweepHandler(c.TransferRegistry, c.Bus, cfg.SweepAfter),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeDownloadBookFile, h.transfer.ProcessTask)
	mux.HandleFunc(shared.TypeSweepStaleTransfers, h.sweep.ProcessTask)
}
