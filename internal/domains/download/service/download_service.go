package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	bookmodel "homelibrary-backend/internal/domains/book/model"
	bookRepository "homelibrary-backend/internal/domains/book/repository"
	"homelibrary-backend/internal/domains/download/model"
	"homelibrary-backend/internal/domains/download/registry"
	userService "homelibrary-backend/internal/domains/user/service"
	"homelibrary-backend/internal/infrastructure/events"
	"homelibrary-backend/internal/shared"
	"homelibrary-backend/pkg/waiter"
)

// downloadService implements ServiceInterface
type downloadService struct {
	books      bookRepository.RepositoryInterface
	users      userService.ServiceInterface
	registry   registry.RegistryInterface
	tasks      *asynq.Client
	waiters    *waiter.Registry
	bus        *events.Bus
	libraryDir string
}

// NewDownloadService tạo service instance với DI
func NewDownloadService(
	books bookRepository.RepositoryInterface,
	users userService.ServiceInterface,
	reg registry.RegistryInterface,
	tasks *asynq.Client,
	waiters *waiter.Registry,
	bus *events.Bus,
	libraryDir string,
) ServiceInterface {
	return &downloadService{
		books:      books,
		users:      users,
		registry:   reg,
		tasks:      tasks,
		waiters:    waiters,
		bus:        bus,
		libraryDir: libraryDir,
	}
}

// ========================================
// START
// ========================================

// Start tracks a new book file download.
// Each call gets its own correlation id, so two overlapping downloads
// never lose each other's tracking state.
func (s *downloadService) Start(ctx context.Context, bookID, userID uuid.UUID) (*model.Transfer, error) {
	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book.FileKey == "" {
		return nil, bookmodel.ErrNoFileKey
	}

	dest := s.destination(bookID)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return nil, fmt.Errorf("create library dir: %w", err)
	}

	t := &model.Transfer{
		CorrelationID: uuid.NewString(),
		BookID:        bookID,
		Destination:   dest,
		Status:        model.StatusPending,
		EnqueuedAt:    time.Now(),
	}

	// File already on disk: short-circuit as successful, no task needed.
	if _, err := os.Stat(dest); err == nil {
		now := time.Now()
		t.Status = model.StatusSuccessful
		t.Detail = "file already present"
		t.FinishedAt = &now

		if err := s.registry.Put(ctx, t); err != nil {
			return nil, err
		}
		s.initReadingState(ctx, userID, bookID)
		return t, nil
	}

	if err := s.registry.Put(ctx, t); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(model.TransferTask{
		CorrelationID: t.CorrelationID,
		BookID:        bookID.String(),
		FileKey:       book.FileKey,
		Destination:   dest,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal transfer task: %w", err)
	}

	task := asynq.NewTask(shared.TypeDownloadBookFile, payload)
	_, err = s.tasks.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueHigh),
		asynq.TaskID(t.CorrelationID),
		asynq.MaxRetry(0),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		// Nothing will ever flip this record, fail it right away.
		if markErr := s.registry.MarkDone(ctx, t.CorrelationID, false, "enqueue failed"); markErr != nil {
			log.Error().Err(markErr).Str("correlation_id", t.CorrelationID).Msg("Failed to fail transfer record")
		}
		return nil, fmt.Errorf("enqueue transfer: %w", err)
	}

	s.initReadingState(ctx, userID, bookID)

	log.Info().
		Str("correlation_id", t.CorrelationID).
		Str("book_id", bookID.String()).
		Msg("Transfer enqueued")

	return t, nil
}

// initReadingState ghi offset 0 khi download bắt đầu.
// Best effort: the transfer itself does not depend on it.
func (s *downloadService) initReadingState(ctx context.Context, userID, bookID uuid.UUID) {
	if userID == uuid.Nil {
		return
	}
	if err := s.users.SetReadingOffset(ctx, userID, bookID, 0); err != nil {
		log.Error().Err(err).
			Str("user_id", userID.String()).
			Str("book_id", bookID.String()).
			Msg("Failed to init reading state")
	}
}

// ========================================
// QUERY
// ========================================

func (s *downloadService) Status(ctx context.Context, correlationID string) (*model.Transfer, error) {
	return s.registry.Get(ctx, correlationID)
}

func (s *downloadService) IsSuccessful(ctx context.Context, correlationID string) bool {
	t, err := s.registry.Get(ctx, correlationID)
	if err != nil {
		return false
	}
	return t.Status == model.StatusSuccessful
}

// Await blocks on the waiter future for the id. A transfer that is already
// terminal returns immediately; a completion that slips in between the
// registry check and the future registration is caught by the re-check
// after ctx expires.
func (s *downloadService) Await(ctx context.Context, correlationID string) (*model.Transfer, error) {
	t, err := s.registry.Get(ctx, correlationID)
	if err != nil {
		return nil, err
	}
	if t.Status != model.StatusPending {
		return t, nil
	}

	if _, err := s.waiters.Wait(ctx, correlationID); err != nil {
		latest, getErr := s.registry.Get(context.WithoutCancel(ctx), correlationID)
		if getErr == nil && latest.Status != model.StatusPending {
			return latest, nil
		}
		return nil, err
	}

	return s.registry.Get(ctx, correlationID)
}

func (s *downloadService) LocalFile(ctx context.Context, bookID uuid.UUID) (string, string, error) {
	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return "", "", err
	}

	path := s.destination(bookID)
	if _, err := os.Stat(path); err != nil {
		return "", "", model.ErrNotDownloaded
	}

	return path, book.Title + ".pdf", nil
}

func (s *downloadService) OpenArtifact(ctx context.Context, correlationID string) (string, string, error) {
	t, err := s.registry.Get(ctx, correlationID)
	if err != nil {
		return "", "", err
	}
	if t.Status != model.StatusSuccessful {
		return "", "", model.ErrNotDownloaded
	}

	// The file can vanish between the transfer and the open.
	if _, err := os.Stat(t.Destination); err != nil {
		return "", "", model.ErrNotDownloaded
	}

	filename := t.BookID.String() + ".pdf"
	if book, err := s.books.GetByID(ctx, t.BookID); err == nil {
		filename = book.Title + ".pdf"
	}
	return t.Destination, filename, nil
}

// ========================================
// COMPLETION BUS
// ========================================

// Listen resolves waiter futures from transfer completion events.
func (s *downloadService) Listen(ctx context.Context) {
	for done := range s.bus.SubscribeTransfers(ctx) {
		s.waiters.Resolve(waiter.Result{
			CorrelationID: done.CorrelationID,
			Successful:    done.Successful,
			Detail:        done.Detail,
		})
	}
}

// destination: mọi book file đều nằm ở <libraryDir>/books/<bookID>.pdf.
func (s *downloadService) destination(bookID uuid.UUID) string {
	return filepath.Join(s.libraryDir, "books", bookID.String()+".pdf")
}
