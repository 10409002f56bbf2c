package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	authorService "homelibrary-backend/internal/domains/author/service"
	"homelibrary-backend/internal/domains/book/model"
	"homelibrary-backend/internal/domains/book/repository"
	"homelibrary-backend/internal/infrastructure/events"
	"homelibrary-backend/internal/infrastructure/storage"
)

// BookService - Implements ServiceInterface
type BookService struct {
	repo    repository.RepositoryInterface
	authors authorService.ServiceInterface
	minio   *storage.MinIOStorage
	bus     *events.Bus
}

// NewService - Constructor with DI
func NewService(
	repo repository.RepositoryInterface,
	authors authorService.ServiceInterface,
	minio *storage.MinIOStorage,
	bus *events.Bus,
) ServiceInterface {
	return &BookService{
		repo:    repo,
		authors: authors,
		minio:   minio,
		bus:     bus,
	}
}

const defaultListLimit = 50

// CreateBook - administrative catalog insert
func (s *BookService) CreateBook(ctx context.Context, req model.CreateBookRequest) (*model.BookResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	authorIDs, err := model.ParseAuthorIDs(req.AuthorIDs)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &model.Book{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Genre:       req.Genre,
		AuthorIDs:   authorIDs,
		FileKey:     req.FileKey,
		CoverURL:    req.CoverURL,
	})
	if err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.publishDelta(ctx, events.OpAdded, created)

	names := s.authors.ResolveNames(ctx, created.AuthorIDs)
	return created.ToResponse(names), nil
}

// GetBook returns the detail view with author names resolved in order
func (s *BookService) GetBook(ctx context.Context, id uuid.UUID) (*model.BookResponse, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	names := s.authors.ResolveNames(ctx, b.AuthorIDs)
	return b.ToResponse(names), nil
}

// ListBooks - first screen of the catalog, optionally filtered by title
func (s *BookService) ListBooks(ctx context.Context, req model.ListBooksRequest) ([]model.BookSummary, error) {
	limit := req.Limit
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}

	var books []*model.Book
	var err error

	q := strings.TrimSpace(req.Search)
	if q != "" {
		books, err = s.repo.SearchByTitle(ctx, q, limit)
	} else {
		books, err = s.repo.List(ctx, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	summaries := make([]model.BookSummary, len(books))
	for i, b := range books {
		summaries[i] = b.ToSummary()
	}
	return summaries, nil
}

// UpdateBook - field-level patch; untouched fields keep their values
func (s *BookService) UpdateBook(ctx context.Context, id uuid.UUID, req model.UpdateBookRequest) (*model.BookResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		existing.Title = *req.Title
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.Genre != nil {
		existing.Genre = *req.Genre
	}
	if req.AuthorIDs != nil {
		authorIDs, err := model.ParseAuthorIDs(*req.AuthorIDs)
		if err != nil {
			return nil, err
		}
		existing.AuthorIDs = authorIDs
	}
	if req.FileKey != nil {
		existing.FileKey = *req.FileKey
	}
	if req.CoverURL != nil {
		existing.CoverURL = req.CoverURL
	}

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	s.publishDelta(ctx, events.OpChanged, updated)

	names := s.authors.ResolveNames(ctx, updated.AuthorIDs)
	return updated.ToResponse(names), nil
}

// DeleteBook hard-deletes the record and its stored files
func (s *BookService) DeleteBook(ctx context.Context, id uuid.UUID) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	// Storage cleanup is best-effort: the record is already gone.
	if b.FileKey != "" {
		if err := s.minio.Delete(ctx, b.FileKey); err != nil {
			log.Error().Err(err).Str("book_id", id.String()).Msg("Failed to delete book file")
		}
	}
	if err := s.minio.DeleteByPrefix(ctx, "covers/"+id.String()); err != nil {
		log.Error().Err(err).Str("book_id", id.String()).Msg("Failed to delete book cover")
	}

	s.publishRemoval(ctx, id)
	return nil
}

// UploadBookFile stores the PDF and chains the key into the record,
// mirroring upload-then-save-metadata in one call.
func (s *BookService) UploadBookFile(ctx context.Context, id uuid.UUID, data []byte) (*model.BookResponse, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("books/%s.pdf", id)
	if _, err := s.minio.Upload(ctx, key, data, "application/pdf"); err != nil {
		return nil, fmt.Errorf("upload book file: %w", err)
	}

	b.FileKey = key
	updated, err := s.repo.Update(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("link book file: %w", err)
	}

	s.publishDelta(ctx, events.OpChanged, updated)

	names := s.authors.ResolveNames(ctx, updated.AuthorIDs)
	return updated.ToResponse(names), nil
}

// UploadCover stores the cover image and links its public URL
func (s *BookService) UploadCover(ctx context.Context, id uuid.UUID, data []byte, contentType string) (*model.BookResponse, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ext := "jpg"
	if contentType == "image/png" {
		ext = "png"
	}
	key := fmt.Sprintf("covers/%s.%s", id, ext)

	url, err := s.minio.Upload(ctx, key, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload cover: %w", err)
	}

	b.CoverURL = &url
	updated, err := s.repo.Update(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("link cover: %w", err)
	}

	s.publishDelta(ctx, events.OpChanged, updated)

	names := s.authors.ResolveNames(ctx, updated.AuthorIDs)
	return updated.ToResponse(names), nil
}

// publishDelta announces a write on the catalog channel.
// Best-effort: a failed publish must not fail the write itself.
func (s *BookService) publishDelta(ctx context.Context, op events.Op, b *model.Book) {
	err := s.bus.PublishCatalog(ctx, events.CatalogDelta{
		Op:     op,
		BookID: b.ID.String(),
		Book:   b,
	})
	if err != nil {
		log.Error().Err(err).Str("book_id", b.ID.String()).Msg("Failed to publish catalog delta")
	}
}

func (s *BookService) publishRemoval(ctx context.Context, id uuid.UUID) {
	err := s.bus.PublishCatalog(ctx, events.CatalogDelta{
		Op:     events.OpRemoved,
		BookID: id.String(),
	})
	if err != nil {
		log.Error().Err(err).Str("book_id", id.String()).Msg("Failed to publish catalog delta")
	}
}
