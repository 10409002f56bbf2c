package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"homelibrary-backend/internal/domains/author"
	"homelibrary-backend/internal/domains/author/model"
	"homelibrary-backend/internal/domains/author/repository"
)

// ServiceInterface defines author business operations
type ServiceInterface interface {
	CreateAuthor(ctx context.Context, req model.AuthorRequest) (*model.AuthorResponse, error)
	GetAuthor(ctx context.Context, id uuid.UUID) (*model.AuthorResponse, error)
	ListAuthors(ctx context.Context, limit int) ([]*model.AuthorResponse, error)
	UpdateAuthor(ctx context.Context, id uuid.UUID, req model.AuthorRequest) (*model.AuthorResponse, error)
	DeleteAuthor(ctx context.Context, id uuid.UUID) error

	// ResolveNames maps ordered author ids to display names, substituting
	// placeholders for dangling references.
	ResolveNames(ctx context.Context, ids []uuid.UUID) []string
}

type authorService struct {
	repo repository.RepositoryInterface
}

// NewService - Constructor with DI
func NewService(repo repository.RepositoryInterface) ServiceInterface {
	return &authorService{repo: repo}
}

const defaultListLimit = 50

func (s *authorService) CreateAuthor(ctx context.Context, req model.AuthorRequest) (*model.AuthorResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	bookIDs, err := parseBookIDs(req.BookIDs)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &model.Author{
		ID:        uuid.New(),
		FullName:  req.FullName,
		Biography: req.Biography,
		BookIDs:   bookIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("create author: %w", err)
	}

	return created.ToResponse(), nil
}

func (s *authorService) GetAuthor(ctx context.Context, id uuid.UUID) (*model.AuthorResponse, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return a.ToResponse(), nil
}

func (s *authorService) ListAuthors(ctx context.Context, limit int) ([]*model.AuthorResponse, error) {
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}

	authors, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}

	responses := make([]*model.AuthorResponse, len(authors))
	for i, a := range authors {
		responses[i] = a.ToResponse()
	}
	return responses, nil
}

func (s *authorService) UpdateAuthor(ctx context.Context, id uuid.UUID, req model.AuthorRequest) (*model.AuthorResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.FullName = req.FullName
	existing.Biography = req.Biography
	if req.BookIDs != nil {
		bookIDs, err := parseBookIDs(req.BookIDs)
		if err != nil {
			return nil, err
		}
		existing.BookIDs = bookIDs
	}

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, fmt.Errorf("update author: %w", err)
	}
	return updated.ToResponse(), nil
}

func (s *authorService) DeleteAuthor(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *authorService) ResolveNames(ctx context.Context, ids []uuid.UUID) []string {
	return author.ResolveNames(ctx, ids, func(ctx context.Context, id uuid.UUID) (*model.Author, error) {
		a, err := s.repo.GetByID(ctx, id)
		if err == model.ErrAuthorNotFound {
			// dangling reference, not an infrastructure failure
			return nil, nil
		}
		return a, err
	})
}

func parseBookIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, model.ErrInvalidBookID
		}
		ids = append(ids, id)
	}
	return ids, nil
}
