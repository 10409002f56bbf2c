package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"homelibrary-backend/internal/domains/author/model"
	"homelibrary-backend/pkg/cache"
)

// postgresRepository implements RepositoryInterface
// Uses pgxpool for PostgreSQL and Redis for caching
type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

// NewPostgresRepository creates a new author repository instance
func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) RepositoryInterface {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

// Cache key constants
const (
	authorCacheKeyPrefix = "author:"
	cacheTTL             = 15 * time.Minute
)

// Create inserts new author
func (r *postgresRepository) Create(ctx context.Context, a *model.Author) (*model.Author, error) {
	bookIDs, err := json.Marshal(a.BookIDs)
	if err != nil {
		return nil, fmt.Errorf("marshal book ids: %w", err)
	}

	query := `
        INSERT INTO authors (id, full_name, biography, book_ids)
        VALUES ($1, $2, $3, $4)
        RETURNING id, full_name, biography, book_ids, created_at, updated_at
    `

	created, err := scanAuthor(r.pool.QueryRow(ctx, query, a.ID, a.FullName, a.Biography, bookIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to create author: %w", err)
	}

	return created, nil
}

// GetByID retrieves author by UUID with caching.
// This is the fetch behind reference resolution, so it is the hottest
// read path in the system - cache hits skip Postgres entirely.
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	cacheKey := authorCacheKeyPrefix + id.String()

	var cachedAuthor model.Author
	cached, err := r.cache.Get(ctx, cacheKey, &cachedAuthor)
	if err == nil && cached {
		return &cachedAuthor, nil
	}

	query := `
        SELECT id, full_name, biography, book_ids, created_at, updated_at
        FROM authors
        WHERE id = $1
    `

	a, err := scanAuthor(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to get author by id: %w", err)
	}

	if data, err := json.Marshal(a); err == nil {
		r.cache.Set(ctx, cacheKey, string(data), cacheTTL)
	}

	return a, nil
}

// List returns authors, newest first
func (r *postgresRepository) List(ctx context.Context, limit int) ([]*model.Author, error) {
	query := `
        SELECT id, full_name, biography, book_ids, created_at, updated_at
        FROM authors
        ORDER BY created_at DESC
        LIMIT $1
    `

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list authors: %w", err)
	}
	defer rows.Close()

	authors := make([]*model.Author, 0)
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan author row: %w", err)
		}
		authors = append(authors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate author rows: %w", err)
	}
	return authors, nil
}

// Update overwrites mutable fields
func (r *postgresRepository) Update(ctx context.Context, a *model.Author) (*model.Author, error) {
	bookIDs, err := json.Marshal(a.BookIDs)
	if err != nil {
		return nil, fmt.Errorf("marshal book ids: %w", err)
	}

	query := `
        UPDATE authors
        SET full_name = $2, biography = $3, book_ids = $4, updated_at = NOW()
        WHERE id = $1
        RETURNING id, full_name, biography, book_ids, created_at, updated_at
    `

	updated, err := scanAuthor(r.pool.QueryRow(ctx, query, a.ID, a.FullName, a.Biography, bookIDs))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to update author: %w", err)
	}

	r.cache.Delete(ctx, authorCacheKeyPrefix+a.ID.String())
	return updated, nil
}

// Delete hard-deletes the author. Books referencing this id keep the
// reference; it resolves to the placeholder from now on.
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete author: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAuthorNotFound
	}

	r.cache.Delete(ctx, authorCacheKeyPrefix+id.String())
	return nil
}

func scanAuthor(row pgx.Row) (*model.Author, error) {
	var a model.Author
	var bookIDs []byte

	err := row.Scan(
		&a.ID,
		&a.FullName,
		&a.Biography,
		&bookIDs,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(bookIDs) > 0 {
		if err := json.Unmarshal(bookIDs, &a.BookIDs); err != nil {
			return nil, fmt.Errorf("unmarshal book ids: %w", err)
		}
	}
	return &a, nil
}
