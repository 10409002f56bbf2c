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

	"homelibrary-backend/internal/domains/book/model"
	"homelibrary-backend/pkg/cache"
)

// postgresRepository implements RepositoryInterface
// Uses pgxpool for PostgreSQL and Redis for caching
type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

// NewPostgresRepository creates a new book repository instance
func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) RepositoryInterface {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

// Cache key constants
const (
	bookCacheKeyPrefix = "book:"
	bookListCacheKey   = "books:list"
	cacheTTL           = 15 * time.Minute
)

// Create inserts new book with generated ID and timestamps
func (r *postgresRepository) Create(ctx context.Context, b *model.Book) (*model.Book, error) {
	authorIDs, err := json.Marshal(b.AuthorIDs)
	if err != nil {
		return nil, fmt.Errorf("marshal author ids: %w", err)
	}

	query := `
        INSERT INTO books (id, title, description, genre, author_ids, file_key, cover_url)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, title, description, genre, author_ids, file_key, cover_url, created_at, updated_at
    `

	row := r.pool.QueryRow(ctx, query,
		b.ID, b.Title, b.Description, b.Genre, authorIDs, b.FileKey, b.CoverURL)

	created, err := scanBook(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	r.invalidateListCache(ctx)
	return created, nil
}

// GetByID retrieves book by UUID with caching
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	cacheKey := bookCacheKeyPrefix + id.String()

	var cachedBook model.Book
	cached, err := r.cache.Get(ctx, cacheKey, &cachedBook)
	if err == nil && cached {
		return &cachedBook, nil
	}

	query := `
        SELECT id, title, description, genre, author_ids, file_key, cover_url, created_at, updated_at
        FROM books
        WHERE id = $1
    `

	b, err := scanBook(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book by id: %w", err)
	}

	if data, err := json.Marshal(b); err == nil {
		r.cache.Set(ctx, cacheKey, string(data), cacheTTL)
	}

	return b, nil
}

// List returns the first screen of the catalog, newest first
func (r *postgresRepository) List(ctx context.Context, limit int) ([]*model.Book, error) {
	query := `
        SELECT id, title, description, genre, author_ids, file_key, cover_url, created_at, updated_at
        FROM books
        ORDER BY created_at DESC
        LIMIT $1
    `

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	return collectBooks(rows)
}

// SearchByTitle - case-insensitive contains match pushed down to SQL
// (thay thế pattern fetch-all-rồi-filter của client cũ)
func (r *postgresRepository) SearchByTitle(ctx context.Context, q string, limit int) ([]*model.Book, error) {
	query := `
        SELECT id, title, description, genre, author_ids, file_key, cover_url, created_at, updated_at
        FROM books
        WHERE title ILIKE '%' || $1 || '%'
        ORDER BY created_at DESC
        LIMIT $2
    `

	rows, err := r.pool.Query(ctx, query, q, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search books: %w", err)
	}
	defer rows.Close()

	return collectBooks(rows)
}

// Update overwrites all mutable fields
func (r *postgresRepository) Update(ctx context.Context, b *model.Book) (*model.Book, error) {
	authorIDs, err := json.Marshal(b.AuthorIDs)
	if err != nil {
		return nil, fmt.Errorf("marshal author ids: %w", err)
	}

	query := `
        UPDATE books
        SET title = $2, description = $3, genre = $4, author_ids = $5,
            file_key = $6, cover_url = $7, updated_at = NOW()
        WHERE id = $1
        RETURNING id, title, description, genre, author_ids, file_key, cover_url, created_at, updated_at
    `

	row := r.pool.QueryRow(ctx, query,
		b.ID, b.Title, b.Description, b.Genre, authorIDs, b.FileKey, b.CoverURL)

	updated, err := scanBook(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to update book: %w", err)
	}

	r.cache.Delete(ctx, bookCacheKeyPrefix+b.ID.String())
	r.invalidateListCache(ctx)
	return updated, nil
}

// Delete hard-deletes the row; the feed sees this as a removal event
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}

	r.cache.Delete(ctx, bookCacheKeyPrefix+id.String())
	r.invalidateListCache(ctx)
	return nil
}

// invalidateListCache xóa cached list sau mỗi write
func (r *postgresRepository) invalidateListCache(ctx context.Context) {
	r.cache.DeletePattern(ctx, bookListCacheKey+"*")
}

// scanBook reads one row; author_ids arrives as jsonb bytes.
func scanBook(row pgx.Row) (*model.Book, error) {
	var b model.Book
	var authorIDs []byte

	err := row.Scan(
		&b.ID,
		&b.Title,
		&b.Description,
		&b.Genre,
		&authorIDs,
		&b.FileKey,
		&b.CoverURL,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(authorIDs) > 0 {
		if err := json.Unmarshal(authorIDs, &b.AuthorIDs); err != nil {
			return nil, fmt.Errorf("unmarshal author ids: %w", err)
		}
	}
	return &b, nil
}

func collectBooks(rows pgx.Rows) ([]*model.Book, error) {
	books := make([]*model.Book, 0)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book row: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate book rows: %w", err)
	}
	return books, nil
}
