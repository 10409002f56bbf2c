package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"homelibrary-backend/internal/domains/user/model"
)

// postgresRepository implements RepositoryInterface
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new user repository instance
func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

// Create inserts a new user row
func (r *postgresRepository) Create(ctx context.Context, u *model.User) error {
	query := `
        INSERT INTO users (id, email, password_hash, nickname, avatar_url, role)
        VALUES ($1, $2, $3, $4, $5, $6)
    `

	_, err := r.pool.Exec(ctx, query,
		u.ID, u.Email, u.PasswordHash, u.Nickname, u.AvatarURL, u.Role)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			if strings.Contains(pgErr.Message, "email") {
				return model.ErrEmailAlreadyExists
			}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `
        SELECT id, email, password_hash, nickname, avatar_url, role, created_at, updated_at
        FROM users
        WHERE id = $1
    `
	return r.queryOne(ctx, query, id)
}

func (r *postgresRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
        SELECT id, email, password_hash, nickname, avatar_url, role, created_at, updated_at
        FROM users
        WHERE email = $1
    `
	return r.queryOne(ctx, query, email)
}

func (r *postgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// Update overwrites profile fields
func (r *postgresRepository) Update(ctx context.Context, u *model.User) (*model.User, error) {
	query := `
        UPDATE users
        SET nickname = $2, avatar_url = $3, updated_at = NOW()
        WHERE id = $1
        RETURNING id, email, password_hash, nickname, avatar_url, role, created_at, updated_at
    `

	updated, err := scanUser(r.pool.QueryRow(ctx, query, u.ID, u.Nickname, u.AvatarURL))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return updated, nil
}

// SetReadingOffset upserts the per-book reading state.
// Download start writes offset 0; readers advance it afterwards.
func (r *postgresRepository) SetReadingOffset(ctx context.Context, userID, bookID uuid.UUID, offset int64) error {
	query := `
        INSERT INTO user_downloads (user_id, book_id, read_offset)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_id, book_id)
        DO UPDATE SET read_offset = EXCLUDED.read_offset, updated_at = NOW()
    `

	if _, err := r.pool.Exec(ctx, query, userID, bookID, offset); err != nil {
		return fmt.Errorf("failed to set reading offset: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetReadingStates(ctx context.Context, userID uuid.UUID) ([]model.ReadingState, error) {
	query := `
        SELECT book_id, read_offset, updated_at
        FROM user_downloads
        WHERE user_id = $1
        ORDER BY updated_at DESC
    `

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reading states: %w", err)
	}
	defer rows.Close()

	states := make([]model.ReadingState, 0)
	for rows.Next() {
		var s model.ReadingState
		if err := rows.Scan(&s.BookID, &s.Offset, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan reading state: %w", err)
		}
		states = append(states, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reading states: %w", err)
	}
	return states, nil
}

func (r *postgresRepository) queryOne(ctx context.Context, query string, arg interface{}) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Nickname,
		&u.AvatarURL,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
